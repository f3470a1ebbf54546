package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityMatcherEmptyListAllowsAll(t *testing.T) {
	m := newCapabilityMatcher(nil)

	assert.True(t, m.Allows("Read"))
	assert.True(t, m.Allows("Write"))
	assert.True(t, m.Allows("anything-at-all"))
}

func TestCapabilityMatcherExactNames(t *testing.T) {
	m := newCapabilityMatcher([]string{"Read", "Grep", "Glob"})

	assert.True(t, m.Allows("Read"))
	assert.True(t, m.Allows("Glob"))
	assert.False(t, m.Allows("Write"))
	assert.False(t, m.Allows("read"), "matching is case sensitive")
}

func TestCapabilityMatcherGlobPatterns(t *testing.T) {
	m := newCapabilityMatcher([]string{"Read", "mcp__*"})

	assert.True(t, m.Allows("mcp__github__get_issue"))
	assert.True(t, m.Allows("Read"))
	assert.False(t, m.Allows("Bash"))
}

func TestRestrictionErrorMessage(t *testing.T) {
	err := &RestrictionError{
		Role:       "planner",
		Restricted: []string{"Write"},
		Allowed:    []string{"Read", "TodoWrite"},
	}

	msg := err.Error()

	assert.Contains(t, msg, "planner")
	assert.Contains(t, msg, "Write")
	assert.Contains(t, msg, "Read, TodoWrite")
}
