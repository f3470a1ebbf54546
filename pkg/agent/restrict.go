package agent

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// capabilityMatcher answers whether a capability name falls inside a
// role's allow-list. Patterns are compiled once at construction.
type capabilityMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// newCapabilityMatcher compiles the allow-list patterns. Patterns that
// fail to compile fall back to exact string matching.
func newCapabilityMatcher(patterns []string) *capabilityMatcher {
	m := &capabilityMatcher{patterns: patterns}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			g = nil
		}
		m.globs = append(m.globs, g)
	}
	return m
}

// Allows reports whether the capability is permitted. An empty
// allow-list permits everything.
func (m *capabilityMatcher) Allows(capability string) bool {
	if len(m.patterns) == 0 {
		return true
	}
	for i, g := range m.globs {
		if g != nil {
			if g.Match(capability) {
				return true
			}
			continue
		}
		if m.patterns[i] == capability {
			return true
		}
	}
	return false
}

// RestrictionError describes a run that invoked capabilities outside
// its role's allow-list. It is carried as a validation failure message,
// not a returned error: a restricted run completed, it just fails.
type RestrictionError struct {
	Role       string
	Restricted []string
	Allowed    []string
}

func (e *RestrictionError) Error() string {
	return fmt.Sprintf(
		"role %q invoked restricted capabilities: %s (allowed: %s)",
		e.Role,
		strings.Join(e.Restricted, ", "),
		strings.Join(e.Allowed, ", "),
	)
}
