package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/relay/pkg/types"
)

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		success bool
	}{
		{name: "non-empty output passes", output: "found three relevant files", success: true},
		{name: "empty output fails", output: "", success: false},
		{name: "whitespace only fails", output: "  \n\t", success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &types.RunResult{Output: tt.output}
			outcome := ValidateOutput(run, nil)
			assert.Equal(t, tt.success, outcome.Success)
			assert.NotEmpty(t, outcome.Message)
		})
	}
}

func TestValidatePlanNoChecklistCall(t *testing.T) {
	run := &types.RunResult{
		Output: "here is my plan in prose",
		Calls: []types.CapabilityCall{
			{Name: "Read", Result: "{}"},
		},
	}

	outcome := ValidatePlan(run, nil)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "no checklist-producing call detected")
}

func TestValidatePlanNoExtractableItems(t *testing.T) {
	run := &types.RunResult{
		Calls: []types.CapabilityCall{
			{Name: ChecklistCapability, Result: "nothing parseable here"},
		},
	}

	outcome := ValidatePlan(run, nil)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "no valid items")
}

func TestValidatePlanInsufficientBreakdown(t *testing.T) {
	run := &types.RunResult{
		Calls: []types.CapabilityCall{
			{Name: ChecklistCapability, Result: "○ Single step\n"},
		},
	}

	outcome := ValidatePlan(run, nil)

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "insufficient breakdown")
	assert.Contains(t, outcome.Message, "found 1 item(s)")
}

func TestValidatePlanSuccess(t *testing.T) {
	raw := "○ Read config.json\n● Write output.json\n"
	run := &types.RunResult{
		Calls: []types.CapabilityCall{
			{Name: ChecklistCapability, Result: raw},
		},
	}

	outcome := ValidatePlan(run, nil)

	require.True(t, outcome.Success)
	plan, ok := outcome.Data.(*types.PlanResult)
	require.True(t, ok, "outcome data should carry the extracted plan")
	require.Len(t, plan.Items, 2)
	assert.Equal(t, "Read config.json", plan.Items[0].Content)
	assert.Equal(t, raw, plan.Raw)
}
