package agent

import (
	"fmt"
	"strings"

	"github.com/entrhq/relay/pkg/types"
)

// minPlanItems is the smallest checklist that counts as a real
// decomposition of the request.
const minPlanItems = 2

// Validator judges a completed run against a role's acceptance criteria.
// Validators are pure over their inputs and must not mutate the run or
// the pipeline context.
type Validator func(run *types.RunResult, pc *types.PipelineContext) types.ValidationOutcome

// ValidateOutput is the default validator: the run must have produced
// some non-whitespace output.
func ValidateOutput(run *types.RunResult, _ *types.PipelineContext) types.ValidationOutcome {
	if strings.TrimSpace(run.Output) == "" {
		return types.ValidationOutcome{
			Success: false,
			Message: "run produced no output",
		}
	}
	return types.ValidationOutcome{
		Success: true,
		Message: fmt.Sprintf("produced %d bytes of output", len(run.Output)),
	}
}

// ValidatePlan is the planner's validator. The run must have recorded a
// checklist through the checklist capability, and the checklist must
// decompose the request into at least two extractable items. On success
// the extracted plan is attached as the outcome's Data.
func ValidatePlan(run *types.RunResult, _ *types.PipelineContext) types.ValidationOutcome {
	call := run.FindCall(ChecklistCapability)
	if call == nil {
		return types.ValidationOutcome{
			Success: false,
			Message: fmt.Sprintf("no checklist-producing call detected: %s was never invoked", ChecklistCapability),
		}
	}

	items := ExtractChecklist(call.Result)
	if len(items) == 0 {
		return types.ValidationOutcome{
			Success: false,
			Message: "no valid items could be extracted from the checklist payload",
		}
	}
	if len(items) < minPlanItems {
		return types.ValidationOutcome{
			Success: false,
			Message: fmt.Sprintf("insufficient breakdown: found %d item(s), need at least %d", len(items), minPlanItems),
		}
	}

	return types.ValidationOutcome{
		Success: true,
		Message: fmt.Sprintf("plan recorded with %d items", len(items)),
		Data: &types.PlanResult{
			Items: items,
			Raw:   call.Result,
		},
	}
}
