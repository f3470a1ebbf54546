// Package agent implements the role-restricted session runner at the
// heart of the Relay pipeline: each stage of the pipeline is an agent
// role with fixed instructions and a capability allow-list, executed as
// one streamed engine session and judged by a role-specific validator.
package agent

import "github.com/entrhq/relay/pkg/agent/prompts"

// ChecklistCapability is the capability the planner uses to record its
// checklist. The checklist extractor reads this call's result payload.
const ChecklistCapability = "TodoWrite"

// RoleDescriptor defines an agent role: its identity, the instructions
// sent at the start of every session, and which capabilities the engine
// may invoke on its behalf.
type RoleDescriptor struct {
	// Name identifies the role in logs, results, and failure messages.
	Name string

	// Instructions is the static instruction block for the role.
	Instructions string

	// AllowedCapabilities is the capability allow-list. Entries are
	// glob patterns matched against capability names. An empty list
	// allows every capability.
	AllowedCapabilities []string
}

// ExplorerRole is the read-only investigation stage.
func ExplorerRole() RoleDescriptor {
	return RoleDescriptor{
		Name:                "explorer",
		Instructions:        prompts.ExplorerInstructions,
		AllowedCapabilities: []string{"Read", "Grep", "Glob"},
	}
}

// PlannerRole is the decomposition stage. It may read and record a
// checklist but not modify anything.
func PlannerRole() RoleDescriptor {
	return RoleDescriptor{
		Name:                "planner",
		Instructions:        prompts.PlannerInstructions,
		AllowedCapabilities: []string{"Read", "Grep", "Glob", ChecklistCapability},
	}
}

// CoderRole is the implementation stage. It runs unrestricted.
func CoderRole() RoleDescriptor {
	return RoleDescriptor{
		Name:         "coder",
		Instructions: prompts.CoderInstructions,
	}
}
