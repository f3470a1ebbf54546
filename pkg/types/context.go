package types

// ChecklistStatus is the execution state of a single checklist item.
type ChecklistStatus string

const (
	ChecklistPending    ChecklistStatus = "pending"
	ChecklistInProgress ChecklistStatus = "in_progress"
	ChecklistCompleted  ChecklistStatus = "completed"
)

// ChecklistItem is one unit of planned work. Item order is significant:
// it is the execution order for the next stage.
type ChecklistItem struct {
	// Content describes the work. Never empty for a valid item.
	Content string

	// Status is the item's execution state.
	Status ChecklistStatus

	// ActiveForm is the human-readable in-progress description.
	ActiveForm string
}

// FileFound is one file reference produced by the exploration stage.
type FileFound struct {
	Path      string
	Relevance string
}

// KeySnippet is a code excerpt the exploration stage flagged as relevant.
type KeySnippet struct {
	File  string
	Lines string
	Code  string
}

// ExplorationResult is the structured output of the explorer stage.
type ExplorationResult struct {
	Summary     string
	FilesFound  []FileFound
	KeySnippets []KeySnippet
}

// PlanResult is the structured output of the planner stage.
type PlanResult struct {
	// Items is the ordered checklist extracted from the planner's
	// checklist capability call.
	Items []ChecklistItem

	// Raw preserves the capability result the items were extracted from.
	Raw string
}

// PipelineContext accumulates results as the pipeline advances. The
// driver owns it exclusively; runners read it to build prompts and
// never mutate it.
type PipelineContext struct {
	// Request is the original user request text.
	Request string

	// Exploration is set once the explorer stage succeeds.
	Exploration *ExplorationResult

	// Plan is set once the planner stage succeeds.
	Plan *PlanResult
}
