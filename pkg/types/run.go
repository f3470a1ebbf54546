package types

// CapabilityCall records one capability invocation observed during a run.
// Immutable once appended to a RunResult.
type CapabilityCall struct {
	// Name is the capability that was invoked (e.g. "Read", "TodoWrite").
	Name string

	// Result is the opaque textual result payload reported by the engine.
	Result string

	// Restricted is true when the capability falls outside the role's
	// allow-list. A run with any restricted call always fails validation.
	Restricted bool
}

// RunResult holds everything observed during one streamed execution
// session. It is owned exclusively by the invocation that produced it.
type RunResult struct {
	// ID uniquely identifies this run for logging and diagnostics.
	ID string

	// Role is the name of the role that performed the run.
	Role string

	// Output is the accumulated text from all stream delta events,
	// in arrival order.
	Output string

	// Calls are the capability invocations observed, in arrival order.
	Calls []CapabilityCall

	// RawEvents preserves every stream event as received.
	RawEvents []*Event
}

// RestrictedCalls returns the names of all restricted capability calls,
// in first-seen order without duplicates.
func (r *RunResult) RestrictedCalls() []string {
	var names []string
	seen := make(map[string]bool)
	for _, call := range r.Calls {
		if call.Restricted && !seen[call.Name] {
			seen[call.Name] = true
			names = append(names, call.Name)
		}
	}
	return names
}

// FindCall returns the first capability call with the given name,
// or nil if the run made no such call.
func (r *RunResult) FindCall(name string) *CapabilityCall {
	for i := range r.Calls {
		if r.Calls[i].Name == name {
			return &r.Calls[i]
		}
	}
	return nil
}

// ValidationOutcome is the verdict a validator renders over a RunResult.
type ValidationOutcome struct {
	// Success indicates whether the run's output met the role's
	// acceptance criteria.
	Success bool

	// Message names the specific deficiency on failure, or summarizes
	// the result on success.
	Message string

	// Data optionally carries structured output extracted during
	// validation, such as a *PlanResult.
	Data interface{}
}
