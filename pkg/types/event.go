// Package types defines the shared data model for the Relay pipeline:
// engine stream events, run results, validation outcomes, and the
// context threaded between pipeline stages.
package types

// EventType identifies the kind of event emitted by the execution engine
// during a streamed session. The set is closed; consumers switch on it
// exhaustively.
type EventType string

const (
	// EventTypeStreamDelta carries an incremental text fragment of the
	// engine's output.
	EventTypeStreamDelta EventType = "stream_delta"

	// EventTypeCapabilityResult reports a completed capability invocation
	// (file read, search, checklist write, ...) performed by the engine.
	EventTypeCapabilityResult EventType = "capability_result"

	// EventTypeError signals an engine-level failure. The stream ends
	// after an error event; the run cannot complete.
	EventTypeError EventType = "error"
)

// Event is one element of an engine session's event stream.
// Exactly the fields relevant to its Type are populated.
type Event struct {
	// Type indicates the kind of event.
	Type EventType

	// Delta holds the text fragment for stream_delta events.
	Delta string

	// Capability is the capability name for capability_result events.
	Capability string

	// Result is the capability's textual result payload.
	Result string

	// Err holds the failure for error events.
	Err error
}

// NewStreamDeltaEvent creates a stream delta event.
func NewStreamDeltaEvent(delta string) *Event {
	return &Event{Type: EventTypeStreamDelta, Delta: delta}
}

// NewCapabilityResultEvent creates a capability result event.
func NewCapabilityResultEvent(capability, result string) *Event {
	return &Event{Type: EventTypeCapabilityResult, Capability: capability, Result: result}
}

// NewErrorEvent creates an engine error event.
func NewErrorEvent(err error) *Event {
	return &Event{Type: EventTypeError, Err: err}
}

// IsStreamDelta returns true if this event carries incremental text.
func (e *Event) IsStreamDelta() bool {
	return e.Type == EventTypeStreamDelta
}

// IsCapabilityResult returns true if this event reports a completed
// capability invocation.
func (e *Event) IsCapabilityResult() bool {
	return e.Type == EventTypeCapabilityResult
}

// IsError returns true if this is an engine error event.
func (e *Event) IsError() bool {
	return e.Type == EventTypeError
}
