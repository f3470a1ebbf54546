// Package engine defines the boundary to the external capability-execution
// engine that Relay drives.
//
// The engine is a black box: it receives one instruction payload, performs
// model inference and capability invocations on its own, and reports what
// happened as a finite stream of typed events. Relay only observes,
// restricts, and judges that stream.
package engine

import (
	"context"
	"time"

	"github.com/entrhq/relay/pkg/types"
)

// Request describes one streamed session to open against the engine.
type Request struct {
	// Payload is the complete instruction payload for the session:
	// role instructions, accumulated context, and the user request.
	Payload string

	// CapabilitiesEnabled declares whether the engine may invoke
	// capabilities (file reads, searches, checklist writes) during
	// the session.
	CapabilitiesEnabled bool

	// Timeout bounds the session's wall-clock duration. Engines should
	// also honor cancellation of the context passed to OpenStream.
	Timeout time.Duration

	// Model optionally overrides the engine's default model.
	Model string
}

// Engine is the interface to an execution engine.
//
// OpenStream opens one streamed session and returns a channel of events:
// stream deltas, capability results, and at most one trailing error event.
// The channel is closed when the session completes or fails; it is
// consumed exactly once and is not restartable.
//
// Returns an error only if the session cannot be initiated (bad
// configuration, network unavailable). Session-time failures are
// delivered as error events on the channel.
type Engine interface {
	OpenStream(ctx context.Context, req *Request) (<-chan *types.Event, error)
}
