package agent

import "github.com/entrhq/relay/pkg/types"

// Observer receives a live view of a session as it streams. Callbacks
// are invoked from the runner's event loop, so implementations must
// return quickly and must not block.
type Observer interface {
	// OnEvent is called for every stream event, in arrival order.
	OnEvent(event *types.Event)

	// OnWarning is called for non-fatal conditions observed during the
	// run, such as a restricted capability invocation.
	OnWarning(message string)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) OnEvent(*types.Event) {}
func (NopObserver) OnWarning(string)     {}
