package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/relay/pkg/agent"
	"github.com/entrhq/relay/pkg/types"
)

// Observer extends the session-level observer with stage lifecycle
// notifications from the driver.
type Observer interface {
	agent.Observer

	// OnStageStart is called before each attempt of a stage. attempt is
	// zero-indexed.
	OnStageStart(stage string, attempt int)

	// OnStageEnd is called after each attempt with its verdict.
	OnStageEnd(stage string, success bool, message string)
}

// NopObserver discards all notifications.
type NopObserver struct {
	agent.NopObserver
}

func (NopObserver) OnStageStart(string, int)        {}
func (NopObserver) OnStageEnd(string, bool, string) {}

var (
	stageStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// ConsoleObserver renders pipeline progress to a terminal.
type ConsoleObserver struct {
	out        io.Writer
	showDeltas bool
	showStarts bool
}

// NewConsoleObserver creates an observer honoring the configured
// verbosity. "quiet" reports only stage verdicts, "normal" adds stage
// starts and warnings, "verbose" also echoes the engine's text stream.
func NewConsoleObserver(verbosity string) *ConsoleObserver {
	return &ConsoleObserver{
		out:        os.Stdout,
		showDeltas: verbosity == "verbose",
		showStarts: verbosity != "quiet",
	}
}

func (c *ConsoleObserver) OnStageStart(stage string, attempt int) {
	if !c.showStarts {
		return
	}
	label := fmt.Sprintf("▸ %s", stage)
	if attempt > 0 {
		label = fmt.Sprintf("▸ %s (attempt %d)", stage, attempt+1)
	}
	fmt.Fprintln(c.out, stageStyle.Render(label))
}

func (c *ConsoleObserver) OnStageEnd(stage string, success bool, message string) {
	if success {
		fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf("✓ %s: %s", stage, message)))
		return
	}
	fmt.Fprintln(c.out, failureStyle.Render(fmt.Sprintf("✗ %s: %s", stage, message)))
}

func (c *ConsoleObserver) OnEvent(event *types.Event) {
	if !c.showDeltas {
		return
	}
	if event.IsStreamDelta() {
		fmt.Fprint(c.out, event.Delta)
	}
	if event.IsCapabilityResult() {
		fmt.Fprintln(c.out, warningStyle.Render(fmt.Sprintf("[capability: %s]", event.Capability)))
	}
}

func (c *ConsoleObserver) OnWarning(message string) {
	if !c.showStarts {
		return
	}
	fmt.Fprintln(c.out, warningStyle.Render("! "+message))
}
