package prompts

import (
	"fmt"
	"strings"

	"github.com/entrhq/relay/pkg/types"
)

// PayloadBuilder assembles the instruction payload for one session.
// Sections are rendered in a fixed order: role instructions, retry
// warning, exploration findings, plan, user request.
type PayloadBuilder struct {
	instructions string
	attempt      int
	priorFailure string
	context      *types.PipelineContext
}

// NewPayloadBuilder creates a builder for the given role instructions.
func NewPayloadBuilder(instructions string) *PayloadBuilder {
	return &PayloadBuilder{instructions: instructions}
}

// WithAttempt marks which attempt this payload is for. Attempts are
// zero-indexed; any attempt after the first adds a retry warning.
// priorFailure is the validation message from the failed attempt.
func (b *PayloadBuilder) WithAttempt(attempt int, priorFailure string) *PayloadBuilder {
	b.attempt = attempt
	b.priorFailure = priorFailure
	return b
}

// WithContext attaches the accumulated pipeline context.
func (b *PayloadBuilder) WithContext(pc *types.PipelineContext) *PayloadBuilder {
	b.context = pc
	return b
}

// Build renders the payload.
func (b *PayloadBuilder) Build() string {
	sections := []string{b.instructions}

	if b.attempt > 0 {
		sections = append(sections, RetryWarning(b.attempt, b.priorFailure))
	}

	if b.context != nil {
		if b.context.Exploration != nil {
			sections = append(sections, FormatExploration(b.context.Exploration))
		}
		if b.context.Plan != nil {
			sections = append(sections, FormatPlan(b.context.Plan))
		}
		sections = append(sections, fmt.Sprintf("<user_request>\n%s\n</user_request>", b.context.Request))
	}

	return strings.Join(sections, "\n\n")
}

// RetryWarning renders the warning block prepended to retried sessions.
// attempt is zero-indexed, so attempt 1 is displayed as "attempt #2".
func RetryWarning(attempt int, priorFailure string) string {
	var builder strings.Builder
	builder.WriteString("<retry_warning>\n")
	fmt.Fprintf(&builder, "This is retry attempt #%d. Your previous attempt failed validation", attempt+1)
	if priorFailure != "" {
		fmt.Fprintf(&builder, ": %s", priorFailure)
	}
	builder.WriteString("\nAddress the failure directly instead of repeating the prior output.\n")
	builder.WriteString("</retry_warning>")
	return builder.String()
}
