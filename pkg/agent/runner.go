package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/relay/pkg/agent/prompts"
	"github.com/entrhq/relay/pkg/engine"
	"github.com/entrhq/relay/pkg/engine/tokenizer"
	"github.com/entrhq/relay/pkg/logging"
	"github.com/entrhq/relay/pkg/types"
)

// DefaultTimeout bounds a single session's wall-clock duration.
const DefaultTimeout = 300 * time.Second

// Attempt is the result of one Execute call: the raw run, the
// validator's (or restriction check's) verdict over it, and the context
// the run was built from.
type Attempt struct {
	Run     *types.RunResult
	Outcome types.ValidationOutcome
	Context *types.PipelineContext
}

// Runner executes one role against the engine. A Runner is stateless
// across calls; every Execute opens a fresh session.
type Runner struct {
	role      RoleDescriptor
	engine    engine.Engine
	validator Validator
	timeout   time.Duration
	observer  Observer
	model     string
	matcher   *capabilityMatcher
	logger    *logging.Logger
	tokenizer *tokenizer.Tokenizer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithValidator replaces the default output validator.
func WithValidator(v Validator) RunnerOption {
	return func(r *Runner) {
		r.validator = v
	}
}

// WithTimeout overrides the per-session timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithObserver attaches a stream observer.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithModel overrides the engine's default model for this role.
func WithModel(model string) RunnerOption {
	return func(r *Runner) {
		r.model = model
	}
}

// WithTokenizer enables payload token counting in debug logs.
func WithTokenizer(t *tokenizer.Tokenizer) RunnerOption {
	return func(r *Runner) {
		r.tokenizer = t
	}
}

// NewRunner creates a runner for the given role.
func NewRunner(role RoleDescriptor, eng engine.Engine, opts ...RunnerOption) *Runner {
	logger, _ := logging.NewLogger("runner:" + role.Name)

	r := &Runner{
		role:      role,
		engine:    eng,
		validator: ValidateOutput,
		timeout:   DefaultTimeout,
		observer:  NopObserver{},
		matcher:   newCapabilityMatcher(role.AllowedCapabilities),
		logger:    logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Role returns the runner's role descriptor.
func (r *Runner) Role() RoleDescriptor {
	return r.role
}

// Execute runs one streamed session for this role and judges the result.
//
// attempt is zero-indexed; for attempt > 0 the payload carries a retry
// warning quoting priorFailure, the validation message from the failed
// attempt.
//
// A non-nil error means the session itself failed (stream could not be
// opened, engine reported an error event, or the timeout elapsed) and
// the outcome is meaningless. With a nil error the Attempt carries the
// verdict: if the run invoked any restricted capability the outcome is
// a restriction failure regardless of what the validator would have
// said; otherwise it is the validator's verdict.
func (r *Runner) Execute(ctx context.Context, pc *types.PipelineContext, attempt int, priorFailure string) (*Attempt, error) {
	payload := prompts.NewPayloadBuilder(r.role.Instructions).
		WithAttempt(attempt, priorFailure).
		WithContext(pc).
		Build()

	r.logger.Infof("role=%s attempt=%d payload_bytes=%d payload_tokens=%d",
		r.role.Name, attempt, len(payload), r.tokenizer.CountTokens(payload))

	sessionCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	events, err := r.engine.OpenStream(sessionCtx, &engine.Request{
		Payload:             payload,
		CapabilitiesEnabled: true,
		Timeout:             r.timeout,
		Model:               r.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session for role %s: %w", r.role.Name, err)
	}

	run := &types.RunResult{
		ID:   uuid.New().String(),
		Role: r.role.Name,
	}

	engineErr := r.consumeStream(events, run)

	if engineErr != nil {
		r.logger.Errorf("role=%s run=%s engine error: %v", r.role.Name, run.ID, engineErr)
		return nil, fmt.Errorf("session failed for role %s: %w", r.role.Name, engineErr)
	}
	if errors.Is(sessionCtx.Err(), context.DeadlineExceeded) {
		r.logger.Errorf("role=%s run=%s timed out after %s", r.role.Name, run.ID, r.timeout)
		return nil, fmt.Errorf("session for role %s timed out after %s", r.role.Name, r.timeout)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := r.judge(run, pc)
	r.logger.Infof("role=%s run=%s success=%t message=%q calls=%d output_bytes=%d",
		r.role.Name, run.ID, outcome.Success, outcome.Message, len(run.Calls), len(run.Output))

	return &Attempt{Run: run, Outcome: outcome, Context: pc}, nil
}

// consumeStream drains the event channel into the run, returning the
// engine error if one was reported. The channel is always read to
// completion so the producing goroutine can exit.
func (r *Runner) consumeStream(events <-chan *types.Event, run *types.RunResult) error {
	var output strings.Builder
	var engineErr error

	for event := range events {
		run.RawEvents = append(run.RawEvents, event)
		r.observer.OnEvent(event)

		switch event.Type {
		case types.EventTypeStreamDelta:
			output.WriteString(event.Delta)

		case types.EventTypeCapabilityResult:
			restricted := !r.matcher.Allows(event.Capability)
			if restricted {
				r.observer.OnWarning(fmt.Sprintf(
					"role %q invoked restricted capability %q", r.role.Name, event.Capability))
			}
			run.Calls = append(run.Calls, types.CapabilityCall{
				Name:       event.Capability,
				Result:     event.Result,
				Restricted: restricted,
			})

		case types.EventTypeError:
			if engineErr == nil {
				engineErr = event.Err
			}
		}
	}

	run.Output = output.String()
	return engineErr
}

// judge renders the verdict over a completed run. Restriction violations
// take precedence over the validator: a run that stepped outside its
// allow-list fails even if its output would have validated.
func (r *Runner) judge(run *types.RunResult, pc *types.PipelineContext) types.ValidationOutcome {
	if restricted := run.RestrictedCalls(); len(restricted) > 0 {
		violation := &RestrictionError{
			Role:       r.role.Name,
			Restricted: restricted,
			Allowed:    r.role.AllowedCapabilities,
		}
		return types.ValidationOutcome{
			Success: false,
			Message: violation.Error(),
		}
	}
	return r.validator(run, pc)
}
