// Package pipeline drives the staged agent sequence: an explorer
// investigates, a planner decomposes, a coder implements. Each stage is
// one role-restricted agent run with a bounded retry budget; results
// accrete onto a shared context that later stages read.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/entrhq/relay/pkg/agent"
	"github.com/entrhq/relay/pkg/engine"
	"github.com/entrhq/relay/pkg/engine/tokenizer"
	"github.com/entrhq/relay/pkg/logging"
	"github.com/entrhq/relay/pkg/types"
)

// Pipeline runs the explorer, planner, and coder stages in order.
type Pipeline struct {
	engine    engine.Engine
	config    *Config
	observer  Observer
	logger    *logging.Logger
	tokenizer *tokenizer.Tokenizer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver attaches a progress observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// New creates a pipeline over the given engine. A nil config uses
// DefaultConfig.
func New(eng engine.Engine, cfg *Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger, _ := logging.NewLogger("pipeline")

	// Token counting is best effort; a missing encoding disables it.
	tok, err := tokenizer.New()
	if err != nil {
		logger.Warnf("tokenizer unavailable, payload token counts disabled: %v", err)
		tok = nil
	}

	p := &Pipeline{
		engine:    eng,
		config:    cfg,
		observer:  NopObserver{},
		logger:    logger,
		tokenizer: tok,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// stage pairs a role with its validator and the context update applied
// after the stage succeeds.
type stage struct {
	role      agent.RoleDescriptor
	validator agent.Validator
	after     func(pc *types.PipelineContext, att *agent.Attempt)
}

// Run executes the full pipeline for one request.
//
// The returned Summary always describes whatever progress was made. The
// error is non-nil when a stage could not complete (engine failure,
// timeout, cancellation) or exhausted its attempt budget without
// passing validation.
func (p *Pipeline) Run(ctx context.Context, request string) (*Summary, error) {
	pc := &types.PipelineContext{Request: request}
	summary := &Summary{Request: request, StartedAt: time.Now()}

	p.logger.Infof("pipeline start: request=%q max_attempts=%d", request, p.config.MaxAttempts)

	stages := []stage{
		{role: agent.ExplorerRole(), validator: agent.ValidateOutput, after: applyExploration},
		{role: agent.PlannerRole(), validator: agent.ValidatePlan, after: applyPlan},
		{role: agent.CoderRole(), validator: agent.ValidateOutput},
	}

	for _, st := range stages {
		att, stageSummary, err := p.runStage(ctx, st, pc)
		summary.Stages = append(summary.Stages, stageSummary)

		if err != nil {
			summary.finish(false)
			return summary, err
		}
		if !stageSummary.Success {
			summary.finish(false)
			return summary, fmt.Errorf("stage %s failed after %d attempt(s): %s",
				st.role.Name, stageSummary.Attempts, stageSummary.Message)
		}
		if st.after != nil {
			st.after(pc, att)
		}
		if pc.Plan != nil && len(summary.PlanItems) == 0 {
			for _, item := range pc.Plan.Items {
				summary.PlanItems = append(summary.PlanItems, item.Content)
			}
		}
	}

	summary.finish(true)
	p.logger.Infof("pipeline complete: success=%t duration=%s",
		summary.Success, summary.CompletedAt.Sub(summary.StartedAt))
	return summary, nil
}

// runStage runs one stage under its attempt budget. Validation failures
// consume attempts; engine-level errors abort the stage immediately.
func (p *Pipeline) runStage(ctx context.Context, st stage, pc *types.PipelineContext) (*agent.Attempt, StageSummary, error) {
	runnerOpts := []agent.RunnerOption{
		agent.WithValidator(st.validator),
		agent.WithTimeout(p.config.SessionTimeout()),
		agent.WithObserver(p.observer),
		agent.WithTokenizer(p.tokenizer),
	}
	if p.config.Model != "" {
		runnerOpts = append(runnerOpts, agent.WithModel(p.config.Model))
	}
	runner := agent.NewRunner(st.role, p.engine, runnerOpts...)

	stageSummary := StageSummary{Stage: st.role.Name}
	started := time.Now()

	var att *agent.Attempt
	priorFailure := ""

	for attempt := 0; attempt < p.config.MaxAttempts; attempt++ {
		p.observer.OnStageStart(st.role.Name, attempt)
		stageSummary.Attempts = attempt + 1

		var err error
		att, err = runner.Execute(ctx, pc, attempt, priorFailure)
		if err != nil {
			stageSummary.Message = err.Error()
			stageSummary.DurationMS = time.Since(started).Milliseconds()
			return nil, stageSummary, err
		}

		stageSummary.Success = att.Outcome.Success
		stageSummary.Message = att.Outcome.Message
		stageSummary.CapabilityCalls = len(att.Run.Calls)
		stageSummary.RestrictedCalls = att.Run.RestrictedCalls()
		stageSummary.OutputBytes = len(att.Run.Output)

		p.observer.OnStageEnd(st.role.Name, att.Outcome.Success, att.Outcome.Message)

		if att.Outcome.Success {
			break
		}
		priorFailure = att.Outcome.Message
		p.logger.Warnf("stage=%s attempt=%d failed validation: %s", st.role.Name, attempt, priorFailure)
	}

	stageSummary.DurationMS = time.Since(started).Milliseconds()
	return att, stageSummary, nil
}

// fileLinePattern matches the "- path (relevance)" lines the explorer is
// instructed to emit.
var fileLinePattern = regexp.MustCompile(`^-\s+(\S+)\s+\((.+)\)$`)

// filePathArgPattern pulls file path arguments out of read capability
// call payloads.
var filePathArgPattern = regexp.MustCompile(`"file_path"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// applyExploration assembles the explorer's run into the structured
// exploration context for later stages.
func applyExploration(pc *types.PipelineContext, att *agent.Attempt) {
	pc.Exploration = buildExploration(att.Run)
}

// buildExploration uses the run's accumulated output as the summary and
// collects file references from both the report's file lines and the
// run's read capability calls.
func buildExploration(run *types.RunResult) *types.ExplorationResult {
	exploration := &types.ExplorationResult{
		Summary: strings.TrimSpace(run.Output),
	}

	seen := make(map[string]bool)
	for _, line := range strings.Split(run.Output, "\n") {
		match := fileLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		path := match[1]
		if seen[path] {
			continue
		}
		seen[path] = true
		exploration.FilesFound = append(exploration.FilesFound, types.FileFound{
			Path:      path,
			Relevance: match[2],
		})
	}

	for _, call := range run.Calls {
		if call.Name != "Read" {
			continue
		}
		match := filePathArgPattern.FindStringSubmatch(call.Result)
		if match == nil {
			continue
		}
		path := match[1]
		if unquoted, err := strconv.Unquote(`"` + path + `"`); err == nil {
			path = unquoted
		}
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		exploration.FilesFound = append(exploration.FilesFound, types.FileFound{
			Path:      path,
			Relevance: "read during exploration",
		})
	}

	return exploration
}

// applyPlan attaches the plan the planner's validator extracted.
func applyPlan(pc *types.PipelineContext, att *agent.Attempt) {
	if plan, ok := att.Outcome.Data.(*types.PlanResult); ok {
		pc.Plan = plan
	}
}
