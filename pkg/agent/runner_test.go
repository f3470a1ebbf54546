package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/relay/pkg/engine"
	"github.com/entrhq/relay/pkg/types"
)

// scriptedEngine replays a fixed event sequence per session and records
// the payloads it was asked to run.
type scriptedEngine struct {
	events   []*types.Event
	openErr  error
	payloads []string
}

func (e *scriptedEngine) OpenStream(_ context.Context, req *engine.Request) (<-chan *types.Event, error) {
	e.payloads = append(e.payloads, req.Payload)
	if e.openErr != nil {
		return nil, e.openErr
	}

	ch := make(chan *types.Event, len(e.events))
	for _, event := range e.events {
		ch <- event
	}
	close(ch)
	return ch, nil
}

func testContext(request string) *types.PipelineContext {
	return &types.PipelineContext{Request: request}
}

func TestExecuteAccumulatesOutputInOrder(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("Hello"),
		types.NewStreamDeltaEvent(", "),
		types.NewStreamDeltaEvent("world"),
	}}
	runner := NewRunner(ExplorerRole(), eng)

	att, err := runner.Execute(context.Background(), testContext("greet"), 0, "")

	require.NoError(t, err)
	assert.Equal(t, "Hello, world", att.Run.Output)
	assert.Len(t, att.Run.RawEvents, 3)
	assert.Equal(t, "explorer", att.Run.Role)
	assert.NotEmpty(t, att.Run.ID)
	assert.True(t, att.Outcome.Success)
}

func TestExecuteRecordsCapabilityCalls(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewCapabilityResultEvent("Read", `{"file_path":"main.go"}`),
		types.NewStreamDeltaEvent("done"),
	}}
	runner := NewRunner(ExplorerRole(), eng)

	att, err := runner.Execute(context.Background(), testContext("inspect"), 0, "")

	require.NoError(t, err)
	require.Len(t, att.Run.Calls, 1)
	assert.Equal(t, "Read", att.Run.Calls[0].Name)
	assert.False(t, att.Run.Calls[0].Restricted)
	assert.True(t, att.Outcome.Success)
}

func TestExecuteRestrictionOverridesValidation(t *testing.T) {
	role := RoleDescriptor{
		Name:                "planner",
		Instructions:        "plan the work",
		AllowedCapabilities: []string{"Read", "TodoWrite"},
	}
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("plenty of valid output"),
		types.NewCapabilityResultEvent("Write", `{"file_path":"x"}`),
	}}

	validatorCalled := false
	runner := NewRunner(role, eng, WithValidator(func(*types.RunResult, *types.PipelineContext) types.ValidationOutcome {
		validatorCalled = true
		return types.ValidationOutcome{Success: true}
	}))

	att, err := runner.Execute(context.Background(), testContext("task"), 0, "")

	require.NoError(t, err)
	assert.False(t, att.Outcome.Success)
	assert.Contains(t, att.Outcome.Message, "Write")
	assert.Contains(t, att.Outcome.Message, "Read, TodoWrite")
	assert.False(t, validatorCalled, "validator must be skipped for restricted runs")
	require.Len(t, att.Run.Calls, 1)
	assert.True(t, att.Run.Calls[0].Restricted)
}

func TestExecuteEmptyAllowListPermitsEverything(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewCapabilityResultEvent("Write", "{}"),
		types.NewCapabilityResultEvent("Bash", "{}"),
		types.NewStreamDeltaEvent("changes applied"),
	}}
	runner := NewRunner(CoderRole(), eng)

	att, err := runner.Execute(context.Background(), testContext("implement"), 0, "")

	require.NoError(t, err)
	assert.Empty(t, att.Run.RestrictedCalls())
	assert.True(t, att.Outcome.Success)
}

func TestExecuteEngineErrorAbortsAttempt(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("partial"),
		types.NewErrorEvent(errors.New("model overloaded")),
	}}
	runner := NewRunner(ExplorerRole(), eng)

	att, err := runner.Execute(context.Background(), testContext("task"), 0, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Nil(t, att)
}

func TestExecuteOpenStreamFailure(t *testing.T) {
	eng := &scriptedEngine{openErr: errors.New("connection refused")}
	runner := NewRunner(ExplorerRole(), eng)

	att, err := runner.Execute(context.Background(), testContext("task"), 0, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, att)
}

func TestExecuteRetryWarningInPayload(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("second try"),
	}}
	runner := NewRunner(PlannerRole(), eng)

	_, err := runner.Execute(context.Background(), testContext("task"), 1, "insufficient breakdown: found 1 item(s), need at least 2")

	require.NoError(t, err)
	require.Len(t, eng.payloads, 1)
	payload := eng.payloads[0]
	assert.Contains(t, payload, "retry attempt #2")
	assert.Contains(t, payload, "failed validation")
	assert.Contains(t, payload, "insufficient breakdown")
}

func TestExecutePayloadSectionOrdering(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("ok"),
	}}
	runner := NewRunner(CoderRole(), eng)

	pc := &types.PipelineContext{
		Request: "add retry handling",
		Exploration: &types.ExplorationResult{
			Summary: "the client lives in client.go",
		},
		Plan: &types.PlanResult{
			Items: []types.ChecklistItem{
				{Content: "Add backoff helper", Status: types.ChecklistPending},
				{Content: "Use it in client.go", Status: types.ChecklistPending},
			},
		},
	}

	_, err := runner.Execute(context.Background(), pc, 0, "")

	require.NoError(t, err)
	require.Len(t, eng.payloads, 1)
	payload := eng.payloads[0]

	instructions := strings.Index(payload, CoderRole().Instructions)
	exploration := strings.Index(payload, "the client lives in client.go")
	plan := strings.Index(payload, "Add backoff helper")
	request := strings.Index(payload, "add retry handling")

	require.NotEqual(t, -1, instructions)
	require.NotEqual(t, -1, exploration)
	require.NotEqual(t, -1, plan)
	require.NotEqual(t, -1, request)
	assert.Less(t, instructions, exploration)
	assert.Less(t, exploration, plan)
	assert.Less(t, plan, request)
}

func TestExecuteHonorsCanceledContext(t *testing.T) {
	eng := &scriptedEngine{events: []*types.Event{
		types.NewStreamDeltaEvent("ok"),
	}}
	runner := NewRunner(ExplorerRole(), eng, WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Execute(ctx, testContext("task"), 0, "")

	require.Error(t, err)
}
