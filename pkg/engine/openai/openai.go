// Package openai provides an OpenAI-compatible streaming engine adapter.
//
// The adapter opens one chat completion stream per session and translates
// the SSE response into engine events: content deltas become stream delta
// events, and completed tool calls are surfaced as capability result
// events carrying the call's argument payload. Raw HTTP streaming is used
// rather than a generated client so that SSE comments and slight format
// variations from OpenAI-compatible services are tolerated.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/openai/openai-go"

	"github.com/entrhq/relay/pkg/engine"
	"github.com/entrhq/relay/pkg/types"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	defaultModel = "gpt-4o"
)

// Adapter implements engine.Engine against OpenAI-compatible APIs.
type Adapter struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	tools      []map[string]interface{}
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithModel sets the default model for sessions that do not override it.
func WithModel(model string) AdapterOption {
	return func(a *Adapter) {
		a.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs
// (Azure OpenAI, local models, routing proxies).
func WithBaseURL(baseURL string) AdapterOption {
	return func(a *Adapter) {
		a.baseURL = baseURL
	}
}

// WithTools declares the capability schemas offered to the engine when a
// session enables capabilities. Each entry is a raw tool definition in the
// chat completions format.
func WithTools(tools []map[string]interface{}) AdapterOption {
	return func(a *Adapter) {
		a.tools = tools
	}
}

// NewAdapter creates an adapter with the given API key.
//
// If apiKey is empty, the OPENAI_API_KEY environment variable is used.
// If no base URL is set via option, OPENAI_BASE_URL is consulted before
// falling back to the default.
func NewAdapter(apiKey string, opts ...AdapterOption) (*Adapter, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	a := &Adapter{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      defaultModel,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			a.baseURL = envBaseURL
		}
	}

	return a, nil
}

// OpenStream opens one streamed session and returns its event channel.
// The channel is closed when the stream completes or fails.
func (a *Adapter) OpenStream(ctx context.Context, req *engine.Request) (<-chan *types.Event, error) {
	resp, err := a.sendStreamRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	events := make(chan *types.Event, 10)
	go a.processStreamResponse(ctx, resp, events)
	return events, nil
}

// sendStreamRequest creates and sends the HTTP request for streaming.
func (a *Adapter) sendStreamRequest(ctx context.Context, req *engine.Request) (*http.Response, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(req.Payload),
	}

	reqBody := map[string]interface{}{
		"model":    model,
		"messages": messages,
		"stream":   true,
	}

	if req.CapabilitiesEnabled && len(a.tools) > 0 {
		reqBody["tools"] = a.tools
		reqBody["tool_choice"] = "auto"
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// toolCallBuffer accumulates tool call fragments across SSE chunks.
// Names and arguments arrive split over multiple deltas keyed by index.
type toolCallBuffer struct {
	name string
	args strings.Builder
}

// processStreamResponse consumes the SSE stream and emits engine events.
func (a *Adapter) processStreamResponse(ctx context.Context, resp *http.Response, events chan<- *types.Event) {
	defer close(events)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	calls := make(map[int]*toolCallBuffer)

	for scanner.Scan() {
		line := scanner.Text()

		if !a.isValidSSELine(line) {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			a.flushToolCalls(ctx, calls, events)
			return
		}

		if !a.processSSEChunk(ctx, data, calls, events) {
			return
		}
	}

	a.flushToolCalls(ctx, calls, events)

	if err := scanner.Err(); err != nil {
		a.sendEvent(ctx, types.NewErrorEvent(fmt.Errorf("stream read error: %w", err)), events)
	}
}

// isValidSSELine checks if a line is a valid SSE data line.
func (a *Adapter) isValidSSELine(line string) bool {
	return line != "" && !strings.HasPrefix(line, ":") && strings.HasPrefix(line, "data: ")
}

// processSSEChunk translates a single SSE data chunk into engine events.
// Returns false when the consumer context is gone and streaming should stop.
func (a *Adapter) processSSEChunk(ctx context.Context, data string, calls map[int]*toolCallBuffer, events chan<- *types.Event) bool {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Content   string `json:"content"`
				ToolCalls []struct {
					Index    int `json:"index"`
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"delta"`
			FinishReason *string `json:"finish_reason"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return true // Skip malformed chunks silently
	}

	if chunk.Error != nil {
		return a.sendEvent(ctx, types.NewErrorEvent(fmt.Errorf("engine error: %s", chunk.Error.Message)), events)
	}

	if len(chunk.Choices) == 0 {
		return true
	}

	choice := chunk.Choices[0]

	if choice.Delta.Content != "" {
		if !a.sendEvent(ctx, types.NewStreamDeltaEvent(choice.Delta.Content), events) {
			return false
		}
	}

	for _, tc := range choice.Delta.ToolCalls {
		buf, ok := calls[tc.Index]
		if !ok {
			buf = &toolCallBuffer{}
			calls[tc.Index] = buf
		}
		if tc.Function.Name != "" {
			buf.name = tc.Function.Name
		}
		buf.args.WriteString(tc.Function.Arguments)
	}

	if choice.FinishReason != nil && *choice.FinishReason == "tool_calls" {
		return a.flushToolCalls(ctx, calls, events)
	}

	return true
}

// flushToolCalls emits buffered tool calls as capability result events,
// in index order, and resets the buffers.
func (a *Adapter) flushToolCalls(ctx context.Context, calls map[int]*toolCallBuffer, events chan<- *types.Event) bool {
	if len(calls) == 0 {
		return true
	}

	indexes := make([]int, 0, len(calls))
	for idx := range calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	for _, idx := range indexes {
		buf := calls[idx]
		if buf.name == "" {
			continue
		}
		if !a.sendEvent(ctx, types.NewCapabilityResultEvent(buf.name, buf.args.String()), events) {
			return false
		}
		delete(calls, idx)
	}
	return true
}

// sendEvent delivers an event unless the context has been canceled.
// On cancellation a trailing error event is emitted so the consumer
// observes the abort.
func (a *Adapter) sendEvent(ctx context.Context, ev *types.Event, events chan<- *types.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		select {
		case events <- types.NewErrorEvent(ctx.Err()):
		default:
		}
		return false
	}
}

// GetModel returns the adapter's default model.
func (a *Adapter) GetModel() string {
	return a.model
}

// GetBaseURL returns the base URL being used for API requests.
func (a *Adapter) GetBaseURL() string {
	return a.baseURL
}
