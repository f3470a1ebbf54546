package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StageSummary records what one pipeline stage did across its attempts.
type StageSummary struct {
	Stage           string   `json:"stage"`
	Attempts        int      `json:"attempts"`
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	DurationMS      int64    `json:"duration_ms"`
	CapabilityCalls int      `json:"capability_calls"`
	RestrictedCalls []string `json:"restricted_calls,omitempty"`
	OutputBytes     int      `json:"output_bytes"`
}

// Summary is the artifact describing one full pipeline run.
type Summary struct {
	Request     string         `json:"request"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Success     bool           `json:"success"`
	Stages      []StageSummary `json:"stages"`
	PlanItems   []string       `json:"plan_items,omitempty"`
}

// finish stamps the completion time and overall verdict.
func (s *Summary) finish(success bool) {
	s.CompletedAt = time.Now()
	s.Success = success
}

// WriteJSON writes the summary to path as indented JSON.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
