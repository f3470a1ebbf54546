package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/entrhq/relay/pkg/types"
)

// Checklist payloads arrive in two shapes depending on the engine:
// rendered glyph lines ("○ step text") or a JSON-ish structure with
// "content" fields. The glyph form is tried first; the content-field
// scan only runs when no glyph line matched.
var (
	glyphLinePattern    = regexp.MustCompile(`^[○◐●]\s+(.+)$`)
	contentFieldPattern = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// ExtractChecklist parses checklist items out of a capability result
// payload. Item order follows payload order. Extraction is total and
// idempotent; unparseable input yields an empty slice, never an error.
//
// Statuses are not trusted from the payload: every extracted item starts
// as pending, since the plan describes work that has not happened yet.
func ExtractChecklist(payload string) []types.ChecklistItem {
	if items := extractGlyphLines(payload); len(items) > 0 {
		return items
	}
	return extractContentFields(payload)
}

// extractGlyphLines matches lines of the form "<glyph> <content>".
func extractGlyphLines(payload string) []types.ChecklistItem {
	var items []types.ChecklistItem
	for _, line := range strings.Split(payload, "\n") {
		match := glyphLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		content := strings.TrimSpace(match[1])
		if content == "" {
			continue
		}
		items = append(items, types.ChecklistItem{
			Content:    content,
			Status:     types.ChecklistPending,
			ActiveForm: content,
		})
	}
	return items
}

// extractContentFields scans for quoted "content" values, tolerating
// escape sequences. Values that fail to unquote are kept raw.
func extractContentFields(payload string) []types.ChecklistItem {
	var items []types.ChecklistItem
	for _, match := range contentFieldPattern.FindAllStringSubmatch(payload, -1) {
		content := match[1]
		if unquoted, err := strconv.Unquote(`"` + content + `"`); err == nil {
			content = unquoted
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		items = append(items, types.ChecklistItem{
			Content:    content,
			Status:     types.ChecklistPending,
			ActiveForm: content,
		})
	}
	return items
}
