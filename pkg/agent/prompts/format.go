package prompts

import (
	"fmt"
	"strings"

	"github.com/entrhq/relay/pkg/types"
)

const (
	// NoExplorationSentinel is returned when no exploration data exists.
	NoExplorationSentinel = "No exploration data available."

	// NoPlanSentinel is returned when no plan (or an empty plan) exists.
	NoPlanSentinel = "No plan available."

	// Bounds keep the rendered context a predictable size no matter how
	// much an earlier stage produced. Most-relevant entries come first
	// upstream, so truncation preserves signal over completeness.
	maxFilesShown    = 10
	maxSnippetsShown = 3
	maxSnippetChars  = 500
)

// statusGlyphs maps checklist status to its display glyph.
var statusGlyphs = map[types.ChecklistStatus]string{
	types.ChecklistPending:    "○",
	types.ChecklistInProgress: "◐",
	types.ChecklistCompleted:  "●",
}

// FormatExploration renders exploration findings as a bounded text block
// for inclusion in a later stage's instruction payload. It is total:
// any input yields bounded-length text.
func FormatExploration(exploration *types.ExplorationResult) string {
	if exploration == nil {
		return NoExplorationSentinel
	}

	var builder strings.Builder
	builder.WriteString("<exploration_findings>\n")
	builder.WriteString(exploration.Summary)
	builder.WriteString("\n")

	if len(exploration.FilesFound) > 0 {
		builder.WriteString("\nRelevant files:\n")
		shown := exploration.FilesFound
		if len(shown) > maxFilesShown {
			shown = shown[:maxFilesShown]
		}
		for _, file := range shown {
			fmt.Fprintf(&builder, "- %s (%s)\n", file.Path, file.Relevance)
		}
		if extra := len(exploration.FilesFound) - maxFilesShown; extra > 0 {
			fmt.Fprintf(&builder, "...and %d more\n", extra)
		}
	}

	if len(exploration.KeySnippets) > 0 {
		builder.WriteString("\nKey snippets:\n")
		shown := exploration.KeySnippets
		if len(shown) > maxSnippetsShown {
			shown = shown[:maxSnippetsShown]
		}
		for _, snippet := range shown {
			code := snippet.Code
			if len(code) > maxSnippetChars {
				code = code[:maxSnippetChars]
			}
			fmt.Fprintf(&builder, "--- %s (%s) ---\n%s\n", snippet.File, snippet.Lines, code)
		}
	}

	builder.WriteString("</exploration_findings>")
	return builder.String()
}

// FormatPlan renders a plan as a 1-indexed checklist, each item prefixed
// with its status glyph. Unknown statuses render as a literal "?".
func FormatPlan(plan *types.PlanResult) string {
	if plan == nil || len(plan.Items) == 0 {
		return NoPlanSentinel
	}

	var builder strings.Builder
	builder.WriteString("<plan>\n")
	for i, item := range plan.Items {
		glyph, ok := statusGlyphs[item.Status]
		if !ok {
			glyph = "?"
		}
		fmt.Fprintf(&builder, "%d. %s %s\n", i+1, glyph, item.Content)
	}
	builder.WriteString("</plan>")
	return builder.String()
}
