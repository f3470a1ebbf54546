package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/relay/pkg/types"
)

func TestExtractChecklistGlyphLines(t *testing.T) {
	payload := "○ Read config.json\n● Write output.json\n"

	items := ExtractChecklist(payload)

	require.Len(t, items, 2)
	assert.Equal(t, "Read config.json", items[0].Content)
	assert.Equal(t, "Write output.json", items[1].Content)
	for _, item := range items {
		assert.Equal(t, types.ChecklistPending, item.Status)
		assert.Equal(t, item.Content, item.ActiveForm)
	}
}

func TestExtractChecklistGlyphStatusNormalized(t *testing.T) {
	// Glyphs indicate display state upstream; extracted items always
	// start as pending.
	payload := "◐ Half done step\n● Finished step\n"

	items := ExtractChecklist(payload)

	require.Len(t, items, 2)
	assert.Equal(t, types.ChecklistPending, items[0].Status)
	assert.Equal(t, types.ChecklistPending, items[1].Status)
}

func TestExtractChecklistIndentedGlyphLines(t *testing.T) {
	payload := "  ○ First step\n\t◐ Second step\n"

	items := ExtractChecklist(payload)

	require.Len(t, items, 2)
	assert.Equal(t, "First step", items[0].Content)
	assert.Equal(t, "Second step", items[1].Content)
}

func TestExtractChecklistContentFields(t *testing.T) {
	payload := `{"todos":[{"content":"Add the handler","status":"pending"},{"content":"Wire the route","status":"pending"}]}`

	items := ExtractChecklist(payload)

	require.Len(t, items, 2)
	assert.Equal(t, "Add the handler", items[0].Content)
	assert.Equal(t, "Wire the route", items[1].Content)
}

func TestExtractChecklistContentFieldEscapes(t *testing.T) {
	payload := `{"content":"Rename \"old\" to \"new\""}`

	items := ExtractChecklist(payload)

	require.Len(t, items, 1)
	assert.Equal(t, `Rename "old" to "new"`, items[0].Content)
}

func TestExtractChecklistGlyphStrategyWins(t *testing.T) {
	// When both forms are present only the glyph lines count.
	payload := "○ Glyph step one\n○ Glyph step two\n" +
		`{"content":"embedded step"}`

	items := ExtractChecklist(payload)

	require.Len(t, items, 2)
	assert.Equal(t, "Glyph step one", items[0].Content)
	assert.Equal(t, "Glyph step two", items[1].Content)
}

func TestExtractChecklistIdempotent(t *testing.T) {
	payload := "○ Step one\n◐ Step two\n● Step three\n"

	first := ExtractChecklist(payload)
	second := ExtractChecklist(payload)

	assert.Equal(t, first, second)
}

func TestExtractChecklistEmptyInputs(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty string", payload: ""},
		{name: "whitespace only", payload: "   \n\t\n"},
		{name: "no matches", payload: "just some prose about a plan"},
		{name: "glyph without text", payload: "○ \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractChecklist(tt.payload))
		})
	}
}
