package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/recall/internal/memory"
)

type memClipboard struct {
	text string
}

func (m *memClipboard) ReadText() (string, error) { return m.text, nil }
func (m *memClipboard) WriteText(text string) error {
	m.text = text
	return nil
}

func TestSilentHost_ImplementsHost(t *testing.T) {
	var h Host = SilentHost{}

	h.RenderCapture(CaptureView{Original: "x"})
	h.RenderSearch(SearchView{State: SearchResults})
	h.Toast(Toast{Title: "ignored"})
	text, err := h.ReadText()
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestConsole_RenderCapture(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c := NewConsole(out, errOut, FormatText, &memClipboard{})

	c.RenderCapture(CaptureView{Original: "Buy milk tomorrow", Loading: true})
	c.RenderCapture(CaptureView{Original: "Buy milk tomorrow"})
	assert.Empty(t, out.String(), "nothing is printed before a capture completes")

	c.RenderCapture(CaptureView{
		Original:  "Buy milk tomorrow",
		Results:   []memory.Extraction{{Text: "Buy milk", Event: memory.EventAdd}},
		Submitted: true,
	})

	text := out.String()
	assert.Contains(t, text, "Original Text")
	assert.Contains(t, text, "Buy milk tomorrow")
	assert.Contains(t, text, "Extracted Memories")
	assert.Contains(t, text, "Buy milk  ADD")
}

func TestConsole_RenderCaptureEmpty(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewConsole(out, &bytes.Buffer{}, FormatText, &memClipboard{})

	c.RenderCapture(CaptureView{Original: "hmm", Results: []memory.Extraction{}, Submitted: true})
	assert.Contains(t, out.String(), "(none)")
}

func TestConsole_RenderSearchText(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewConsole(out, &bytes.Buffer{}, FormatText, &memClipboard{})

	c.RenderSearch(SearchView{State: SearchLoading, Query: "milk"})
	c.RenderSearch(SearchView{State: SearchResults, Query: "milk", Text: "Buy milk\n\nAlmond milk is preferred"})

	assert.Equal(t, "Buy milk\n\nAlmond milk is preferred\n", out.String())
}

func TestConsole_RenderSearchStructured(t *testing.T) {
	records := []memory.Memory{{ID: "1", Text: "Buy milk", Categories: []string{"groceries"}}}

	t.Run("json", func(t *testing.T) {
		out := &bytes.Buffer{}
		NewConsole(out, &bytes.Buffer{}, FormatJSON, &memClipboard{}).
			RenderSearch(SearchView{State: SearchResults, Records: records})

		var decoded []memory.Memory
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "Buy milk", decoded[0].Text)
	})

	t.Run("yaml", func(t *testing.T) {
		out := &bytes.Buffer{}
		NewConsole(out, &bytes.Buffer{}, FormatYAML, &memClipboard{}).
			RenderSearch(SearchView{State: SearchResults, Records: records})

		var decoded []map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "Buy milk", decoded[0]["memory"])
	})
}

func TestConsole_EmptyResultsAreLists(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"json", FormatJSON, "[]\n"},
		{"yaml", FormatYAML, "[]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			c := NewConsole(out, &bytes.Buffer{}, tt.format, &memClipboard{})

			c.RenderCapture(CaptureView{Original: "hmm", Submitted: true})
			assert.Equal(t, tt.want, out.String(), "capture with no results")

			out.Reset()
			c.RenderSearch(SearchView{State: SearchResults, Query: "milk"})
			assert.Equal(t, tt.want, out.String(), "search with no results")
		})
	}
}

func TestConsole_Toast(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c := NewConsole(out, errOut, FormatText, &memClipboard{})

	c.Toast(Toast{Style: ToastSuccess, Title: "Search completed", Message: "Found 2 results"})
	c.Toast(Toast{Style: ToastFailure, Title: "Search failed", Message: "search: HTTP error! status: 401"})

	assert.Empty(t, out.String(), "toasts never go to stdout")
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Search completed: Found 2 results")
	assert.Contains(t, lines[1], "status: 401")
}

func TestConsole_UsesGivenClipboard(t *testing.T) {
	clip := &memClipboard{text: "from clipboard"}
	c := NewConsole(&bytes.Buffer{}, &bytes.Buffer{}, FormatText, clip)

	text, err := c.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "from clipboard", text)

	require.NoError(t, c.WriteText("copied"))
	assert.Equal(t, "copied", clip.text)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "input", SearchInput.String())
	assert.Equal(t, "results", SearchResults.String())
	assert.Equal(t, "failure", ToastFailure.String())
	assert.Equal(t, "success", ToastSuccess.String())
}
