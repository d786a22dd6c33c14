package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/recall/internal/memory"
)

// Format selects how the console host prints results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text, json or yaml)", s)
	}
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	accessory    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Console is a non-interactive Host. Results go to out, toasts to errOut,
// so results can be piped.
type Console struct {
	Clipboard

	out    io.Writer
	errOut io.Writer
	format Format
}

func NewConsole(out, errOut io.Writer, format Format, clip Clipboard) *Console {
	if clip == nil {
		clip = SystemClipboard{}
	}
	return &Console{Clipboard: clip, out: out, errOut: errOut, format: format}
}

// RenderCapture prints the extracted memories once a capture completed.
func (c *Console) RenderCapture(v CaptureView) {
	if v.Loading || !v.Submitted {
		return
	}

	switch c.format {
	case FormatJSON, FormatYAML:
		results := v.Results
		if results == nil {
			results = []memory.Extraction{}
		}
		c.encode(results)
	default:
		fmt.Fprintln(c.out, sectionStyle.Render("Original Text"))
		fmt.Fprintln(c.out, "  "+v.Original)
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, sectionStyle.Render("Extracted Memories"))
		if len(v.Results) == 0 {
			fmt.Fprintln(c.out, "  (none)")
		}
		for _, r := range v.Results {
			fmt.Fprintf(c.out, "  %s  %s\n", r.Text, accessory.Render(string(r.Event)))
		}
	}
}

// RenderSearch prints the joined text, or the records in JSON/YAML.
func (c *Console) RenderSearch(v SearchView) {
	if v.State != SearchResults {
		return
	}

	switch c.format {
	case FormatJSON, FormatYAML:
		records := v.Records
		if records == nil {
			records = []memory.Memory{}
		}
		c.encode(records)
	default:
		fmt.Fprintln(c.out, v.Text)
	}
}

func (c *Console) Toast(t Toast) {
	mark := okStyle.Render("✓")
	if t.Style == ToastFailure {
		mark = failStyle.Render("✗")
	}

	line := mark + " " + t.Title
	if t.Message != "" {
		line += ": " + t.Message
	}
	fmt.Fprintln(c.errOut, line)
}

func (c *Console) encode(v any) {
	var err error
	if c.format == FormatYAML {
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	}
	if err != nil {
		fmt.Fprintf(c.errOut, "failed to encode output: %v\n", err)
	}
}
