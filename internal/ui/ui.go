// Package ui defines what the flows need from a host UI: somewhere to
// render capture and search views, transient toasts, and a clipboard.
package ui

import (
	"github.com/felixgeelhaar/recall/internal/memory"
)

// ToastStyle is the visual weight of a toast.
type ToastStyle int

const (
	ToastSuccess ToastStyle = iota
	ToastFailure
)

func (s ToastStyle) String() string {
	switch s {
	case ToastSuccess:
		return "success"
	case ToastFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Toast is a transient notification.
type Toast struct {
	Style   ToastStyle
	Title   string
	Message string
}

// CaptureView is everything the capture command shows.
type CaptureView struct {
	Original string
	// Empty marks Original as a placeholder rather than clipboard text.
	Empty   bool
	Results []memory.Extraction
	// Submitted is set once a capture has completed, even with no results.
	Submitted bool
	Loading   bool
	Editing   bool
}

// SearchState is a state of the search command.
type SearchState int

const (
	SearchInput SearchState = iota
	SearchLoading
	SearchResults
)

func (s SearchState) String() string {
	switch s {
	case SearchInput:
		return "input"
	case SearchLoading:
		return "loading"
	case SearchResults:
		return "results"
	default:
		return "unknown"
	}
}

// SearchView is everything the search command shows.
type SearchView struct {
	State   SearchState
	Query   string
	Text    string
	Records []memory.Memory
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Host renders views and toasts and owns the clipboard.
type Host interface {
	Clipboard
	RenderCapture(v CaptureView)
	RenderSearch(v SearchView)
	Toast(t Toast)
}

// SilentHost drops every render and toast. Its clipboard is always empty.
type SilentHost struct{}

func (SilentHost) ReadText() (string, error) { return "", nil }
func (SilentHost) WriteText(string) error    { return nil }
func (SilentHost) RenderCapture(CaptureView) {}
func (SilentHost) RenderSearch(SearchView)   {}
func (SilentHost) Toast(Toast)               {}
