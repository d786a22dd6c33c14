package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/recall/internal/ui"
)

// Messages delivered to the models by Host.
type (
	CaptureViewMsg ui.CaptureView
	SearchViewMsg  ui.SearchView
	ToastMsg       ui.Toast
)

// flowDoneMsg reports the end of a flow call started by a model.
type flowDoneMsg struct {
	err error
}

// Host implements ui.Host by forwarding renders and toasts to a running
// bubbletea program. It must be attached before the program starts.
type Host struct {
	ui.Clipboard

	mu      sync.RWMutex
	program *tea.Program
}

func NewHost(clip ui.Clipboard) *Host {
	return &Host{Clipboard: clip}
}

// Attach sets the program that receives renders.
func (h *Host) Attach(p *tea.Program) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.program = p
}

func (h *Host) send(msg tea.Msg) {
	h.mu.RLock()
	p := h.program
	h.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

func (h *Host) RenderCapture(v ui.CaptureView) {
	h.send(CaptureViewMsg(v))
}

func (h *Host) RenderSearch(v ui.SearchView) {
	h.send(SearchViewMsg(v))
}

func (h *Host) Toast(t ui.Toast) {
	h.send(ToastMsg(t))
}
