package flow

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/recall/internal/memory"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/provider"
	"github.com/felixgeelhaar/recall/internal/ui"
)

// ClipboardPlaceholder is shown in place of an empty clipboard.
const ClipboardPlaceholder = "Clipboard is empty"

// Capture turns a piece of text into stored memories and shows what the
// Memory Store extracted from it.
type Capture struct {
	provider provider.Provider
	host     ui.Host
	obs      *observe.Observer
	bus      *EventBus
	life     *lifetime

	// mu also serializes renders so a dismissed view is never drawn again.
	mu   sync.Mutex
	view ui.CaptureView
	busy bool
}

func NewCapture(p provider.Provider, host ui.Host, obs *observe.Observer, bus *EventBus) *Capture {
	if host == nil {
		host = ui.SilentHost{}
	}
	if obs == nil {
		obs = observe.Discard()
	}
	return &Capture{
		provider: p,
		host:     host,
		obs:      obs,
		bus:      bus,
		life:     newLifetime(),
		view:     ui.CaptureView{Loading: true},
	}
}

// ID identifies this capture in logs and events.
func (c *Capture) ID() string {
	return c.life.id
}

// View returns a copy of the current view state.
func (c *Capture) View() ui.CaptureView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Capture) snapshot() ui.CaptureView {
	v := c.view
	v.Results = clone(c.view.Results)
	return v
}

// clone copies s, keeping an empty slice empty rather than nil.
func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Load reads the clipboard into the view. An empty clipboard shows
// ClipboardPlaceholder; a clipboard failure does the same, toasts, and
// returns an error wrapping memory.ErrClipboardUnavailable.
func (c *Capture) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, readErr := c.host.ReadText()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.life.alive() {
		return ErrDismissed
	}

	c.view.Loading = false
	if readErr != nil || text == "" {
		c.view.Original = ClipboardPlaceholder
		c.view.Empty = true
	} else {
		c.view.Original = text
		c.view.Empty = false
	}
	c.host.RenderCapture(c.snapshot())

	if readErr != nil {
		err := fmt.Errorf("%w: %v", memory.ErrClipboardUnavailable, readErr)
		c.obs.Log().Warn().Str("flow", c.ID()).Err(readErr).Msg("failed to read clipboard")
		c.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Clipboard unavailable", Message: readErr.Error()})
		c.bus.PublishWithData(EventClipboardFailed, c.ID(), map[string]interface{}{"error": readErr.Error()})
		return err
	}

	c.bus.PublishWithData(EventClipboardLoaded, c.ID(), map[string]interface{}{"empty": c.view.Empty, "length": len(text)})
	return nil
}

// SubmitSnapshot submits the loaded clipboard text. The placeholder of an
// empty clipboard is never submitted.
func (c *Capture) SubmitSnapshot(ctx context.Context) ([]memory.Extraction, error) {
	c.mu.Lock()
	text, empty := c.view.Original, c.view.Empty || c.view.Original == ""
	c.mu.Unlock()

	if empty {
		c.rejectEmpty()
		return nil, memory.ErrEmptyText
	}
	return c.Submit(ctx, text)
}

// Submit stores text as one user message and renders what was extracted.
// A successful submit leaves edit mode. Failures are toasted and returned.
func (c *Capture) Submit(ctx context.Context, text string) ([]memory.Extraction, error) {
	if text == "" {
		c.rejectEmpty()
		return nil, memory.ErrEmptyText
	}

	c.mu.Lock()
	if !c.life.alive() {
		c.mu.Unlock()
		return nil, ErrDismissed
	}
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.view.Loading = true
	c.host.RenderCapture(c.snapshot())
	c.mu.Unlock()

	c.bus.PublishWithData(EventCaptureSubmitted, c.ID(), map[string]interface{}{"length": len(text)})

	reqCtx, cancel := c.life.bind(ctx)
	defer cancel()
	results, err := c.provider.Add(reqCtx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if !c.life.alive() {
		c.obs.Log().Debug().Str("flow", c.ID()).Msg("capture completed after dismissal, ignoring")
		c.bus.PublishWithData(EventStaleCompletion, c.ID(), nil)
		return nil, ErrDismissed
	}

	c.view.Loading = false
	if err != nil {
		c.host.RenderCapture(c.snapshot())
		c.obs.Log().Error().Str("flow", c.ID()).Err(err).Msg("failed to store memory")
		c.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Failed to store memory", Message: err.Error()})
		c.bus.PublishWithData(EventCaptureFailed, c.ID(), map[string]interface{}{
			"error":  err.Error(),
			"status": memory.StatusCode(err),
		})
		return nil, err
	}

	c.view.Original = text
	c.view.Empty = false
	c.view.Results = results
	c.view.Submitted = true
	c.view.Editing = false
	c.host.RenderCapture(c.snapshot())

	c.obs.Log().Info().Str("flow", c.ID()).Int("results", len(results)).Msg("memory stored")
	c.host.Toast(ui.Toast{
		Style:   ui.ToastSuccess,
		Title:   "Memory stored",
		Message: fmt.Sprintf("Extracted %d memories", len(results)),
	})
	c.bus.PublishWithData(EventCaptureCompleted, c.ID(), map[string]interface{}{"results": len(results)})

	return clone(results), nil
}

// Edit switches to the edit form. It never touches the network.
func (c *Capture) Edit() {
	c.setEditing(true, EventEditStarted)
}

// CancelEdit leaves the edit form without submitting.
func (c *Capture) CancelEdit() {
	c.setEditing(false, EventEditCanceled)
}

func (c *Capture) setEditing(editing bool, event EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.life.alive() || c.view.Editing == editing {
		return
	}
	c.view.Editing = editing
	c.host.RenderCapture(c.snapshot())
	c.bus.PublishWithData(event, c.ID(), nil)
}

// Dismiss ends the view. In-flight requests are canceled and later
// completions render nothing.
func (c *Capture) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.end() {
		c.bus.PublishWithData(EventViewDismissed, c.ID(), map[string]interface{}{"flow": "capture"})
	}
}

func (c *Capture) rejectEmpty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.life.alive() {
		return
	}
	c.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Nothing to capture", Message: memory.ErrEmptyText.Error()})
}
