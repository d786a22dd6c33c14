package flow

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/recall/internal/memory"
	"github.com/felixgeelhaar/recall/internal/ui"
)

// fakeHost records everything the flows ask the UI to do.
type fakeHost struct {
	mu sync.Mutex

	clipboard string
	readErr   error
	writeErr  error

	captures []ui.CaptureView
	searches []ui.SearchView
	toasts   []ui.Toast
	writes   []string
}

func (h *fakeHost) ReadText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clipboard, h.readErr
}

func (h *fakeHost) WriteText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.writeErr != nil {
		return h.writeErr
	}
	h.clipboard = text
	h.writes = append(h.writes, text)
	return nil
}

func (h *fakeHost) RenderCapture(v ui.CaptureView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.captures = append(h.captures, v)
}

func (h *fakeHost) RenderSearch(v ui.SearchView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.searches = append(h.searches, v)
}

func (h *fakeHost) Toast(t ui.Toast) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toasts = append(h.toasts, t)
}

func (h *fakeHost) lastCapture() ui.CaptureView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.captures[len(h.captures)-1]
}

func (h *fakeHost) lastSearch() ui.SearchView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.searches[len(h.searches)-1]
}

func (h *fakeHost) toastTitles() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	titles := make([]string, len(h.toasts))
	for i, t := range h.toasts {
		titles[i] = t.Title
	}
	return titles
}

func (h *fakeHost) renderCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.captures) + len(h.searches)
}

// blockingProvider holds every call until release is closed or the
// request context ends.
type blockingProvider struct {
	started chan struct{}
	release chan struct{}
	results []memory.Memory
}

func newBlockingProvider(results ...memory.Memory) *blockingProvider {
	return &blockingProvider{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		results: results,
	}
}

func (b *blockingProvider) wait(ctx context.Context) error {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *blockingProvider) Add(ctx context.Context, text string) ([]memory.Extraction, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return []memory.Extraction{{Text: text, Event: memory.EventAdd}}, nil
}

func (b *blockingProvider) Search(ctx context.Context, query string) ([]memory.Memory, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.results, nil
}

func (b *blockingProvider) Name() string { return "blocking" }
