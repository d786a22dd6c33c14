package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/recall/internal/memory"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/provider"
	"github.com/felixgeelhaar/recall/internal/ui"
)

var (
	// ErrResultsShown is returned by Submit while results are displayed.
	ErrResultsShown = errors.New("results are shown; start a new search first")
	// ErrNoResults is returned by Copy when there is nothing to copy.
	ErrNoResults = errors.New("no search results to copy")
)

// Search queries the Memory Store and presents the matching memories as
// one block of text, which is also copied to the clipboard.
//
// States: Input -> Loading -> Results, or back to Input on failure.
// NewSearch goes from Results to Input.
type Search struct {
	provider provider.Provider
	host     ui.Host
	obs      *observe.Observer
	bus      *EventBus
	life     *lifetime

	mu   sync.Mutex
	view ui.SearchView
}

func NewSearch(p provider.Provider, host ui.Host, obs *observe.Observer, bus *EventBus) *Search {
	if host == nil {
		host = ui.SilentHost{}
	}
	if obs == nil {
		obs = observe.Discard()
	}
	return &Search{
		provider: p,
		host:     host,
		obs:      obs,
		bus:      bus,
		life:     newLifetime(),
		view:     ui.SearchView{State: ui.SearchInput},
	}
}

// ID identifies this search in logs and events.
func (s *Search) ID() string {
	return s.life.id
}

// View returns a copy of the current view state.
func (s *Search) View() ui.SearchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Search) snapshot() ui.SearchView {
	v := s.view
	v.Records = clone(s.view.Records)
	return v
}

// Submit runs query and returns the joined memory texts in server order.
// On success the text is copied to the clipboard; a failed copy is toasted
// but does not fail the search.
func (s *Search) Submit(ctx context.Context, query string) (string, error) {
	if query == "" {
		s.fail(memory.ErrEmptyText)
		return "", memory.ErrEmptyText
	}

	s.mu.Lock()
	if !s.life.alive() {
		s.mu.Unlock()
		return "", ErrDismissed
	}
	switch s.view.State {
	case ui.SearchLoading:
		s.mu.Unlock()
		return "", ErrBusy
	case ui.SearchResults:
		s.mu.Unlock()
		return "", ErrResultsShown
	}
	s.view = ui.SearchView{State: ui.SearchLoading, Query: query}
	s.host.RenderSearch(s.snapshot())
	s.mu.Unlock()

	s.bus.PublishWithData(EventSearchSubmitted, s.ID(), map[string]interface{}{"query": query})

	reqCtx, cancel := s.life.bind(ctx)
	defer cancel()
	records, err := s.provider.Search(reqCtx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.life.alive() {
		s.obs.Log().Debug().Str("flow", s.ID()).Msg("search completed after dismissal, ignoring")
		s.bus.PublishWithData(EventStaleCompletion, s.ID(), nil)
		return "", ErrDismissed
	}

	if err != nil {
		s.view = ui.SearchView{State: ui.SearchInput, Query: query}
		s.host.RenderSearch(s.snapshot())
		s.obs.Log().Error().Str("flow", s.ID()).Err(err).Msg("search failed")
		s.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Search failed", Message: err.Error()})
		s.bus.PublishWithData(EventSearchFailed, s.ID(), map[string]interface{}{
			"error":  err.Error(),
			"status": memory.StatusCode(err),
		})
		return "", err
	}

	text := memory.JoinText(records)
	s.view = ui.SearchView{State: ui.SearchResults, Query: query, Text: text, Records: records}
	s.host.RenderSearch(s.snapshot())

	s.obs.Log().Info().Str("flow", s.ID()).Int("results", len(records)).Msg("search completed")
	s.host.Toast(ui.Toast{
		Style:   ui.ToastSuccess,
		Title:   "Search completed",
		Message: fmt.Sprintf("Found %d results", len(records)),
	})
	s.bus.PublishWithData(EventSearchCompleted, s.ID(), map[string]interface{}{"results": len(records)})

	s.copyLocked(text)
	return text, nil
}

// Copy copies the displayed results to the clipboard again.
func (s *Search) Copy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.life.alive() {
		return ErrDismissed
	}
	if s.view.State != ui.SearchResults {
		return ErrNoResults
	}
	return s.copyLocked(s.view.Text)
}

func (s *Search) copyLocked(text string) error {
	if err := s.host.WriteText(text); err != nil {
		s.obs.Log().Warn().Str("flow", s.ID()).Err(err).Msg("failed to copy results")
		s.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Copy failed", Message: err.Error()})
		s.bus.PublishWithData(EventCopyFailed, s.ID(), map[string]interface{}{"error": err.Error()})
		return err
	}
	s.host.Toast(ui.Toast{Style: ui.ToastSuccess, Title: "Copied to clipboard", Message: "Search results have been copied"})
	s.bus.PublishWithData(EventResultsCopied, s.ID(), map[string]interface{}{"length": len(text)})
	return nil
}

// NewSearch leaves the results and returns to an empty query form.
func (s *Search) NewSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.life.alive() || s.view.State != ui.SearchResults {
		return
	}
	s.view = ui.SearchView{State: ui.SearchInput}
	s.host.RenderSearch(s.snapshot())
	s.bus.PublishWithData(EventNewSearch, s.ID(), nil)
}

// Dismiss ends the view. In-flight requests are canceled and later
// completions render nothing.
func (s *Search) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.life.end() {
		s.bus.PublishWithData(EventViewDismissed, s.ID(), map[string]interface{}{"flow": "search"})
	}
}

func (s *Search) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.life.alive() {
		return
	}
	s.host.Toast(ui.Toast{Style: ui.ToastFailure, Title: "Search failed", Message: err.Error()})
}
