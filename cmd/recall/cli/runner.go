package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/recall/internal/flow"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/provider"
	"github.com/felixgeelhaar/recall/internal/ui"
	"github.com/felixgeelhaar/recall/internal/ui/tui"
)

// Runner drives one capture or search against a provider, either on the
// console or in the interactive TUI.
type Runner struct {
	Observer  *observe.Observer
	Provider  provider.Provider
	Bus       *flow.EventBus
	Clipboard ui.Clipboard

	Out         io.Writer
	ErrOut      io.Writer
	Format      ui.Format
	Interactive bool
}

func NewRunner(obs *observe.Observer, p provider.Provider, bus *flow.EventBus, clip ui.Clipboard) *Runner {
	if obs == nil {
		obs = observe.Discard()
	}
	if clip == nil {
		clip = ui.SystemClipboard{}
	}
	return &Runner{
		Observer:  obs,
		Provider:  p,
		Bus:       bus,
		Clipboard: clip,
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
		Format:    ui.FormatText,
	}
}

// Capture stores the clipboard, or text when hasText is set.
func (r *Runner) Capture(ctx context.Context, text string, hasText, edit bool) error {
	clip := r.Clipboard
	if hasText {
		clip = fixedText{Clipboard: clip, text: text}
	}

	if r.Interactive || edit {
		host := tui.NewHost(clip)
		c := flow.NewCapture(r.Provider, host, r.Observer, r.Bus)
		defer c.Dismiss()
		r.Observer.Log().Info().Str("flow", c.ID()).Msg("starting interactive capture")
		return r.runProgram(ctx, host, tui.NewCaptureModel(ctx, c, edit))
	}

	c := flow.NewCapture(r.Provider, ui.NewConsole(r.Out, r.ErrOut, r.Format, clip), r.Observer, r.Bus)
	defer c.Dismiss()
	if err := c.Load(ctx); err != nil {
		return err
	}
	_, err := c.SubmitSnapshot(ctx)
	return err
}

// Search runs query and prints the joined results.
func (r *Runner) Search(ctx context.Context, query string) error {
	if r.Interactive {
		host := tui.NewHost(r.Clipboard)
		s := flow.NewSearch(r.Provider, host, r.Observer, r.Bus)
		defer s.Dismiss()
		r.Observer.Log().Info().Str("flow", s.ID()).Msg("starting interactive search")
		return r.runProgram(ctx, host, tui.NewSearchModel(ctx, s, query))
	}

	s := flow.NewSearch(r.Provider, ui.NewConsole(r.Out, r.ErrOut, r.Format, r.Clipboard), r.Observer, r.Bus)
	defer s.Dismiss()
	_, err := s.Submit(ctx, query)
	return err
}

func (r *Runner) runProgram(ctx context.Context, host *tui.Host, model tea.Model) error {
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(r.Out))
	host.Attach(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}
	return nil
}

// fixedText reads the given text in place of the clipboard.
type fixedText struct {
	ui.Clipboard
	text string
}

func (f fixedText) ReadText() (string, error) {
	return f.text, nil
}
