package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/recall/internal/ui"
)

// Searcher is the search flow as driven by SearchModel.
type Searcher interface {
	Submit(ctx context.Context, query string) (string, error)
	Copy() error
	NewSearch()
	Dismiss()
}

// SearchModel asks for a query and shows the joined results.
type SearchModel struct {
	ctx     context.Context
	flow    Searcher
	initial string

	view     ui.SearchView
	input    textinput.Model
	spinner  spinner.Model
	results  viewport.Model
	toast    *ui.Toast
	Quitting bool
}

// NewSearchModel builds the search UI. A non-empty query is submitted
// as soon as the program starts.
func NewSearchModel(ctx context.Context, s Searcher, query string) SearchModel {
	input := textinput.New()
	input.Placeholder = "What would you like to search for?"
	input.Prompt = "› "
	input.Width = 60
	input.SetValue(query)
	input.Focus()

	return SearchModel{
		ctx:     ctx,
		flow:    s,
		initial: query,
		view:    ui.SearchView{State: ui.SearchInput},
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		results: viewport.New(80, 20),
	}
}

func (m SearchModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.initial != "" {
		cmds = append(cmds, m.submit(m.initial))
	}
	return tea.Batch(cmds...)
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.results.Width = msg.Width
		if msg.Height > 6 {
			m.results.Height = msg.Height - 6
		}
		if m.view.State == ui.SearchResults {
			m.results.SetContent(resultsDocument(m.view))
		}

	case SearchViewMsg:
		return m.setView(ui.SearchView(msg))

	case ToastMsg:
		t := ui.Toast(msg)
		m.toast = &t

	case flowDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.view.State == ui.SearchInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SearchModel) setView(v ui.SearchView) (tea.Model, tea.Cmd) {
	prev := m.view.State
	m.view = v

	switch v.State {
	case ui.SearchResults:
		m.input.Blur()
		m.results.SetContent(resultsDocument(v))
		m.results.GotoTop()
	case ui.SearchInput:
		if prev == ui.SearchResults {
			m.input.Reset()
		}
		return m, m.input.Focus()
	case ui.SearchLoading:
		m.input.Blur()
	}
	return m, nil
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.view.State {
	case ui.SearchInput:
		switch msg.Type {
		case tea.KeyEnter:
			query := m.input.Value()
			if query == "" {
				return m, nil
			}
			return m, m.submit(query)
		case tea.KeyEsc:
			return m.quit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case ui.SearchLoading:
		if msg.Type == tea.KeyEsc {
			return m.quit()
		}

	case ui.SearchResults:
		switch msg.String() {
		case "ctrl+y":
			flow := m.flow
			return m, func() tea.Msg { return flowDoneMsg{err: flow.Copy()} }
		case "ctrl+n":
			flow := m.flow
			return m, func() tea.Msg {
				flow.NewSearch()
				return flowDoneMsg{}
			}
		case "q", "esc":
			return m.quit()
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SearchModel) submit(query string) tea.Cmd {
	ctx, flow := m.ctx, m.flow
	return func() tea.Msg {
		_, err := flow.Submit(ctx, query)
		return flowDoneMsg{err: err}
	}
}

func (m SearchModel) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	flow := m.flow
	return m, func() tea.Msg {
		flow.Dismiss()
		return tea.Quit()
	}
}

// resultsDocument is the text shown for a completed search.
func resultsDocument(v ui.SearchView) string {
	return fmt.Sprintf("# Search Results for \"%s\"\n\n%s", v.Query, v.Text)
}

func (m SearchModel) View() string {
	var b strings.Builder

	switch m.view.State {
	case ui.SearchResults:
		b.WriteString(titleStyle.Render(" Search Results: "+m.view.Query+" ") + "\n\n")
		b.WriteString(m.results.View() + "\n\n")
		b.WriteString(helpLine(binding{"ctrl+y", "Copy Results"}, binding{"ctrl+n", "New Search"}, binding{"q", "Quit"}))
	default:
		b.WriteString(titleStyle.Render(" Search Memories "))
		if m.view.State == ui.SearchLoading {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n\n")
		b.WriteString(sectionStyle.Render("Search Query") + "\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(helpLine(binding{"enter", "Search Memories"}, binding{"esc", "Quit"}))
	}

	if line := toastLine(m.toast); line != "" {
		b.WriteString("\n" + line)
	}
	return b.String() + "\n"
}
