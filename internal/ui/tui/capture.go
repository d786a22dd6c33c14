package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/recall/internal/memory"
	"github.com/felixgeelhaar/recall/internal/ui"
)

// Capturer is the capture flow as driven by CaptureModel.
type Capturer interface {
	Load(ctx context.Context) error
	SubmitSnapshot(ctx context.Context) ([]memory.Extraction, error)
	Submit(ctx context.Context, text string) ([]memory.Extraction, error)
	Edit()
	CancelEdit()
	Dismiss()
}

// CaptureModel shows the clipboard text, lets the user edit it, and lists
// the memories extracted after it is stored.
//
// Flow calls run as commands; the flow renders back through Host, so
// Update never calls the flow directly.
type CaptureModel struct {
	ctx          context.Context
	flow         Capturer
	startEditing bool

	view     ui.CaptureView
	editor   textarea.Model
	spinner  spinner.Model
	toast    *ui.Toast
	Quitting bool
}

func NewCaptureModel(ctx context.Context, c Capturer, startEditing bool) CaptureModel {
	editor := textarea.New()
	editor.Placeholder = "Text to remember"
	editor.ShowLineNumbers = false
	editor.SetWidth(76)
	editor.SetHeight(8)

	return CaptureModel{
		ctx:          ctx,
		flow:         c,
		startEditing: startEditing,
		view:         ui.CaptureView{Loading: true},
		editor:       editor,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m CaptureModel) Init() tea.Cmd {
	flow, ctx, startEditing := m.flow, m.ctx, m.startEditing
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		err := flow.Load(ctx)
		if startEditing {
			flow.Edit()
		}
		return flowDoneMsg{err: err}
	})
}

func (m CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.editor.SetWidth(msg.Width - 4)
		}

	case CaptureViewMsg:
		v := ui.CaptureView(msg)
		var cmd tea.Cmd
		if v.Editing && !m.view.Editing {
			seed := v.Original
			if v.Empty {
				seed = ""
			}
			m.editor.SetValue(seed)
			cmd = m.editor.Focus()
		} else if !v.Editing && m.view.Editing {
			m.editor.Blur()
		}
		m.view = v
		return m, cmd

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

	if m.view.Editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m CaptureModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.view.Editing {
		switch msg.Type {
		case tea.KeyCtrlS:
			if m.view.Loading {
				return m, nil
			}
			text := m.editor.Value()
			return m, m.call(func(ctx context.Context) error {
				_, err := m.flow.Submit(ctx, text)
				return err
			})
		case tea.KeyEsc:
			return m, m.call(func(context.Context) error {
				m.flow.CancelEdit()
				return nil
			})
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "enter":
		if m.view.Loading {
			return m, nil
		}
		return m, m.call(func(ctx context.Context) error {
			_, err := m.flow.SubmitSnapshot(ctx)
			return err
		})
	case "ctrl+e":
		if m.view.Loading {
			return m, nil
		}
		return m, m.call(func(context.Context) error {
			m.flow.Edit()
			return nil
		})
	}
	return m, nil
}

func (m CaptureModel) call(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return flowDoneMsg{err: fn(ctx)}
	}
}

func (m CaptureModel) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	flow := m.flow
	return m, func() tea.Msg {
		flow.Dismiss()
		return tea.Quit()
	}
}

func (m CaptureModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Add to Mem0 "))
	if m.view.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if m.view.Editing {
		b.WriteString(sectionStyle.Render("Memory Text") + "\n")
		b.WriteString(m.editor.View() + "\n\n")
		b.WriteString(helpLine(binding{"ctrl+s", "Save to Mem0"}, binding{"esc", "Cancel"}))
	} else {
		b.WriteString(sectionStyle.Render("Original Text") + "\n")
		original := m.view.Original
		if m.view.Empty {
			original = dimStyle.Render(original)
		}
		b.WriteString("  " + original + "\n\n")

		b.WriteString(sectionStyle.Render("Extracted Memories") + "\n")
		for _, r := range m.view.Results {
			b.WriteString(fmt.Sprintf("  • %s  %s\n", r.Text, dimStyle.Render(string(r.Event))))
		}
		if m.view.Submitted && len(m.view.Results) == 0 {
			b.WriteString(dimStyle.Render("  No memories extracted") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(helpLine(binding{"enter", "Add to Mem0"}, binding{"ctrl+e", "Edit Text"}, binding{"q", "Quit"}))
	}

	if line := toastLine(m.toast); line != "" {
		b.WriteString("\n" + line)
	}
	if m.Quitting {
		b.WriteString("\n")
	}
	return b.String() + "\n"
}
