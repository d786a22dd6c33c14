package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/recall/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4"))

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000"))

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#777777"))
)

type binding struct {
	key, action string
}

func helpLine(bindings ...binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.key + " " + dimStyle.Render(b.action)
	}
	return strings.Join(parts, dimStyle.Render(" • "))
}

func toastLine(t *ui.Toast) string {
	if t == nil {
		return ""
	}
	line := t.Title
	if t.Message != "" {
		line += ": " + t.Message
	}
	if t.Style == ui.ToastFailure {
		return errorStyle.Render("✗ " + line)
	}
	return infoStyle.Render("✓ " + line)
}
