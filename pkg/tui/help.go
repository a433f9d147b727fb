package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	helpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNormal))
	helpSepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorVeryDim))
)

// formatHelpText joins help items with a dim separator
func formatHelpText(items []string) string {
	rendered := make([]string, len(items))
	for i, item := range items {
		rendered[i] = helpKeyStyle.Render(item)
	}
	return strings.Join(rendered, helpSepStyle.Render(" • "))
}

// wrapHelpText wraps joined help items to width, breaking only between items
func wrapHelpText(items []string, width int) string {
	if width <= 0 {
		return formatHelpText(items)
	}
	plain := strings.Join(items, " • ")
	if lipgloss.Width(plain) <= width {
		return formatHelpText(items)
	}

	// Non-breaking spaces keep each item on one line.
	protected := make([]string, len(items))
	for i, item := range items {
		protected[i] = strings.ReplaceAll(item, " ", "\u00a0")
	}
	wrapped := wordwrap.String(strings.Join(protected, " • "), width)
	wrapped = strings.ReplaceAll(wrapped, "\u00a0", " ")

	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = helpKeyStyle.Render(strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

// formatConfirmOptions renders the y/n choice; destructive prompts colour yes red
func formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSuccess))
	no := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorDanger))
	if destructive {
		yes, no = no, yes
	}
	return yes.Render("[y]es") + " / " + no.Render("[n]o")
}
