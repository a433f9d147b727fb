package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// ConfirmationConfig holds the configuration for a confirmation dialog
type ConfirmationConfig struct {
	Title       string
	Message     string
	Warning     string   // shown in orange below the message
	Details     []string // optional bullet lines
	Destructive bool     // if true, yes is red and no is green
	Width       int
}

// ConfirmationModel handles yes/no prompts
type ConfirmationModel struct {
	active    bool
	config    ConfirmationConfig
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the confirmation with the given configuration
func (m *ConfirmationModel) Show(config ConfirmationConfig, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = config
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

// ShowDialog is shorthand for a titled dialog without details
func (m *ConfirmationModel) ShowDialog(title, message, warning string, destructive bool, width int, onConfirm, onCancel func() tea.Cmd) {
	m.Show(ConfirmationConfig{
		Title:       title,
		Message:     message,
		Warning:     warning,
		Destructive: destructive,
		Width:       width,
	}, onConfirm, onCancel)
}

// Hide deactivates the confirmation
func (m *ConfirmationModel) Hide() {
	m.active = false
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}

	return nil
}

// View renders the dialog
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}

	width := m.config.Width
	if width < 30 {
		width = 60
	}
	inner := width - 4

	center := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWarning))
	warningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorNormal))

	var b strings.Builder
	if m.config.Title != "" {
		b.WriteString(center.Render(titleStyle.Render(m.config.Title)))
		b.WriteString("\n\n")
	}
	if m.config.Message != "" {
		b.WriteString(center.Render(wordwrap.String(m.config.Message, inner)))
		b.WriteString("\n")
	}
	if m.config.Warning != "" {
		b.WriteString("\n")
		b.WriteString(center.Render(warningStyle.Render(wordwrap.String(m.config.Warning, inner))))
		b.WriteString("\n")
	}
	if len(m.config.Details) > 0 {
		b.WriteString("\n")
		for _, d := range m.config.Details {
			b.WriteString(detailStyle.Render("  • " + d))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(center.Render(formatConfirmOptions(m.config.Destructive)))

	return ActiveBorderStyle.
		Width(width).
		Padding(1, 1).
		Render(b.String())
}
