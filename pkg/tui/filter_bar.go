package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilterBar is the field filter input shown above the editor pane
type FilterBar struct {
	input    textinput.Model
	isActive bool
	width    int
	err      string
}

// NewFilterBar creates a new filter bar
func NewFilterBar() *FilterBar {
	ti := textinput.New()
	ti.Placeholder = "grip, kind:number value:>1, section:tyres..."
	ti.CharLimit = 100
	ti.Width = 50 // adjusted by SetWidth

	return &FilterBar{
		input: ti,
	}
}

// SetActive sets whether the filter bar has keyboard focus
func (f *FilterBar) SetActive(active bool) tea.Cmd {
	f.isActive = active
	if active {
		return f.input.Focus()
	}
	f.input.Blur()
	return nil
}

// Active reports whether the filter bar has keyboard focus
func (f *FilterBar) Active() bool {
	return f.isActive
}

// SetWidth sets the width for the filter bar
func (f *FilterBar) SetWidth(width int) {
	f.width = width
	// borders, padding and the icon
	f.input.Width = width - 12
	if f.input.Width < 10 {
		f.input.Width = 10
	}
}

func (f *FilterBar) Value() string {
	return f.input.Value()
}

func (f *FilterBar) SetValue(value string) {
	f.input.SetValue(value)
}

// SetError shows err under the input; an empty string clears it
func (f *FilterBar) SetError(err string) {
	f.err = err
}

func (f *FilterBar) Update(msg tea.Msg) (*FilterBar, tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

func (f *FilterBar) View() string {
	borderColor := ColorInactive
	if f.isActive {
		borderColor = ColorActive
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1)
	if f.width > 4 {
		style = style.Width(f.width - 4)
	}

	var icon string
	if f.isActive {
		icon = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorActive)).
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Padding(0, 1).
			Render("⌕")
	} else {
		icon = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Bold(true).
			Render(" ⌕ ")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center, icon, " ", f.input.View())
	if f.err != "" {
		content += "\n" + ErrorStyle.Render("✗ "+f.err)
	}
	return style.Render(content)
}

// Reset clears the input and any error
func (f *FilterBar) Reset() {
	f.input.SetValue("")
	f.err = ""
}
