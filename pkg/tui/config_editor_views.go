package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/models"
)

const labelWidth = 24

func (m *ConfigEditorModel) View() string {
	if m.reloadConfirm.Active() {
		return ContentPaddingStyle.Render(m.reloadConfirm.View())
	}

	var s strings.Builder
	s.WriteString(ContentPaddingStyle.Render(m.renderTabs()))
	s.WriteString("\n")
	if m.filterShown() {
		s.WriteString(ContentPaddingStyle.Render(m.filterBar.View()))
		s.WriteString("\n")
	}

	var content strings.Builder
	heading := "EDIT CONFIG"
	if m.filtered != nil {
		heading = fmt.Sprintf("FILTERED FIELDS (%d)", len(m.filtered))
	} else if sec := m.currentSection(); sec != nil {
		heading = "EDIT " + strings.ToUpper(sec.label)
	}
	remaining := m.width - 4 - lipgloss.Width(heading) - 5
	if remaining < 0 {
		remaining = 0
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorActive))
	colonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorActive))
	content.WriteString(ContentPaddingStyle.Render(headerStyle.Render(heading) + " " + colonStyle.Render(strings.Repeat(":", remaining))))
	content.WriteString("\n\n")
	content.WriteString(ContentPaddingStyle.Render(m.viewport.View()))

	paneStyle := ActiveBorderStyle
	if m.width > 4 {
		paneStyle = paneStyle.Width(m.width - 4)
	}
	paneHeight := m.height - 9
	if m.filterShown() {
		paneHeight -= 3
	}
	if paneHeight > 0 {
		paneStyle = paneStyle.Height(paneHeight)
	}
	s.WriteString(ContentPaddingStyle.Render(paneStyle.Render(content.String())))

	help := []string{
		"tab/↑↓ navigate",
		"ctrl+←/→ section",
		"space toggle",
		"esc undo field",
		"^f filter",
		"^y copy",
		"^r reload",
		"^s save",
		"^c quit",
	}
	if m.filterBar.Active() {
		help = []string{
			"enter/↓ edit results",
			"esc clear filter",
			"^c quit",
		}
	}
	helpStyle := HelpBorderStyle
	helpWidth := 0
	if m.width > 4 {
		helpStyle = helpStyle.Width(m.width - 4)
		helpWidth = m.width - 8
	}
	s.WriteString("\n")
	s.WriteString(ContentPaddingStyle.Render(helpStyle.Render(wrapHelpText(help, helpWidth))))

	return s.String()
}

func (m *ConfigEditorModel) renderTabs() string {
	if len(m.sections) == 0 {
		return DescriptionStyle.Render("No editable fields in " + m.path)
	}
	tabs := make([]string, len(m.sections))
	for i, sec := range m.sections {
		label := sec.label
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		if i == m.activeSection && m.filtered == nil {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *ConfigEditorModel) updateViewportContent() {
	rows := m.rows()
	if len(rows) == 0 {
		if m.filtered != nil {
			m.viewport.SetContent(DescriptionStyle.Render("No fields match the filter."))
		} else {
			m.viewport.SetContent(DescriptionStyle.Render("Nothing to edit."))
		}
		m.viewport.SetYOffset(0)
		return
	}

	var content strings.Builder
	lines := 0
	focusLine := 0
	lastGroup := ""

	for i, row := range rows {
		group := groupTitle(row.field.Path)
		if m.filtered != nil {
			group = m.resultGroupTitle(row.field.Path)
		}
		if group != lastGroup {
			if group != "" {
				if lines > 0 {
					content.WriteString("\n")
					lines++
				}
				content.WriteString(GroupHeaderStyle.Render(group))
				content.WriteString("\n")
				lines++
			}
			lastGroup = group
		}

		if i == m.focusIndex {
			focusLine = lines
		}
		content.WriteString(m.renderRow(row, i == m.focusIndex))
		content.WriteString("\n")
		lines++

		if row.err != "" {
			content.WriteString(ErrorStyle.Render("    ✗ " + row.err))
			content.WriteString("\n")
			lines++
		}
	}

	m.viewport.SetContent(content.String())

	if focusLine < m.viewport.YOffset {
		m.viewport.SetYOffset(focusLine)
	} else if m.viewport.Height > 0 && focusLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(focusLine - m.viewport.Height + 1)
	}
}

func (m *ConfigEditorModel) renderRow(row *fieldRow, focused bool) string {
	label := m.fieldLabel(row.field)
	label = truncate.StringWithTail(label, labelWidth-1, "…")
	labelCell := LabelStyle.Width(labelWidth).Render(label)

	var value string
	switch row.field.Kind {
	case formmap.KindBoolean:
		v, _ := m.form.Value(row.field.Path)
		if b, _ := v.(bool); b {
			value = "[✓]"
		} else {
			value = "[ ]"
		}
	default:
		value = row.input.View()
	}

	marker := " "
	if m.form.Changed(row.field.Path) {
		marker = ChangedStyle.Render("*")
	}

	kind := DescriptionStyle.Render(row.field.Kind.String())
	line := labelCell + " " + value + " " + kind
	if focused {
		return FocusedStyle.Render("▸ ") + marker + FocusedStyle.Render(line)
	}
	return "  " + marker + NormalStyle.Render(line)
}

func (m *ConfigEditorModel) fieldLabel(f formmap.Field) string {
	if m.settings.UI.ShowPaths {
		return f.Path.String()
	}
	last, ok := f.Path.Last()
	if ok && !last.IsIndex() {
		return models.Humanize(last.KeyName())
	}
	return f.Label()
}

// resultGroupTitle is groupTitle prefixed with the section label, for filter
// results that span sections.
func (m *ConfigEditorModel) resultGroupTitle(path formmap.FieldPath) string {
	if len(path) == 0 {
		return ""
	}
	title := m.settings.SectionLabel(path[0].KeyName())
	if group := groupTitle(path); group != "" {
		title += " › " + group
	}
	return title
}

// groupTitle names the nested group a field belongs to within its section,
// e.g. "Soft" for tyres.soft.grip or "Curve › [0]" for dirty_air.curve.0.x.
func groupTitle(path formmap.FieldPath) string {
	if len(path) < 3 {
		return ""
	}
	parts := make([]string, 0, len(path)-2)
	for _, seg := range path[1 : len(path)-1] {
		if seg.IsIndex() {
			parts = append(parts, fmt.Sprintf("[%d]", seg.Position()))
		} else {
			parts = append(parts, models.Humanize(seg.KeyName()))
		}
	}
	return strings.Join(parts, " › ")
}
