package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
	"github.com/pluqqy/tpmedit/pkg/models"
	"github.com/pluqqy/tpmedit/pkg/search"
)

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// ConfigEditorModel edits every field of the config document, one section
// per tab.
type ConfigEditorModel struct {
	EditorDataStore
	EditorUIComponents
	EditorViewportManager
	EditorFormInputs
}

type configLoadedMsg struct {
	doc *jsondoc.Object
	err error
}

type configSavedMsg struct {
	doc *jsondoc.Object
}

// NewConfigEditorModel creates an editor for doc, which was read from path
func NewConfigEditorModel(path string, doc *jsondoc.Object, settings *models.Settings) *ConfigEditorModel {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	m := &ConfigEditorModel{
		EditorDataStore: EditorDataStore{
			path:     path,
			settings: settings,
		},
		EditorUIComponents: EditorUIComponents{
			viewport:      viewport.New(80, 20),
			reloadConfirm: NewConfirmation(),
			filterBar:     NewFilterBar(),
		},
	}
	m.setDocument(doc)
	return m
}

func (m *ConfigEditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Dirty reports whether there are edits that have not been saved
func (m *ConfigEditorModel) Dirty() bool {
	if m.form.Dirty() {
		return true
	}
	return m.firstInvalidRow() != nil
}

// Path returns the config file being edited
func (m *ConfigEditorModel) Path() string {
	return m.path
}

// Document returns the document as last loaded or saved
func (m *ConfigEditorModel) Document() *jsondoc.Object {
	return m.doc
}

// setDocument replaces the form with a fresh one for doc, keeping the active
// section and focus when they still exist.
func (m *ConfigEditorModel) setDocument(doc *jsondoc.Object) {
	activeKey := ""
	if s := m.currentSection(); s != nil {
		activeKey = s.key
	}

	m.doc = doc
	m.form = formmap.NewForm(doc, m.settings.Number.Bounds())
	m.buildSections()

	m.activeSection = 0
	for i, s := range m.sections {
		if s.key == activeKey {
			m.activeSection = i
			break
		}
	}
	if m.filtered != nil {
		m.applyFilter()
	}
	if m.focusIndex >= len(m.rows()) {
		m.focusIndex = 0
	}
	m.updateFocus()
	m.updateViewportContent()
}

func (m *ConfigEditorModel) buildSections() {
	byKey := make(map[string]formmap.Section)
	var keys []string
	for _, sec := range m.form.Sections() {
		byKey[sec.Key] = sec
		keys = append(keys, sec.Key)
	}

	m.sections = m.sections[:0]
	m.rowsByPath = make(map[string]*fieldRow)
	for _, key := range m.settings.OrderSections(keys) {
		es := editorSection{key: key, label: m.settings.SectionLabel(key)}
		for _, f := range byKey[key].Fields {
			row := m.newRow(f)
			es.rows = append(es.rows, row)
			m.rowsByPath[f.Path.String()] = row
		}
		m.sections = append(m.sections, es)
	}
}

func (m *ConfigEditorModel) newRow(f formmap.Field) *fieldRow {
	row := &fieldRow{field: f}
	if f.Kind == formmap.KindBoolean {
		return row
	}

	row.input = textinput.New()
	row.input.Prompt = ""
	row.input.CharLimit = 512
	row.input.Width = 40
	switch f.Kind {
	case formmap.KindNumber:
		row.input.Placeholder = "0"
		row.input.CharLimit = 32
	case formmap.KindScalarList:
		row.input.Placeholder = "a, b, c"
	}
	row.input.SetValue(m.form.DisplayValue(f.Path))
	return row
}

func (m *ConfigEditorModel) currentSection() *editorSection {
	if m.activeSection < 0 || m.activeSection >= len(m.sections) {
		return nil
	}
	return &m.sections[m.activeSection]
}

// rows returns the rows on screen: the filter results while a filter is
// applied, otherwise the active section.
func (m *ConfigEditorModel) rows() []*fieldRow {
	if m.filtered != nil {
		return m.filtered
	}
	if s := m.currentSection(); s != nil {
		return s.rows
	}
	return nil
}

func (m *ConfigEditorModel) focusedRow() *fieldRow {
	rows := m.rows()
	if m.focusIndex < 0 || m.focusIndex >= len(rows) {
		return nil
	}
	return rows[m.focusIndex]
}

// Filtering reports whether a filter is applied
func (m *ConfigEditorModel) Filtering() bool {
	return m.filtered != nil
}

// applyFilter runs the filter query over the current field values. A query
// that does not parse keeps the previous results.
func (m *ConfigEditorModel) applyFilter() {
	query := strings.TrimSpace(m.filterBar.Value())
	if query == "" {
		m.filtered = nil
		m.filterBar.SetError("")
		return
	}

	results, err := search.NewEngine(m.form).Search(query)
	if err != nil {
		m.filterBar.SetError(err.Error())
		if m.filtered == nil {
			m.filtered = []*fieldRow{}
		}
		return
	}
	m.filterBar.SetError("")

	m.filtered = make([]*fieldRow, 0, len(results))
	for _, item := range results {
		if row, ok := m.rowsByPath[item.Path]; ok {
			m.filtered = append(m.filtered, row)
		}
	}
}

func (m *ConfigEditorModel) clearFilter() {
	m.filterBar.Reset()
	m.filterBar.SetActive(false)
	m.filtered = nil
	m.focusIndex = 0
	m.viewport.SetYOffset(0)
	m.updateViewportSize()
	m.updateFocus()
	m.updateViewportContent()
}

func (m *ConfigEditorModel) updateFocus() {
	focused := m.focusedRow()
	if m.filterBar.Active() {
		focused = nil
	}
	for _, s := range m.sections {
		for _, row := range s.rows {
			if row == focused && row.field.Kind != formmap.KindBoolean {
				row.input.Focus()
			} else {
				row.input.Blur()
			}
		}
	}
}

// moveFocus leaves the current row, normalising its text, and focuses the row
// at index.
func (m *ConfigEditorModel) moveFocus(index int) {
	if row := m.focusedRow(); row != nil {
		m.normalizeRow(row)
	}
	m.focusIndex = index
	m.updateFocus()
	m.updateViewportContent()
}

func (m *ConfigEditorModel) switchSection(index int) {
	if index < 0 || index >= len(m.sections) {
		return
	}
	if index == m.activeSection && m.filtered == nil {
		return
	}
	if row := m.focusedRow(); row != nil {
		m.normalizeRow(row)
	}
	if m.filtered != nil {
		m.filterBar.Reset()
		m.filtered = nil
		m.updateViewportSize()
	}
	m.activeSection = index
	m.focusIndex = 0
	m.viewport.SetYOffset(0)
	m.updateFocus()
	m.updateViewportContent()
}

// normalizeRow shows numbers as stored, after clamping and rounding
func (m *ConfigEditorModel) normalizeRow(row *fieldRow) {
	if row.field.Kind == formmap.KindNumber && row.err == "" {
		row.input.SetValue(m.form.DisplayValue(row.field.Path))
	}
}

// savedDocument makes doc the loaded document after a save. Edits made while
// the write was in flight differ from doc and are carried over. It returns
// the number of such edits.
func (m *ConfigEditorModel) savedDocument(doc *jsondoc.Object) int {
	type pendingEdit struct {
		kind formmap.Kind
		raw  any
		text string
	}

	pending := make(map[string]pendingEdit)
	for _, s := range m.sections {
		for _, row := range s.rows {
			edit := pendingEdit{kind: row.field.Kind}
			if row.field.Kind != formmap.KindBoolean {
				edit.text = row.input.Value()
			}
			if row.err == "" {
				raw, _ := m.form.Value(row.field.Path)
				current, err := row.field.ReadBack(raw)
				saved, lerr := formmap.Lookup(doc, row.field.Path)
				if err == nil && lerr == nil && jsondoc.Equal(current, saved) {
					continue
				}
				edit.raw = raw
			}
			pending[row.field.Path.String()] = edit
		}
	}

	m.setDocument(doc)

	for key, edit := range pending {
		row, ok := m.rowsByPath[key]
		if !ok || row.field.Kind != edit.kind {
			continue
		}
		if edit.kind == formmap.KindBoolean {
			b, _ := edit.raw.(bool)
			if err := m.form.SetBool(row.field.Path, b); err != nil {
				log.Printf("restore %s: %v", key, err)
			}
			continue
		}
		row.input.SetValue(edit.text)
		m.applyRow(row)
	}
	if len(pending) > 0 {
		m.updateViewportContent()
	}
	return len(pending)
}

func (m *ConfigEditorModel) applyRow(row *fieldRow) {
	if err := m.form.Apply(row.field.Path, row.input.Value()); err != nil {
		row.err = err.Error()
		return
	}
	row.err = ""
}

func (m *ConfigEditorModel) toggleRow(row *fieldRow) {
	current, _ := m.form.Value(row.field.Path)
	b, _ := current.(bool)
	if err := m.form.SetBool(row.field.Path, !b); err != nil {
		log.Printf("toggle %s: %v", row.field.Path, err)
	}
}

func (m *ConfigEditorModel) resetRow(row *fieldRow) {
	m.form.Reset(row.field.Path)
	row.err = ""
	if row.field.Kind != formmap.KindBoolean {
		row.input.SetValue(m.form.DisplayValue(row.field.Path))
	}
}

func (m *ConfigEditorModel) firstInvalidRow() *fieldRow {
	for _, s := range m.sections {
		for _, row := range s.rows {
			if row.err != "" {
				return row
			}
		}
	}
	return nil
}

func (m *ConfigEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case configSavedMsg:
		pending := m.savedDocument(msg.doc)
		log.Printf("saved %s", m.path)
		if pending > 0 {
			return m, statusCmd(fmt.Sprintf("✓ Saved %s (%d newer edits unsaved)", m.path, pending))
		}
		return m, statusCmd(fmt.Sprintf("✓ Saved %s", m.path))

	case configLoadedMsg:
		if msg.err != nil {
			return m, statusCmd(fmt.Sprintf("✗ Failed to reload: %v", msg.err))
		}
		m.setDocument(msg.doc)
		return m, statusCmd(fmt.Sprintf("✓ Reloaded %s", m.path))

	case tea.KeyMsg:
		if m.reloadConfirm.Active() {
			return m, m.reloadConfirm.Update(msg)
		}
		if m.filterBar.Active() {
			return m, m.updateFilterBar(msg)
		}

		row := m.focusedRow()
		switch msg.String() {
		case "ctrl+s":
			return m, m.save()

		case "ctrl+r":
			if !m.Dirty() {
				return m, m.load()
			}
			m.reloadConfirm.ShowDialog(
				"RELOAD CONFIG",
				"You have unsaved changes.",
				"Reloading discards them.",
				true,
				m.width-4,
				func() tea.Cmd { return m.load() },
				func() tea.Cmd {
					m.updateViewportContent()
					return nil
				},
			)
			return m, nil

		case "ctrl+f":
			if row != nil {
				m.normalizeRow(row)
			}
			cmd = m.filterBar.SetActive(true)
			m.updateViewportSize()
			m.updateFocus()
			m.updateViewportContent()
			return m, cmd

		case "ctrl+y":
			if row == nil {
				return m, nil
			}
			return m, m.copyField(row)

		case "ctrl+right", "alt+right":
			m.switchSection((m.activeSection + 1) % max(len(m.sections), 1))
			return m, nil

		case "ctrl+left", "alt+left":
			n := max(len(m.sections), 1)
			m.switchSection((m.activeSection + n - 1) % n)
			return m, nil

		case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9":
			n, _ := strconv.Atoi(msg.String()[len("alt+"):])
			m.switchSection(n - 1)
			return m, nil

		case "up":
			if m.focusIndex > 0 {
				m.moveFocus(m.focusIndex - 1)
			}
			return m, nil

		case "down":
			if m.focusIndex < len(m.rows())-1 {
				m.moveFocus(m.focusIndex + 1)
			}
			return m, nil

		case "tab":
			if n := len(m.rows()); n > 0 {
				m.moveFocus((m.focusIndex + 1) % n)
			}
			return m, nil

		case "shift+tab":
			if n := len(m.rows()); n > 0 {
				m.moveFocus((m.focusIndex + n - 1) % n)
			}
			return m, nil

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "esc":
			if row != nil {
				m.resetRow(row)
				m.updateViewportContent()
			}
			return m, nil

		case " ", "enter":
			if row != nil && row.field.Kind == formmap.KindBoolean {
				m.toggleRow(row)
				m.updateViewportContent()
				return m, nil
			}
			if msg.String() == "enter" {
				if row != nil {
					m.normalizeRow(row)
				}
				m.updateViewportContent()
				return m, nil
			}
		}

		if row != nil && row.field.Kind != formmap.KindBoolean {
			prev := row.input.Value()
			row.input, cmd = row.input.Update(msg)
			cmds = append(cmds, cmd)
			if row.input.Value() != prev {
				m.applyRow(row)
			}
			m.updateViewportContent()
		}
		return m, tea.Batch(cmds...)
	}

	if row := m.focusedRow(); row != nil && row.field.Kind != formmap.KindBoolean {
		row.input, cmd = row.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateFilterBar handles keys while the filter bar has focus. enter or down
// moves into the results, esc drops the filter.
func (m *ConfigEditorModel) updateFilterBar(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.clearFilter()
		return nil
	case "enter", "down", "tab":
		m.filterBar.SetActive(false)
		if strings.TrimSpace(m.filterBar.Value()) == "" {
			m.clearFilter()
			return nil
		}
		m.focusIndex = 0
		m.updateViewportSize()
		m.updateFocus()
		m.updateViewportContent()
		return nil
	}

	prev := m.filterBar.Value()
	_, cmd := m.filterBar.Update(msg)
	if m.filterBar.Value() != prev {
		m.applyFilter()
		m.focusIndex = 0
		m.viewport.SetYOffset(0)
		m.updateViewportSize()
		m.updateViewportContent()
	}
	return cmd
}

func (m *ConfigEditorModel) load() tea.Cmd {
	path := m.path
	return func() tea.Msg {
		doc, err := files.ReadConfig(path)
		return configLoadedMsg{doc: doc, err: err}
	}
}

func (m *ConfigEditorModel) save() tea.Cmd {
	if row := m.firstInvalidRow(); row != nil {
		return statusCmd(fmt.Sprintf("✗ Not saved: %s", row.err))
	}

	doc, err := m.form.Rebuild()
	if err != nil {
		return statusCmd(fmt.Sprintf("✗ Failed to save: %v", err))
	}

	path, indent := m.path, m.settings.Output.Indent
	return func() tea.Msg {
		if err := files.WriteConfig(path, doc, indent); err != nil {
			log.Printf("save %s: %v", path, err)
			return StatusMsg(fmt.Sprintf("✗ Failed to save: %v", err))
		}
		return configSavedMsg{doc: doc}
	}
}

func (m *ConfigEditorModel) copyField(row *fieldRow) tea.Cmd {
	text := fmt.Sprintf("%s = %s", row.field.Path, m.form.DisplayValue(row.field.Path))
	path := row.field.Path.String()
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return StatusMsg(fmt.Sprintf("✗ Failed to copy: %v", err))
		}
		return StatusMsg(fmt.Sprintf("✓ Copied %s", path))
	}
}

// externalChange reports whether doc, freshly read from disk, differs from
// the document this editor last loaded or saved.
func (m *ConfigEditorModel) externalChange(doc *jsondoc.Object) bool {
	return !jsondoc.Equal(m.doc, doc)
}

func (m *ConfigEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateViewportSize()
	m.updateViewportContent()
}

func (m *ConfigEditorModel) updateViewportSize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.filterBar.SetWidth(m.width - 2)
	m.viewport.Width = m.width - 8
	m.viewport.Height = m.height - 12 // tabs, heading, borders, help pane, status bar
	if m.filterShown() {
		m.viewport.Height -= 3
	}
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
}

func (m *ConfigEditorModel) filterShown() bool {
	return m.filterBar.Active() || m.filtered != nil
}

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(s)
	}
}
