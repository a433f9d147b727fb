package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
	"github.com/pluqqy/tpmedit/pkg/models"
)

// EditorDataStore holds the document being edited and its form
type EditorDataStore struct {
	path     string
	doc      *jsondoc.Object // as last loaded or saved
	form     *formmap.Form
	settings *models.Settings
}

// EditorUIComponents manages UI-specific components
type EditorUIComponents struct {
	viewport      viewport.Model
	reloadConfirm *ConfirmationModel
	filterBar     *FilterBar
}

// EditorViewportManager manages viewport and layout
type EditorViewportManager struct {
	width  int
	height int
}

// EditorFormInputs manages the per-section field rows and focus
type EditorFormInputs struct {
	sections      []editorSection
	activeSection int
	focusIndex    int

	rowsByPath map[string]*fieldRow
	filtered   []*fieldRow // non-nil while a filter is applied
}

// editorSection is one tab of the editor
type editorSection struct {
	key   string
	label string
	rows  []*fieldRow
}

// fieldRow is the widget state of one field
type fieldRow struct {
	field formmap.Field
	input textinput.Model // unused for booleans
	err   string          // last rejected input
}
