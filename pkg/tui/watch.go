package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
)

// configChangedMsg carries the config file as re-read after a change on disk
type configChangedMsg struct {
	doc *jsondoc.Object
	err error
}

// waitForChange blocks until the watcher reports a change, then re-reads the
// file. It returns nil once the watcher is closed.
func waitForChange(w *files.Watcher, path string) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		doc, err := files.ReadConfig(path)
		return configChangedMsg{doc: doc, err: err}
	}
}
