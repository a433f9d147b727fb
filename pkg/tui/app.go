package tui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/models"
)

// statusDuration is how long a StatusMsg stays in the status bar
const statusDuration = 3 * time.Second

type App struct {
	editor      *ConfigEditorModel
	settings    *models.Settings
	quitConfirm *ConfirmationModel
	watcher     *files.Watcher
	width       int
	height      int
	statusMsg   string
	statusWarn  bool
	statusID    int
}

// NewApp loads the config file at path and builds the editor for it
func NewApp(path string, settings *models.Settings) (*App, error) {
	if settings == nil {
		settings = models.DefaultSettings()
	}
	doc, err := files.ReadConfig(path)
	if err != nil {
		return nil, err
	}
	return &App{
		editor:      NewConfigEditorModel(path, doc, settings),
		settings:    settings,
		quitConfirm: NewConfirmation(),
	}, nil
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.editor.Init()}
	if a.settings.UI.WatchFile {
		cmds = append(cmds, startWatching(a.editor.Path()))
	}
	return tea.Batch(cmds...)
}

// Close stops the file watcher
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.editor.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if a.quitConfirm.Active() {
			return a, a.quitConfirm.Update(msg)
		}
		if msg.Type == tea.KeyCtrlC {
			if !a.editor.Dirty() {
				return a, tea.Quit
			}
			a.quitConfirm.ShowDialog(
				"QUIT",
				"You have unsaved changes.",
				"Quitting discards them.",
				true,
				a.width-4,
				func() tea.Cmd { return tea.Quit },
				nil,
			)
			return a, nil
		}

	case StatusMsg:
		a.statusID++
		a.statusMsg = string(msg)
		a.statusWarn = false
		id := a.statusID
		return a, tea.Tick(statusDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{id: id}
		})

	case PersistentStatusMsg:
		a.statusID++
		a.statusMsg = string(msg)
		a.statusWarn = true
		return a, nil

	case clearStatusMsg:
		if msg.id == a.statusID {
			a.statusMsg = ""
			a.statusWarn = false
		}
		return a, nil

	case watchStartedMsg:
		if msg.err != nil {
			log.Printf("watch %s: %v", a.editor.Path(), msg.err)
			return a, nil
		}
		a.watcher = msg.watcher
		return a, waitForChange(a.watcher, a.editor.Path())

	case configChangedMsg:
		next := waitForChange(a.watcher, a.editor.Path())
		name := filepath.Base(a.editor.Path())
		if msg.err != nil {
			log.Printf("re-read %s: %v", a.editor.Path(), msg.err)
			return a, withNext(next, persistentCmd(fmt.Sprintf("⚠ %s changed on disk and cannot be read: %v", name, msg.err)))
		}
		if !a.editor.externalChange(msg.doc) {
			return a, next
		}
		return a, withNext(next, persistentCmd(fmt.Sprintf("⚠ %s changed on disk. ^r reloads, ^s overwrites", name)))
	}

	_, cmd := a.editor.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.quitConfirm.Active() {
		return ContentPaddingStyle.Render(a.quitConfirm.View())
	}

	content := a.editor.View()
	if a.statusMsg != "" {
		style := StatusBarStyle
		if a.statusWarn {
			style = WarningBarStyle
		}
		content = lipgloss.JoinVertical(lipgloss.Top, content, style.Render(a.statusMsg))
	}
	return content
}

// StatusMsg is shown in the status bar and cleared after a few seconds
type StatusMsg string

// PersistentStatusMsg stays in the status bar until replaced
type PersistentStatusMsg string

type clearStatusMsg struct {
	id int
}

func persistentCmd(s string) tea.Cmd {
	return func() tea.Msg {
		return PersistentStatusMsg(s)
	}
}

// withNext batches cmd with the next watch wait, if any
func withNext(next, cmd tea.Cmd) tea.Cmd {
	if next == nil {
		return cmd
	}
	return tea.Batch(next, cmd)
}

type watchStartedMsg struct {
	watcher *files.Watcher
	err     error
}

func startWatching(path string) tea.Cmd {
	return func() tea.Msg {
		w, err := files.Watch(context.Background(), path, files.DefaultDebounce)
		return watchStartedMsg{watcher: w, err: err}
	}
}
