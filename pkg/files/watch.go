package files

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of file events into one change.
const DefaultDebounce = 150 * time.Millisecond

// Change reports that the watched file was modified on disk.
type Change struct {
	Path string
	Op   string
	Time time.Time
}

// Watcher reports changes to a single file. The parent directory is watched
// so atomic replacements (write temp, rename) are seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Change
	cancel   context.CancelFunc
	done     chan struct{}
}

// Watch starts watching path until ctx is cancelled or Close is called.
func Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		events:   make(chan Change, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(ctx)

	return w, nil
}

// Events delivers one Change per burst of modifications. The channel is
// closed when the watcher stops.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Close stops the watcher and waits for it to exit.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	var pending Change

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			pending = Change{Path: w.path, Op: event.Op.String(), Time: time.Now()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.events <- pending:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch %s: %v", w.path, err)
		}
	}
}
