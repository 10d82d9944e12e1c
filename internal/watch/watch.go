// Package watch notifies when a rendered file changes on disk.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("watched path does not exist")
)

// DefaultDebounce coalesces bursts of writes into a single event. Editors
// typically produce several filesystem events per save.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that the watched file changed.
type Event struct {
	Path      string
	Timestamp time.Time
}

// Watcher watches a single file for modification, following the common
// save-by-rename pattern by watching the containing directory.
type Watcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching the file at path. A debounce of 0 uses
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fsw,
		path:     absPath,
		debounce: debounce,
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the event channel. It closes when the watcher closes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return err
}

// processLoop converts raw filesystem events into debounced change
// notifications for the watched file.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if fsEvent.Name != w.path {
				continue
			}
			if !fsEvent.Op.Has(fsnotify.Write) && !fsEvent.Op.Has(fsnotify.Create) && !fsEvent.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.events <- Event{Path: w.path, Timestamp: time.Now()}:
			default:
				// Consumer is behind; the pending event already implies
				// a re-render.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
