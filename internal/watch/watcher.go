// Package watch reports when the image currently on screen changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"docdate/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher follows a single file at a time. It watches the parent
// directory so atomic replacements (write temp, rename over) are seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   logger.Logger

	mu       sync.Mutex
	dir      string
	target   string
	onChange func()
	timer    *time.Timer
	closed   bool
	done     chan struct{}
}

func New(debounce time.Duration, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		logger:   log,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Watch replaces the current target with path. onChange runs on the
// watcher's goroutine after writes settle for the debounce period.
func (w *Watcher) Watch(path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher closed")
	}

	if w.dir != dir {
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		if err := w.fs.Add(dir); err != nil {
			w.dir = ""
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dir = dir
	}

	w.target = abs
	w.onChange = onChange
	w.stopTimerLocked()

	w.logger.Debug("ImageWatcher", "watching", map[string]interface{}{
		"path": abs,
	})
	return nil
}

// Stop drops the current target; events are ignored until the next Watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" && !w.closed {
		_ = w.fs.Remove(w.dir)
	}
	w.dir = ""
	w.target = ""
	w.onChange = nil
	w.stopTimerLocked()
}

func (w *Watcher) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warning("ImageWatcher", "watch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if name != w.target || w.onChange == nil {
		return
	}

	target, cb := w.target, w.onChange
	w.stopTimerLocked()
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.target
		w.mu.Unlock()
		if current == target {
			cb()
		}
	})
}

// Close stops the watcher for good.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.stopTimerLocked()
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done
	return err
}

// Shutdown satisfies shutdown.Shutdownable
func (w *Watcher) Shutdown() {
	if err := w.Close(); err != nil {
		w.logger.Error("ImageWatcher", err, nil)
	}
}
