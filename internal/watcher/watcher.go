// Package watcher reports changes to the configured note file.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quicknote/quicknote/internal/checksum"
	"github.com/quicknote/quicknote/internal/storage"
)

// Change kinds passed to Callback.
const (
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Callback is called after the watched file's content changes or the file
// disappears. sum is empty for KindDeleted.
type Callback func(kind, path, sum string)

// Watcher follows one note file. It watches the parent directory rather than
// the file itself so that editors which save by rename are still seen.
type Watcher struct {
	store    storage.Provider
	logger   *slog.Logger
	debounce time.Duration
	cb       Callback

	mu      sync.Mutex
	pending string
	notify  chan struct{}
}

// New creates a Watcher for initial (which may be empty, meaning idle).
func New(store storage.Provider, logger *slog.Logger, debounce time.Duration, initial string, cb Callback) *Watcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	w := &Watcher{
		store:    store,
		logger:   logger,
		debounce: debounce,
		cb:       cb,
		notify:   make(chan struct{}, 1),
	}
	w.Retarget(initial)
	return w
}

// Retarget switches the watched file. It never blocks; only the most recent
// target is applied.
func (w *Watcher) Retarget(path string) {
	w.mu.Lock()
	w.pending = path
	w.mu.Unlock()
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// target is the loop-owned state for the currently watched file.
type target struct {
	path    string
	dir     string
	present bool
	sum     string
}

// Run processes file-system events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	var cur target

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(w.debounce)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(w.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-w.notify:
			w.mu.Lock()
			next := w.pending
			w.mu.Unlock()
			cur = w.switchTarget(fsw, cur, next)

		case <-debounceCh:
			cur = w.check(cur)

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if cur.path == "" || filepath.Clean(ev.Name) != cur.path {
				continue
			}
			w.logger.Debug("watcher: event", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// switchTarget stops watching cur's directory, starts watching next's, and
// records a baseline checksum so the first event reflects a real change.
func (w *Watcher) switchTarget(fsw *fsnotify.Watcher, cur target, next string) target {
	if cur.dir != "" {
		_ = fsw.Remove(cur.dir)
	}
	if next == "" {
		w.logger.Info("watcher: idle")
		return target{}
	}

	abs, err := filepath.Abs(next)
	if err != nil {
		w.logger.Warn("watcher: resolve path failed", slog.String("path", next), slog.String("error", err.Error()))
		return target{}
	}
	t := target{path: abs, dir: filepath.Dir(abs)}
	if err := fsw.Add(t.dir); err != nil {
		w.logger.Warn("watcher: watch dir failed", slog.String("dir", t.dir), slog.String("error", err.Error()))
		t.dir = ""
	}
	if data, err := w.store.Read(abs); err == nil {
		t.present = true
		t.sum = checksum.Sum(data)
	}
	w.logger.Info("watcher: started", slog.String("path", abs))
	return t
}

// check re-reads the target and fires the callback if it changed.
func (w *Watcher) check(cur target) target {
	if cur.path == "" {
		return cur
	}
	data, err := w.store.Read(cur.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("watcher: read failed", slog.String("path", cur.path), slog.String("error", err.Error()))
			return cur
		}
		if cur.present {
			cur.present = false
			cur.sum = ""
			w.emit(KindDeleted, cur.path, "")
		}
		return cur
	}

	sum := checksum.Sum(data)
	if cur.present && sum == cur.sum {
		return cur
	}
	cur.present = true
	cur.sum = sum
	w.emit(KindUpdated, cur.path, sum)
	return cur
}

func (w *Watcher) emit(kind, path, sum string) {
	w.logger.Debug("watcher: change", slog.String("kind", kind), slog.String("path", path))
	if w.cb != nil {
		w.cb(kind, path, sum)
	}
}
