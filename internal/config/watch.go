package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/draftsmith/draftsmith/internal/log"
)

// debounceInterval coalesces the write bursts editors produce when
// saving a file.
const debounceInterval = 200 * time.Millisecond

// Watcher re-loads a config file when it changes and hands the result
// to a callback. Watching the directory instead of the file survives
// the rename-over-save pattern.
type Watcher struct {
	path    string
	onLoad  func(Config)
	logger  *log.Logger
	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending *time.Timer
}

// Watch starts watching path. onLoad runs on the watcher goroutine for
// every successful reload; load failures are logged and skipped.
func Watch(path string, onLoad func(Config), logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Null
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	w := &Watcher{
		path:   path,
		onLoad: onLoad,
		logger: logger.WithComponent("config"),
		fsw:    fsw,
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("reload %s: %v", w.path, err)
		return
	}
	w.logger.Info("reloaded %s", w.path)
	w.onLoad(cfg)
}

// Close stops watching. Pending debounced reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
