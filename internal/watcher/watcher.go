// Package watcher reloads the report-spec catalog when the user spec
// directory changes.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"egeriactl/internal/config"
	"egeriactl/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Reloader rebuilds state from disk. *reportspec.Catalog satisfies it.
type Reloader interface {
	Reload() (*config.ConfigurationErrorCollection, error)
}

// ReloadResult describes one debounced reload.
type ReloadResult struct {
	Files  []string // changed files that triggered the reload
	Errors *config.ConfigurationErrorCollection
	Err    error
	At     time.Time
}

// Watcher uses fsnotify to watch a directory of JSON report-spec documents
// and calls Reload once a burst of changes has settled.
type Watcher struct {
	mu sync.Mutex

	dir      string
	debounce time.Duration
	target   Reloader
	onReload func(ReloadResult)

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates a watcher for dir. A zero debounce uses config.DefaultDebounce.
func New(dir string, debounce time.Duration, target Reloader) *Watcher {
	if debounce <= 0 {
		debounce = config.DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		target:   target,
	}
}

// OnReload registers fn to be called after every reload.
func (w *Watcher) OnReload(fn func(ReloadResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Start begins watching. The directory is created if it does not exist.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.processEvents(ctx, fsw, w.stopCh)

	logging.Info("Watcher", "Watching %s for report spec changes", w.dir)
	return nil
}

// Stop ends watching and waits for the event loop to exit. Pending changes
// that have not yet settled are discarded.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	if err := fsw.Close(); err != nil {
		logging.Error("Watcher", err, "Error closing filesystem watcher")
		return err
	}
	logging.Debug("Watcher", "Stopped watching %s", w.dir)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher, stopCh <-chan struct{}) {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]bool)
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case <-stopCh:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			pending[event.Name] = true
			stopTimer()
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")

		case <-timerC:
			timer, timerC = nil, nil
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			slices.Sort(files)
			clear(pending)
			w.reload(files)
		}
	}
}

func (w *Watcher) reload(files []string) {
	result := ReloadResult{Files: files, At: time.Now()}
	result.Errors, result.Err = w.target.Reload()

	switch {
	case result.Err != nil:
		logging.Error("Watcher", result.Err, "Reload after changes to %d files failed", len(files))
	case result.Errors.HasErrors():
		logging.Warn("Watcher", "Reloaded with %d bad files:\n%s", result.Errors.Count(), result.Errors.GetSummary())
	default:
		logging.Info("Watcher", "Reloaded report specs after changes to %s", strings.Join(baseNames(files), ", "))
	}

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(result)
	}
}

// relevant reports whether event concerns a JSON document. Chmod-only
// events are ignored.
func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func baseNames(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f)
	}
	return out
}

