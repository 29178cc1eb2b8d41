package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lmittmann/w3docs/internal/logfields"
)

// newDebouncer returns a channel receiving one value per burst of trigger
// calls, delay after the last call of the burst.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker runs rebuild for every request. A request arriving while
// a build runs is coalesced into a single follow-up build.
func startRebuildWorker(ctx context.Context, rebuildReq chan struct{}, rebuild func(context.Context)) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				rebuild(ctx)
			}
		}
	}()
	return &wg
}

func newWatcher(root string, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	addDirsRecursive(watcher, root, logger)
	return watcher, nil
}

// handleFileEvent processes a filesystem event and triggers a rebuild if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(), logger *slog.Logger) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, logger)
		}
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldIgnoreEvent(path) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports filesystem events that never trigger a rebuild:
// hidden files, editor swap and backup files, and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db" || base == "4913"
}
