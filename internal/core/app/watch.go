package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stacksjs/dtsx-sub004/internal/shared/observability"
	"github.com/stacksjs/dtsx-sub004/internal/shared/util"
)

// Watch runs until ctx is cancelled, regenerating declarations for files
// as they change. Change events are debounced into batches, and batch
// regeneration is rate limited so editor save storms do not pin a core.
func (a *App) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := a.watchRecursive(fsw, a.cfg.Root); err != nil {
		return err
	}

	limiter := util.NewLimiter(a.cfg.Watch.MaxRunsPerSecond, 1)
	batches := make(chan []string, 1)

	var pendingMu sync.Mutex
	pending := make(map[string]struct{})
	var timer *time.Timer

	schedule := func(path string) {
		pendingMu.Lock()
		defer pendingMu.Unlock()
		pending[path] = struct{}{}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(a.cfg.Watch.Debounce, func() {
			pendingMu.Lock()
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			pendingMu.Unlock()
			if len(paths) == 0 {
				return
			}
			select {
			case batches <- paths:
			case <-ctx.Done():
			}
		})
	}

	slog.Info("watch mode started", "root", a.cfg.Root, "debounce", a.cfg.Watch.Debounce)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case paths := <-batches:
			if err := limiter.Wait(ctx, 1); err != nil {
				return err
			}
			summary, err := a.RunPaths(ctx, paths)
			if err != nil {
				return err
			}
			if summary.Processed > 0 || summary.Failed > 0 {
				slog.Info("regenerated changed files",
					"run_id", summary.RunID,
					"processed", summary.Processed,
					"failed", summary.Failed,
					"duration", summary.Duration)
			}

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, statErr := os.Stat(event.Name)
				if statErr == nil && info.IsDir() {
					if !a.source.excludedDir(event.Name) {
						if err := a.watchRecursive(fsw, event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							a.scheduleExisting(event.Name, schedule)
						}
					}
					continue
				}
			}

			if !a.source.Accepts(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (a *App) watchRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && a.source.excludedDir(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// scheduleExisting enqueues the sources already present under a newly
// created directory, since no per-file events fire for them.
func (a *App) scheduleExisting(root string, schedule func(string)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() {
			return nil
		}
		if a.source.Accepts(path) {
			schedule(path)
		}
		return nil
	})
}
