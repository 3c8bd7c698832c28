package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce coalesces the burst of fsnotify events a single
// backend write produces into one notification.
const watchDebounce = 250 * time.Millisecond

// Watch observes the given paths and emits one (debounced) signal per
// change burst until ctx is cancelled. Files are watched through
// their parent directory so rewrites-by-rename are still seen.
// Missing paths are skipped; if nothing is watchable an error is
// returned and the caller falls back to refresh-on-show only.
func Watch(ctx context.Context, paths []string, logger *zap.Logger) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if err := watcher.Add(dir); err != nil {
			logger.Debug("cannot watch path", zap.String("path", dir), zap.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return nil, os.ErrNotExist
	}

	notify := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(notify)

		var debounce *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce == nil {
					debounce = time.NewTimer(watchDebounce)
				} else {
					debounce.Reset(watchDebounce)
				}
				fire = debounce.C
			case <-fire:
				fire = nil
				select {
				case notify <- struct{}{}:
				default: // a notification is already queued
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("backend watch error", zap.Error(err))
			}
		}
	}()
	return notify, nil
}
