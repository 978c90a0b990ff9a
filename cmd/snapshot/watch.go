package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of events on the preset must be quiet before
// it is reloaded. Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// watchPreset calls reload after each change to path until ctx is done.
// The directory is watched so presets replaced by rename are still seen.
func watchPreset(ctx context.Context, path string, logger *slog.Logger, reload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("snapshot: watch: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("snapshot: watch: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("snapshot: watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching preset", "path", abs)

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPresetChange(ev, abs) {
				continue
			}
			logger.Debug("preset changed", "op", ev.Op.String())
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			reload()
		}
	}
}

// isPresetChange reports whether ev rewrote the file at abs.
func isPresetChange(ev fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
