// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package alloy

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a dataset cache when the CSV file changes on disk.
//
// # Description
//
// Watches the dataset file's directory (editors often replace files via
// rename, which drops a watch placed on the file itself) and debounces
// bursts of events so a single save triggers one invalidation. Per-request
// dataset views remain immutable; only the next render after an
// invalidation observes the reloaded data.
type Watcher struct {
	path     string
	cache    *Cache
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher for the dataset at path feeding the given
// cache. An empty path selects the default dataset location.
func NewWatcher(path string, cache *Cache, logger *slog.Logger) *Watcher {
	if path == "" {
		path = DefaultPath()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		cache:    cache,
		debounce: 250 * time.Millisecond,
		logger:   logger,
	}
}

// Run watches until the context is cancelled. Returns the fsnotify setup
// error, or nil on clean shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return err
	}
	w.logger.Info("watching dataset for changes", "path", w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("dataset file changed, invalidating cache", "path", w.path)
			w.cache.Invalidate()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("dataset watcher error", "error", err)
		}
	}
}
