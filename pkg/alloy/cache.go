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
	"errors"
	"sync"
)

// Cache holds the process-wide, lazily loaded dataset. The dataset file is
// read-only reference data, so one load serves every session; the watcher
// (see Watcher) can invalidate the cache when the file changes on disk.
//
// # Thread Safety
//
// Safe for concurrent use. Get returns a shared *Dataset which must be
// treated as read-only.
type Cache struct {
	path string

	mu     sync.RWMutex
	loaded bool
	ds     *Dataset
	bounds Bounds
	err    error
}

// NewCache creates a cache for the dataset at path. An empty path selects
// the default location next to the executable. No I/O happens until the
// first Get.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Get returns the cached dataset and its precomputed column bounds, loading
// on first use. Load failures are cached too: every Get of a failed cache
// returns the same error until Invalidate.
func (c *Cache) Get() (*Dataset, Bounds, error) {
	c.mu.RLock()
	if c.loaded {
		defer c.mu.RUnlock()
		return c.ds, c.bounds, c.err
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.ds, c.bounds, c.err
	}

	c.ds, c.err = Load(c.path)
	c.loaded = true
	switch {
	case c.err == nil:
		c.bounds = ComputeBounds(c.ds)
		datasetRows.Set(float64(c.ds.Len()))
		datasetLoads.WithLabelValues("success").Inc()
	case errors.Is(c.err, ErrDatasetNotFound):
		c.ds = &Dataset{}
		datasetLoads.WithLabelValues("not_found").Inc()
	default:
		c.ds = &Dataset{}
		datasetLoads.WithLabelValues("error").Inc()
	}
	return c.ds, c.bounds, c.err
}

// Invalidate drops the cached dataset so the next Get reloads from disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.ds = nil
	c.err = nil
	c.bounds = Bounds{}
	datasetReloads.Inc()
}
