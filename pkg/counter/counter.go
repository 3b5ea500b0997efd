// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package counter persists the visitor counter as a single base-10 integer
// in a plain-text file.
//
// # Known Limitation
//
// The file is shared mutable state with no locking. Concurrent sessions can
// race on the read-modify-write in Increment and lose updates. This is a
// deliberate, documented trade-off for a low-traffic reference tool: the
// store assumes a single writer and does not serialize access.
package counter

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store reads and writes the visitor counter file. The zero value is not
// usable; create with New.
type Store struct {
	path string
}

// New creates a store backed by the file at path. No I/O happens until the
// first Read or Increment.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the counter file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the stored count. A missing file or non-integer content
// silently recovers to 0; no error is surfaced.
func (s *Store) Read() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Increment adds one to the stored count and writes it back as plain text.
// Returns the new count. A write failure is returned as a *WriteError but is
// non-fatal: the session continues with a possibly stale count.
//
// Callers must increment at most once per session; the per-session policy is
// enforced by session state outside this package.
func (s *Store) Increment() (int, error) {
	n := s.Read() + 1
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return n, &WriteError{Path: s.path, Err: err}
	}
	return n, nil
}

// WriteError reports a failed counter write. Non-fatal: callers log it and
// continue the session.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write visitor counter %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error {
	return e.Err
}
