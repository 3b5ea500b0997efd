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
	"fmt"
)

// Sentinel errors for dataset operations.
var (
	// ErrDatasetNotFound is returned when the CSV file does not exist.
	// Fatal for the session: callers must treat the dataset as empty and
	// stop further processing.
	ErrDatasetNotFound = errors.New("alloy dataset file not found")

	// ErrNoSelection is returned when selection is attempted against an
	// empty filtered dataset, or when the requested alloy/temper pair has
	// no matching row. This is a legitimate UI state ("no alloy matches"),
	// not a failure.
	ErrNoSelection = errors.New("no alloy matches the current filters")

	// ErrUnknownColumn is returned when a scatter axis names a column that
	// does not exist in the dataset.
	ErrUnknownColumn = errors.New("unknown dataset column")
)

// LoadError wraps any read or parse failure other than a missing file. Like
// ErrDatasetNotFound it is fatal for the session, but it carries the
// underlying cause for diagnostics.
type LoadError struct {
	// Path is the dataset file that failed to load.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load alloy dataset %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *LoadError) Unwrap() error {
	return e.Err
}
