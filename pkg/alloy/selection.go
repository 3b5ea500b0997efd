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

import "sort"

// Preferred defaults for the selection widgets. Used when present in the
// filtered dataset; otherwise selection falls back to the first entry of the
// sorted list.
const (
	DefaultAlloy  = "A5052"
	DefaultTemper = "H32"
)

// Alloys returns the distinct alloy identifiers present in the dataset,
// lexicographically sorted. An empty dataset yields nil.
func Alloys(ds *Dataset) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range ds.Records {
		a := ds.Records[i].Alloy
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Tempers returns the distinct tempers available for the given alloy within
// the dataset, lexicographically sorted.
func Tempers(ds *Dataset, alloy string) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range ds.Records {
		if ds.Records[i].Alloy != alloy {
			continue
		}
		t := ds.Records[i].Temper
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// pick returns preferred when it is a member of options, otherwise the first
// option.
func pick(options []string, preferred string) string {
	for _, o := range options {
		if o == preferred {
			return o
		}
	}
	return options[0]
}

// DefaultSelection chooses the alloy and temper shown before the user makes
// an explicit choice: the preferred defaults when selectable, otherwise the
// lexicographically smallest entries. Returns ErrNoSelection when the
// dataset is empty.
func DefaultSelection(ds *Dataset) (alloy, temper string, err error) {
	alloys := Alloys(ds)
	if len(alloys) == 0 {
		return "", "", ErrNoSelection
	}
	alloy = pick(alloys, DefaultAlloy)
	temper = pick(Tempers(ds, alloy), DefaultTemper)
	return alloy, temper, nil
}

// Resolve returns the record for the chosen alloy/temper pair.
//
// The dataset is expected to hold at most one row per pair; this is not
// verified, and duplicate pairs resolve to the first occurrence in dataset
// order. Returns ErrNoSelection when nothing matches.
func Resolve(ds *Dataset, alloy, temper string) (*Record, error) {
	for i := range ds.Records {
		if ds.Records[i].Alloy == alloy && ds.Records[i].Temper == temper {
			return &ds.Records[i], nil
		}
	}
	return nil, ErrNoSelection
}
