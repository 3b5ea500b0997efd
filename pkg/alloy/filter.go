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

import "time"

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the interval, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterState is the per-render filter input: the selected corrosion
// resistance classes and an inclusive range for each filterable numeric
// column. It is rebuilt from widget state on every interaction.
type FilterState struct {
	// Corrosion is the selected category set. A row passes only if its
	// class is a member.
	Corrosion []string

	TensileStrength        Range
	YieldStrength          Range
	Elongation             Range
	ThermalConductivity    Range
	ElectricalConductivity Range
}

// FullSpan returns the filter state that retains every row: all corrosion
// categories selected and every range at its full dataset span.
func FullSpan(ds *Dataset) FilterState {
	b := ComputeBounds(ds)
	return FilterState{
		Corrosion:              CorrosionCategories(ds),
		TensileStrength:        Range(b.TensileStrength),
		YieldStrength:          Range(b.YieldStrength),
		Elongation:             Range(b.Elongation),
		ThermalConductivity:    Range(b.ThermalConductivity),
		ElectricalConductivity: Range(b.ElectricalConductivity),
	}
}

// matches evaluates all six predicates. A row is retained only when every
// predicate passes.
func (f *FilterState) matches(r *Record) bool {
	member := false
	for _, c := range f.Corrosion {
		if r.CorrosionResistance == c {
			member = true
			break
		}
	}
	if !member {
		return false
	}
	return f.TensileStrength.Contains(r.TensileStrengthMPa) &&
		f.YieldStrength.Contains(r.YieldStrengthMPa) &&
		f.Elongation.Contains(r.ElongationPercent) &&
		f.ThermalConductivity.Contains(r.ThermalConductivityWMK) &&
		f.ElectricalConductivity.Contains(r.ElectricalConductivityIACS)
}

// Apply filters the dataset, returning the retained rows in their original
// order. The input dataset is never mutated; the result shares record values
// but is an independent collection.
//
// An empty result is a legitimate state, not an error: downstream selection
// must report "no alloy matches" instead of resolving a pair.
func (f *FilterState) Apply(ds *Dataset) *Dataset {
	start := time.Now()
	out := &Dataset{}
	for i := range ds.Records {
		if f.matches(&ds.Records[i]) {
			out.Records = append(out.Records, ds.Records[i])
		}
	}
	observeFilter(time.Since(start), out.Len())
	return out
}
