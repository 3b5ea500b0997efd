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

// ColumnBounds is the inclusive min/max span of one numeric column across
// the full dataset. Range controls are derived from these once per load.
type ColumnBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Display returns the bounds shown on the range control. When min equals max
// the upper bound is widened by one unit so the control has a non-degenerate
// span; the underlying filter still compares against true data values.
func (b ColumnBounds) Display() ColumnBounds {
	if b.Min == b.Max {
		return ColumnBounds{Min: b.Min, Max: b.Max + 1}
	}
	return b
}

// Bounds holds the filterable column spans of a dataset.
type Bounds struct {
	TensileStrength        ColumnBounds `json:"tensile_strength_mpa"`
	YieldStrength          ColumnBounds `json:"yield_strength_mpa"`
	Elongation             ColumnBounds `json:"elongation_percent"`
	ThermalConductivity    ColumnBounds `json:"thermal_conductivity_w_mk"`
	ElectricalConductivity ColumnBounds `json:"electrical_conductivity_iacs"`
}

// ComputeBounds scans the dataset once and returns the min/max span of each
// filterable column. An empty dataset yields zero bounds.
func ComputeBounds(ds *Dataset) Bounds {
	var b Bounds
	if ds.Empty() {
		return b
	}

	span := func(get func(*Record) float64) ColumnBounds {
		cb := ColumnBounds{Min: get(&ds.Records[0]), Max: get(&ds.Records[0])}
		for i := range ds.Records {
			v := get(&ds.Records[i])
			if v < cb.Min {
				cb.Min = v
			}
			if v > cb.Max {
				cb.Max = v
			}
		}
		return cb
	}

	b.TensileStrength = span(func(r *Record) float64 { return r.TensileStrengthMPa })
	b.YieldStrength = span(func(r *Record) float64 { return r.YieldStrengthMPa })
	b.Elongation = span(func(r *Record) float64 { return r.ElongationPercent })
	b.ThermalConductivity = span(func(r *Record) float64 { return r.ThermalConductivityWMK })
	b.ElectricalConductivity = span(func(r *Record) float64 { return r.ElectricalConductivityIACS })
	return b
}

// Display widens each degenerate span for presentation (see
// ColumnBounds.Display).
func (b Bounds) Display() Bounds {
	return Bounds{
		TensileStrength:        b.TensileStrength.Display(),
		YieldStrength:          b.YieldStrength.Display(),
		Elongation:             b.Elongation.Display(),
		ThermalConductivity:    b.ThermalConductivity.Display(),
		ElectricalConductivity: b.ElectricalConductivity.Display(),
	}
}

// CorrosionCategories returns the distinct corrosion resistance classes
// present in the dataset, lexicographically sorted. These are the selectable
// options for the category filter.
func CorrosionCategories(ds *Dataset) []string {
	seen := make(map[string]struct{})
	var cats []string
	for i := range ds.Records {
		c := ds.Records[i].CorrosionResistance
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}
