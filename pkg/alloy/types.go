// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package alloy provides the aluminum alloy reference dataset: CSV loading
// with null-filling, column statistics, the filter engine, and selection
// resolution for alloy/temper pairs.
//
// # Data Flow
//
//	Loader → Cache → FilterState.Apply → Selection (Alloys/Tempers/Resolve)
//
// The Dataset is loaded once per process and cached read-only; filtering and
// selection are recomputed on every render cycle and never mutate the loaded
// data.
//
// # Thread Safety
//
// Dataset values are immutable after load. Cache is safe for concurrent use.
// FilterState values are cheap per-request state and must not be shared
// between requests.
package alloy

import (
	"fmt"
	"strconv"
	"strings"
)

// RemainderSentinel is the textual value used in the aluminum column when the
// datasheet states the balance as "remainder" instead of a percentage.
const RemainderSentinel = "Rem."

// Remainder is the aluminum content of a record. Datasheets record it either
// as a numeric percentage or as the textual sentinel "Rem." (balance), so the
// field is a variant rather than a coerced float.
type Remainder struct {
	// Value is the numeric percentage. Only meaningful when Text is empty.
	Value float64

	// Text is the non-numeric sentinel (typically "Rem."). Empty when the
	// source value was numeric.
	Text string
}

// IsNumeric reports whether the remainder carries a numeric percentage.
func (r Remainder) IsNumeric() bool {
	return r.Text == ""
}

// String renders the remainder the way it appears in the dataset.
func (r Remainder) String() string {
	if r.Text != "" {
		return r.Text
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// MarshalJSON encodes numeric remainders as numbers and sentinels as strings,
// matching the mixed column in the source CSV.
func (r Remainder) MarshalJSON() ([]byte, error) {
	if r.Text != "" {
		return []byte(strconv.Quote(r.Text)), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON: a JSON
// number into Value, a JSON string into Text.
func (r *Remainder) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		text, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("remainder: %w", err)
		}
		*r = Remainder{Text: text}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("remainder: %w", err)
	}
	*r = Remainder{Value: v}
	return nil
}

// parseRemainder interprets a raw CSV cell as a Remainder. Empty cells map to
// the sentinel: the balance column is exempt from the numeric zero-fill.
func parseRemainder(raw string) Remainder {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Remainder{Text: RemainderSentinel}
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return Remainder{Value: v}
	}
	return Remainder{Text: raw}
}

// Record is one row of the reference dataset: an alloy in a specific temper
// with its mechanical, physical, and chemical properties.
//
// The pair (Alloy, Temper) is expected to be unique within a dataset. This is
// not enforced at load time; duplicate pairs resolve to the first occurrence
// (see Resolve).
type Record struct {
	Alloy       string `json:"alloy"`
	Temper      string `json:"temper"`
	Description string `json:"description"`

	// Mechanical properties.
	TensileStrengthMPa float64 `json:"tensile_strength_mpa"`
	YieldStrengthMPa   float64 `json:"yield_strength_mpa"`
	ElongationPercent  float64 `json:"elongation_percent"`
	HardnessBrinell    float64 `json:"hardness_brinell"`

	// Physical properties. CorrosionResistance is a categorical class
	// ("A", "B", ... or "-" when unrated).
	CorrosionResistance        string  `json:"corrosion_resistance"`
	DensityGCm3                float64 `json:"density_g_cm3"`
	ThermalExpansionE6K        float64 `json:"thermal_expansion_e-6_k"`
	ThermalConductivityWMK     float64 `json:"thermal_conductivity_w_mk"`
	ElectricalConductivityIACS float64 `json:"electrical_conductivity_iacs"`

	// Chemical composition, percent by weight. Missing values are filled
	// with 0 at load time.
	SiPercent float64 `json:"Si_percent"`
	FePercent float64 `json:"Fe_percent"`
	CuPercent float64 `json:"Cu_percent"`
	MnPercent float64 `json:"Mn_percent"`
	MgPercent float64 `json:"Mg_percent"`
	CrPercent float64 `json:"Cr_percent"`
	ZnPercent float64 `json:"Zn_percent"`
	TiPercent float64 `json:"Ti_percent"`

	// AlPercent is the aluminum balance, numeric or "Rem.".
	AlPercent Remainder `json:"Al_percent"`
}

// Designation returns the combined alloy-temper name, e.g. "A5052-H32".
func (r *Record) Designation() string {
	return fmt.Sprintf("%s-%s", r.Alloy, r.Temper)
}

// Dataset is an ordered, read-only collection of records. The zero value is
// an empty dataset.
type Dataset struct {
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Column identifies a numeric dataset column. Keys match the CSV headers so
// the same identifiers flow from the file through the API to the scatter
// plot axis pickers.
type Column string

const (
	ColTensileStrength        Column = "tensile_strength_mpa"
	ColYieldStrength          Column = "yield_strength_mpa"
	ColElongation             Column = "elongation_percent"
	ColHardness               Column = "hardness_brinell"
	ColDensity                Column = "density_g_cm3"
	ColThermalExpansion       Column = "thermal_expansion_e-6_k"
	ColThermalConductivity    Column = "thermal_conductivity_w_mk"
	ColElectricalConductivity Column = "electrical_conductivity_iacs"
	ColSi                     Column = "Si_percent"
	ColFe                     Column = "Fe_percent"
	ColCu                     Column = "Cu_percent"
	ColMn                     Column = "Mn_percent"
	ColMg                     Column = "Mg_percent"
	ColCr                     Column = "Cr_percent"
	ColZn                     Column = "Zn_percent"
	ColTi                     Column = "Ti_percent"
)

// ColumnInfo pairs a column key with its display label.
type ColumnInfo struct {
	Key   Column `json:"key"`
	Label string `json:"label"`
}

// ScatterColumns lists the numeric columns selectable as scatter plot axes,
// in display order.
var ScatterColumns = []ColumnInfo{
	{ColTensileStrength, "Tensile Strength (MPa)"},
	{ColYieldStrength, "Yield Strength (MPa)"},
	{ColElongation, "Elongation (%)"},
	{ColHardness, "Hardness (Brinell)"},
	{ColDensity, "Density (g/cm³)"},
	{ColThermalExpansion, "Thermal Expansion (10⁻⁶/K)"},
	{ColThermalConductivity, "Thermal Conductivity (W/m·K)"},
	{ColElectricalConductivity, "Electrical Conductivity (% IACS)"},
	{ColSi, "Si (%)"},
	{ColFe, "Fe (%)"},
	{ColCu, "Cu (%)"},
	{ColMn, "Mn (%)"},
	{ColMg, "Mg (%)"},
	{ColCr, "Cr (%)"},
	{ColZn, "Zn (%)"},
	{ColTi, "Ti (%)"},
}

// Default scatter axes, matching the original browser layout.
const (
	DefaultXAxis = ColElongation
	DefaultYAxis = ColTensileStrength
)

// Numeric returns the value of a numeric column for this record. The second
// return is false for unknown column keys.
func (r *Record) Numeric(col Column) (float64, bool) {
	switch col {
	case ColTensileStrength:
		return r.TensileStrengthMPa, true
	case ColYieldStrength:
		return r.YieldStrengthMPa, true
	case ColElongation:
		return r.ElongationPercent, true
	case ColHardness:
		return r.HardnessBrinell, true
	case ColDensity:
		return r.DensityGCm3, true
	case ColThermalExpansion:
		return r.ThermalExpansionE6K, true
	case ColThermalConductivity:
		return r.ThermalConductivityWMK, true
	case ColElectricalConductivity:
		return r.ElectricalConductivityIACS, true
	case ColSi:
		return r.SiPercent, true
	case ColFe:
		return r.FePercent, true
	case ColCu:
		return r.CuPercent, true
	case ColMn:
		return r.MnPercent, true
	case ColMg:
		return r.MgPercent, true
	case ColCr:
		return r.CrPercent, true
	case ColZn:
		return r.ZnPercent, true
	case ColTi:
		return r.TiPercent, true
	default:
		return 0, false
	}
}

// ValidColumn reports whether the key names a known numeric column.
func ValidColumn(col Column) bool {
	for _, c := range ScatterColumns {
		if c.Key == col {
			return true
		}
	}
	return false
}
