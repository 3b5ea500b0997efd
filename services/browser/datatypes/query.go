// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the browser
// service.
//
// This file contains the alloy query endpoint types. All request types carry
// go-playground/validator tags and a Validate() method that handlers call
// after binding the JSON body.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/alusearch/pkg/alloy"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxCorrosionCategories bounds the corrosion filter list. The dataset
	// uses single-letter ratings, so anything larger is a malformed request.
	MaxCorrosionCategories = 16

	// MaxScatterPoints bounds the scatter payload returned to the client.
	MaxScatterPoints = 2000
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// queryValidate is the validator instance for query datatypes.
// Initialized in init() with custom validators.
var queryValidate *validator.Validate

func init() {
	queryValidate = validator.New()
	_ = queryValidate.RegisterValidation("scattercol", validateScatterColumn)
}

// validateScatterColumn checks that a string field names one of the numeric
// columns offered for scatter axes. An empty string is allowed so that
// axis fields can be omitted and fall back to the defaults.
func validateScatterColumn(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	return alloy.ValidColumn(alloy.Column(name))
}

// =============================================================================
// Query Request Types
// =============================================================================

// RangeFilter is an inclusive numeric interval for one filterable property.
//
// A nil RangeFilter in a QueryRequest means "no constraint on this
// property"; the handler substitutes the dataset's full span.
type RangeFilter struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// QueryRequest is the body for POST /v1/alloys/query.
//
// # Description
//
// Carries the filter state plus the user's current alloy/temper selection
// and scatter axis choices. Every field is optional: an empty body yields
// the unfiltered dataset with the default selection and default axes.
//
// # Fields
//
//   - Corrosion: Corrosion resistance categories to keep. Empty or absent
//     means all categories.
//   - Tensile, Yield, Elongation, ThermalCond, ElectricalCond: Inclusive
//     numeric ranges. Absent ranges are unconstrained.
//   - Alloy, Temper: The user's selection within the filtered rows. Both
//     absent means use the default selection.
//   - XAxis, YAxis: Scatter plot axis columns. Absent means the defaults
//     (elongation vs. tensile strength).
//
// # Validation
//
// Uses go-playground/validator:
//   - Corrosion: at most 16 entries, each a short non-empty string
//   - Each RangeFilter: Max >= Min
//   - Alloy, Temper: printable designations, max 10 characters
//   - XAxis, YAxis: must name a known numeric column when present
type QueryRequest struct {
	Corrosion      []string     `json:"corrosion,omitempty" validate:"dive,min=1,max=8"`
	Tensile        *RangeFilter `json:"tensile_strength_mpa,omitempty"`
	Yield          *RangeFilter `json:"yield_strength_mpa,omitempty"`
	Elongation     *RangeFilter `json:"elongation_percent,omitempty"`
	ThermalCond    *RangeFilter `json:"thermal_conductivity_w_mk,omitempty"`
	ElectricalCond *RangeFilter `json:"electrical_conductivity_iacs,omitempty"`
	Alloy          string       `json:"alloy,omitempty" validate:"max=10"`
	Temper         string       `json:"temper,omitempty" validate:"max=10"`
	XAxis          string       `json:"x_axis,omitempty" validate:"scattercol"`
	YAxis          string       `json:"y_axis,omitempty" validate:"scattercol"`
}

// Validate validates the QueryRequest fields.
func (r *QueryRequest) Validate() error {
	if len(r.Corrosion) > MaxCorrosionCategories {
		return fmt.Errorf("invalid query request: corrosion list exceeds %d entries",
			MaxCorrosionCategories)
	}
	if err := queryValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid query request: %w", err)
	}
	return nil
}

// FilterState converts the request into the engine's filter state, filling
// unconstrained fields from the dataset's full span.
func (r *QueryRequest) FilterState(ds *alloy.Dataset) alloy.FilterState {
	fs := alloy.FullSpan(ds)
	if len(r.Corrosion) > 0 {
		fs.Corrosion = r.Corrosion
	}
	apply := func(dst *alloy.Range, src *RangeFilter) {
		if src != nil {
			dst.Min = src.Min
			dst.Max = src.Max
		}
	}
	apply(&fs.TensileStrength, r.Tensile)
	apply(&fs.YieldStrength, r.Yield)
	apply(&fs.Elongation, r.Elongation)
	apply(&fs.ThermalConductivity, r.ThermalCond)
	apply(&fs.ElectricalConductivity, r.ElectricalCond)
	return fs
}

// =============================================================================
// Query Response Types
// =============================================================================

// ScatterPoint is one plotted alloy on the property scatter chart.
type ScatterPoint struct {
	Alloy    string  `json:"alloy"`
	Temper   string  `json:"temper"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Selected bool    `json:"selected"`
}

// AxisInfo describes one scatter axis in the response.
type AxisInfo struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// QueryResponse is the body returned by POST /v1/alloys/query.
//
// Rows holds the filtered records in dataset order. Alloys and Tempers are
// the selector option lists derived from the filtered rows; Tempers is
// scoped to the selected alloy. Selected is nil and EmptySelection true
// when the filter state matches no rows.
type QueryResponse struct {
	Rows           []alloy.Record `json:"rows"`
	Alloys         []string       `json:"alloys"`
	Tempers        []string       `json:"tempers"`
	Selected       *alloy.Record  `json:"selected,omitempty"`
	EmptySelection bool           `json:"empty_selection"`
	Bounds         alloy.Bounds   `json:"bounds"`
	Scatter        []ScatterPoint `json:"scatter"`
	XAxis          AxisInfo       `json:"x_axis"`
	YAxis          AxisInfo       `json:"y_axis"`
	VisitorCount   int            `json:"visitor_count"`
	CounterStale   bool           `json:"counter_stale"`
}

// ColumnsResponse is the body returned by GET /v1/alloys/columns. It lists
// the numeric columns available as scatter axes along with the defaults.
type ColumnsResponse struct {
	Columns      []alloy.ColumnInfo `json:"columns"`
	DefaultXAxis string             `json:"default_x_axis"`
	DefaultYAxis string             `json:"default_y_axis"`
}

// ErrorResponse is the generic error body for all browser endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
