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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDatasetFile is the dataset shipped alongside the binary, resolved
// relative to the executable's directory so the service loads it regardless
// of the invocation directory.
const DefaultDatasetFile = "data/aluminum_alloys.csv"

// requiredColumns are the headers that must be present in the CSV. The
// aluminum balance column is handled separately because its values may be
// non-numeric ("Rem.").
var requiredColumns = []string{
	"alloy",
	"temper",
	"description",
	"tensile_strength_mpa",
	"yield_strength_mpa",
	"elongation_percent",
	"hardness_brinell",
	"corrosion_resistance",
	"density_g_cm3",
	"thermal_expansion_e-6_k",
	"thermal_conductivity_w_mk",
	"electrical_conductivity_iacs",
	"Si_percent",
	"Fe_percent",
	"Cu_percent",
	"Mn_percent",
	"Mg_percent",
	"Cr_percent",
	"Zn_percent",
	"Ti_percent",
	"Al_percent",
}

// DefaultPath returns the default dataset location next to the running
// executable. Falls back to the working directory if the executable path
// cannot be determined.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultDatasetFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultDatasetFile)
}

// Load reads and cleans the alloy dataset.
//
// Description:
//
//	Parses the CSV at path (DefaultPath() when path is empty), locating
//	columns by header name. Missing chemical and physical numeric values
//	are filled with 0 and missing corrosion resistance with "-"; the
//	aluminum balance column is exempt from the numeric fill because it may
//	read "Rem.".
//
// Outputs:
//
//	*Dataset - The cleaned dataset, row order preserved.
//	error - ErrDatasetNotFound when the file is absent, or a *LoadError
//	        wrapping any other read/parse failure. Both are fatal for the
//	        session: callers must treat the dataset as empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		path = DefaultPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

// parse reads the CSV stream into a Dataset, applying the fill rules.
func parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file: missing header row")
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	field := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var ds Dataset
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		rec := Record{
			Alloy:               field(row, "alloy"),
			Temper:              field(row, "temper"),
			Description:         field(row, "description"),
			CorrosionResistance: field(row, "corrosion_resistance"),
			AlPercent:           parseRemainder(field(row, "Al_percent")),
		}
		// Unrated corrosion resistance defaults to the "-" class.
		if rec.CorrosionResistance == "" {
			rec.CorrosionResistance = "-"
		}

		numeric := []struct {
			col string
			dst *float64
		}{
			{"tensile_strength_mpa", &rec.TensileStrengthMPa},
			{"yield_strength_mpa", &rec.YieldStrengthMPa},
			{"elongation_percent", &rec.ElongationPercent},
			{"hardness_brinell", &rec.HardnessBrinell},
			{"density_g_cm3", &rec.DensityGCm3},
			{"thermal_expansion_e-6_k", &rec.ThermalExpansionE6K},
			{"thermal_conductivity_w_mk", &rec.ThermalConductivityWMK},
			{"electrical_conductivity_iacs", &rec.ElectricalConductivityIACS},
			{"Si_percent", &rec.SiPercent},
			{"Fe_percent", &rec.FePercent},
			{"Cu_percent", &rec.CuPercent},
			{"Mn_percent", &rec.MnPercent},
			{"Mg_percent", &rec.MgPercent},
			{"Cr_percent", &rec.CrPercent},
			{"Zn_percent", &rec.ZnPercent},
			{"Ti_percent", &rec.TiPercent},
		}
		for _, n := range numeric {
			raw := field(row, n.col)
			if raw == "" {
				// Missing numeric values fill with 0.
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, n.col, err)
			}
			*n.dst = v
		}

		ds.Records = append(ds.Records, rec)
	}

	return &ds, nil
}
