// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/alusearch/pkg/alloy"
	"github.com/AleutianAI/alusearch/pkg/counter"
	"github.com/AleutianAI/alusearch/services/browser"
)

// runStats prints a dataset and counter summary to stdout.
func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := browser.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)

	ds, err := alloy.Load(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	bounds := alloy.ComputeBounds(ds)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Dataset rows:    %d\n", ds.Len())
	fmt.Fprintf(out, "Alloys:          %d (%s)\n",
		len(alloy.Alloys(ds)), strings.Join(alloy.Alloys(ds), ", "))
	fmt.Fprintf(out, "Corrosion cats:  %s\n",
		strings.Join(alloy.CorrosionCategories(ds), ", "))
	fmt.Fprintf(out, "Tensile (MPa):   %.0f - %.0f\n",
		bounds.TensileStrength.Min, bounds.TensileStrength.Max)
	fmt.Fprintf(out, "Yield (MPa):     %.0f - %.0f\n",
		bounds.YieldStrength.Min, bounds.YieldStrength.Max)
	fmt.Fprintf(out, "Elongation (%%):  %.0f - %.0f\n",
		bounds.Elongation.Min, bounds.Elongation.Max)

	visits := counter.New(cfg.CounterPath).Read()
	fmt.Fprintf(out, "Total visits:    %d\n", visits)
	return nil
}
