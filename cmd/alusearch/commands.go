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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	listenAddr  string
	datasetPath string
	counterPath string
	noWatch     bool

	rootCmd = &cobra.Command{
		Use:   "alusearch",
		Short: "A browser for aluminum alloy material properties",
		Long: `Alusearch serves an interactive browser over a reference dataset
of aluminum alloys: filter by mechanical and physical properties,
inspect a single alloy/temper, and compare alloys on a scatter plot.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the alloy browser HTTP service",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print a summary of the alloy dataset and visit counter",
		RunE:  runStats, // Defined in cmd_stats.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "alusearch.yaml",
		"path to the YAML config file (missing file uses defaults)")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "",
		"override the dataset CSV path")
	rootCmd.PersistentFlags().StringVar(&counterPath, "counter", "",
		"override the visit counter file path")

	serveCmd.Flags().StringVar(&listenAddr, "listen", "",
		"override the HTTP listen address")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false,
		"disable reloading the dataset when the CSV changes")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
