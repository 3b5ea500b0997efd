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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for the Dataset
// =============================================================================

var (
	// datasetRows tracks the row count of the currently cached dataset.
	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "alusearch",
		Subsystem: "dataset",
		Name:      "rows",
		Help:      "Number of records in the cached alloy dataset",
	})

	// datasetLoads counts dataset loads by outcome.
	// Labels: status (success, not_found, error)
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alusearch",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Total dataset load attempts by outcome",
	}, []string{"status"})

	// datasetReloads counts cache invalidations triggered by the watcher.
	datasetReloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alusearch",
		Subsystem: "dataset",
		Name:      "reloads_total",
		Help:      "Total cache invalidations from dataset file changes",
	})

	// filterLatency measures filter engine passes over the dataset.
	filterLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "alusearch",
		Subsystem: "filter",
		Name:      "apply_seconds",
		Help:      "Filter engine pass latency in seconds",
		Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})

	// filterRows tracks how many rows survive each filter pass.
	filterRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "alusearch",
		Subsystem: "filter",
		Name:      "rows_retained",
		Help:      "Distribution of retained row counts per filter pass",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})
)

// observeFilter records one filter engine pass.
func observeFilter(d time.Duration, rows int) {
	filterLatency.Observe(d.Seconds())
	filterRows.Observe(float64(rows))
}
