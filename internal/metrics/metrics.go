// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics holds the prometheus collectors shared by the simd
// packages. They register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchInfo is set to 1 for the feature level currently in use.
	DispatchInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simd_dispatch_info",
			Help: "Active SIMD dispatch level (1 for the level in use)",
		},
		[]string{"level"},
	)

	// ABIDeduceTotal counts ABI deductions by resulting register class.
	ABIDeduceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simd_abi_deduce_total",
			Help: "Total number of ABI deductions by register class",
		},
		[]string{"class"},
	)

	// LayoutsComputedTotal counts fixed_size layouts computed (cache misses).
	LayoutsComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simd_abi_layouts_computed_total",
			Help: "Total number of fixed_size register layouts computed",
		},
	)

	// ConvertPlansTotal counts conversion plans selected (cache misses).
	ConvertPlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simd_convert_plans_total",
			Help: "Total number of conversion plans selected by backend, tier and strategy",
		},
		[]string{"backend", "tier", "strategy"},
	)

	// ConvertCallsTotal counts conversions executed by strategy tier.
	ConvertCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simd_convert_calls_total",
			Help: "Total number of register conversions by strategy tier",
		},
		[]string{"tier"},
	)

	// LaneOpsTotal counts register parts processed by lane-wise
	// operations, by the backend that ran them.
	LaneOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simd_lane_ops_total",
			Help: "Total number of register parts processed by lane-wise operations by backend",
		},
		[]string{"backend"},
	)

	// LogEntriesTotal counts log entries by level.
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simd_log_entries_total",
			Help: "Total number of log entries by level",
		},
		[]string{"level"},
	)
)

// SetDispatchLevel marks level as the only active dispatch level.
func SetDispatchLevel(level string) {
	DispatchInfo.Reset()
	DispatchInfo.WithLabelValues(level).Set(1)
}
