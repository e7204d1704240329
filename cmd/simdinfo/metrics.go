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

package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/simd"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// workload exercises ABI deduction, fixed_size layouts and conversions so
// the counters have something to show.
func workload(f isa.Features) {
	defer simd.SetFeatures(f)()
	for _, n := range []int{1, 3, 4, 8, 16, 21} {
		a := simd.Deduce[int32](n)
		v := simd.Generate(a, func(i int) int32 { return int32(i) - 8 })
		d := simd.Convert[float64](v)
		_ = simd.Convert[int16](d)
		_ = simd.Convert[float32](v)
	}
}

// writeMetrics prints the simd_* series of the default registry.
func writeMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "simd_") {
			continue
		}
		lines := make([]string, 0, len(mf.GetMetric()))
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
		sort.Strings(lines)
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
	return nil
}

func newMetricsCmd(o *options) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Run a small conversion workload and show the simd_* metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := o.resolve()
			if err != nil {
				return err
			}
			workload(f)
			if listen == "" {
				return writeMetrics(cmd.OutOrStdout())
			}
			logging.L().Info("serving metrics", zap.String("address", listen))
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			return http.ListenAndServe(listen, mux)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve /metrics on this address instead of printing")
	return cmd
}
