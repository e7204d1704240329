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
	"context"
	"fmt"
	"strings"

	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/simd/convert"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// presetResult is the verification outcome for one feature preset.
type presetResult struct {
	preset     isa.Preset
	cases      int
	mismatches []convert.Mismatch
}

// verifyPresets checks every conversion case of every preset against the
// per-lane reference, one goroutine per preset.
func verifyPresets(ctx context.Context, presets []isa.Preset, parallel int) ([]presetResult, error) {
	results := make([]presetResult, len(presets))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, p := range presets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cases := convert.Cases(p.Features)
			results[i] = presetResult{
				preset:     p,
				cases:      len(cases),
				mismatches: convert.VerifyAll(p.Features),
			}
			logging.L().Debug("preset verified",
				zap.String("preset", p.Name), zap.Int("cases", len(cases)),
				zap.Int("mismatches", len(results[i].mismatches)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newVerifyCmd(o *options) *cobra.Command {
	var (
		names    []string
		parallel int
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare every conversion strategy against the per-lane reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets := isa.Presets
			if len(names) > 0 {
				var unknown []string
				presets = lo.FilterMap(names, func(n string, _ int) (isa.Preset, bool) {
					p, ok := isa.PresetByName(strings.TrimSpace(n))
					if !ok {
						unknown = append(unknown, n)
					}
					return p, ok
				})
				if len(unknown) > 0 {
					return fmt.Errorf("unknown presets %v", unknown)
				}
			}

			results, err := verifyPresets(cmd.Context(), presets, parallel)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			total := 0
			for _, r := range results {
				total += len(r.mismatches)
				status := "ok"
				if len(r.mismatches) > 0 {
					status = fmt.Sprintf("%d mismatches", len(r.mismatches))
				}
				fmt.Fprintf(w, "%-9s %5d cases  %s\n", r.preset.Name, r.cases, status)
				for _, m := range lo.Subset(r.mismatches, 0, uint(limit)) {
					fmt.Fprintf(w, "  %s\n", m)
				}
			}
			if total > 0 {
				return fmt.Errorf("%d mismatching lanes", total)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&names, "presets", nil, "presets to verify (default: all)")
	fl.IntVar(&parallel, "parallel", 0, "maximum presets verified at once (0: no limit)")
	fl.IntVar(&limit, "show", 10, "mismatches to print per preset")
	return cmd
}
