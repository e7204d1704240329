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
	"strings"

	"github.com/ajroetker/go-simd/simd"
	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/x86"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newFeaturesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Show detected, cross-checked and active feature sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			cpu := isa.HostCPU()
			detected, cross := isa.Detect(), isa.DetectCPUID()
			active, err := o.resolve()
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "cpu:       %s (%s, %d cores, %d threads, x86-64-v%d)\n",
				strings.TrimSpace(cpu.Brand), cpu.Vendor, cpu.Cores, cpu.Threads, cpu.X64Level)
			fmt.Fprintf(w, "detected:  %s\n", detected)
			fmt.Fprintf(w, "cpuid:     %s\n", cross)
			fmt.Fprintf(w, "active:    %s (level %s, width %d)\n", active, active.Level(), active.Width())
			fmt.Fprintf(w, "no-simd:   %t\n", simd.NoSimdEnv())
			fmt.Fprintf(w, "hardware:  %t\n", x86.Hardware())

			only, other := lo.Difference(detected.Names(), cross.Names())
			if len(only) > 0 || len(other) > 0 {
				fmt.Fprintf(w, "mismatch:  x/sys/cpu only %v, cpuid only %v\n", only, other)
			}

			fmt.Fprintln(w, "presets:")
			for _, p := range isa.Presets {
				mark := " "
				if detected.Has(p.Features) {
					mark = "*"
				}
				fmt.Fprintf(w, "  %s %-9s %s\n", mark, p.Name, p.Features)
			}

			fmt.Fprintln(w, "backends:")
			for _, d := range abi.Descriptors() {
				fmt.Fprintf(w, "  %-10s arith %s, masks %s\n", d.Name, d.Arith, d.MaskOps)
			}
			return nil
		},
	}
}
