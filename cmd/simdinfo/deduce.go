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
	"strconv"

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/convert"
	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newDeduceCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deduce KIND LANES",
		Short: "Deduce the ABI holding LANES lanes of KIND",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := vreg.ParseKind(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("lane count %q: %w", args[1], err)
			}
			f, err := o.resolve()
			if err != nil {
				return err
			}
			a, err := abi.Deduce(k, n, f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s<%s> with %s\n", a, k, f.Level())
			fmt.Fprintf(w, "  register bytes: %d, partial: %t, mask: %s, alignment: %d\n",
				a.RegisterBytes(k), a.IsPartial(k), a.MaskRep(), abi.MemoryAlignment(a, k))
			if a.IsFixed() {
				fmt.Fprintf(w, "  layout: %v\n", abi.Parts(a, k, f))
			}
			fmt.Fprintf(w, "  native: %s, compatible: %s\n", abi.Native(k, f), abi.Compatible(k, f))
			return nil
		},
	}
}

func newPlanCmd(o *options) *cobra.Command {
	var (
		from, to           string
		fromBytes, toBytes int
		args               int
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the strategy selected for one conversion case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fk, err := vreg.ParseKind(from)
			if err != nil {
				return err
			}
			tk, err := vreg.ParseKind(to)
			if err != nil {
				return err
			}
			if !lo.Contains(convert.ArgCounts, args) {
				return fmt.Errorf("--args %d: want one of %v", args, convert.ArgCounts)
			}
			f, err := o.resolve()
			if err != nil {
				return err
			}
			if toBytes == 0 {
				toBytes = min(args*fromBytes/fk.Size()*tk.Size(), vreg.MaxBytes)
			}
			c := convert.Case{From: fk, FromBytes: fromBytes, To: tk, ToBytes: toBytes, Args: args}
			s := convert.Select(c, f)
			fmt.Fprintf(cmd.OutOrStdout(), "%s => %s (%s), requires %s\n", c, s, s.Tier, s.Requires)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&from, "from", "int32", "source lane kind")
	fl.StringVar(&to, "to", "float32", "destination lane kind")
	fl.IntVar(&fromBytes, "from-bytes", 16, "source register width in bytes")
	fl.IntVar(&toBytes, "to-bytes", 0, "destination register width in bytes (default: all lanes)")
	fl.IntVar(&args, "args", 1, "number of source registers: 1, 2, 4 or 8")
	return cmd
}

func newTableCmd(o *options) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "List the strategy selected for every conversion case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := o.resolve()
			if err != nil {
				return err
			}
			plans := convert.Table(f)
			if backend != "" {
				plans = lo.Filter(plans, func(p convert.Plan, _ int) bool { return p.Strategy.Backend == backend })
			}
			w := cmd.OutOrStdout()
			for _, p := range plans {
				fmt.Fprintln(w, p)
			}
			byTier := lo.CountValuesBy(plans, func(p convert.Plan) string { return p.Strategy.Tier.String() })
			fmt.Fprintf(w, "%d cases for %s:", len(plans), f.Level())
			for _, t := range []convert.Tier{convert.TierStructural, convert.TierDirect, convert.TierSynthetic, convert.TierFallback} {
				fmt.Fprintf(w, " %s=%d", t, byTier[t.String()])
			}
			fmt.Fprintln(w)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "only show strategies of this backend (x86, neon, generic)")
	return cmd
}
