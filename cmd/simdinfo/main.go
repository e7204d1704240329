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

// Command simdinfo reports the SIMD feature set, ABI deduction and the
// conversion strategies selected for it.
//
// Usage:
//
//	simdinfo features
//	simdinfo deduce float32 12
//	simdinfo plan --from uint32 --to float32 --features sse2
//	simdinfo table --features avx512
//	simdinfo verify
//	simdinfo metrics --listen :9090
//
// SIMD_* variables configure the library as usual; --env-file loads them
// from a dotenv file first.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/simd"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	envFile   string
	logLevel  string
	logFormat string
	features  string
}

// resolve returns the feature set named by --features, or the current
// one.
func (o *options) resolve() (isa.Features, error) {
	if o.features == "" {
		return simd.CurrentFeatures(), nil
	}
	return isa.Parse(o.features)
}

func newRootCmd(out io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "simdinfo",
		Short:         "Inspect SIMD features, ABIs and conversion strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&o.envFile, "env-file", "", "dotenv file with SIMD_* settings to load first")
	pf.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&o.logFormat, "log-format", "console", "log format: console or json")
	pf.StringVar(&o.features, "features", "", "feature or preset names to use instead of the current set")

	root.AddCommand(
		newFeaturesCmd(o),
		newDeduceCmd(o),
		newPlanCmd(o),
		newTableCmd(o),
		newVerifyCmd(o),
		newMetricsCmd(o),
	)
	return root
}

func (o *options) setup() error {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	cfg.Format = o.logFormat
	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	simd.SetLogger(logger)

	if o.envFile == "" {
		return nil
	}
	if err := godotenv.Load(o.envFile); err != nil {
		return fmt.Errorf("loading %s: %w", o.envFile, err)
	}
	if err := simd.Reload(); err != nil {
		return fmt.Errorf("applying %s: %w", o.envFile, err)
	}
	logger.Debug("environment loaded", zap.String("file", o.envFile), zap.String("preset", simd.CurrentLevel()))
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
