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

package simd

import (
	"sync/atomic"

	"github.com/ajroetker/go-simd/internal/config"
	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/internal/metrics"
	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// current is the feature set new vectors are built for.
var current atomic.Uint32

// checkAlignment enables verification of the VectorAligned and Overaligned
// load/store flags.
var checkAlignment atomic.Bool

func init() {
	cfg, err := config.Load()
	configure(cfg, err, nil)
}

// configure installs the logger described by cfg, reports the settings
// Load had to replace, then applies the rest. out defaults to stderr.
func configure(cfg config.Config, loadErr error, out zapcore.WriteSyncer) {
	l, err := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: out})
	if err == nil {
		logging.Set(l)
	}
	if loadErr != nil {
		logging.L().Warn("ignoring invalid SIMD settings", zap.Error(loadErr))
	}
	if err := apply(cfg); err != nil {
		logging.L().Warn("ignoring SIMD configuration", zap.Error(err))
		store(isa.Host())
	}
}

func apply(cfg config.Config) error {
	host := isa.Host()
	f, err := cfg.ResolveFeatures(host)
	if err != nil {
		return err
	}
	if err := abi.SetMaxFixedSize(cfg.MaxFixedSize); err != nil {
		return err
	}
	checkAlignment.Store(cfg.CheckAlignment)
	store(f)
	logging.L().Info("simd dispatch",
		zap.Stringer("host", host), zap.Stringer("features", f), zap.String("preset", f.Level()))
	return nil
}

// Reload re-reads the SIMD_* environment and applies it: features, max
// fixed size and alignment checking. Invalid settings fall back to their
// defaults and are returned as an error; the valid ones are applied
// regardless. The logger is left as is, see SetLogger.
func Reload() error {
	cfg, err := config.Load()
	if aerr := apply(cfg); aerr != nil {
		return aerr
	}
	return err
}

func store(f isa.Features) {
	current.Store(uint32(f))
	metrics.SetDispatchLevel(f.Level())
}

// CurrentFeatures returns the feature set used by constructors that do not
// take one.
func CurrentFeatures() isa.Features {
	return isa.Features(current.Load())
}

// SetFeatures replaces the current feature set and returns a function that
// restores the previous one. Vectors keep the feature set they were built
// with. Every feature set is usable on every host, since the instruction
// sequences are emulated.
//
//	defer simd.SetFeatures(isa.MustParse("sse2"))()
func SetFeatures(f isa.Features) (restore func()) {
	prev := CurrentFeatures()
	store(f.Closure())
	return func() { store(prev) }
}

// CurrentLevel returns the name of the strongest preset contained in the
// current feature set, e.g. "avx2", "neon" or "scalar".
func CurrentLevel() string {
	return CurrentFeatures().Level()
}

// CurrentName returns the current features as a comma-separated list.
func CurrentName() string {
	return CurrentFeatures().String()
}

// CurrentWidth returns the widest native register in bytes, or zero when
// only scalar code is available.
func CurrentWidth() int {
	return CurrentFeatures().Width()
}

// NoSimdEnv reports whether SIMD_NO_SIMD (or HWY_NO_SIMD) requests scalar
// execution.
func NoSimdEnv() bool {
	return isa.NoSimdEnv()
}

// SetCheckAlignment turns verification of aligned load/store flags on or
// off and returns the previous setting.
func SetCheckAlignment(on bool) bool {
	return checkAlignment.Swap(on)
}

// SetLogger installs the logger used by the simd packages and returns the
// previous one. The default is built from SIMD_LOG_LEVEL and
// SIMD_LOG_FORMAT; nil discards everything.
func SetLogger(l *zap.Logger) *zap.Logger {
	return logging.Set(l)
}
