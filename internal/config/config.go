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

// Package config reads the SIMD_* environment variables.
//
// Settings are read and checked one at a time. A malformed or out-of-range
// value is replaced by its default and reported, the other settings still
// apply.
package config

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "SIMD"

// Config validation errors.
var (
	ErrInvalidMaxFixedSize = errors.New("max_fixed_size must be between 1 and 64")
	ErrInvalidLogFormat    = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel     = errors.New("log_level must be debug, info, warn, or error")
)

// Config is the process configuration of the simd packages.
type Config struct {
	// NoSimd forces scalar execution. Read from SIMD_NO_SIMD or HWY_NO_SIMD.
	NoSimd bool
	// Features overrides the detected feature set with a comma-separated list
	// of feature or preset names, e.g. "avx2" or "sse2,popcnt".
	Features string
	// MaxFixedSize is the largest lane count accepted for fixed_size ABIs.
	MaxFixedSize int
	// CheckAlignment verifies the alignment promised by load/store flags.
	CheckAlignment bool
	LogLevel       string
	LogFormat      string
}

// The environment is read in groups: envconfig stops at the first value it
// cannot parse, so each typed setting gets its own struct.
type textSettings struct {
	Features  string `envconfig:"FEATURES"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

type sizeSetting struct {
	MaxFixedSize int `envconfig:"MAX_FIXED_SIZE" default:"32"`
}

type alignSetting struct {
	CheckAlignment bool `envconfig:"CHECK_ALIGNMENT" default:"false"`
}

// Load reads the configuration from the environment. The returned Config
// is always usable: every invalid setting is replaced by its default and
// reported in the joined error.
func Load() (Config, error) {
	cfg := Default()
	var errs []error

	var text textSettings
	if err := envconfig.Process(Prefix, &text); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	} else {
		cfg.Features, cfg.LogLevel, cfg.LogFormat = text.Features, text.LogLevel, text.LogFormat
	}
	var size sizeSetting
	if err := envconfig.Process(Prefix, &size); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	} else {
		cfg.MaxFixedSize = size.MaxFixedSize
	}
	var align alignSetting
	if err := envconfig.Process(Prefix, &align); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	} else {
		cfg.CheckAlignment = align.CheckAlignment
	}
	cfg.NoSimd = isa.NoSimdEnv()

	cfg, err := cfg.Sanitize()
	errs = append(errs, err)
	return cfg, errors.Join(errs...)
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{MaxFixedSize: 32, LogLevel: "warn", LogFormat: "console"}
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	_, err := c.Sanitize()
	return err
}

// Sanitize returns c with every invalid setting replaced by its default,
// and the joined errors describing what was replaced.
func (c Config) Sanitize() (Config, error) {
	d := Default()
	var errs []error
	if c.MaxFixedSize < 1 || c.MaxFixedSize > 64 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidMaxFixedSize, c.MaxFixedSize))
		c.MaxFixedSize = d.MaxFixedSize
	}
	switch c.LogFormat {
	case "json", "console", "text":
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.LogFormat))
		c.LogFormat = d.LogFormat
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel))
		c.LogLevel = d.LogLevel
	}
	if c.Features != "" {
		if _, err := isa.Parse(c.Features); err != nil {
			errs = append(errs, fmt.Errorf("config: SIMD_FEATURES: %w", err))
			c.Features = d.Features
		}
	}
	return c, errors.Join(errs...)
}

// ResolveFeatures returns the feature set to run with. SIMD_NO_SIMD wins,
// then SIMD_FEATURES, then the detected host features. Features named in
// SIMD_FEATURES need not exist on the host: every vector operation is
// emulated, the feature set only selects which instruction sequences are
// modelled.
func (c Config) ResolveFeatures(host isa.Features) (isa.Features, error) {
	switch {
	case c.NoSimd:
		return 0, nil
	case c.Features != "":
		return isa.Parse(c.Features)
	}
	return host, nil
}
