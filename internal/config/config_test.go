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

package config

import (
	"errors"
	"os"
	"testing"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SIMD_NO_SIMD", "HWY_NO_SIMD", "SIMD_FEATURES", "SIMD_MAX_FIXED_SIZE",
		"SIMD_CHECK_ALIGNMENT", "SIMD_LOG_LEVEL", "SIMD_LOG_FORMAT",
	} {
		// Setenv registers the restore; envconfig treats a set but empty
		// variable as a value, so unset it afterwards.
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	f, err := cfg.ResolveFeatures(isa.MustParse("avx2"))
	require.NoError(t, err)
	assert.Equal(t, isa.MustParse("avx2"), f)
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIMD_FEATURES", "sse4.1")
	t.Setenv("SIMD_MAX_FIXED_SIZE", "64")
	t.Setenv("SIMD_CHECK_ALIGNMENT", "true")
	t.Setenv("SIMD_LOG_LEVEL", "debug")
	t.Setenv("SIMD_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxFixedSize)
	assert.True(t, cfg.CheckAlignment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	f, err := cfg.ResolveFeatures(isa.MustParse("avx512"))
	require.NoError(t, err)
	assert.Equal(t, isa.MustParse("sse4.1"), f)
}

func TestNoSimdWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("HWY_NO_SIMD", "1")
	t.Setenv("SIMD_FEATURES", "avx2")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.NoSimd)
	f, err := cfg.ResolveFeatures(isa.MustParse("avx2"))
	require.NoError(t, err)
	assert.Equal(t, isa.Features(0), f)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero fixed size", func(c *Config) { c.MaxFixedSize = 0 }, ErrInvalidMaxFixedSize},
		{"huge fixed size", func(c *Config) { c.MaxFixedSize = 65 }, ErrInvalidMaxFixedSize},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
		{"bad features", func(c *Config) { c.Features = "avx1024" }, isa.ErrUnknownFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadKeepsValidSettings(t *testing.T) {
	tests := []struct {
		name, key, value string
		want             error
	}{
		{"unknown log format", "SIMD_LOG_FORMAT", "xml", ErrInvalidLogFormat},
		{"unknown log level", "SIMD_LOG_LEVEL", "trace", ErrInvalidLogLevel},
		{"fixed size out of range", "SIMD_MAX_FIXED_SIZE", "128", ErrInvalidMaxFixedSize},
		{"fixed size not a number", "SIMD_MAX_FIXED_SIZE", "many", nil},
		{"alignment not a bool", "SIMD_CHECK_ALIGNMENT", "maybe", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SIMD_FEATURES", "sse2")
			t.Setenv("SIMD_LOG_LEVEL", "debug")
			t.Setenv("SIMD_MAX_FIXED_SIZE", "48")
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
			assert.Equal(t, "sse2", cfg.Features)
			assert.NoError(t, cfg.Validate())
			if tt.key != "SIMD_MAX_FIXED_SIZE" {
				assert.Equal(t, 48, cfg.MaxFixedSize)
			}
			if tt.key != "SIMD_LOG_LEVEL" {
				assert.Equal(t, "debug", cfg.LogLevel)
			}

			f, err := cfg.ResolveFeatures(isa.MustParse("avx512"))
			require.NoError(t, err)
			assert.Equal(t, isa.MustParse("sse2"), f)
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := Config{Features: "avx1024", MaxFixedSize: 0, LogLevel: "trace", LogFormat: "xml", CheckAlignment: true}
	got, err := cfg.Sanitize()
	for _, want := range []error{ErrInvalidMaxFixedSize, ErrInvalidLogFormat, ErrInvalidLogLevel, isa.ErrUnknownFeature} {
		assert.True(t, errors.Is(err, want), "missing %v in %v", want, err)
	}
	want := Default()
	want.CheckAlignment = true
	assert.Equal(t, want, got)

	got, err = Default().Sanitize()
	assert.NoError(t, err)
	assert.Equal(t, Default(), got)
}
