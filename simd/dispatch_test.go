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
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/ajroetker/go-simd/internal/config"
	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// setEnv sets SIMD_* variables for the test and restores the dispatch
// state afterwards.
func setEnv(t *testing.T, kv ...string) {
	t.Helper()
	for _, name := range []string{
		"SIMD_NO_SIMD", "HWY_NO_SIMD", "SIMD_FEATURES", "SIMD_MAX_FIXED_SIZE",
		"SIMD_CHECK_ALIGNMENT", "SIMD_LOG_LEVEL", "SIMD_LOG_FORMAT",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	for i := 0; i+1 < len(kv); i += 2 {
		t.Setenv(kv[i], kv[i+1])
	}
	features, size, align, logger := CurrentFeatures(), abi.MaxFixedSize(), checkAlignment.Load(), logging.L()
	t.Cleanup(func() {
		store(features)
		require.NoError(t, abi.SetMaxFixedSize(size))
		checkAlignment.Store(align)
		logging.Set(logger)
	})
}

func TestConfigureFromEnv(t *testing.T) {
	setEnv(t, "SIMD_FEATURES", "sse2", "SIMD_MAX_FIXED_SIZE", "16", "SIMD_LOG_LEVEL", "info", "SIMD_LOG_FORMAT", "json")
	cfg, err := config.Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	configure(cfg, err, zapcore.AddSync(&buf))
	assert.Equal(t, isa.MustParse("sse2"), CurrentFeatures())
	assert.Equal(t, 16, abi.MaxFixedSize())
	assert.Contains(t, buf.String(), `"msg":"simd dispatch"`)
	assert.Contains(t, buf.String(), `"preset":"sse2"`)
}

func TestBadSettingKeepsFeatures(t *testing.T) {
	tests := []struct {
		name, key, value string
		want             error
	}{
		{"log format", "SIMD_LOG_FORMAT", "xml", config.ErrInvalidLogFormat},
		{"log level", "SIMD_LOG_LEVEL", "trace", config.ErrInvalidLogLevel},
		{"fixed size", "SIMD_MAX_FIXED_SIZE", "100", config.ErrInvalidMaxFixedSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "SIMD_FEATURES", "sse2", tt.key, tt.value)
			cfg, err := config.Load()
			require.True(t, errors.Is(err, tt.want), "got %v", err)

			var buf bytes.Buffer
			configure(cfg, err, zapcore.AddSync(&buf))
			assert.Equal(t, isa.MustParse("sse2"), CurrentFeatures())
			assert.Equal(t, "sse2", CurrentLevel())
			assert.Contains(t, buf.String(), "ignoring invalid SIMD settings")
			assert.Contains(t, buf.String(), tt.value)
		})
	}
}

func TestReloadAppliesValidSettings(t *testing.T) {
	setEnv(t, "SIMD_FEATURES", "neon", "SIMD_CHECK_ALIGNMENT", "true", "SIMD_LOG_LEVEL", "loud")
	err := Reload()
	assert.True(t, errors.Is(err, config.ErrInvalidLogLevel), "got %v", err)
	assert.Equal(t, isa.MustParse("neon"), CurrentFeatures())
	assert.True(t, checkAlignment.Load())

	setEnv(t, "SIMD_NO_SIMD", "1", "SIMD_FEATURES", "avx2")
	require.NoError(t, Reload())
	assert.Equal(t, "scalar", CurrentLevel())
}
