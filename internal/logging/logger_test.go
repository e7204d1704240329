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

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ajroetker/go-simd/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"JSON Info", "json", "info"},
		{"JSON Debug", "json", "debug"},
		{"Console Warn", "console", "warn"},
		{"Text Error", "text", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(Config{Format: tt.format, Level: tt.level, Output: zapcore.AddSync(&buf)})
			require.NoError(t, err)
			logger.Error("heartbeat")
			assert.Contains(t, buf.String(), "heartbeat")
		})
	}
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(Config{Format: "json", Level: "verbose"})
	assert.Error(t, err)
	_, err = NewLogger(Config{Format: "xml", Level: "info"})
	assert.Error(t, err)
	_, err = NewLogger(Config{Format: "json", Level: "panic"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "debug", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	logger.Debug("plan selected", zap.String("strategy", "cvtdq2ps"), zap.Int("args", 2))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "plan selected", entry["msg"])
	assert.Equal(t, "cvtdq2ps", entry["strategy"])
	assert.Equal(t, float64(2), entry["args"])
	assert.Equal(t, "simd", entry["logger"])
	assert.Contains(t, entry, "ts")
}

func TestLevelFilteringAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "warn", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("warn"))
	logger.Info("dropped")
	logger.With(zap.String("pkg", "abi")).Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("warn")))
}

func TestGlobal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "info", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	prev := Set(logger)
	defer Set(prev)

	L().Info("global")
	assert.Contains(t, buf.String(), "global")

	Set(nil)
	L().Info("silent")
	assert.NotContains(t, buf.String(), "silent")
}
