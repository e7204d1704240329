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

// Package logging builds the zap loggers used by the simd packages and the
// simdinfo command.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/ajroetker/go-simd/internal/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration options.
type Config struct {
	// Format is the output encoding: "json" or "console" ("text" is an alias).
	Format string
	// Level is the minimum level: "debug", "info", "warn" or "error".
	Level string
	// Output is where entries are written (defaults to os.Stderr).
	Output zapcore.WriteSyncer
}

// DefaultConfig matches the defaults of SIMD_LOG_LEVEL and SIMD_LOG_FORMAT.
func DefaultConfig() Config {
	return Config{Format: "console", Level: "warn", Output: os.Stderr}
}

// NewLogger creates a logger named "simd" whose entries are also counted
// in simd_log_entries_total by level.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	output := cfg.Output
	if output == nil {
		output = zapcore.Lock(os.Stderr)
	}
	core := zapcore.RegisterHooks(zapcore.NewCore(encoder, output, level), countEntry)
	return zap.New(core, zap.AddCaller()).Named("simd"), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	switch strings.ToLower(format) {
	case "console", "text", "":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		return zapcore.NewConsoleEncoder(ec), nil
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		return zapcore.NewJSONEncoder(ec), nil
	}
	return nil, fmt.Errorf("invalid log format: %q", format)
}

func countEntry(e zapcore.Entry) error {
	metrics.LogEntriesTotal.WithLabelValues(e.Level.String()).Inc()
	return nil
}

// ParseLevel converts a level name to a zapcore.Level. Only debug through
// error are accepted; the simd packages never panic through the logger.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.EqualFold(level, "warning") {
		return zapcore.WarnLevel, nil
	}
	l, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %q", level)
	}
	return l, nil
}

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// L returns the process-wide logger. It discards everything until Set is
// called.
func L() *zap.Logger {
	return global.Load()
}

// Set replaces the process-wide logger and returns the previous one. A nil
// logger restores the discarding default.
func Set(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return global.Swap(l)
}
