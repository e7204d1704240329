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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajroetker/go-simd/simd"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDeduce(t *testing.T) {
	out, err := run(t, "deduce", "float32", "3", "--features", "sse2")
	require.NoError(t, err)
	assert.Contains(t, out, "sse<12><float32> with sse2")
	assert.Contains(t, out, "partial: true")

	out, err = run(t, "deduce", "float64", "7", "--features", "avx2")
	require.NoError(t, err)
	assert.Contains(t, out, "fixed_size<7>")
	assert.Contains(t, out, "layout:")

	_, err = run(t, "deduce", "bool", "3")
	assert.Error(t, err)
	_, err = run(t, "deduce", "int8", "65")
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	out, err := run(t, "plan", "--from", "uint32", "--to", "float32", "--features", "sse2")
	require.NoError(t, err)
	assert.Contains(t, out, "x86/u32-halves (synthetic)")

	out, err = run(t, "plan", "--from", "int32", "--from-bytes", "64", "--to", "float32", "--features", "avx512")
	require.NoError(t, err)
	assert.Contains(t, out, "x86/cvtdq2ps (direct)")

	_, err = run(t, "plan", "--args", "3")
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := run(t, "table", "--features", "neon-a64", "--backend", "neon")
	require.NoError(t, err)
	assert.Contains(t, out, "neon/")
	assert.NotContains(t, out, "x86/")
	assert.Contains(t, out, "cases for neon-a64:")
}

func TestVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("verifies every conversion case")
	}
	out, err := run(t, "verify", "--presets", "sse2,neon", "--parallel", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "sse2")
	assert.Contains(t, out, "ok")

	_, err = run(t, "verify", "--presets", "mmx")
	assert.ErrorContains(t, err, "unknown presets")
}

func TestFeatures(t *testing.T) {
	out, err := run(t, "features", "--features", "avx2")
	require.NoError(t, err)
	assert.Contains(t, out, "active:    ")
	assert.Contains(t, out, "level avx2, width 32")
	assert.Contains(t, out, "presets:")
	assert.Contains(t, out, "hardware:  ")
	assert.Contains(t, out, "sse        arith x86, masks x86")
	assert.Contains(t, out, "neon       arith neon, masks neon")
	assert.Contains(t, out, "fixed_size arith generic, masks generic")
}

func TestMetrics(t *testing.T) {
	out, err := run(t, "metrics", "--features", "avx2")
	require.NoError(t, err)
	assert.Contains(t, out, "simd_convert_calls_total")
	assert.Contains(t, out, "simd_abi_deduce_total")
}

func TestEnvFile(t *testing.T) {
	t.Cleanup(func() {
		os.Unsetenv("SIMD_FEATURES")
		os.Unsetenv("SIMD_MAX_FIXED_SIZE")
		require.NoError(t, simd.Reload())
	})

	file := filepath.Join(t.TempDir(), "simd.env")
	require.NoError(t, os.WriteFile(file, []byte("SIMD_FEATURES=neon-a64\nSIMD_MAX_FIXED_SIZE=16\n"), 0o600))

	out, err := run(t, "--env-file", file, "deduce", "int32", "20")
	assert.Error(t, err, out)
	assert.Equal(t, isa.MustParse("neon-a64"), simd.CurrentFeatures())

	_, err = run(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "features")
	assert.Error(t, err)
}
