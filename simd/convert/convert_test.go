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

package convert

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

func preset(t testing.TB, name string) isa.Features {
	t.Helper()
	p, ok := isa.PresetByName(name)
	require.True(t, ok, name)
	return p.Features
}

func TestVerifyPresets(t *testing.T) {
	for _, p := range isa.Presets {
		t.Run(p.Name, func(t *testing.T) {
			t.Parallel()
			mismatches := VerifyAll(p.Features)
			for _, m := range lo.Slice(mismatches, 0, 10) {
				t.Error(m)
			}
			assert.Empty(t, mismatches)
		})
	}
}

func TestStrategySelection(t *testing.T) {
	tests := []struct {
		preset string
		c      Case
		want   string
	}{
		{"avx512", Case{vreg.Int32, 64, vreg.Float32, 64, 1}, "x86/cvtdq2ps"},
		{"sse2", Case{vreg.Uint32, 16, vreg.Float32, 16, 1}, "x86/u32-halves"},
		{"avx512", Case{vreg.Uint32, 16, vreg.Float32, 16, 1}, "x86/cvtudq2ps"},
		{"avx512", Case{vreg.Uint64, 64, vreg.Float32, 32, 1}, "x86/cvtuqq2ps"},
		{"avx2", Case{vreg.Uint64, 16, vreg.Float32, 16, 1}, "generic/per-lane"},
		{"sse4.1", Case{vreg.Int8, 16, vreg.Int32, 16, 1}, "x86/pmovsx"},
		{"sse2", Case{vreg.Int8, 16, vreg.Int32, 16, 1}, "x86/widen-chain"},
		{"sse2", Case{vreg.Uint16, 16, vreg.Int32, 16, 1}, "x86/unpack-widen"},
		{"sse2", Case{vreg.Int16, 16, vreg.Int32, 32, 1}, "x86/unpack-widen-pair"},
		{"ssse3", Case{vreg.Int8, 16, vreg.Uint16, 32, 1}, "x86/unpack-widen-pair"},
		{"ssse3", Case{vreg.Int32, 16, vreg.Int8, 16, 1}, "x86/pshufb"},
		{"sse2", Case{vreg.Int32, 16, vreg.Int16, 16, 1}, "x86/pack"},
		{"avx512", Case{vreg.Int16, 64, vreg.Int8, 32, 1}, "x86/vpmov"},
		{"avx", Case{vreg.Int32, 32, vreg.Int16, 16, 1}, "x86/split"},
		{"sse2", Case{vreg.Float64, 16, vreg.Float32, 16, 2}, "x86/cvtpd2ps-2arg"},
		{"avx", Case{vreg.Float64, 16, vreg.Float32, 16, 2}, "x86/concat-args"},
		{"sse2", Case{vreg.Int32, 16, vreg.Int16, 16, 2}, "x86/packssdw-2arg"},
		{"avx2", Case{vreg.Uint32, 32, vreg.Int16, 32, 2}, "x86/packssdw-2arg-ymm"},
		{"sse2", Case{vreg.Float32, 12, vreg.Float64, 24, 1}, "x86/zext-src"},
		{"sse4.1", Case{vreg.Float64, 16, vreg.Uint32, 16, 1}, "x86/f64-trunc-bias"},
		{"sse2", Case{vreg.Int64, 16, vreg.Float64, 16, 1}, "x86/i64-halves"},
		{"sse4.2", Case{vreg.Uint64, 16, vreg.Float64, 16, 1}, "x86/u64-magic"},
		{"avx2", Case{vreg.Uint64, 32, vreg.Float64, 32, 1}, "x86/u64-magic"},
		{"neon-a64", Case{vreg.Int32, 16, vreg.Int16, 16, 2}, "neon/uzp1-2arg"},
		{"neon", Case{vreg.Int32, 16, vreg.Int16, 16, 2}, "neon/split-args"},
		{"neon", Case{vreg.Int16, 16, vreg.Int32, 16, 1}, "neon/vmovl"},
		{"neon", Case{vreg.Float32, 16, vreg.Float64, 16, 1}, "generic/per-lane"},
		{"neon-a64", Case{vreg.Float32, 16, vreg.Float64, 16, 1}, "neon/fcvtl"},
		{"neon-a64", Case{vreg.Int64, 16, vreg.Float32, 8, 1}, "generic/per-lane"},
		{"neon", Case{vreg.Uint8, 8, vreg.Float32, 16, 1}, "neon/widen-int"},
		{"scalar", Case{vreg.Int32, 4, vreg.Float32, 4, 1}, "generic/per-lane"},
		{"scalar", Case{vreg.Uint32, 16, vreg.Int32, 16, 1}, "generic/bitcast"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.preset, tt.c), func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.c, preset(t, tt.preset)).String())
		})
	}
}

func TestStrategyTable(t *testing.T) {
	names := lo.Map(Strategies(), func(s *Strategy, _ int) string { return s.String() })
	assert.Equal(t, len(names), len(lo.Uniq(names)), "duplicate strategy names")
	assert.Equal(t, "generic/per-lane", names[len(names)-1])

	for _, p := range Table(0) {
		assert.Equal(t, "generic", p.Strategy.Backend, p.String())
	}
	for _, p := range Table(preset(t, "avx2")) {
		assert.NotEqual(t, "neon", p.Strategy.Backend, p.String())
	}
}

func TestScenarios(t *testing.T) {
	for _, p := range isa.Presets {
		t.Run(p.Name, func(t *testing.T) {
			f := p.Features

			ints := vreg.VectorOf[int32](0, 1, 2, 3, 4, 5, 6, 7)
			got := Convert1(vreg.Float32, 32, f, ints)
			assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, vreg.Values[float32](got))

			floats := vreg.VectorOf[float64](1.5, -1.5, 1<<53, -(1 << 53))
			got = Convert1(vreg.Int64, 32, f, floats)
			assert.Equal(t, []int64{1, -1, 9007199254740992, -9007199254740992}, vreg.Values[int64](got))

			bytes := vreg.Vector{Reg: vreg.GenerateOf(16, func(i int) uint8 { return uint8(i) }), Kind: vreg.Uint8}
			got = Convert1(vreg.Int16, 32, f, bytes)
			want := lo.Times(16, func(i int) int16 { return int16(i) })
			if diff := cmp.Diff(want, vreg.Values[int16](got)); diff != "" {
				t.Errorf("uint8 -> int16 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIdentityKeepsBits(t *testing.T) {
	in := vreg.Make(vreg.Float32, 16)
	for i, bits := range []uint64{0x7fc00123, 0x80000000, 0x7f800000, 0xff7fffff} {
		in.SetLane(i, bits)
	}
	for _, p := range isa.Presets {
		got := Convert1(vreg.Float32, 16, p.Features, in)
		assert.True(t, vreg.Equal(in.Reg, got.Reg), p.Name)

		u := Convert1(vreg.Uint32, 16, p.Features, in)
		assert.Equal(t, uint64(0x7fc00123), u.Lane(0), p.Name)
	}
}

func TestDiscardingConversions(t *testing.T) {
	f := preset(t, "avx2")
	a := vreg.VectorOf[int32](1, 2, 3, 4)
	b := vreg.VectorOf[int32](5, 6, 7, 8)
	assert.PanicsWithValue(t,
		"convert: 2xint32[4] -> int32[4]: 4 source lanes would be discarded",
		func() { Convert2(vreg.Int32, 16, f, a, b) })

	// The single-argument form keeps the low lanes.
	got := Convert1(vreg.Int16, 4, f, vreg.Vector{Reg: vreg.Concat(a.Reg, b.Reg), Kind: vreg.Int32})
	assert.Equal(t, []int16{1, 2}, vreg.Values[int16](got))

	assert.Panics(t, func() { Convert(vreg.Int32, 16, f, a, b, a) })
	assert.Panics(t, func() { Convert2(vreg.Int32, 32, f, a, vreg.VectorOf[int16](1, 2)) })
	assert.Panics(t, func() { Convert1(vreg.Int32, 6, f, a) })
}

func TestPaddingIsZero(t *testing.T) {
	for _, p := range isa.Presets {
		v := vreg.VectorOf[float64](-1, 2)
		got := Convert1(vreg.Int8, 16, p.Features, v)
		assert.Equal(t, []int8{-1, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, vreg.Values[int8](got), p.Name)
	}
}

func TestMultiArgument(t *testing.T) {
	parts := [8]vreg.Vector{}
	for i := range parts {
		parts[i] = vreg.VectorOf(float64(2*i)+0.5, float64(-2*i-1))
	}
	want := make([]int16, 16)
	for i := range parts {
		want[2*i], want[2*i+1] = int16(2*i), int16(-2*i-1)
	}
	for _, p := range isa.Presets {
		t.Run(p.Name, func(t *testing.T) {
			f := p.Features
			got := Convert8(vreg.Int16, 32, f, parts)
			assert.Equal(t, want, vreg.Values[int16](got))

			got = Convert4(vreg.Float32, 32, f, parts[0], parts[1], parts[2], parts[3])
			assert.Equal(t, []float32{0.5, -1, 2.5, -3, 4.5, -5, 6.5, -7}, vreg.Values[float32](got))

			u := vreg.VectorOf[uint32](1, 1<<31, 0xffffffff, 7)
			got = Convert2(vreg.Float64, 64, f, u, u)
			assert.Equal(t, []float64{1, 1 << 31, 0xffffffff, 7, 1, 1 << 31, 0xffffffff, 7}, vreg.Values[float64](got))
		})
	}
}

// A uint64 whose float32 rounding differs from rounding through float64.
func TestNoDoubleRounding(t *testing.T) {
	x := uint64(1<<56 + 1<<32 + 1)
	require.NotEqual(t, float32(float64(x)), float32(x))
	for _, p := range isa.Presets {
		got := Convert1(vreg.Float32, 8, p.Features, vreg.VectorOf(x, x-1))
		assert.Equal(t, []float32{float32(x), float32(x - 1)}, vreg.Values[float32](got), p.Name)
	}
}

func TestSyntheticSequences(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)
	sse2, sse41 := preset(t, "sse2"), preset(t, "sse4.1")

	properties.Property("uint32 to float32 by halves", prop.ForAll(
		func(x uint32) bool {
			got := Convert1(vreg.Float32, 16, sse2, vreg.VectorOf(x, ^x, x>>7, 0))
			return cmp.Equal([]float32{float32(x), float32(^x), float32(x >> 7), 0}, vreg.Values[float32](got))
		},
		gen.UInt32(),
	))

	properties.Property("float32 to uint32 by bias", prop.ForAll(
		func(x float32) bool {
			got := Convert1(vreg.Uint32, 16, sse2, vreg.VectorOf(x, x/3, 0, 1))
			return cmp.Equal([]uint32{uint32(x), uint32(x / 3), 0, 1}, vreg.Values[uint32](got))
		},
		gen.Float32Range(0, 4294967040),
	))

	properties.Property("float64 to uint32 by truncation", prop.ForAll(
		func(x float64) bool {
			want := uint32(math.Trunc(x))
			got := Convert1(vreg.Uint32, 16, sse41, vreg.VectorOf(x, 0.75))
			return vreg.Values[uint32](got)[0] == want
		},
		gen.Float64Range(-0.99, 4294967295),
	))

	properties.Property("int64 to float64 by halves", prop.ForAll(
		func(x int64) bool {
			got := Convert1(vreg.Float64, 16, sse2, vreg.VectorOf(x, -x))
			return cmp.Equal([]float64{float64(x), float64(-x)}, vreg.Values[float64](got))
		},
		gen.Int64(),
	))

	properties.Property("uint64 to float64 by halves", prop.ForAll(
		func(x uint64) bool {
			got := Convert1(vreg.Float64, 16, sse2, vreg.VectorOf(x, x>>11))
			return cmp.Equal([]float64{float64(x), float64(x >> 11)}, vreg.Values[float64](got))
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestSamplesExcludeUnspecified(t *testing.T) {
	for _, bits := range Samples(vreg.Float32, vreg.Uint8) {
		x := vreg.FloatValue(vreg.Float32, bits)
		assert.False(t, math.IsNaN(x))
		assert.True(t, math.Trunc(x) >= 0 && math.Trunc(x) < 256, x)
	}
	assert.Contains(t, Samples(vreg.Uint64, vreg.Float32), uint64(1<<56+1<<32+1))
	assert.Contains(t, Samples(vreg.Int8, vreg.Float32), uint64(0x80))
	assert.True(t, lo.SomeBy(Samples(vreg.Float64, vreg.Float32), func(b uint64) bool {
		return math.IsNaN(math.Float64frombits(b))
	}))
}

func TestFallbackReference(t *testing.T) {
	v := vreg.VectorOf[int16](-1, 300, -32768)
	got := Fallback(vreg.Uint8, 8, v)
	assert.Equal(t, []uint8{0xff, 44, 0, 0, 0, 0, 0, 0}, vreg.Values[uint8](got))
	assert.Equal(t, "2xfloat64[2] -> float32[4]", Case{vreg.Float64, 16, vreg.Float32, 16, 2}.String())
	assert.Equal(t, "synthetic", TierSynthetic.String())
}
