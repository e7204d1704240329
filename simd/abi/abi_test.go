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

package abi

import (
	"errors"
	"testing"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	none    = isa.Features(0)
	sse2    = isa.MustParse("sse2")
	avx     = isa.MustParse("avx")
	avx2    = isa.MustParse("avx2")
	avx512f = isa.MustParse("avx512f")
	avx512  = isa.MustParse("avx512")
	neon    = isa.MustParse("neon")
	neon64  = isa.MustParse("neon-a64")
)

func TestValidity(t *testing.T) {
	tests := []struct {
		a    ABI
		k    vreg.Kind
		f    isa.Features
		want bool
	}{
		{Scalar(), vreg.Float64, none, true},
		{SSE(16), vreg.Float32, sse2, true},
		{SSE(12), vreg.Float32, sse2, true},
		{SSE(4), vreg.Float32, sse2, false}, // one lane
		{SSE(6), vreg.Float32, sse2, false}, // not a whole lane count
		{SSE(16), vreg.Float32, none, false},
		{SSE(32), vreg.Int8, avx512, false},
		{AVX(), vreg.Float32, avx, true},
		{AVX(), vreg.Int32, avx, false},
		{AVX(), vreg.Int32, avx2, true},
		{AVX512(), vreg.Float64, avx512f, true},
		{AVX512(), vreg.Int16, avx512f, false},
		{AVX512(), vreg.Int16, avx512, true},
		{NEON(16), vreg.Float32, neon, true},
		{NEON(8), vreg.Int16, neon, true},
		{NEON(12), vreg.Float32, neon, false},
		{NEON(8), vreg.Int64, neon, false},
		{NEON(16), vreg.Float64, neon, false},
		{NEON(16), vreg.Float64, neon64, true},
		{Fixed(32), vreg.Float64, none, true},
		{Fixed(33), vreg.Float64, none, false},
		{Fixed(64), vreg.Int8, avx512, true},
		{Fixed(64), vreg.Float32, avx512, true}, // int8 lane count of a zmm
		{Fixed(64), vreg.Int8, avx512f, false},
		{Fixed(0), vreg.Int8, avx512, false},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"/"+tt.k.String()+"/"+tt.f.Level(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Valid(tt.k, tt.f))
			err := tt.a.Validate(tt.k, tt.f)
			assert.Equal(t, tt.want, err == nil)
			if err != nil {
				assert.True(t, errors.Is(err, ErrInvalidABI))
			}
		})
	}
}

func TestDeduce(t *testing.T) {
	tests := []struct {
		k    vreg.Kind
		n    int
		f    isa.Features
		want ABI
	}{
		{vreg.Float32, 1, avx2, Scalar()},
		{vreg.Float32, 3, sse2, SSE(12)},
		{vreg.Float32, 4, avx2, SSE(16)},
		{vreg.Float32, 8, avx2, AVX()},
		{vreg.Float32, 8, avx, AVX()},
		{vreg.Int32, 8, avx, Fixed(8)},
		{vreg.Float32, 7, avx2, Fixed(7)},
		{vreg.Int8, 64, avx512, AVX512()},
		{vreg.Float32, 16, avx512f, AVX512()},
		{vreg.Float32, 4, neon, NEON(16)},
		{vreg.Int16, 4, neon, NEON(8)},
		{vreg.Float64, 2, neon, Fixed(2)},
		{vreg.Float64, 2, neon64, NEON(16)},
		{vreg.Float32, 4, none, Fixed(4)},
	}
	for _, tt := range tests {
		got, err := Deduce(tt.k, tt.n, tt.f)
		require.NoError(t, err, "%s x %d", tt.k, tt.n)
		assert.Equal(t, tt.want, got, "%s x %d with %s: got %s", tt.k, tt.n, tt.f, got)
		assert.Equal(t, tt.n, got.Size(tt.k))
	}

	_, err := Deduce(vreg.Float32, 33, avx2)
	assert.True(t, errors.Is(err, ErrNoABI))
	_, err = Deduce(vreg.Int8, 64, avx512f)
	assert.True(t, errors.Is(err, ErrNoABI))
	_, err = Deduce(vreg.Int8, 0, avx512)
	assert.True(t, errors.Is(err, ErrNoABI))
}

func TestMaxFixedSize(t *testing.T) {
	require.Equal(t, 32, MaxFixedSize())
	require.NoError(t, SetMaxFixedSize(48))
	defer func() { require.NoError(t, SetMaxFixedSize(32)) }()

	got, err := Deduce(vreg.Float32, 40, avx2)
	require.NoError(t, err)
	assert.Equal(t, Fixed(40), got)

	assert.Error(t, SetMaxFixedSize(0))
	assert.Error(t, SetMaxFixedSize(65))
	assert.Equal(t, 48, MaxFixedSize())
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name string
		k    vreg.Kind
		n    int
		f    isa.Features
		want []ABI
	}{
		{"float7/avx2", vreg.Float32, 7, avx2, []ABI{SSE(16), SSE(12)}},
		{"float32/avx2", vreg.Float32, 32, avx2, []ABI{AVX(), AVX(), AVX(), AVX()}},
		{"float13/avx512", vreg.Float32, 13, avx512, []ABI{AVX(), SSE(16), Scalar()}},
		{"int8_7/sse2", vreg.Int8, 7, sse2, []ABI{SSE(7)}},
		{"int32_12/avx", vreg.Int32, 12, avx, []ABI{SSE(16), SSE(16), SSE(16)}},
		{"float3/scalar", vreg.Float32, 3, none, []ABI{Scalar(), Scalar(), Scalar()}},
		{"float3/neon", vreg.Float32, 3, neon, []ABI{NEON(8), Scalar()}},
		{"double3/neon", vreg.Float64, 3, neon, []ABI{Scalar(), Scalar(), Scalar()}},
		{"float5/native", vreg.Float32, 5, avx2, []ABI{SSE(16), Scalar()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layout(tt.k, tt.n, tt.f)
			assert.Equal(t, tt.want, got)
			// Memoised: the second call returns the same backing array.
			again := Layout(tt.k, tt.n, tt.f)
			assert.Same(t, &got[0], &again[0])
		})
	}
	assert.Equal(t, []ABI{SSE(8)}, Parts(SSE(8), vreg.Int16, sse2))
	assert.Equal(t, []ABI{SSE(16), SSE(12)}, Parts(Fixed(7), vreg.Float32, avx2))
	assert.Panics(t, func() { Layout(vreg.Float32, 0, avx2) })
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("layout parts are valid and cover n lanes", prop.ForAll(
		func(ki, n, pi int) bool {
			k := vreg.Kinds[ki]
			f := isa.Presets[pi].Features
			total := 0
			for _, a := range Layout(k, n, f) {
				if a.IsFixed() || !a.Valid(k, f) {
					return false
				}
				total += a.Size(k)
			}
			return total == n
		},
		gen.IntRange(0, len(vreg.Kinds)-1),
		gen.IntRange(1, 64),
		gen.IntRange(0, len(isa.Presets)-1),
	))

	properties.Property("deduced ABI is valid and holds n lanes", prop.ForAll(
		func(ki, n, pi int) bool {
			k := vreg.Kinds[ki]
			f := isa.Presets[pi].Features
			a, err := Deduce(k, n, f)
			if err != nil {
				return errors.Is(err, ErrNoABI) && n > MaxFixedSize()
			}
			return a.Valid(k, f) && a.Size(k) == n
		},
		gen.IntRange(0, len(vreg.Kinds)-1),
		gen.IntRange(1, 64),
		gen.IntRange(0, len(isa.Presets)-1),
	))

	properties.TestingRun(t)
}

func TestNativeAndCompatible(t *testing.T) {
	tests := []struct {
		k                  vreg.Kind
		f                  isa.Features
		native, compatible ABI
	}{
		{vreg.Float32, none, Scalar(), Scalar()},
		{vreg.Float32, sse2, SSE(16), SSE(16)},
		{vreg.Float32, avx, AVX(), SSE(16)},
		{vreg.Int32, avx, SSE(16), SSE(16)},
		{vreg.Int32, avx2, AVX(), SSE(16)},
		{vreg.Int8, avx512f, AVX(), SSE(16)},
		{vreg.Int8, avx512, AVX512(), SSE(16)},
		{vreg.Float64, avx512f, AVX512(), SSE(16)},
		{vreg.Float32, neon, NEON(16), NEON(16)},
		{vreg.Float64, neon, Scalar(), Scalar()},
		{vreg.Float64, neon64, NEON(16), NEON(16)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.native, Native(tt.k, tt.f), "native %s %s", tt.k, tt.f)
		assert.Equal(t, tt.compatible, Compatible(tt.k, tt.f), "compatible %s %s", tt.k, tt.f)
	}
}

func TestTraits(t *testing.T) {
	a := SSE(12)
	assert.Equal(t, 3, a.Size(vreg.Float32))
	assert.Equal(t, 4, a.FullSize(vreg.Float32))
	assert.Equal(t, 16, a.RegisterBytes(vreg.Float32))
	assert.True(t, a.IsPartial(vreg.Float32))
	assert.Equal(t, uint64(0b111), a.ImplicitMask(vreg.Float32))
	assert.Equal(t, VectorMask, a.MaskRep())
	assert.Equal(t, 16, MemoryAlignment(a, vreg.Float32))
	assert.Equal(t, 4, MaskMemoryAlignment(a, vreg.Float32))

	n := NEON(8)
	assert.Equal(t, 4, n.FullSize(vreg.Int16))
	assert.False(t, n.IsPartial(vreg.Int16))

	f := Fixed(7)
	assert.Equal(t, 32, MemoryAlignment(f, vreg.Float32))
	assert.Equal(t, 8, MaskMemoryAlignment(f, vreg.Float32))
	assert.Equal(t, CompositeMask, f.MaskRep())
	assert.Equal(t, BitMask, AVX512().MaskRep())
	assert.Equal(t, BoolMask, Scalar().MaskRep())
	assert.Equal(t, 8, MemoryAlignment(Scalar(), vreg.Float64))
	assert.Equal(t, ^uint64(0), AVX512().ImplicitMask(vreg.Int8))
}

func TestStringParse(t *testing.T) {
	for _, a := range []ABI{Scalar(), SSE(12), AVX(), AVX512(), NEON(8), Fixed(7)} {
		got, err := Parse(a.String())
		require.NoError(t, err, a.String())
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "sse<12>", SSE(12).String())
	assert.Equal(t, "fixed_size<7>", Fixed(7).String())
	got, err := Parse("avx")
	require.NoError(t, err)
	assert.Equal(t, AVX(), got)
	for _, bad := range []string{"", "mmx<8>", "sse<x>", "sse<12", "neon"} {
		_, err := Parse(bad)
		assert.True(t, errors.Is(err, ErrInvalidABI), bad)
	}
}
