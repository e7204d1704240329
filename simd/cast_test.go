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
	"math"
	"testing"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionScenarios(t *testing.T) {
	forPresets(t, func(t *testing.T) {
		t.Run("int32 to float32", func(t *testing.T) {
			v := Load(Deduce[int32](8), iota32(8), ElementAligned)
			got := Convert[float32](v)
			assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, got.Lanes())
			assert.Equal(t, Deduce[float32](8), got.ABI())
		})

		t.Run("float64 to int64 truncates", func(t *testing.T) {
			v := Load(Deduce[float64](4), []float64{1.5, -1.5, 1 << 53, -(1 << 53)}, ElementAligned)
			got := Convert[int64](v)
			assert.Equal(t, []int64{1, -1, 9007199254740992, -9007199254740992}, got.Lanes())
		})

		t.Run("uint8 to int16 zero-extends", func(t *testing.T) {
			v := Generate(Deduce[uint8](16), func(i int) uint8 { return uint8(i) })
			got := Convert[int16](v)
			want := make([]int16, 16)
			for i := range want {
				want[i] = int16(i)
			}
			assert.Equal(t, want, got.Lanes())
		})

		t.Run("uint8 above 127 stays positive", func(t *testing.T) {
			v := Generate(Deduce[uint8](16), func(i int) uint8 { return uint8(240 + i) })
			for i, x := range Convert[int16](v).Lanes() {
				assert.Equal(t, int16(240+i), x)
			}
		})
	})
}

func TestConvertFrom(t *testing.T) {
	forPresets(t, func(t *testing.T) {
		a := Deduce[int32](4)
		lo := Load(a, []int32{0, 1, 2, 3}, ElementAligned)
		hi := Load(a, []int32{4, 5, -6, 70000}, ElementAligned)
		got := ConvertFrom[int16](lo, hi)
		assert.Equal(t, Deduce[int16](8), got.ABI())
		assert.Equal(t, []int16{0, 1, 2, 3, 4, 5, -6, int16(70000 - 65536)}, got.Lanes())

		d := Deduce[float64](4)
		vs := make([]Vec[float64], 4)
		for i := range vs {
			vs[i] = Generate(d, func(j int) float64 { return float64(4*i+j) + 0.25 })
		}
		f := ConvertFrom[float32](vs...)
		require.Equal(t, 16, f.Size())
		for j, x := range f.Lanes() {
			assert.Equal(t, float32(j)+0.25, x)
		}

		three := ConvertFrom[float64](lo, hi, lo)
		assert.Equal(t, 12, three.Size())
		assert.Equal(t, 70000.0, three.Get(7))
	})
}

func TestConvertLargeFixedSize(t *testing.T) {
	for _, level := range []string{"scalar", "sse2", "avx2", "avx512", "neon-a64"} {
		t.Run(level, func(t *testing.T) {
			defer SetFeatures(isa.MustParse(level))()
			a := FixedSize(32)
			v := Generate(a, func(i int) int8 { return int8(i - 16) })
			f := Convert[float64](v)
			assert.Equal(t, a, f.ABI())
			for i, x := range f.Lanes() {
				assert.Equal(t, float64(i-16), x)
			}
			back := Convert[int8](Add(f, Broadcast(a, 0.75)))
			for i, x := range back.Lanes() {
				assert.Equal(t, int8(math.Trunc(float64(i-16)+0.75)), x, "lane %d", i)
			}
		})
	}
}

func TestStaticCast(t *testing.T) {
	defer SetFeatures(isa.MustParse("avx2"))()
	v := Load(SSE(16), []int32{-1, 2, -3, 4}, ElementAligned)

	w := StaticCast[float64](v, AVX())
	assert.Equal(t, AVX(), w.ABI())
	assert.Equal(t, []float64{-1, 2, -3, 4}, w.Lanes())

	u := StaticCast[uint32](v, FixedSize(4))
	assert.Equal(t, []uint32{math.MaxUint32, 2, math.MaxUint32 - 2, 4}, u.Lanes())

	assert.Panics(t, func() { StaticCast[float64](v, SSE(16)) }, "lane count differs")
	assert.Panics(t, func() { StaticCast[float64](v, AVX512()) }, "invalid ABI")
}

func TestSplitConcat(t *testing.T) {
	defer SetFeatures(isa.MustParse("avx2"))()
	v := Load(AVX(), iota32(8), ElementAligned)

	halves := SplitN(v, 2)
	require.Len(t, halves, 2)
	assert.Equal(t, SSE(16), halves[0].ABI())
	assert.Equal(t, []int32{4, 5, 6, 7}, halves[1].Lanes())

	parts := Split(v, 3, 5)
	assert.Equal(t, SSE(12), parts[0].ABI())
	assert.Equal(t, FixedSize(5), parts[1].ABI())
	assert.Equal(t, []int32{0, 1, 2}, parts[0].Lanes())
	assert.Equal(t, []int32{3, 4, 5, 6, 7}, parts[1].Lanes())

	joined := Concat(parts...)
	assert.Equal(t, AVX(), joined.ABI())
	assert.Equal(t, v.Lanes(), joined.Lanes())
	assert.Equal(t, AVX(), Concat(halves...).ABI())

	assert.Panics(t, func() { Split(v, 3, 4) })
	assert.Panics(t, func() { SplitN(v, 3) })

	fixed := ToFixedSize(v)
	assert.Equal(t, FixedSize(8), fixed.ABI())
	assert.Equal(t, FixedSize(4), SplitN(fixed, 2)[0].ABI())
	assert.Equal(t, AVX(), ToNative(fixed).ABI())
	assert.Equal(t, SSE(16), ToCompatible(halves[1]).ABI())
	assert.Panics(t, func() { ToNative(halves[0]) })
}

func TestConvertMask(t *testing.T) {
	forPresets(t, func(t *testing.T) {
		v := Load(Deduce[int32](8), iota32(8), ElementAligned)
		m := Less(v, Broadcast(v.ABI(), int32(3)))
		d := ConvertMask[float64](m)
		assert.Equal(t, Deduce[float64](8), d.ABI())
		assert.Equal(t, m.Bools(), d.Bools())
		assert.Equal(t, 0, FindFirstSet(d))
		assert.Equal(t, 2, FindLastSet(d))
	})
}

func TestConvertMatchesGo(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, level := range []string{"sse2", "avx2", "avx512", "neon"} {
		f := isa.MustParse(level)
		properties.Property(level+": uint32 to float32 rounds like Go", prop.ForAll(
			func(xs []uint32) bool {
				defer SetFeatures(f)()
				got := Convert[float32](Load(Deduce[uint32](8), xs, ElementAligned)).Lanes()
				for i, x := range xs {
					if got[i] != float32(x) {
						return false
					}
				}
				return true
			},
			gen.SliceOfN(8, gen.UInt32()),
		))
		properties.Property(level+": int32 round-trips through float64", prop.ForAll(
			func(xs []int32) bool {
				defer SetFeatures(f)()
				v := Load(Deduce[int32](8), xs, ElementAligned)
				back := Convert[int32](Convert[float64](v)).Lanes()
				for i, x := range xs {
					if back[i] != x {
						return false
					}
				}
				return true
			},
			gen.SliceOfN(8, gen.Int32()),
		))
		properties.Property(level+": int64 narrowing keeps low bits", prop.ForAll(
			func(xs []int64) bool {
				defer SetFeatures(f)()
				got := Convert[uint16](Load(Deduce[int64](4), xs, ElementAligned)).Lanes()
				for i, x := range xs {
					if got[i] != uint16(x) {
						return false
					}
				}
				return true
			},
			gen.SliceOfN(4, gen.Int64()),
		))
	}
	properties.TestingRun(t)
}
