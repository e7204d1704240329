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

package neon

import (
	"math"
	"testing"

	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/stretchr/testify/assert"
)

func TestMoves(t *testing.T) {
	d := vreg.FromSlice([]int8{-1, 2, -128, 127, 0, 1, -2, 5})
	assert.Equal(t, []int16{-1, 2, -128, 127, 0, 1, -2, 5}, vreg.ToSlice[int16](Movl(d, 1, true)))
	assert.Equal(t, []uint16{255, 2, 128, 127, 0, 1, 254, 5}, vreg.ToSlice[uint16](Movl(d, 1, false)))

	q := vreg.FromSlice([]uint32{0x10001, 0x2ffff, 3, 0xabcd1234})
	assert.Equal(t, []uint16{1, 0xffff, 3, 0x1234}, vreg.ToSlice[uint16](Movn(q, 4)))

	assert.Panics(t, func() { Movl(q, 4, true) })
	assert.Panics(t, func() { Movn(d, 2) })
}

func TestHalves(t *testing.T) {
	q := vreg.FromSlice([]uint32{1, 2, 3, 4})
	assert.Equal(t, []uint32{1, 2}, vreg.ToSlice[uint32](GetLow(q)))
	assert.Equal(t, []uint32{3, 4}, vreg.ToSlice[uint32](GetHigh(q)))
	assert.True(t, vreg.Equal(q, Combine(GetLow(q), GetHigh(q))))
	assert.Equal(t, []uint32{1, 3, 1, 3}, vreg.ToSlice[uint32](Uzp1(q, q, 4)))
}

func TestPairwise(t *testing.T) {
	a := vreg.FromSlice([]uint16{1, 2, 3, 4})
	b := vreg.FromSlice([]uint16{10, 20, 30, 40})
	assert.Equal(t, []uint16{3, 7, 30, 70}, vreg.ToSlice[uint16](Padd(a, b, 2)))

	q := vreg.GenerateOf(16, func(i int) uint8 { return uint8(i) })
	got := vreg.ToSlice[uint8](Padd(q, q, 1))
	assert.Equal(t, []uint8{1, 5, 9, 13, 17, 21, 25, 29}, got[:8])

	assert.Equal(t, []uint16{11, 22, 33, 44}, vreg.ToSlice[uint16](Add(a, b, 2)))
	assert.Equal(t, []int16{-1, -2, -3, -4}, vreg.ToSlice[int16](Neg(a, 2)))
	assert.Panics(t, func() { Padd(a, q, 1) })
}

func TestConversions(t *testing.T) {
	f := vreg.FromSlice([]float32{2.9, -2.9, 3e9, float32(math.NaN())})
	assert.Equal(t, []int32{2, -2, math.MaxInt32, 0}, vreg.ToSlice[int32](CvtS32F32(f)))
	assert.Equal(t, []uint32{2, 0, 3000000000, 0}, vreg.ToSlice[uint32](CvtU32F32(f)))

	i := vreg.FromSlice([]int32{-1, 16777217, 7, math.MinInt32})
	assert.Equal(t, []float32{-1, 16777216, 7, math.MinInt32}, vreg.ToSlice[float32](CvtF32S32(i)))
	assert.Equal(t, []float32{4294967296, 16777216, 7, 2147483648}, vreg.ToSlice[float32](CvtF32U32(i)))

	d := vreg.FromSlice([]float64{-1e300, 1.5})
	assert.Equal(t, []int64{math.MinInt64, 1}, vreg.ToSlice[int64](CvtS64F64(d)))
	assert.Equal(t, []uint64{0, 1}, vreg.ToSlice[uint64](CvtU64F64(d)))

	l := vreg.FromSlice([]int64{-3, 1<<53 + 1})
	assert.Equal(t, []float64{-3, 1 << 53}, vreg.ToSlice[float64](CvtF64S64(l)))
	assert.Equal(t, []float64{18446744073709551616, 1 << 53}, vreg.ToSlice[float64](CvtF64U64(l)))

	w := CvtF64F32(vreg.FromSlice([]float32{0.5, -8}))
	assert.Equal(t, []float64{0.5, -8}, vreg.ToSlice[float64](w))
	assert.Equal(t, []float32{0.5, -8}, vreg.ToSlice[float32](CvtF32F64(w)))
}

func TestArithmetic(t *testing.T) {
	a := vreg.FromSlice([]int16{5, -3, 300, math.MinInt16})
	b := vreg.FromSlice([]int16{2, 4, 300, 1})
	assert.Equal(t, []int16{3, -7, 0, math.MaxInt16}, vreg.ToSlice[int16](Sub(a, b, 2)))
	assert.Equal(t, []int16{10, -12, 24464, math.MinInt16}, vreg.ToSlice[int16](Mul(a, b, 2)))
	assert.Panics(t, func() { Mul(vreg.FromSlice([]int64{1, 2}), vreg.FromSlice([]int64{1, 2}), 8) })

	p, q := float32(0.1), float32(0.2)
	f := vreg.FromSlice([]float32{1.5, -2, p, 3})
	g := vreg.FromSlice([]float32{0.25, 2, q, -1})
	assert.Equal(t, []float32{1.75, 0, p + q, 2}, vreg.ToSlice[float32](Fadd(f, g, 4)))
	assert.Equal(t, []float32{1.25, -4, p - q, 4}, vreg.ToSlice[float32](Fsub(f, g, 4)))
	assert.Equal(t, []float32{0.375, -4, p * q, -3}, vreg.ToSlice[float32](Fmul(f, g, 4)))

	big, tenth := 1e300, 0.1
	d := vreg.FromSlice([]float64{big, tenth})
	assert.Equal(t, []float64{math.Inf(1), tenth * tenth}, vreg.ToSlice[float64](Fmul(d, d, 8)))
}

func TestLogic(t *testing.T) {
	a := vreg.FromSlice([]uint8{0xf0, 0x0f, 0xff, 0x00, 1, 2, 3, 4})
	b := vreg.FromSlice([]uint8{0xff, 0xff, 0x0f, 0xf0, 1, 1, 1, 1})
	assert.Equal(t, []uint8{0xff, 0xff, 0xff, 0xf0, 1, 3, 3, 5}, vreg.ToSlice[uint8](Orr(a, b)))
	assert.Equal(t, []uint8{0x0f, 0xf0, 0xf0, 0xf0, 0, 3, 2, 5}, vreg.ToSlice[uint8](Eor(a, b)))
	assert.Equal(t, []uint8{0, 0, 0xf0, 0, 0, 2, 2, 4}, vreg.ToSlice[uint8](Bic(a, b)))
	assert.Equal(t, []uint8{0xf0, 0x0f, 0xff, 0x00, 1, 2, 3, 4}, vreg.ToSlice[uint8](And(a, Dup(8, 1, 0xff))))

	m := vreg.FromSlice([]uint16{0xffff, 0, 0xffff, 0})
	x := vreg.FromSlice([]uint16{1, 2, 3, 4})
	y := vreg.FromSlice([]uint16{10, 20, 30, 40})
	assert.Equal(t, []uint16{1, 20, 3, 40}, vreg.ToSlice[uint16](Bsl(m, x, y)))
}

func TestCompares(t *testing.T) {
	a := vreg.FromSlice([]int32{1, -1, 7, math.MinInt32})
	b := vreg.FromSlice([]int32{1, 1, 3, 0})
	assert.Equal(t, []int32{-1, 0, 0, 0}, vreg.ToSlice[int32](Ceq(a, b, 4)))
	assert.Equal(t, []int32{0, 0, -1, 0}, vreg.ToSlice[int32](Cgt(a, b, 4, true)))
	assert.Equal(t, []int32{0, -1, -1, -1}, vreg.ToSlice[int32](Cgt(a, b, 4, false)))
}

func TestShifts(t *testing.T) {
	a := vreg.FromSlice([]int16{1, -8, math.MinInt16, 0x4001})
	assert.Equal(t, []int16{8, -64, 0, 8}, vreg.ToSlice[int16](Shl(a, 2, 3)))
	assert.Equal(t, []int16{0, -1, -4096, 0x800}, vreg.ToSlice[int16](Shr(a, 2, 3, true)))
	assert.Equal(t, []int16{0, 0x1fff, 0x1000, 0x800}, vreg.ToSlice[int16](Shr(a, 2, 3, false)))
	assert.Equal(t, []int16{0, -1, -1, 0}, vreg.ToSlice[int16](Shr(a, 2, 16, true)))
	assert.Equal(t, make([]int16, 4), vreg.ToSlice[int16](Shr(a, 2, 16, false)))
	assert.Equal(t, make([]int16, 4), vreg.ToSlice[int16](Shl(a, 2, 40)))
}
