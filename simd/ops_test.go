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

	"github.com/stretchr/testify/assert"
)

func TestIntegerOps(t *testing.T) {
	xs := []int16{7, -7, 100, math.MinInt16, 1, -1, 0, math.MaxInt16}
	ys := []int16{2, 2, -3, 7, 15, 16, 5, 1}
	counts := []int16{0, 1, 2, 3, 15, 16, 5, 1}

	tests := []struct {
		name string
		op   func(x, y, c Vec[int16]) Vec[int16]
		want []int16
	}{
		{"Mod", func(x, y, _ Vec[int16]) Vec[int16] { return Mod(x, y) }, []int16{1, -1, 1, -1, 1, -1, 0, 0}},
		{"ShiftLeft", func(x, _, _ Vec[int16]) Vec[int16] { return ShiftLeft(x, 3) }, []int16{56, -56, 800, 0, 8, -8, 0, -8}},
		{"ShiftRight", func(x, _, _ Vec[int16]) Vec[int16] { return ShiftRight(x, 3) }, []int16{0, -1, 12, -4096, 0, -1, 0, 4095}},
		{"ShiftLeftWide", func(x, _, _ Vec[int16]) Vec[int16] { return ShiftLeft(x, 16) }, make([]int16, 8)},
		{"ShiftRightWide", func(x, _, _ Vec[int16]) Vec[int16] { return ShiftRight(x, 40) }, []int16{0, -1, 0, -1, 0, -1, 0, 0}},
		{"ShiftLeftBy", func(x, _, c Vec[int16]) Vec[int16] { return ShiftLeftBy(x, c) }, []int16{7, -14, 400, 0, math.MinInt16, 0, 0, -2}},
		{"ShiftRightBy", func(x, _, c Vec[int16]) Vec[int16] { return ShiftRightBy(x, c) }, []int16{7, -4, 25, -4096, 0, -1, 0, 16383}},
		{"Not", func(x, _, _ Vec[int16]) Vec[int16] { return Not(x) }, []int16{-8, 6, -101, math.MaxInt16, -2, 0, -1, math.MinInt16}},
		{"Clamp", func(x, _, _ Vec[int16]) Vec[int16] {
			return Clamp(x, Broadcast(x.ABI(), int16(-10)), Broadcast(x.ABI(), int16(50)))
		}, []int16{7, -7, 50, -10, 1, -1, 0, 50}},
		{"Min", func(x, y, _ Vec[int16]) Vec[int16] { lo, _ := MinMax(x, y); return lo }, []int16{2, -7, -3, math.MinInt16, 1, -1, 0, 1}},
		{"Max", func(x, y, _ Vec[int16]) Vec[int16] { _, hi := MinMax(x, y); return hi }, []int16{7, 2, 100, 7, 15, 16, 5, math.MaxInt16}},
	}
	forPresets(t, func(t *testing.T) {
		a := Deduce[int16](8)
		x := Load(a, xs, ElementAligned)
		y := Load(a, ys, ElementAligned)
		c := Load(a, counts, ElementAligned)
		for _, tt := range tests {
			got := tt.op(x, y, c)
			assert.Equal(t, tt.want, got.Lanes(), tt.name)
			assert.Equal(t, a, got.ABI(), tt.name)
		}

		assert.Panics(t, func() { Mod(x, Zero[int16](a)) })
		assert.Panics(t, func() { ShiftLeft(x, -1) })
		assert.Panics(t, func() { ShiftRightBy(x, y) }, "negative count lane")
		assert.Panics(t, func() { Clamp(x, Broadcast(a, int16(1)), Broadcast(a, int16(0))) })
	})
}

func TestUnsignedShifts(t *testing.T) {
	forPresets(t, func(t *testing.T) {
		for _, n := range []int{2, 5, 16} {
			a := Deduce[uint16](n)
			v := Generate(a, func(i int) uint16 { return 0x8000 | uint16(i) })
			for _, s := range []int{0, 3, 15, 16, 100} {
				want := make([]uint16, n)
				for i := range want {
					want[i] = (0x8000 | uint16(i)) >> uint(s)
				}
				assert.Equal(t, want, ShiftRight(v, s).Lanes(), "%d lanes >> %d", n, s)
			}
			assert.Equal(t, Generate(a, func(i int) uint16 { return uint16(i) << 4 }).Lanes(), ShiftLeft(v, 4).Lanes())
		}
	})
}

func TestFloatClamp(t *testing.T) {
	forPresets(t, func(t *testing.T) {
		a := Deduce[float32](5)
		x := Load(a, []float32{-2.5, -0.5, 0, 0.75, 9}, ElementAligned)
		got := Clamp(x, Broadcast(a, float32(-1)), Broadcast(a, float32(1)))
		assert.Equal(t, []float32{-1, -0.5, 0, 0.75, 1}, got.Lanes())

		lo, hi := MinMax(x, Broadcast(a, float32(0)))
		assert.Equal(t, []float32{-2.5, -0.5, 0, 0, 0}, lo.Lanes())
		assert.Equal(t, []float32{0, 0, 0, 0.75, 9}, hi.Lanes())
	})
}
