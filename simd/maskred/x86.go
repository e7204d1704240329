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

package maskred

import (
	"math/bits"

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/ajroetker/go-simd/simd/x86"
)

// x86Reducer reduces xmm/ymm vector masks.
type x86Reducer struct {
	f isa.Features
}

func (x86Reducer) name() string { return "x86" }

// movemask returns the sign bits of m's register together with the number
// of bits each lane contributes: movmskpd and movmskps give one, pmovmskb
// gives one per byte.
func (x86Reducer) movemask(m Raw) (mm uint64, per int) {
	switch m.Kind.Size() {
	case 8:
		return x86.MovemaskPD(m.Reg), 1
	case 4:
		return x86.MovemaskPS(m.Reg), 1
	}
	return x86.MovemaskEpi8(m.Reg), m.Kind.Size()
}

// implicitBits is the movemask of the logical lanes.
func (r x86Reducer) implicitBits(m Raw) uint64 {
	_, per := r.movemask(m)
	return abi.LaneMask(m.Size() * per)
}

func (r x86Reducer) all(m Raw) bool {
	if r.f.Has(isa.SSE41) {
		return x86.TestC(m.Reg, implicitReg(m))
	}
	mm, _ := r.movemask(m)
	k := r.implicitBits(m)
	return mm&k == k
}

func (r x86Reducer) any(m Raw) bool {
	if r.f.Has(isa.SSE41) {
		return !x86.TestZ(m.Reg, implicitReg(m))
	}
	mm, _ := r.movemask(m)
	return mm&r.implicitBits(m) != 0
}

func (r x86Reducer) some(m Raw) bool {
	if r.f.Has(isa.SSE41) {
		return x86.TestNZC(m.Reg, implicitReg(m))
	}
	mm, _ := r.movemask(m)
	k := r.implicitBits(m)
	return mm&k != 0 && mm&k != k
}

func (r x86Reducer) popcount(m Raw) int {
	if r.f.Has(isa.POPCNT) {
		mm, per := r.movemask(m)
		return bits.OnesCount64(mm&r.implicitBits(m)) / per
	}
	x := vreg.And(m.Reg, implicitReg(m))
	if x.Bytes() == 32 {
		return popcountXMM(x86.Lo128(x), m.Kind.Size()) + popcountXMM(x86.Hi128(x), m.Kind.Size())
	}
	return popcountXMM(x, m.Kind.Size())
}

// popcountXMM counts the all-ones lanes of an xmm with shuffle-and-add
// networks. Every lane is 0 or -1, so the sums are negated counts.
func popcountXMM(x vreg.Reg, size int) int {
	switch size {
	case 8:
		mm := x86.MovemaskPD(x)
		return int(mm - mm>>1)
	case 4:
		x = x86.Add(x, x86.ShuffleEpi32(x, 0x1b), 4)
		x = x86.Add(x, x86.ShuffleLoEpi16(x, 0x4e), 4)
		return -int(int32(x86.Cvtsi128Si32(x)))
	case 2:
		x = x86.Add(x, x86.ShuffleEpi32(x, 0x1b), 2)
		x = x86.Add(x, x86.ShuffleLoEpi16(x, 0x1b), 2)
		x = x86.Add(x, x86.ShuffleLoEpi16(x, 0xb1), 2)
		return -int(int16(x86.ExtractEpi16(x, 0)))
	}
	x = x86.Add(x, x86.ShuffleEpi32(x, 0x1b), 1)
	x = x86.Add(x, x86.ShuffleLoEpi16(x, 0x1b), 1)
	x = x86.Add(x, x86.ShuffleLoEpi16(x, 0xb1), 1)
	y := x86.Sub(x86.Zero(16), x, 1)
	z := x86.ExtractEpi16(y, 0)
	return int(z&0xff) + int(z>>8)
}

func (r x86Reducer) first(m Raw) int {
	mm, per := r.movemask(m)
	i := FirstBit(mm & r.implicitBits(m))
	if i < 0 {
		return -1
	}
	return i / per
}

func (r x86Reducer) last(m Raw) int {
	mm, per := r.movemask(m)
	i := LastBit(mm & r.implicitBits(m))
	if i < 0 {
		return -1
	}
	return i / per
}
