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
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/neon"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// neonReducer reduces D and Q vector masks.
type neonReducer struct {
	f isa.Features
}

func (neonReducer) name() string { return "neon" }

func (neonReducer) all(m Raw) bool {
	x := vreg.And(m.Reg, implicitReg(m))
	if x.Bytes() == 8 {
		return x.Bits(8, 0) == ^uint64(0)
	}
	// Two all-ones 64-bit lanes sum to -2.
	return int64(x.Bits(8, 0)+x.Bits(8, 1)) == -2
}

func (neonReducer) any(m Raw) bool {
	x := vreg.And(m.Reg, implicitReg(m))
	if x.Bytes() == 8 {
		return x.Bits(8, 0) != 0
	}
	return x.Bits(8, 0)|x.Bits(8, 1) != 0
}

func (r neonReducer) some(m Raw) bool { return r.any(m) && !r.all(m) }

// halve folds a Q register to a D register of pairwise sums, using the
// Q-form vpaddq on AArch64.
func (r neonReducer) halve(q vreg.Reg, size int) vreg.Reg {
	if r.f.Has(isa.NEONA64) {
		return neon.GetLow(neon.Padd(q, q, size))
	}
	return neon.Padd(neon.GetLow(q), neon.GetHigh(q), size)
}

func (r neonReducer) popcount(m Raw) int {
	size := m.Kind.Size()
	x := neon.Neg(vreg.And(m.Reg, implicitReg(m)), size)
	if size == 8 {
		return int(neon.Add(neon.GetLow(x), neon.GetHigh(x), 8).Bits(8, 0))
	}
	d := x
	if x.Bytes() == 16 {
		d = r.halve(x, size)
	}
	for n := d.Lanes(size); n > 1; n /= 2 {
		d = neon.Padd(d, d, size)
	}
	return int(d.Bits(size, 0))
}

// movemask gathers one bit per lane by weighting lane i with 1<<i (1<<(i%8)
// for bytes) and summing with vpadd.
func (r neonReducer) movemask(m Raw) uint64 {
	size := m.Kind.Size()
	x := vreg.And(m.Reg, implicitReg(m))
	if size == 8 {
		return x.Bits(8, 0)&1 | (x.Bits(8, 1)&1)<<1
	}
	w := vreg.Generate(x.Bytes(), size, func(i int) uint64 {
		if size == 1 {
			return 1 << uint(i%8)
		}
		return 1 << uint(i)
	})
	x = neon.And(x, w)
	if x.Bytes() == 8 {
		for n := x.Lanes(size); n > 1; n /= 2 {
			x = neon.Padd(x, x, size)
		}
		return x.Bits(size, 0)
	}
	d := r.halve(x, size)
	for n := d.Lanes(size) / 2; n > 1; n /= 2 {
		d = neon.Padd(d, d, size)
	}
	if size == 1 {
		return d.Bits(1, 0) | d.Bits(1, 1)<<8
	}
	return d.Bits(size, 0) + d.Bits(size, 1)
}

func (r neonReducer) first(m Raw) int { return FirstBit(r.movemask(m)) }

func (r neonReducer) last(m Raw) int { return LastBit(r.movemask(m)) }
