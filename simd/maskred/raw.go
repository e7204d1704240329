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

// Package maskred reduces raw masks to scalars: all/any/none/some-of,
// population count and first/last set lane.
//
// A raw mask takes the representation of its ABI: a register of all-ones
// or all-zero lanes (SSE, AVX, NEON), a k-register bitmask (AVX-512), a
// single bool (scalar) or an ordered list of native masks (fixed_size).
// Each reduction runs the instruction sequence the feature set allows.
// Lanes past the logical lane count of a partial register are cleared with
// the ABI's implicit mask before any reduction looks at them.
package maskred

import (
	"fmt"
	"strings"

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Raw is a mask in the storage representation of its ABI. Only the field
// matching ABI.MaskRep() is meaningful.
type Raw struct {
	ABI  abi.ABI
	Kind vreg.Kind
	// Reg holds vector masks, RegisterBytes wide.
	Reg vreg.Reg
	// Bits holds bitmasks, one bit per lane.
	Bits uint64
	// Bool holds the scalar mask.
	Bool bool
	// Parts holds the native masks of a fixed_size mask in lane order.
	Parts []Raw
}

// FromBits builds the mask of a whose lane i is bit i of bits. Bits past
// the lane count are ignored.
func FromBits(a abi.ABI, k vreg.Kind, f isa.Features, bits uint64) Raw {
	m := Raw{ABI: a, Kind: k}
	n := a.Size(k)
	bits &= abi.LaneMask(n)
	switch a.MaskRep() {
	case abi.BoolMask:
		m.Bool = bits&1 != 0
	case abi.BitMask:
		m.Bits = bits
	case abi.CompositeMask:
		off := 0
		for _, p := range abi.Layout(k, n, f) {
			m.Parts = append(m.Parts, FromBits(p, k, f, bits>>uint(off)))
			off += p.Size(k)
		}
	default:
		m.Reg = vreg.New(a.RegisterBytes(k))
		for i := 0; i < n; i++ {
			if bits>>uint(i)&1 != 0 {
				m.Reg.SetBits(k.Size(), i, k.Mask())
			}
		}
	}
	return m
}

// FromBools builds the mask of a from one bool per lane.
func FromBools(a abi.ABI, k vreg.Kind, f isa.Features, lanes []bool) Raw {
	if len(lanes) != a.Size(k) {
		panic(fmt.Sprintf("maskred: %d bools for %d lanes of %s", len(lanes), a.Size(k), a))
	}
	var bits uint64
	for i, b := range lanes {
		if b {
			bits |= 1 << uint(i)
		}
	}
	return FromBits(a, k, f, bits)
}

// Size returns the logical lane count.
func (m Raw) Size() int { return m.ABI.Size(m.Kind) }

// Lane reports whether lane i is set.
func (m Raw) Lane(i int) bool {
	if i < 0 || i >= m.Size() {
		panic(fmt.Sprintf("maskred: lane %d out of range [0, %d)", i, m.Size()))
	}
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return m.Bool
	case abi.BitMask:
		return m.Bits>>uint(i)&1 != 0
	case abi.CompositeMask:
		for _, p := range m.Parts {
			if i < p.Size() {
				return p.Lane(i)
			}
			i -= p.Size()
		}
	}
	return m.Reg.Bits(m.Kind.Size(), i) != 0
}

// ToBits returns one bit per logical lane, read lane by lane.
func (m Raw) ToBits() uint64 {
	var bits uint64
	for i := 0; i < m.Size(); i++ {
		if m.Lane(i) {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// Bools returns the lanes as bools.
func (m Raw) Bools() []bool {
	out := make([]bool, m.Size())
	for i := range out {
		out[i] = m.Lane(i)
	}
	return out
}

func (m Raw) String() string {
	var sb strings.Builder
	sb.WriteString(m.ABI.String())
	sb.WriteByte('[')
	for i := 0; i < m.Size(); i++ {
		if m.Lane(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// implicitReg returns a register of m's width with the logical lanes set.
func implicitReg(m Raw) vreg.Reg {
	r := vreg.New(m.Reg.Bytes())
	for i := 0; i < m.ABI.Bytes(m.Kind); i++ {
		r.SetByte(i, 0xff)
	}
	return r
}

func sameShape(op string, a, b Raw) {
	if a.ABI != b.ABI || a.Kind != b.Kind {
		panic(fmt.Sprintf("maskred: %s of %s<%s> and %s<%s>", op, a.ABI, a.Kind, b.ABI, b.Kind))
	}
}

func combine(op string, a, b Raw, bits func(x, y uint64) uint64, reg func(x, y vreg.Reg) vreg.Reg) Raw {
	sameShape(op, a, b)
	out := Raw{ABI: a.ABI, Kind: a.Kind}
	switch a.ABI.MaskRep() {
	case abi.BoolMask:
		var x, y uint64
		if a.Bool {
			x = 1
		}
		if b.Bool {
			y = 1
		}
		out.Bool = bits(x, y)&1 != 0
	case abi.BitMask:
		out.Bits = bits(a.Bits, b.Bits) & a.ABI.ImplicitMask(a.Kind)
	case abi.CompositeMask:
		out.Parts = make([]Raw, len(a.Parts))
		for i := range a.Parts {
			out.Parts[i] = combine(op, a.Parts[i], b.Parts[i], bits, reg)
		}
	default:
		out.Reg = vreg.And(reg(a.Reg, b.Reg), implicitReg(a))
	}
	return out
}

// And returns the lanewise conjunction of a and b.
func And(a, b Raw) Raw {
	return combine("And", a, b, func(x, y uint64) uint64 { return x & y }, vreg.And)
}

// Or returns the lanewise disjunction of a and b.
func Or(a, b Raw) Raw {
	return combine("Or", a, b, func(x, y uint64) uint64 { return x | y }, vreg.Or)
}

// Xor returns the lanewise exclusive or of a and b.
func Xor(a, b Raw) Raw {
	return combine("Xor", a, b, func(x, y uint64) uint64 { return x ^ y }, vreg.Xor)
}

// Not inverts every logical lane; padding lanes stay clear.
func Not(m Raw) Raw {
	return combine("Not", m, m, func(x, _ uint64) uint64 { return ^x }, func(x, _ vreg.Reg) vreg.Reg {
		return vreg.Xor(x, vreg.Ones(x.Bytes()))
	})
}
