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
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/maskred"
)

// Mask is a per-lane boolean for vectors of T lanes. Its storage follows
// the ABI: a vector of all-ones lanes, an AVX-512 bitmask, a bool, or a
// list of native masks for fixed_size.
type Mask[T Lanes] struct {
	raw maskred.Raw
	f   isa.Features
}

// MaskOf returns the mask of a with every lane set to b.
func MaskOf[T Lanes](a ABI, b bool) Mask[T] {
	var bits uint64
	if b {
		bits = ^uint64(0)
	}
	return MaskFromBits[T](a, bits)
}

// MaskFromBits returns the mask of a whose lane i is bit i of bits.
func MaskFromBits[T Lanes](a ABI, bits uint64) Mask[T] {
	f := CurrentFeatures()
	mustValidate(a, kindOf[T](), f)
	return Mask[T]{raw: maskred.FromBits(a, kindOf[T](), f, bits), f: f}
}

// MaskFromBools returns the mask of a from one bool per lane. It panics
// when len(lanes) differs from Size[T](a).
func MaskFromBools[T Lanes](a ABI, lanes []bool) Mask[T] {
	f := CurrentFeatures()
	mustValidate(a, kindOf[T](), f)
	return Mask[T]{raw: maskred.FromBools(a, kindOf[T](), f, lanes), f: f}
}

// LoadMask reads Size[T](a) bools from src.
func LoadMask[T Lanes](a ABI, src []bool, fl Flags) Mask[T] {
	n := Size[T](a)
	checkExtent("LoadMask", len(src), n)
	checkAddr("LoadMask", unsafe.Pointer(unsafe.SliceData(src)), len(src), fl.required(MaskMemoryAlignment[T](a)), fl)
	return MaskFromBools[T](a, src[:n])
}

// StoreMask writes one bool per lane of m to dst.
func StoreMask[T Lanes](m Mask[T], dst []bool, fl Flags) {
	checkExtent("StoreMask", len(dst), m.Size())
	checkAddr("StoreMask", unsafe.Pointer(unsafe.SliceData(dst)), len(dst), fl.required(MaskMemoryAlignment[T](m.raw.ABI)), fl)
	copy(dst, m.raw.Bools())
}

// ABI returns the ABI of m.
func (m Mask[T]) ABI() ABI { return m.raw.ABI }

// Size returns the number of lanes.
func (m Mask[T]) Size() int { return m.raw.Size() }

// Get reports whether lane i is set.
func (m Mask[T]) Get(i int) bool { return m.raw.Lane(i) }

// Bits returns one bit per lane.
func (m Mask[T]) Bits() uint64 { return m.raw.ToBits() }

// Bools returns the lanes as bools.
func (m Mask[T]) Bools() []bool { return m.raw.Bools() }

// Raw returns the ABI representation of m.
func (m Mask[T]) Raw() maskred.Raw { return m.raw }

func (m Mask[T]) String() string { return m.raw.String() }

// MaskAnd returns a && b per lane.
func MaskAnd[T Lanes](a, b Mask[T]) Mask[T] {
	sameMasks("MaskAnd", a, b)
	return Mask[T]{raw: maskred.And(a.raw, b.raw), f: a.f}
}

// MaskOr returns a || b per lane.
func MaskOr[T Lanes](a, b Mask[T]) Mask[T] {
	sameMasks("MaskOr", a, b)
	return Mask[T]{raw: maskred.Or(a.raw, b.raw), f: a.f}
}

// MaskXor returns a != b per lane.
func MaskXor[T Lanes](a, b Mask[T]) Mask[T] {
	sameMasks("MaskXor", a, b)
	return Mask[T]{raw: maskred.Xor(a.raw, b.raw), f: a.f}
}

// MaskNot returns !m per lane.
func MaskNot[T Lanes](m Mask[T]) Mask[T] { return Mask[T]{raw: maskred.Not(m.raw), f: m.f} }

// AllOf reports whether every lane of m is set.
func AllOf[T Lanes](m Mask[T]) bool { return maskred.AllOf(m.raw, m.f) }

// AnyOf reports whether at least one lane of m is set.
func AnyOf[T Lanes](m Mask[T]) bool { return maskred.AnyOf(m.raw, m.f) }

// NoneOf reports whether no lane of m is set.
func NoneOf[T Lanes](m Mask[T]) bool { return maskred.NoneOf(m.raw, m.f) }

// SomeOf reports whether m has both set and clear lanes.
func SomeOf[T Lanes](m Mask[T]) bool { return maskred.SomeOf(m.raw, m.f) }

// PopCount returns the number of set lanes.
func PopCount[T Lanes](m Mask[T]) int { return maskred.PopCount(m.raw, m.f) }

// FindFirstSet returns the index of the lowest set lane, or -1 when m is
// empty.
func FindFirstSet[T Lanes](m Mask[T]) int { return maskred.FindFirstSet(m.raw, m.f) }

// FindLastSet returns the index of the highest set lane, or -1 when m is
// empty.
func FindLastSet[T Lanes](m Mask[T]) int { return maskred.FindLastSet(m.raw, m.f) }

func sameMaskShape[T Lanes](op string, v Vec[T], m Mask[T]) {
	if v.abi != m.raw.ABI || v.f != m.f {
		panic(fmt.Sprintf("simd: %s of %s vector (%s) with %s mask (%s)", op, v.abi, v.f, m.raw.ABI, m.f))
	}
}

func sameMasks[T Lanes](op string, a, b Mask[T]) {
	if a.raw.ABI != b.raw.ABI || a.f != b.f {
		panic(fmt.Sprintf("simd: %s of %s (%s) and %s (%s)", op, a.raw.ABI, a.f, b.raw.ABI, b.f))
	}
}
