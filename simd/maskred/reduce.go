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
)

// vectorReducer reduces the register of a vector mask.
type vectorReducer interface {
	name() string
	all(m Raw) bool
	any(m Raw) bool
	some(m Raw) bool
	popcount(m Raw) int
	first(m Raw) int
	last(m Raw) int
}

func reducerFor(m Raw, f isa.Features) vectorReducer {
	switch m.ABI.MaskBackend() {
	case abi.X86Backend:
		if f.Has(isa.SSE2) {
			return x86Reducer{f: f}
		}
	case abi.NEONBackend:
		if f.Has(isa.NEON) {
			return neonReducer{f: f}
		}
	}
	return genericReducer{}
}

// Backend names the code path the reductions of m take under f.
func Backend(m Raw, f isa.Features) string {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return "bool"
	case abi.BitMask:
		return "kmask"
	case abi.CompositeMask:
		return "composite"
	}
	return reducerFor(m, f).name()
}

// AllOf reports whether every lane of m is set.
func AllOf(m Raw, f isa.Features) bool {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return m.Bool
	case abi.BitMask:
		k := m.ABI.ImplicitMask(m.Kind)
		return m.Bits&k == k
	case abi.CompositeMask:
		for _, p := range m.Parts {
			if !AllOf(p, f) {
				return false
			}
		}
		return true
	}
	return reducerFor(m, f).all(m)
}

// AnyOf reports whether at least one lane of m is set.
func AnyOf(m Raw, f isa.Features) bool {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return m.Bool
	case abi.BitMask:
		return m.Bits&m.ABI.ImplicitMask(m.Kind) != 0
	case abi.CompositeMask:
		for _, p := range m.Parts {
			if AnyOf(p, f) {
				return true
			}
		}
		return false
	}
	return reducerFor(m, f).any(m)
}

// NoneOf reports whether no lane of m is set.
func NoneOf(m Raw, f isa.Features) bool {
	return !AnyOf(m, f)
}

// SomeOf reports whether some but not all lanes of m are set. It is always
// false for one-lane masks.
func SomeOf(m Raw, f isa.Features) bool {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return false
	case abi.BitMask:
		k := m.ABI.ImplicitMask(m.Kind)
		b := m.Bits & k
		return b != 0 && b != k
	case abi.CompositeMask:
		if m.Size() < 2 {
			return false
		}
		return AnyOf(m, f) && !AllOf(m, f)
	}
	if m.Size() < 2 {
		return false
	}
	return reducerFor(m, f).some(m)
}

// PopCount returns the number of set lanes.
func PopCount(m Raw, f isa.Features) int {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		if m.Bool {
			return 1
		}
		return 0
	case abi.BitMask:
		return bits.OnesCount64(m.Bits & m.ABI.ImplicitMask(m.Kind))
	case abi.CompositeMask:
		n := 0
		for _, p := range m.Parts {
			n += PopCount(p, f)
		}
		return n
	}
	return reducerFor(m, f).popcount(m)
}

// FindFirstSet returns the index of the lowest set lane. The result for an
// all-false mask is -1; callers check AnyOf first.
func FindFirstSet(m Raw, f isa.Features) int {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		if m.Bool {
			return 0
		}
		return -1
	case abi.BitMask:
		return FirstBit(m.Bits & m.ABI.ImplicitMask(m.Kind))
	case abi.CompositeMask:
		off := 0
		for _, p := range m.Parts {
			if AnyOf(p, f) {
				return off + FindFirstSet(p, f)
			}
			off += p.Size()
		}
		return -1
	}
	return reducerFor(m, f).first(m)
}

// FindLastSet returns the index of the highest set lane, or -1 for an
// all-false mask.
func FindLastSet(m Raw, f isa.Features) int {
	switch m.ABI.MaskRep() {
	case abi.BoolMask:
		return FindFirstSet(m, f)
	case abi.BitMask:
		return LastBit(m.Bits & m.ABI.ImplicitMask(m.Kind))
	case abi.CompositeMask:
		off := m.Size()
		for i := len(m.Parts) - 1; i >= 0; i-- {
			p := m.Parts[i]
			off -= p.Size()
			if AnyOf(p, f) {
				return off + FindLastSet(p, f)
			}
		}
		return -1
	}
	return reducerFor(m, f).last(m)
}

// genericReducer reads the mask lane by lane.
type genericReducer struct{}

func (genericReducer) name() string { return "generic" }

func (genericReducer) all(m Raw) bool {
	return m.ToBits() == abi.LaneMask(m.Size())
}

func (genericReducer) any(m Raw) bool { return m.ToBits() != 0 }

func (g genericReducer) some(m Raw) bool { return g.any(m) && !g.all(m) }

func (genericReducer) popcount(m Raw) int { return bits.OnesCount64(m.ToBits()) }

func (genericReducer) first(m Raw) int { return FirstBit(m.ToBits()) }

func (genericReducer) last(m Raw) int { return LastBit(m.ToBits()) }
