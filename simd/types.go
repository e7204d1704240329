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

// Package simd provides fixed-width data-parallel vectors and masks whose
// operations are planned for an explicit instruction-set feature set.
//
// A Vec[T] holds the lanes of one ABI: a native register class (scalar,
// SSE, AVX, AVX-512, NEON) or a fixed_size composite of native registers.
// Every vector remembers the feature set it was built for, so vectors made
// before and after SetFeatures never mix silently.
//
// Basic usage:
//
//	a := simd.Native[float32]()
//	x := simd.Load(a, input, simd.ElementAligned)
//	y := simd.Add(x, simd.Broadcast(a, float32(1)))
//	simd.Store(y, output, simd.ElementAligned)
//
// Conversions between lane types go through the conversion engine in
// simd/convert, which picks the cheapest instruction sequence the feature
// set offers and falls back to a per-lane cast:
//
//	i := simd.Convert[int32](y)
package simd

import (
	"fmt"
	"strings"

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Floats is a constraint for floating-point types.
type Floats = vreg.Floats

// Integers is a constraint for all integer types.
type Integers = vreg.Integers

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes = vreg.Lanes

// Vec is a vector of lanes of type T laid out according to an ABI.
//
// Vec values should not be created directly; use Load, Broadcast, Generate
// or one of the operations.
type Vec[T Lanes] struct {
	abi abi.ABI
	f   isa.Features
	// parts holds one register per entry of abi.Parts, RegisterBytes wide.
	// Padding lanes are zero.
	parts []vreg.Reg
}

func kindOf[T Lanes]() vreg.Kind { return vreg.KindOf[T]() }

// mustValidate panics when a cannot hold lanes of kind k under f.
func mustValidate(a abi.ABI, k vreg.Kind, f isa.Features) {
	if err := a.Validate(k, f); err != nil {
		panic(err)
	}
}

// fromLanes builds a vector of ABI a holding xs.
func fromLanes[T Lanes](a abi.ABI, f isa.Features, xs []T) Vec[T] {
	k := kindOf[T]()
	layout := abi.Parts(a, k, f)
	v := Vec[T]{abi: a, f: f, parts: make([]vreg.Reg, len(layout))}
	off := 0
	for i, p := range layout {
		r := vreg.New(p.RegisterBytes(k))
		for j := 0; j < p.Size(k); j++ {
			vreg.Set(&r, j, xs[off+j])
		}
		v.parts[i] = r
		off += p.Size(k)
	}
	return v
}

// fromBytes builds a vector of ABI a from packed little-endian lanes.
func fromBytes[T Lanes](a abi.ABI, f isa.Features, b []byte) Vec[T] {
	k := kindOf[T]()
	layout := abi.Parts(a, k, f)
	v := Vec[T]{abi: a, f: f, parts: make([]vreg.Reg, len(layout))}
	off := 0
	for i, p := range layout {
		n := p.Bytes(k)
		v.parts[i] = vreg.ZeroExtend(vreg.FromBytes(b[off:off+n]), p.RegisterBytes(k))
		off += n
	}
	return v
}

// ABI returns the ABI of v.
func (v Vec[T]) ABI() abi.ABI { return v.abi }

// Features returns the feature set v was built for.
func (v Vec[T]) Features() isa.Features { return v.f }

// Size returns the number of lanes.
func (v Vec[T]) Size() int { return v.abi.Size(kindOf[T]()) }

// Registers returns the native registers holding v, in lane order.
func (v Vec[T]) Registers() []vreg.Vector {
	k := kindOf[T]()
	out := make([]vreg.Vector, len(v.parts))
	for i, r := range v.parts {
		out[i] = vreg.Vector{Reg: r, Kind: k}
	}
	return out
}

// Lanes returns a copy of the lanes of v.
func (v Vec[T]) Lanes() []T {
	k := kindOf[T]()
	out := make([]T, 0, v.Size())
	for i, p := range abi.Parts(v.abi, k, v.f) {
		out = append(out, vreg.ToSlice[T](vreg.Truncate(v.parts[i], p.Bytes(k)))...)
	}
	return out
}

// bytes returns the lanes of v packed without padding.
func (v Vec[T]) bytes() []byte {
	k := kindOf[T]()
	out := make([]byte, 0, v.Size()*k.Size())
	for i, p := range abi.Parts(v.abi, k, v.f) {
		out = append(out, v.parts[i].Raw()[:p.Bytes(k)]...)
	}
	return out
}

// Get returns lane i.
func (v Vec[T]) Get(i int) T {
	if i < 0 || i >= v.Size() {
		panic(fmt.Sprintf("simd: lane %d out of range [0, %d)", i, v.Size()))
	}
	k := kindOf[T]()
	for j, p := range abi.Parts(v.abi, k, v.f) {
		if i < p.Size(k) {
			return vreg.Get[T](v.parts[j], i)
		}
		i -= p.Size(k)
	}
	panic("simd: unreachable: lane outside layout")
}

func (v Vec[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%s{", v.abi, kindOf[T]())
	for i, x := range v.Lanes() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, x)
	}
	sb.WriteByte('}')
	return sb.String()
}

func sameShape[T Lanes](op string, a, b Vec[T]) {
	if a.abi != b.abi || a.f != b.f {
		panic(fmt.Sprintf("simd: %s of %s (%s) and %s (%s)", op, a.abi, a.f, b.abi, b.f))
	}
}
