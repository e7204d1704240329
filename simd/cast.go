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

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/convert"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/maskred"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// convertChunk converts the packed lanes in src to a toBytes-wide register
// of kind to. Sources wider than one register go through the
// multi-argument engine when they split evenly, else in halves.
func convertChunk(from, to vreg.Kind, src []byte, toBytes int, f isa.Features) vreg.Reg {
	s := from.Size()
	m := len(src) / s
	if len(src) <= vreg.MaxBytes {
		return convert.Convert1(to, toBytes, f, vreg.Vector{Reg: vreg.FromBytes(src), Kind: from}).Reg
	}
	for _, args := range convert.ArgCounts[1:] {
		if m%args != 0 || (m/args)*s > vreg.MaxBytes {
			continue
		}
		per := len(src) / args
		vs := make([]vreg.Vector, args)
		for j := range vs {
			vs[j] = vreg.Vector{Reg: vreg.FromBytes(src[j*per : (j+1)*per]), Kind: from}
		}
		return convert.Convert(to, toBytes, f, vs...).Reg
	}
	h := m / 2
	lo := convertChunk(from, to, src[:h*s], h*to.Size(), f)
	hi := convertChunk(from, to, src[h*s:], (m-h)*to.Size(), f)
	return vreg.ZeroExtend(vreg.Concat(lo, hi), toBytes)
}

// convertParts converts packed lanes of kind from into the registers of
// dst, one per layout part.
func convertParts(from, to vreg.Kind, src []byte, dst abi.ABI, f isa.Features) []vreg.Reg {
	s := from.Size()
	layout := abi.Parts(dst, to, f)
	out := make([]vreg.Reg, len(layout))
	off := 0
	for i, p := range layout {
		m := p.Size(to)
		out[i] = convertChunk(from, to, src[off*s:(off+m)*s], p.RegisterBytes(to), f)
		off += m
	}
	return out
}

func rebuild[U, T Lanes](v Vec[T], src []byte, dst ABI) Vec[U] {
	from, to := kindOf[T](), kindOf[U]()
	mustValidate(dst, to, v.f)
	if n, m := len(src)/from.Size(), dst.Size(to); n != m {
		panic(fmt.Sprintf("simd: cannot cast %d lanes of %s to %s<%s> with %d lanes", n, from, dst, to, m))
	}
	if from == to {
		return fromBytes[U](dst, v.f, src)
	}
	return Vec[U]{abi: dst, f: v.f, parts: convertParts(from, to, src, dst, v.f)}
}

// rebind returns the ABI for n lanes of kind k that a cast from a picks:
// fixed_size stays fixed_size, otherwise the deduced ABI.
func rebind(a ABI, k vreg.Kind, n int, f isa.Features) ABI {
	if a.IsFixed() {
		return FixedSize(n)
	}
	d, err := abi.Deduce(k, n, f)
	if err != nil {
		panic(err)
	}
	return d
}

// Convert converts every lane of v to U, keeping the lane count. Integer
// narrowing keeps the low bits; float to integer truncates toward zero
// and is unspecified outside the destination range.
//
//	f := simd.Convert[float32](simd.Load(simd.AVX(), ints, simd.ElementAligned))
func Convert[U, T Lanes](v Vec[T]) Vec[U] {
	return rebuild[U](v, v.bytes(), rebind(v.abi, kindOf[U](), v.Size(), v.f))
}

// StaticCast converts v to U lanes in ABI a. a must hold as many lanes as
// v.
func StaticCast[U, T Lanes](v Vec[T], a ABI) Vec[U] {
	return rebuild[U](v, v.bytes(), a)
}

// ConvertFrom converts the lanes of vs, in order, into one vector of U.
// One, two, four or eight full native vectors of one ABI take the
// multi-argument conversion sequences directly.
func ConvertFrom[U, T Lanes](vs ...Vec[T]) Vec[U] {
	if len(vs) == 0 {
		panic("simd: ConvertFrom of no vectors")
	}
	from, to := kindOf[T](), kindOf[U]()
	head := vs[0]
	n := 0
	for _, v := range vs {
		if v.f != head.f {
			panic(fmt.Sprintf("simd: ConvertFrom mixes features %s and %s", head.f, v.f))
		}
		n += v.Size()
	}
	dst := rebind(head.abi, to, n, head.f)
	mustValidate(dst, to, head.f)
	if direct(vs, dst, to) {
		regs := make([]vreg.Vector, len(vs))
		for i, v := range vs {
			regs[i] = vreg.Vector{Reg: v.parts[0], Kind: from}
		}
		out := convert.Convert(to, dst.RegisterBytes(to), head.f, regs...)
		return Vec[U]{abi: dst, f: head.f, parts: []vreg.Reg{out.Reg}}
	}
	src := make([]byte, 0, n*from.Size())
	for _, v := range vs {
		src = append(src, v.bytes()...)
	}
	return rebuild[U](head, src, dst)
}

func direct[T Lanes](vs []Vec[T], dst ABI, to vreg.Kind) bool {
	switch len(vs) {
	case 1, 2, 4, 8:
	default:
		return false
	}
	k := kindOf[T]()
	for _, v := range vs {
		if v.abi != vs[0].abi || v.abi.IsFixed() || v.abi.IsPartial(k) {
			return false
		}
	}
	return !dst.IsFixed() && !dst.IsPartial(to) && dst.RegisterBytes(to) <= vreg.MaxBytes
}

// Split divides v into vectors of the given lane counts, which must add
// up to v.Size(). Each piece takes the deduced ABI for its size, or
// fixed_size when v is fixed_size.
func Split[T Lanes](v Vec[T], sizes ...int) []Vec[T] {
	total := 0
	for _, n := range sizes {
		if n <= 0 {
			panic(fmt.Sprintf("simd: Split into %d lanes", n))
		}
		total += n
	}
	if total != v.Size() {
		panic(fmt.Sprintf("simd: Split of %d lanes into %v", v.Size(), sizes))
	}
	k := kindOf[T]()
	b := v.bytes()
	out := make([]Vec[T], len(sizes))
	off := 0
	for i, n := range sizes {
		a := rebind(v.abi, k, n, v.f)
		out[i] = fromBytes[T](a, v.f, b[off*k.Size():(off+n)*k.Size()])
		off += n
	}
	return out
}

// SplitN divides v into parts vectors of equal size.
func SplitN[T Lanes](v Vec[T], parts int) []Vec[T] {
	if parts <= 0 || v.Size()%parts != 0 {
		panic(fmt.Sprintf("simd: cannot split %d lanes into %d parts", v.Size(), parts))
	}
	sizes := make([]int, parts)
	for i := range sizes {
		sizes[i] = v.Size() / parts
	}
	return Split(v, sizes...)
}

// Concat joins vs in order into one vector with the deduced ABI.
func Concat[T Lanes](vs ...Vec[T]) Vec[T] {
	return ConvertFrom[T](vs...)
}

// ToFixedSize returns v in the fixed_size ABI of the same lane count.
func ToFixedSize[T Lanes](v Vec[T]) Vec[T] {
	return fromBytes[T](FixedSize(v.Size()), v.f, v.bytes())
}

// ToNative returns v in the native ABI. v must have as many lanes as
// Native[T]().
func ToNative[T Lanes](v Vec[T]) Vec[T] {
	return StaticCast[T](v, abi.Native(kindOf[T](), v.f))
}

// ToCompatible returns v in the compatible ABI. v must have as many lanes
// as Compatible[T]().
func ToCompatible[T Lanes](v Vec[T]) Vec[T] {
	return StaticCast[T](v, abi.Compatible(kindOf[T](), v.f))
}

// ConvertMask returns m as a mask for U lanes with the same lane count.
func ConvertMask[U, T Lanes](m Mask[T]) Mask[U] {
	to := kindOf[U]()
	a := rebind(m.raw.ABI, to, m.Size(), m.f)
	mustValidate(a, to, m.f)
	return Mask[U]{raw: maskred.FromBits(a, to, m.f, m.Bits()), f: m.f}
}
