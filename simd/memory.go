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
	"math/bits"
	"unsafe"
)

// Flags tells Load and Store what alignment the caller guarantees.
type Flags struct {
	// align is 0 for ElementAligned, -1 for VectorAligned, else the
	// overalignment in bytes.
	align int
}

var (
	// ElementAligned promises only the natural alignment of T.
	ElementAligned = Flags{}
	// VectorAligned promises MemoryAlignment of the vector.
	VectorAligned = Flags{align: -1}
)

// Overaligned promises n-byte alignment. n must be a power of two.
func Overaligned(n int) Flags {
	if n <= 0 || bits.OnesCount(uint(n)) != 1 {
		panic(fmt.Sprintf("simd: overalignment %d is not a power of two", n))
	}
	return Flags{align: n}
}

func (fl Flags) String() string {
	switch fl.align {
	case 0:
		return "element_aligned"
	case -1:
		return "vector_aligned"
	}
	return fmt.Sprintf("overaligned<%d>", fl.align)
}

// required returns the alignment in bytes fl promises for an object whose
// own alignment is vecAlign, or 0 when only element alignment is promised.
func (fl Flags) required(vecAlign int) int {
	if fl.align == -1 {
		return vecAlign
	}
	return fl.align
}

func checkAligned[T Lanes](op string, a ABI, s []T, fl Flags) {
	checkAddr(op, unsafe.Pointer(unsafe.SliceData(s)), len(s), fl.required(MemoryAlignment[T](a)), fl)
}

func checkAddr(op string, p unsafe.Pointer, n, want int, fl Flags) {
	if want <= 1 || n == 0 || !checkAlignment.Load() {
		return
	}
	if addr := uintptr(p); addr%uintptr(want) != 0 {
		panic(fmt.Sprintf("simd: %s with %s: address %#x is not %d-byte aligned", op, fl, addr, want))
	}
}

func checkExtent(op string, have, need int) {
	if have < need {
		panic(fmt.Sprintf("simd: %s of %d lanes from a slice of %d", op, need, have))
	}
}

// Zero returns a vector of a with every lane zero.
func Zero[T Lanes](a ABI) Vec[T] {
	f := CurrentFeatures()
	mustValidate(a, kindOf[T](), f)
	return fromLanes(a, f, make([]T, a.Size(kindOf[T]())))
}

// Broadcast returns a vector of a with every lane set to x.
func Broadcast[T Lanes](a ABI, x T) Vec[T] {
	return Generate(a, func(int) T { return x })
}

// Generate returns a vector of a whose lane i is gen(i).
func Generate[T Lanes](a ABI, gen func(i int) T) Vec[T] {
	f := CurrentFeatures()
	mustValidate(a, kindOf[T](), f)
	xs := make([]T, a.Size(kindOf[T]()))
	for i := range xs {
		xs[i] = gen(i)
	}
	return fromLanes(a, f, xs)
}

// Load reads Size[T](a) lanes from src. It panics when src is shorter.
func Load[T Lanes](a ABI, src []T, fl Flags) Vec[T] {
	f := CurrentFeatures()
	mustValidate(a, kindOf[T](), f)
	n := a.Size(kindOf[T]())
	checkExtent("Load", len(src), n)
	checkAligned("Load", a, src, fl)
	return fromLanes(a, f, src[:n])
}

// Store writes the lanes of v to dst. It panics when dst is shorter.
func Store[T Lanes](v Vec[T], dst []T, fl Flags) {
	checkExtent("Store", len(dst), v.Size())
	checkAligned("Store", v.abi, dst, fl)
	copy(dst, v.Lanes())
}

// MaskedLoad returns v with the lanes selected by m read from src. Lanes
// of src that m does not select are never read.
func MaskedLoad[T Lanes](v Vec[T], m Mask[T], src []T, fl Flags) Vec[T] {
	sameMaskShape("MaskedLoad", v, m)
	checkAligned("MaskedLoad", v.abi, src, fl)
	xs := v.Lanes()
	for i := range xs {
		if m.Get(i) {
			xs[i] = src[i]
		}
	}
	return fromLanes(v.abi, v.f, xs)
}

// MaskedStore writes the lanes of v selected by m to dst. Other elements
// of dst are not written.
func MaskedStore[T Lanes](v Vec[T], m Mask[T], dst []T, fl Flags) {
	sameMaskShape("MaskedStore", v, m)
	checkAligned("MaskedStore", v.abi, dst, fl)
	for i, x := range v.Lanes() {
		if m.Get(i) {
			dst[i] = x
		}
	}
}
