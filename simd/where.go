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

	"github.com/ajroetker/go-simd/simd/maskred"
)

// WhereExpr is a masked view of a vector: writes through it only touch the
// lanes its mask selects.
type WhereExpr[T Lanes] struct {
	m Mask[T]
	v *Vec[T]
}

// Where returns the lanes of *v selected by m.
//
//	simd.Where(simd.Less(x, zero), &x).Assign(zero)
func Where[T Lanes](m Mask[T], v *Vec[T]) WhereExpr[T] {
	sameMaskShape("Where", *v, m)
	return WhereExpr[T]{m: m, v: v}
}

// Assign copies the selected lanes of x into the target.
func (w WhereExpr[T]) Assign(x Vec[T]) {
	*w.v = Select(w.m, x, *w.v)
}

// Apply replaces every selected lane with op of its value.
func (w WhereExpr[T]) Apply(op func(T) T) {
	*w.v = Select(w.m, unary(*w.v, op), *w.v)
}

// CopyFrom loads the selected lanes from src.
func (w WhereExpr[T]) CopyFrom(src []T, fl Flags) {
	*w.v = MaskedLoad(*w.v, w.m, src, fl)
}

// CopyTo stores the selected lanes to dst.
func (w WhereExpr[T]) CopyTo(dst []T, fl Flags) {
	MaskedStore(*w.v, w.m, dst, fl)
}

// LaneRef refers to one lane of a vector.
type LaneRef[T Lanes] struct {
	v *Vec[T]
	i int
}

// Ref returns a reference to lane i of v.
func (v *Vec[T]) Ref(i int) LaneRef[T] {
	if i < 0 || i >= v.Size() {
		panic(fmt.Sprintf("simd: lane %d out of range [0, %d)", i, v.Size()))
	}
	return LaneRef[T]{v: v, i: i}
}

// Get returns the lane value.
func (r LaneRef[T]) Get() T { return r.v.Get(r.i) }

// Set stores x into the lane with a one-lane masked load.
func (r LaneRef[T]) Set(x T) {
	m := Mask[T]{raw: maskred.FromBits(r.v.abi, kindOf[T](), r.v.f, 1<<uint(r.i)), f: r.v.f}
	src := make([]T, r.v.Size())
	src[r.i] = x
	*r.v = MaskedLoad(*r.v, m, src, ElementAligned)
}
