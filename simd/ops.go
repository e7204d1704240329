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
	"math"

	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/maskred"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Lane-wise operations run register part by register part. Each part uses
// the arithmetic backend of its ABI when that backend has an instruction
// for the lane kind, and the lane loop otherwise. Padding lanes of partial
// and fixed_size vectors stay zero either way.

// mapParts builds a vector of v's shape from one register per part.
// native is nil for operations without a register form.
func mapParts[T Lanes](v Vec[T], native func(be regOps, p abi.ABI, i int) (vreg.Reg, bool), lane func(p abi.ABI, i int) vreg.Reg) Vec[T] {
	k := kindOf[T]()
	out := Vec[T]{abi: v.abi, f: v.f, parts: make([]vreg.Reg, len(v.parts))}
	for i, p := range abi.Parts(v.abi, k, v.f) {
		be := backendFor(p, v.f)
		if be != nil && native != nil {
			if r, ok := native(be, p, i); ok {
				out.parts[i] = clearPadding(p, k, r)
				countPart(be.name())
				continue
			}
		}
		out.parts[i] = lane(p, i)
		countPart(genericName)
	}
	return out
}

func laneMap[T Lanes](p abi.ABI, x vreg.Reg, op func(x T) T) vreg.Reg {
	k := kindOf[T]()
	r := vreg.New(p.RegisterBytes(k))
	for j := 0; j < p.Size(k); j++ {
		vreg.Set(&r, j, op(vreg.Get[T](x, j)))
	}
	return r
}

func laneMap2[T Lanes](p abi.ABI, x, y vreg.Reg, op func(x, y T) T) vreg.Reg {
	k := kindOf[T]()
	r := vreg.New(p.RegisterBytes(k))
	for j := 0; j < p.Size(k); j++ {
		vreg.Set(&r, j, op(vreg.Get[T](x, j), vreg.Get[T](y, j)))
	}
	return r
}

func unary[T Lanes](v Vec[T], op func(x T) T) Vec[T] {
	return mapParts(v, nil, func(p abi.ABI, i int) vreg.Reg { return laneMap(p, v.parts[i], op) })
}

func binary[T Lanes](name string, code laneOp, a, b Vec[T], op func(x, y T) T) Vec[T] {
	sameShape(name, a, b)
	k := kindOf[T]()
	var native func(be regOps, p abi.ABI, i int) (vreg.Reg, bool)
	if code != opLane {
		native = func(be regOps, _ abi.ABI, i int) (vreg.Reg, bool) { return be.binary(code, k, a.parts[i], b.parts[i]) }
	}
	return mapParts(a, native, func(p abi.ABI, i int) vreg.Reg { return laneMap2(p, a.parts[i], b.parts[i], op) })
}

// bitwise combines whole registers; the lane loop works on the bits of
// each lane so float lanes combine bit by bit too.
func bitwise[T Lanes](name string, code laneOp, a, b Vec[T], op func(x, y vreg.Reg) vreg.Reg) Vec[T] {
	sameShape(name, a, b)
	k := kindOf[T]()
	return mapParts(a,
		func(be regOps, _ abi.ABI, i int) (vreg.Reg, bool) { return be.binary(code, k, a.parts[i], b.parts[i]) },
		func(p abi.ABI, i int) vreg.Reg { return clearPadding(p, k, op(a.parts[i], b.parts[i])) })
}

// shift shifts every lane by n bits.
func shift[T Integers](name string, left bool, v Vec[T], n int) Vec[T] {
	if n < 0 {
		panic(fmt.Sprintf("simd: %s by negative count %d", name, n))
	}
	k := kindOf[T]()
	lane := func(x T) T { return x >> uint(n) }
	if left {
		lane = func(x T) T { return x << uint(n) }
	}
	return mapParts(v,
		func(be regOps, _ abi.ABI, i int) (vreg.Reg, bool) { return be.shift(left, k, v.parts[i], n) },
		func(p abi.ABI, i int) vreg.Reg { return laneMap(p, v.parts[i], lane) })
}

// maskOf joins the per-part masks of a vector of ABI a.
func maskOf(a abi.ABI, k vreg.Kind, parts []maskred.Raw) maskred.Raw {
	if !a.IsFixed() {
		return parts[0]
	}
	return maskred.Raw{ABI: a, Kind: k, Parts: parts}
}

// maskParts splits m into the masks of the register parts of its vector.
func maskParts(m maskred.Raw) []maskred.Raw {
	if m.ABI.IsFixed() {
		return m.Parts
	}
	return []maskred.Raw{m}
}

// maskReg returns m as a register of all-ones lanes.
func maskReg(p abi.ABI, k vreg.Kind, m maskred.Raw) vreg.Reg {
	if p.MaskRep() == abi.VectorMask {
		return m.Reg
	}
	bits := m.ToBits()
	return vreg.Generate(p.RegisterBytes(k), k.Size(), func(i int) uint64 {
		if i < 64 && bits>>uint(i)&1 != 0 {
			return k.Mask()
		}
		return 0
	})
}

func compare[T Lanes](name string, code cmpOp, a, b Vec[T], op func(x, y T) bool) Mask[T] {
	sameShape(name, a, b)
	k := kindOf[T]()
	layout := abi.Parts(a.abi, k, a.f)
	parts := make([]maskred.Raw, len(layout))
	for i, p := range layout {
		x, y := a.parts[i], b.parts[i]
		var bits uint64
		if be := backendFor(p, a.f); be != nil {
			if r, ok := be.compare(code, k, x, y); ok {
				bits = laneBits(p, k, r)
				parts[i] = maskred.FromBits(p, k, a.f, bits)
				countPart(be.name())
				continue
			}
		}
		for j := 0; j < p.Size(k); j++ {
			if op(vreg.Get[T](x, j), vreg.Get[T](y, j)) {
				bits |= 1 << uint(j)
			}
		}
		parts[i] = maskred.FromBits(p, k, a.f, bits)
		countPart(genericName)
	}
	return Mask[T]{raw: maskOf(a.abi, k, parts), f: a.f}
}

// Add returns a + b. Integer lanes wrap around.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Add", opAdd, a, b, func(x, y T) T { return x + y })
}

// Sub returns a - b.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Sub", opSub, a, b, func(x, y T) T { return x - y })
}

// Mul returns a * b.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Mul", opMul, a, b, func(x, y T) T { return x * y })
}

// Div returns a / b. Integer division by zero panics.
func Div[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Div", opLane, a, b, func(x, y T) T { return x / y })
}

// Mod returns the remainder of a / b, with the sign of a. Division by
// zero panics.
func Mod[T Integers](a, b Vec[T]) Vec[T] {
	return binary("Mod", opLane, a, b, func(x, y T) T { return x % y })
}

// Neg returns -v.
func Neg[T Lanes](v Vec[T]) Vec[T] {
	k := kindOf[T]()
	return mapParts(v,
		func(be regOps, _ abi.ABI, i int) (vreg.Reg, bool) { return be.neg(k, v.parts[i]) },
		func(p abi.ABI, i int) vreg.Reg { return laneMap(p, v.parts[i], func(x T) T { return -x }) })
}

// Not returns the bitwise complement of v.
func Not[T Integers](v Vec[T]) Vec[T] {
	ones := make([]T, v.Size())
	for i := range ones {
		ones[i] = ^T(0)
	}
	return bitwise("Not", opXor, v, fromLanes(v.abi, v.f, ones), vreg.Xor)
}

// Min returns the lane-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Min", opLane, a, b, func(x, y T) T { return min(x, y) })
}

// Max returns the lane-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	return binary("Max", opLane, a, b, func(x, y T) T { return max(x, y) })
}

// MinMax returns Min(a, b) and Max(a, b).
func MinMax[T Lanes](a, b Vec[T]) (lo, hi Vec[T]) {
	return Min(a, b), Max(a, b)
}

// Clamp limits every lane of v to [lo, hi]. It panics when a lane of lo
// exceeds the same lane of hi.
func Clamp[T Lanes](v, lo, hi Vec[T]) Vec[T] {
	sameShape("Clamp", v, lo)
	sameShape("Clamp", v, hi)
	if bad := Greater(lo, hi); AnyOf(bad) {
		panic(fmt.Sprintf("simd: Clamp with lo > hi in lane %d", FindFirstSet(bad)))
	}
	return Min(Max(v, lo), hi)
}

// Abs returns |v|. Unsigned lanes are unchanged; the most negative signed
// integer maps to itself.
func Abs[T Lanes](v Vec[T]) Vec[T] {
	if kindOf[T]().IsFloat() {
		return unary(v, func(x T) T { return T(math.Abs(float64(x))) })
	}
	return unary(v, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

// ShiftLeft shifts every lane left by n bits. Counts of at least the lane
// width give zero; a negative count panics.
func ShiftLeft[T Integers](v Vec[T], n int) Vec[T] { return shift("ShiftLeft", true, v, n) }

// ShiftRight shifts every lane right by n bits, arithmetically for signed
// lanes. Counts of at least the lane width give zero or the sign fill; a
// negative count panics.
func ShiftRight[T Integers](v Vec[T], n int) Vec[T] { return shift("ShiftRight", false, v, n) }

// ShiftLeftBy shifts each lane of v left by the same lane of n. A negative
// count panics.
func ShiftLeftBy[T Integers](v, n Vec[T]) Vec[T] {
	return binary("ShiftLeftBy", opLane, v, n, func(x, y T) T { return x << y })
}

// ShiftRightBy shifts each lane of v right by the same lane of n,
// arithmetically for signed lanes. A negative count panics.
func ShiftRightBy[T Integers](v, n Vec[T]) Vec[T] {
	return binary("ShiftRightBy", opLane, v, n, func(x, y T) T { return x >> y })
}

// And returns the bitwise a & b. Float lanes are combined bit by bit.
func And[T Lanes](a, b Vec[T]) Vec[T] { return bitwise("And", opAnd, a, b, vreg.And) }

// Or returns the bitwise a | b.
func Or[T Lanes](a, b Vec[T]) Vec[T] { return bitwise("Or", opOr, a, b, vreg.Or) }

// Xor returns the bitwise a ^ b.
func Xor[T Lanes](a, b Vec[T]) Vec[T] { return bitwise("Xor", opXor, a, b, vreg.Xor) }

// AndNot returns ^a & b.
func AndNot[T Lanes](a, b Vec[T]) Vec[T] { return bitwise("AndNot", opAndNot, a, b, vreg.AndNot) }

// Equal returns a mask of the lanes where a == b. NaN lanes compare
// unequal.
func Equal[T Lanes](a, b Vec[T]) Mask[T] {
	return compare("Equal", cmpEq, a, b, func(x, y T) bool { return x == y })
}

// NotEqual returns a mask of the lanes where a != b.
func NotEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return MaskNot(Equal(a, b))
}

// Less returns a mask of the lanes where a < b.
func Less[T Lanes](a, b Vec[T]) Mask[T] {
	return Greater(b, a)
}

// LessEqual returns a mask of the lanes where a <= b.
func LessEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return GreaterEqual(b, a)
}

// Greater returns a mask of the lanes where a > b.
func Greater[T Lanes](a, b Vec[T]) Mask[T] {
	return compare("Greater", cmpGt, a, b, func(x, y T) bool { return x > y })
}

// GreaterEqual returns a mask of the lanes where a >= b.
func GreaterEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return compare("GreaterEqual", cmpGe, a, b, func(x, y T) bool { return x >= y })
}

// Select returns yes where m is set and no elsewhere.
func Select[T Lanes](m Mask[T], yes, no Vec[T]) Vec[T] {
	sameShape("Select", yes, no)
	sameMaskShape("Select", yes, m)
	k := kindOf[T]()
	ms := maskParts(m.raw)
	return mapParts(yes,
		func(be regOps, p abi.ABI, i int) (vreg.Reg, bool) {
			return be.blend(k, maskReg(p, k, ms[i]), yes.parts[i], no.parts[i]), true
		},
		func(p abi.ABI, i int) vreg.Reg {
			r := vreg.New(p.RegisterBytes(k))
			for j := 0; j < p.Size(k); j++ {
				x := vreg.Get[T](no.parts[i], j)
				if ms[i].Lane(j) {
					x = vreg.Get[T](yes.parts[i], j)
				}
				vreg.Set(&r, j, x)
			}
			return r
		})
}

// reduce folds the lanes pairwise, halving the count each step as a
// shuffle-and-add sequence does. An odd lane out is carried to the next
// step unchanged.
func reduce[T Lanes](v Vec[T], op func(x, y T) T) T {
	xs := v.Lanes()
	for len(xs) > 1 {
		h := len(xs) / 2
		next := make([]T, len(xs)-h)
		for i := 0; i < h; i++ {
			next[i] = op(xs[i], xs[i+h])
		}
		if len(xs)%2 == 1 {
			next[h] = xs[len(xs)-1]
		}
		xs = next
	}
	return xs[0]
}

// ReduceSum returns the sum of all lanes. Float lanes are added in a
// pairwise tree, so the result may differ from a sequential sum in the
// last bits.
func ReduceSum[T Lanes](v Vec[T]) T {
	return reduce(v, func(x, y T) T { return x + y })
}

// ReduceMin returns the smallest lane.
func ReduceMin[T Lanes](v Vec[T]) T {
	return reduce(v, func(x, y T) T { return min(x, y) })
}

// ReduceMax returns the largest lane.
func ReduceMax[T Lanes](v Vec[T]) T {
	return reduce(v, func(x, y T) T { return max(x, y) })
}
