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
	"github.com/ajroetker/go-simd/internal/metrics"
	"github.com/ajroetker/go-simd/simd/abi"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/neon"
	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/ajroetker/go-simd/simd/x86"
)

type laneOp uint8

const (
	opAdd laneOp = iota
	opSub
	opMul
	opAnd
	opOr
	opXor
	opAndNot
	// opLane has no register form and always runs lane by lane.
	opLane
)

type cmpOp uint8

const (
	cmpEq cmpOp = iota
	cmpGt
	cmpGe
)

// regOps runs lane-wise operations on one native register. Methods
// report false when the backend has no instruction for the lane kind; the
// caller then falls back to the lane loop. Results may leave garbage in
// padding lanes.
type regOps interface {
	name() string
	binary(op laneOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool)
	neg(k vreg.Kind, a vreg.Reg) (vreg.Reg, bool)
	// compare returns all-ones lanes where the comparison holds.
	compare(op cmpOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool)
	shift(left bool, k vreg.Kind, a vreg.Reg, n int) (vreg.Reg, bool)
	// blend takes yes where the lanes of m are all-ones and no elsewhere.
	blend(k vreg.Kind, m, yes, no vreg.Reg) vreg.Reg
}

// backendFor returns the register backend of p, or nil when p runs lane by
// lane under f.
func backendFor(p abi.ABI, f isa.Features) regOps {
	switch p.ArithBackend() {
	case abi.X86Backend:
		if f.Has(isa.SSE2) {
			return x86Ops{f}
		}
	case abi.NEONBackend:
		if f.Has(isa.NEON) {
			return neonOps{f}
		}
	}
	return nil
}

const genericName = "generic"

func countPart(backend string) {
	metrics.LaneOpsTotal.WithLabelValues(backend).Inc()
}

// clearPadding zeroes the lanes of r past the logical lanes of p.
func clearPadding(p abi.ABI, k vreg.Kind, r vreg.Reg) vreg.Reg {
	if !p.IsPartial(k) {
		return r
	}
	return vreg.And(r, vreg.ZeroExtend(vreg.Ones(p.Bytes(k)), p.RegisterBytes(k)))
}

// laneBits collects one bit per logical lane of p from a register of
// all-ones or zero lanes.
func laneBits(p abi.ABI, k vreg.Kind, r vreg.Reg) uint64 {
	var bits uint64
	for i := 0; i < p.Size(k); i++ {
		if r.Bits(k.Size(), i) != 0 {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

func signBit(k vreg.Kind) uint64 { return uint64(1) << uint(k.Bits()-1) }

type x86Ops struct{ f isa.Features }

func (x86Ops) name() string { return "x86" }

func (o x86Ops) binary(op laneOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool) {
	s := k.Size()
	switch op {
	case opAdd:
		switch k {
		case vreg.Float32:
			return x86.AddPS(a, b), true
		case vreg.Float64:
			return x86.AddPD(a, b), true
		}
		return x86.Add(a, b, s), true
	case opSub:
		switch k {
		case vreg.Float32:
			return x86.SubPS(a, b), true
		case vreg.Float64:
			return x86.SubPD(a, b), true
		}
		return x86.Sub(a, b, s), true
	case opMul:
		switch {
		case k == vreg.Float32:
			return x86.MulPS(a, b), true
		case k == vreg.Float64:
			return x86.MulPD(a, b), true
		case s == 2,
			s == 4 && o.f.Has(isa.SSE41),
			s == 8 && o.f.Has(isa.AVX512DQ):
			return x86.Mullo(a, b, s), true
		}
	case opAnd:
		return x86.And(a, b), true
	case opOr:
		return x86.Or(a, b), true
	case opXor:
		return x86.Xor(a, b), true
	case opAndNot:
		return x86.AndNot(a, b), true
	}
	return vreg.Reg{}, false
}

func (x86Ops) neg(k vreg.Kind, a vreg.Reg) (vreg.Reg, bool) {
	if k.IsFloat() {
		return x86.Xor(a, x86.Set1(a.Bytes(), k.Size(), signBit(k))), true
	}
	return x86.Sub(x86.Zero(a.Bytes()), a, k.Size()), true
}

func (o x86Ops) compare(op cmpOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool) {
	s := k.Size()
	switch op {
	case cmpEq:
		if k.IsInteger() && (s < 8 || o.f.Has(isa.SSE41)) {
			return x86.CmpEq(a, b, s), true
		}
	case cmpGt:
		if k.IsInteger() && (s < 8 || o.f.Has(isa.SSE42)) {
			if !k.IsSigned() {
				// Flipping the sign bits maps unsigned order onto signed order.
				flip := x86.Set1(a.Bytes(), s, signBit(k))
				a, b = x86.Xor(a, flip), x86.Xor(b, flip)
			}
			return x86.CmpGt(a, b, s), true
		}
	case cmpGe:
		if k == vreg.Float32 {
			return x86.CmpGePS(a, b), true
		}
	}
	return vreg.Reg{}, false
}

func (o x86Ops) shift(left bool, k vreg.Kind, a vreg.Reg, n int) (vreg.Reg, bool) {
	s := k.Size()
	if s == 1 {
		return vreg.Reg{}, false
	}
	count := x86.Cvtsi32Si128(uint32(n))
	switch {
	case left:
		return x86.Sll(a, count, s), true
	case !k.IsSigned():
		return x86.Srl(a, count, s), true
	case s < 8 || o.f.Has(isa.AVX512F):
		return x86.Sra(a, count, s), true
	}
	return vreg.Reg{}, false
}

func (o x86Ops) blend(k vreg.Kind, m, yes, no vreg.Reg) vreg.Reg {
	if o.f.Has(isa.SSE41) {
		return x86.Blendv(no, yes, m, k.Size())
	}
	return x86.Or(x86.And(m, yes), x86.AndNot(m, no))
}

type neonOps struct{ f isa.Features }

func (neonOps) name() string { return "neon" }

// floatOK reports whether float lanes of k have NEON arithmetic under f.
func (o neonOps) floatOK(k vreg.Kind) bool {
	return k == vreg.Float32 || (k == vreg.Float64 && o.f.Has(isa.NEONA64))
}

func (o neonOps) binary(op laneOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool) {
	s := k.Size()
	switch op {
	case opAdd:
		if k.IsInteger() {
			return neon.Add(a, b, s), true
		}
		if o.floatOK(k) {
			return neon.Fadd(a, b, s), true
		}
	case opSub:
		if k.IsInteger() {
			return neon.Sub(a, b, s), true
		}
		if o.floatOK(k) {
			return neon.Fsub(a, b, s), true
		}
	case opMul:
		if k.IsInteger() && s < 8 {
			return neon.Mul(a, b, s), true
		}
		if o.floatOK(k) {
			return neon.Fmul(a, b, s), true
		}
	case opAnd:
		return neon.And(a, b), true
	case opOr:
		return neon.Orr(a, b), true
	case opXor:
		return neon.Eor(a, b), true
	case opAndNot:
		return neon.Bic(b, a), true
	}
	return vreg.Reg{}, false
}

func (neonOps) neg(k vreg.Kind, a vreg.Reg) (vreg.Reg, bool) {
	if k.IsFloat() {
		return neon.Eor(a, neon.Dup(a.Bytes(), k.Size(), signBit(k))), true
	}
	return neon.Neg(a, k.Size()), true
}

func (neonOps) compare(op cmpOp, k vreg.Kind, a, b vreg.Reg) (vreg.Reg, bool) {
	if !k.IsInteger() {
		return vreg.Reg{}, false
	}
	s := k.Size()
	switch op {
	case cmpEq:
		return neon.Ceq(a, b, s), true
	case cmpGt:
		return neon.Cgt(a, b, s, k.IsSigned()), true
	case cmpGe:
		return neon.Orr(neon.Cgt(a, b, s, k.IsSigned()), neon.Ceq(a, b, s)), true
	}
	return vreg.Reg{}, false
}

func (neonOps) shift(left bool, k vreg.Kind, a vreg.Reg, n int) (vreg.Reg, bool) {
	if left {
		return neon.Shl(a, k.Size(), n), true
	}
	return neon.Shr(a, k.Size(), n, k.IsSigned()), true
}

func (neonOps) blend(_ vreg.Kind, m, yes, no vreg.Reg) vreg.Reg {
	return neon.Bsl(m, yes, no)
}
