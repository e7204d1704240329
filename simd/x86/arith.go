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

package x86

import (
	"math"

	"github.com/ajroetker/go-simd/simd/vreg"
)

func lanewise(a vreg.Reg, size int, f func(x uint64) uint64) vreg.Reg {
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		out.SetBits(size, i, f(a.Bits(size, i)))
	}
	return out
}

func lanewise2(a, b vreg.Reg, size int, f func(x, y uint64) uint64) vreg.Reg {
	checkPair("lanewise", a, b)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		out.SetBits(size, i, f(a.Bits(size, i), b.Bits(size, i)))
	}
	return out
}

// Srai shifts size-byte lanes right arithmetically (psraw, psrad, vpsraq).
// Counts of at least the lane width fill with the sign bit.
func Srai(a vreg.Reg, size, n int) vreg.Reg {
	checkWidth("Srai", a)
	bits := 8 * size
	if n >= bits {
		n = bits - 1
	}
	return lanewise(a, size, func(x uint64) uint64 {
		return uint64(vreg.SignExtend(x, size) >> uint(n))
	})
}

// Srli shifts size-byte lanes right logically (psrlw, psrld, psrlq).
func Srli(a vreg.Reg, size, n int) vreg.Reg {
	checkWidth("Srli", a)
	if n >= 8*size {
		return Zero(a.Bytes())
	}
	return lanewise(a, size, func(x uint64) uint64 { return x >> uint(n) })
}

// Slli shifts size-byte lanes left (psllw, pslld, psllq).
func Slli(a vreg.Reg, size, n int) vreg.Reg {
	checkWidth("Slli", a)
	if n >= 8*size {
		return Zero(a.Bytes())
	}
	return lanewise(a, size, func(x uint64) uint64 { return x << uint(n) })
}

// shiftCount reads the count of the register-count shifts: the low 64
// bits of count, saturated so that oversized counts behave like the lane
// width.
func shiftCount(count vreg.Reg) int {
	n := count.Bits(8, 0)
	if n > 64 {
		return 64
	}
	return int(n)
}

// Sra is Srai with the count in the low quadword of count (psraw, psrad,
// vpsraq with an xmm count).
func Sra(a, count vreg.Reg, size int) vreg.Reg { return Srai(a, size, shiftCount(count)) }

// Srl is Srli with the count in the low quadword of count (psrlw, psrld,
// psrlq with an xmm count).
func Srl(a, count vreg.Reg, size int) vreg.Reg { return Srli(a, size, shiftCount(count)) }

// Sll is Slli with the count in the low quadword of count (psllw, pslld,
// psllq with an xmm count).
func Sll(a, count vreg.Reg, size int) vreg.Reg { return Slli(a, size, shiftCount(count)) }

// Add adds size-byte integer lanes with wraparound (padd{b,w,d,q}).
func Add(a, b vreg.Reg, size int) vreg.Reg {
	return lanewise2(a, b, size, func(x, y uint64) uint64 { return x + y })
}

// Sub subtracts size-byte integer lanes with wraparound (psub{b,w,d,q}).
func Sub(a, b vreg.Reg, size int) vreg.Reg {
	return lanewise2(a, b, size, func(x, y uint64) uint64 { return x - y })
}

// Mullo multiplies size-byte integer lanes keeping the low half of each
// product (pmullw, pmulld with SSE4.1, vpmullq with AVX512DQ).
func Mullo(a, b vreg.Reg, size int) vreg.Reg {
	return lanewise2(a, b, size, func(x, y uint64) uint64 { return x * y })
}

// And returns a & b (pand).
func And(a, b vreg.Reg) vreg.Reg { return vreg.And(a, b) }

// Or returns a | b (por).
func Or(a, b vreg.Reg) vreg.Reg { return vreg.Or(a, b) }

// Xor returns a ^ b (pxor).
func Xor(a, b vreg.Reg) vreg.Reg { return vreg.Xor(a, b) }

// AndNot returns ^a & b (pandn).
func AndNot(a, b vreg.Reg) vreg.Reg { return vreg.AndNot(a, b) }

func f32(x uint64) float32 { return math.Float32frombits(uint32(x)) }
func b32(x float32) uint64 { return uint64(math.Float32bits(x)) }
func f64(x uint64) float64 { return math.Float64frombits(x) }
func b64(x float64) uint64 { return math.Float64bits(x) }
func bool2mask(b bool) uint64 {
	if b {
		return ^uint64(0)
	}
	return 0
}

// AddPS adds float32 lanes (addps).
func AddPS(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 4, func(x, y uint64) uint64 { return b32(f32(x) + f32(y)) })
}

// SubPS subtracts float32 lanes (subps).
func SubPS(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 4, func(x, y uint64) uint64 { return b32(f32(x) - f32(y)) })
}

// MulPS multiplies float32 lanes (mulps).
func MulPS(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 4, func(x, y uint64) uint64 { return b32(f32(x) * f32(y)) })
}

// AddPD adds float64 lanes (addpd).
func AddPD(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 8, func(x, y uint64) uint64 { return b64(f64(x) + f64(y)) })
}

// SubPD subtracts float64 lanes (subpd).
func SubPD(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 8, func(x, y uint64) uint64 { return b64(f64(x) - f64(y)) })
}

// MulPD multiplies float64 lanes (mulpd).
func MulPD(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 8, func(x, y uint64) uint64 { return b64(f64(x) * f64(y)) })
}

// TruncPD rounds float64 lanes toward zero (roundpd with
// _MM_FROUND_TRUNC, SSE4.1).
func TruncPD(a vreg.Reg) vreg.Reg {
	return lanewise(a, 8, func(x uint64) uint64 { return b64(math.Trunc(f64(x))) })
}

// CmpGePS compares float32 lanes, producing all-ones where a >= b
// (cmpps with _CMP_GE_OQ).
func CmpGePS(a, b vreg.Reg) vreg.Reg {
	return lanewise2(a, b, 4, func(x, y uint64) uint64 { return bool2mask(f32(x) >= f32(y)) })
}

// CmpEq compares integer lanes for equality (pcmpeq{b,w,d,q}).
func CmpEq(a, b vreg.Reg, size int) vreg.Reg {
	return lanewise2(a, b, size, func(x, y uint64) uint64 { return bool2mask(x == y) })
}

// CmpGt compares signed integer lanes, producing all-ones where a > b
// (pcmpgt{b,w,d}, pcmpgtq with SSE4.2).
func CmpGt(a, b vreg.Reg, size int) vreg.Reg {
	return lanewise2(a, b, size, func(x, y uint64) uint64 {
		return bool2mask(vreg.SignExtend(x, size) > vreg.SignExtend(y, size))
	})
}

// MovemaskEpi8 collects the top bit of every byte (pmovmskb).
func MovemaskEpi8(a vreg.Reg) uint64 {
	return movemask(a, 1)
}

// MovemaskPS collects the top bit of every 32-bit lane (movmskps).
func MovemaskPS(a vreg.Reg) uint64 {
	return movemask(a, 4)
}

// MovemaskPD collects the top bit of every 64-bit lane (movmskpd).
func MovemaskPD(a vreg.Reg) uint64 {
	return movemask(a, 8)
}

func movemask(a vreg.Reg, size int) uint64 {
	var m uint64
	for i := 0; i < a.Lanes(size); i++ {
		m |= (a.Bits(size, i) >> uint(8*size-1) & 1) << uint(i)
	}
	return m
}

// TestZ reports whether a & b is zero (ptest ZF).
func TestZ(a, b vreg.Reg) bool {
	return vreg.And(a, b).IsZero()
}

// TestC reports whether ^a & b is zero (ptest CF).
func TestC(a, b vreg.Reg) bool {
	return vreg.AndNot(a, b).IsZero()
}

// TestNZC reports whether neither TestZ nor TestC holds (ptest with
// ZF=0 and CF=0).
func TestNZC(a, b vreg.Reg) bool {
	return !TestZ(a, b) && !TestC(a, b)
}
