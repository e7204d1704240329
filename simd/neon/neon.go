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

// Package neon emulates the AArch64 Advanced SIMD instructions used by the
// conversion and mask-reduction sequences. D registers are 8-byte
// vreg.Reg values and Q registers 16-byte ones; function names follow the
// ACLE intrinsics without the type suffix.
package neon

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-simd/simd/vreg"
)

func check(op string, r vreg.Reg, bytes ...int) {
	for _, b := range bytes {
		if r.Bytes() == b {
			return
		}
	}
	panic(fmt.Sprintf("neon: %s on %d-byte register", op, r.Bytes()))
}

func lanewise(a vreg.Reg, from, to, outBytes int, f func(uint64) uint64) vreg.Reg {
	out := vreg.New(outBytes)
	for i := 0; i < outBytes/to; i++ {
		out.SetBits(to, i, f(a.Bits(from, i)))
	}
	return out
}

// Combine joins two D registers into a Q register (vcombine).
func Combine(lo, hi vreg.Reg) vreg.Reg {
	check("Combine", lo, 8)
	check("Combine", hi, 8)
	return vreg.Concat(lo, hi)
}

// GetLow returns the low D half of a Q register (vget_low).
func GetLow(a vreg.Reg) vreg.Reg {
	check("GetLow", a, 16)
	return vreg.Lo(a)
}

// GetHigh returns the high D half of a Q register (vget_high).
func GetHigh(a vreg.Reg) vreg.Reg {
	check("GetHigh", a, 16)
	return vreg.Hi(a)
}

// Dup broadcasts bits to every size-byte lane (vdup_n / vdupq_n).
func Dup(bytes, size int, bits uint64) vreg.Reg {
	return vreg.Broadcast(bytes, size, bits)
}

// Movl widens the lanes of a D register to twice their size (vmovl),
// sign-extending when signed.
func Movl(a vreg.Reg, size int, signed bool) vreg.Reg {
	check("Movl", a, 8)
	return lanewise(a, size, 2*size, 16, func(x uint64) uint64 {
		if signed {
			return uint64(vreg.SignExtend(x, size))
		}
		return x
	})
}

// Movn narrows the lanes of a Q register to half their size, keeping the
// low bits (vmovn).
func Movn(a vreg.Reg, size int) vreg.Reg {
	check("Movn", a, 16)
	return lanewise(a, size, size/2, 8, func(x uint64) uint64 { return x })
}

// Padd adds adjacent lane pairs of a then b (vpadd on D registers,
// vpaddq on Q registers).
func Padd(a, b vreg.Reg, size int) vreg.Reg {
	check("Padd", a, 8, 16)
	if a.Bytes() != b.Bytes() {
		panic(fmt.Sprintf("neon: Padd of %d-byte and %d-byte registers", a.Bytes(), b.Bytes()))
	}
	n := a.Lanes(size)
	out := vreg.New(a.Bytes())
	for i := 0; i < n/2; i++ {
		out.SetBits(size, i, a.Bits(size, 2*i)+a.Bits(size, 2*i+1))
		out.SetBits(size, n/2+i, b.Bits(size, 2*i)+b.Bits(size, 2*i+1))
	}
	return out
}

// Add adds integer lanes with wraparound (vadd).
func Add(a, b vreg.Reg, size int) vreg.Reg {
	check("Add", a, 8, 16)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		out.SetBits(size, i, a.Bits(size, i)+b.Bits(size, i))
	}
	return out
}

// Neg negates integer lanes (vneg).
func Neg(a vreg.Reg, size int) vreg.Reg {
	check("Neg", a, 8, 16)
	return lanewise(a, size, size, a.Bytes(), func(x uint64) uint64 { return -x })
}

// Sub subtracts integer lanes with wraparound (vsub).
func Sub(a, b vreg.Reg, size int) vreg.Reg {
	check("Sub", a, 8, 16)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		out.SetBits(size, i, a.Bits(size, i)-b.Bits(size, i))
	}
	return out
}

// Mul multiplies integer lanes keeping the low bits (vmul). There is no
// 64-bit form.
func Mul(a, b vreg.Reg, size int) vreg.Reg {
	check("Mul", a, 8, 16)
	if size == 8 {
		panic("neon: Mul on 64-bit lanes")
	}
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		out.SetBits(size, i, a.Bits(size, i)*b.Bits(size, i))
	}
	return out
}

// fbinary applies op to float lanes of size 4 or 8.
func fbinary(op string, a, b vreg.Reg, size int, f func(x, y float64) float64) vreg.Reg {
	check(op, a, 8, 16)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		k := vreg.Float32
		if size == 8 {
			k = vreg.Float64
		}
		x, y := vreg.FloatValue(k, a.Bits(size, i)), vreg.FloatValue(k, b.Bits(size, i))
		out.SetBits(size, i, vreg.FloatBits(k, f(x, y)))
	}
	return out
}

// Fadd adds float lanes (vadd_f32, vaddq_f64).
func Fadd(a, b vreg.Reg, size int) vreg.Reg {
	return fbinary("Fadd", a, b, size, func(x, y float64) float64 { return x + y })
}

// Fsub subtracts float lanes (vsub_f32, vsubq_f64).
func Fsub(a, b vreg.Reg, size int) vreg.Reg {
	return fbinary("Fsub", a, b, size, func(x, y float64) float64 { return x - y })
}

// Fmul multiplies float lanes (vmul_f32, vmulq_f64).
func Fmul(a, b vreg.Reg, size int) vreg.Reg {
	return fbinary("Fmul", a, b, size, func(x, y float64) float64 { return x * y })
}

// And returns a & b (vand).
func And(a, b vreg.Reg) vreg.Reg { return vreg.And(a, b) }

// Orr returns a | b (vorr).
func Orr(a, b vreg.Reg) vreg.Reg { return vreg.Or(a, b) }

// Eor returns a ^ b (veor).
func Eor(a, b vreg.Reg) vreg.Reg { return vreg.Xor(a, b) }

// Bic returns a & ^b (vbic).
func Bic(a, b vreg.Reg) vreg.Reg { return vreg.AndNot(b, a) }

// Bsl takes each bit from a where mask is set and from b elsewhere (vbsl).
func Bsl(mask, a, b vreg.Reg) vreg.Reg {
	return vreg.Or(vreg.And(mask, a), vreg.AndNot(mask, b))
}

// Ceq compares integer lanes for equality, producing all-ones lanes
// (vceq).
func Ceq(a, b vreg.Reg, size int) vreg.Reg {
	check("Ceq", a, 8, 16)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		if a.Bits(size, i) == b.Bits(size, i) {
			out.SetBits(size, i, ^uint64(0))
		}
	}
	return out
}

// Cgt compares integer lanes, signed or unsigned, producing all-ones
// lanes where a > b (vcgt).
func Cgt(a, b vreg.Reg, size int, signed bool) vreg.Reg {
	check("Cgt", a, 8, 16)
	out := vreg.New(a.Bytes())
	for i := 0; i < a.Lanes(size); i++ {
		x, y := a.Bits(size, i), b.Bits(size, i)
		gt := x > y
		if signed {
			gt = vreg.SignExtend(x, size) > vreg.SignExtend(y, size)
		}
		if gt {
			out.SetBits(size, i, ^uint64(0))
		}
	}
	return out
}

// Shl shifts lanes left by n (vshl_n). Counts of at least the lane width
// give zero, as vshl with a register count does.
func Shl(a vreg.Reg, size, n int) vreg.Reg {
	check("Shl", a, 8, 16)
	if n >= 8*size {
		return vreg.New(a.Bytes())
	}
	return lanewise(a, size, size, a.Bytes(), func(x uint64) uint64 { return x << uint(n) })
}

// Shr shifts lanes right by n (vshr_n), arithmetically when signed.
// Counts of at least the lane width give zero or the sign fill.
func Shr(a vreg.Reg, size, n int, signed bool) vreg.Reg {
	check("Shr", a, 8, 16)
	bits := 8 * size
	if signed {
		n = min(n, bits-1)
		return lanewise(a, size, size, a.Bytes(), func(x uint64) uint64 {
			return uint64(vreg.SignExtend(x, size) >> uint(n))
		})
	}
	if n >= bits {
		return vreg.New(a.Bytes())
	}
	return lanewise(a, size, size, a.Bytes(), func(x uint64) uint64 { return x >> uint(n) })
}

// Uzp1 concatenates the even lanes of a and b (uzp1).
func Uzp1(a, b vreg.Reg, size int) vreg.Reg {
	check("Uzp1", a, 8, 16)
	n := a.Lanes(size)
	out := vreg.New(a.Bytes())
	for i := 0; i < n/2; i++ {
		out.SetBits(size, i, a.Bits(size, 2*i))
		out.SetBits(size, n/2+i, b.Bits(size, 2*i))
	}
	return out
}

func cvtSat(f float64, bits int, signed bool) uint64 {
	if math.IsNaN(f) {
		return 0
	}
	t := math.Trunc(f)
	if signed {
		lo, hi := -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
		switch {
		case t < lo:
			return uint64(1) << uint(bits-1)
		case t >= hi:
			return uint64(1)<<uint(bits-1) - 1
		}
		return uint64(int64(t))
	}
	switch {
	case t <= 0:
		return 0
	case t >= math.Ldexp(1, bits):
		if bits == 64 {
			return math.MaxUint64
		}
		return uint64(1)<<uint(bits) - 1
	}
	return uint64(t)
}

// CvtS32F32 truncates float32 lanes to int32, saturating (vcvtq_s32_f32).
func CvtS32F32(a vreg.Reg) vreg.Reg {
	check("CvtS32F32", a, 8, 16)
	return lanewise(a, 4, 4, a.Bytes(), func(x uint64) uint64 {
		return cvtSat(float64(math.Float32frombits(uint32(x))), 32, true)
	})
}

// CvtU32F32 truncates float32 lanes to uint32, saturating (vcvtq_u32_f32).
func CvtU32F32(a vreg.Reg) vreg.Reg {
	check("CvtU32F32", a, 8, 16)
	return lanewise(a, 4, 4, a.Bytes(), func(x uint64) uint64 {
		return cvtSat(float64(math.Float32frombits(uint32(x))), 32, false)
	})
}

// CvtF32S32 converts int32 lanes to float32 (vcvtq_f32_s32).
func CvtF32S32(a vreg.Reg) vreg.Reg {
	check("CvtF32S32", a, 8, 16)
	return lanewise(a, 4, 4, a.Bytes(), func(x uint64) uint64 {
		return uint64(math.Float32bits(float32(int32(x))))
	})
}

// CvtF32U32 converts uint32 lanes to float32 (vcvtq_f32_u32).
func CvtF32U32(a vreg.Reg) vreg.Reg {
	check("CvtF32U32", a, 8, 16)
	return lanewise(a, 4, 4, a.Bytes(), func(x uint64) uint64 {
		return uint64(math.Float32bits(float32(uint32(x))))
	})
}

// CvtS64F64 truncates float64 lanes to int64, saturating (vcvtq_s64_f64,
// A64).
func CvtS64F64(a vreg.Reg) vreg.Reg {
	check("CvtS64F64", a, 16)
	return lanewise(a, 8, 8, 16, func(x uint64) uint64 { return cvtSat(math.Float64frombits(x), 64, true) })
}

// CvtU64F64 truncates float64 lanes to uint64, saturating (vcvtq_u64_f64,
// A64).
func CvtU64F64(a vreg.Reg) vreg.Reg {
	check("CvtU64F64", a, 16)
	return lanewise(a, 8, 8, 16, func(x uint64) uint64 { return cvtSat(math.Float64frombits(x), 64, false) })
}

// CvtF64S64 converts int64 lanes to float64 (vcvtq_f64_s64, A64).
func CvtF64S64(a vreg.Reg) vreg.Reg {
	check("CvtF64S64", a, 16)
	return lanewise(a, 8, 8, 16, func(x uint64) uint64 { return math.Float64bits(float64(int64(x))) })
}

// CvtF64U64 converts uint64 lanes to float64 (vcvtq_f64_u64, A64).
func CvtF64U64(a vreg.Reg) vreg.Reg {
	check("CvtF64U64", a, 16)
	return lanewise(a, 8, 8, 16, func(x uint64) uint64 { return math.Float64bits(float64(x)) })
}

// CvtF64F32 widens the two float32 lanes of a D register (fcvtl, A64).
func CvtF64F32(a vreg.Reg) vreg.Reg {
	check("CvtF64F32", a, 8)
	return lanewise(a, 4, 8, 16, func(x uint64) uint64 {
		return math.Float64bits(float64(math.Float32frombits(uint32(x))))
	})
}

// CvtF32F64 narrows the float64 lanes of a Q register to a D register
// (fcvtn, A64).
func CvtF32F64(a vreg.Reg) vreg.Reg {
	check("CvtF32F64", a, 16)
	return lanewise(a, 8, 4, 8, func(x uint64) uint64 {
		return uint64(math.Float32bits(float32(math.Float64frombits(x))))
	})
}
