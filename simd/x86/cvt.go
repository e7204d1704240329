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
	"fmt"
	"math"

	"github.com/ajroetker/go-simd/simd/vreg"
)

// Integer-indefinite results of the truncating conversions for NaN and
// out-of-range inputs.
const (
	Indefinite32  = 0x80000000
	Indefinite64  = 0x8000000000000000
	UIndefinite32 = 0xffffffff
	UIndefinite64 = 0xffffffffffffffff
)

func cvttSigned(f float64, bits int) uint64 {
	t := math.Trunc(f)
	limit := math.Ldexp(1, bits-1)
	if math.IsNaN(t) || t >= limit || t < -limit {
		return uint64(1) << uint(bits-1)
	}
	return uint64(int64(t))
}

func cvttUnsigned(f float64, bits int) uint64 {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < 0 || t >= math.Ldexp(1, bits) {
		if bits == 64 {
			return UIndefinite64
		}
		return 1<<uint(bits) - 1
	}
	return uint64(t)
}

// convert applies f to min(input lanes, output lanes) lanes, writing an
// outBytes-wide register whose remaining bytes are zero.
func convert(a vreg.Reg, from, to, outBytes int, f func(uint64) uint64) vreg.Reg {
	out := vreg.New(outBytes)
	n := min(a.Lanes(from), outBytes/to)
	for i := 0; i < n; i++ {
		out.SetBits(to, i, f(a.Bits(from, i)))
	}
	return out
}

// narrowed returns the destination width of a conversion from 64-bit to
// 32-bit lanes: half the input, at least one xmm.
func narrowed(in int) int {
	return max(Block, in/2)
}

func checkWiden(op string, a vreg.Reg, outBytes int) {
	checkWidth(op, a)
	if outBytes != 16 && outBytes != 32 && outBytes != 64 {
		panic(fmt.Sprintf("x86: %s to %d bytes", op, outBytes))
	}
}

// CvttPS2DQ truncates float32 lanes to int32 (cvttps2dq).
func CvttPS2DQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPS2DQ", a)
	if r, ok := hwCvttPS2DQ(a); ok {
		return r
	}
	return convert(a, 4, 4, a.Bytes(), func(x uint64) uint64 { return cvttSigned(float64(f32(x)), 32) })
}

// CvtDQ2PS converts int32 lanes to float32 (cvtdq2ps).
func CvtDQ2PS(a vreg.Reg) vreg.Reg {
	checkWidth("CvtDQ2PS", a)
	if r, ok := hwCvtDQ2PS(a); ok {
		return r
	}
	return convert(a, 4, 4, a.Bytes(), func(x uint64) uint64 { return b32(float32(int32(x))) })
}

// CvttPS2UDQ truncates float32 lanes to uint32 (vcvttps2udq, AVX-512).
func CvttPS2UDQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPS2UDQ", a)
	return convert(a, 4, 4, a.Bytes(), func(x uint64) uint64 { return cvttUnsigned(float64(f32(x)), 32) })
}

// CvtUDQ2PS converts uint32 lanes to float32 (vcvtudq2ps, AVX-512).
func CvtUDQ2PS(a vreg.Reg) vreg.Reg {
	checkWidth("CvtUDQ2PS", a)
	return convert(a, 4, 4, a.Bytes(), func(x uint64) uint64 { return b32(float32(uint32(x))) })
}

// CvttPD2DQ truncates float64 lanes to int32 in a register of half the
// width, at least 16 bytes (cvttpd2dq).
func CvttPD2DQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPD2DQ", a)
	return convert(a, 8, 4, narrowed(a.Bytes()), func(x uint64) uint64 { return cvttSigned(f64(x), 32) })
}

// CvttPD2UDQ truncates float64 lanes to uint32 (vcvttpd2udq, AVX-512).
func CvttPD2UDQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPD2UDQ", a)
	return convert(a, 8, 4, narrowed(a.Bytes()), func(x uint64) uint64 { return cvttUnsigned(f64(x), 32) })
}

// CvtPD2PS rounds float64 lanes to float32 (cvtpd2ps).
func CvtPD2PS(a vreg.Reg) vreg.Reg {
	checkWidth("CvtPD2PS", a)
	return convert(a, 8, 4, narrowed(a.Bytes()), func(x uint64) uint64 { return b32(float32(f64(x))) })
}

// CvtQQ2PS converts int64 lanes to float32 (vcvtqq2ps, AVX-512DQ).
func CvtQQ2PS(a vreg.Reg) vreg.Reg {
	checkWidth("CvtQQ2PS", a)
	return convert(a, 8, 4, narrowed(a.Bytes()), func(x uint64) uint64 { return b32(float32(int64(x))) })
}

// CvtUQQ2PS converts uint64 lanes to float32 (vcvtuqq2ps, AVX-512DQ).
func CvtUQQ2PS(a vreg.Reg) vreg.Reg {
	checkWidth("CvtUQQ2PS", a)
	return convert(a, 8, 4, narrowed(a.Bytes()), func(x uint64) uint64 { return b32(float32(x)) })
}

// CvttPD2QQ truncates float64 lanes to int64 (vcvttpd2qq, AVX-512DQ).
func CvttPD2QQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPD2QQ", a)
	return convert(a, 8, 8, a.Bytes(), func(x uint64) uint64 { return cvttSigned(f64(x), 64) })
}

// CvttPD2UQQ truncates float64 lanes to uint64 (vcvttpd2uqq, AVX-512DQ).
func CvttPD2UQQ(a vreg.Reg) vreg.Reg {
	checkWidth("CvttPD2UQQ", a)
	return convert(a, 8, 8, a.Bytes(), func(x uint64) uint64 { return cvttUnsigned(f64(x), 64) })
}

// CvtQQ2PD converts int64 lanes to float64 (vcvtqq2pd, AVX-512DQ).
func CvtQQ2PD(a vreg.Reg) vreg.Reg {
	checkWidth("CvtQQ2PD", a)
	return convert(a, 8, 8, a.Bytes(), func(x uint64) uint64 { return b64(float64(int64(x))) })
}

// CvtUQQ2PD converts uint64 lanes to float64 (vcvtuqq2pd, AVX-512DQ).
func CvtUQQ2PD(a vreg.Reg) vreg.Reg {
	checkWidth("CvtUQQ2PD", a)
	return convert(a, 8, 8, a.Bytes(), func(x uint64) uint64 { return b64(float64(x)) })
}

// CvtDQ2PD converts the low int32 lanes of a to float64 in a register of
// outBytes bytes (cvtdq2pd).
func CvtDQ2PD(a vreg.Reg, outBytes int) vreg.Reg {
	checkWiden("CvtDQ2PD", a, outBytes)
	return convert(a, 4, 8, outBytes, func(x uint64) uint64 { return b64(float64(int32(x))) })
}

// CvtUDQ2PD converts the low uint32 lanes of a to float64 (vcvtudq2pd).
func CvtUDQ2PD(a vreg.Reg, outBytes int) vreg.Reg {
	checkWiden("CvtUDQ2PD", a, outBytes)
	return convert(a, 4, 8, outBytes, func(x uint64) uint64 { return b64(float64(uint32(x))) })
}

// CvtPS2PD widens the low float32 lanes of a to float64 (cvtps2pd).
func CvtPS2PD(a vreg.Reg, outBytes int) vreg.Reg {
	checkWiden("CvtPS2PD", a, outBytes)
	return convert(a, 4, 8, outBytes, func(x uint64) uint64 { return b64(float64(f32(x))) })
}

// CvttPS2QQ truncates the low float32 lanes of a to int64 (vcvttps2qq).
func CvttPS2QQ(a vreg.Reg, outBytes int) vreg.Reg {
	checkWiden("CvttPS2QQ", a, outBytes)
	return convert(a, 4, 8, outBytes, func(x uint64) uint64 { return cvttSigned(float64(f32(x)), 64) })
}

// CvttPS2UQQ truncates the low float32 lanes of a to uint64 (vcvttps2uqq).
func CvttPS2UQQ(a vreg.Reg, outBytes int) vreg.Reg {
	checkWiden("CvttPS2UQQ", a, outBytes)
	return convert(a, 4, 8, outBytes, func(x uint64) uint64 { return cvttUnsigned(float64(f32(x)), 64) })
}

// Extend sign- or zero-extends the low lanes of a from from-byte to
// to-byte lanes into a register of outBytes bytes (pmovsx*, pmovzx*).
func Extend(a vreg.Reg, from, to int, signed bool, outBytes int) vreg.Reg {
	checkWiden("Extend", a, outBytes)
	if signed {
		return convert(a, from, to, outBytes, func(x uint64) uint64 { return uint64(vreg.SignExtend(x, from)) })
	}
	return convert(a, from, to, outBytes, func(x uint64) uint64 { return x })
}

// Pmov truncates from-byte lanes to to-byte lanes (vpmov{qd,qw,qb,dw,db,wb},
// AVX-512). The packed result is zero-extended to at least 16 bytes.
func Pmov(a vreg.Reg, from, to int) vreg.Reg {
	checkWidth("Pmov", a)
	out := max(Block, a.Lanes(from)*to)
	return convert(a, from, to, out, func(x uint64) uint64 { return x })
}
