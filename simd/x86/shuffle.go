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

	"github.com/ajroetker/go-simd/simd/vreg"
)

// UnpackLo interleaves the low halves of each 128-bit block of a and b in
// size-byte lanes (punpckl{bw,wd,dq,qdq}, unpacklo_ps/pd).
func UnpackLo(a, b vreg.Reg, size int) vreg.Reg {
	checkPair("UnpackLo", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg { return vreg.InterleaveLo(x, y, size) })
}

// UnpackHi interleaves the high halves of each 128-bit block of a and b.
func UnpackHi(a, b vreg.Reg, size int) vreg.Reg {
	checkPair("UnpackHi", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg { return vreg.InterleaveHi(x, y, size) })
}

// ShuffleEpi8 permutes bytes within each 128-bit block (pshufb). A control
// byte with the top bit set zeroes the destination byte.
func ShuffleEpi8(a, ctrl vreg.Reg) vreg.Reg {
	checkPair("ShuffleEpi8", a, ctrl)
	return perBlock(a, ctrl, func(x, c vreg.Reg) vreg.Reg {
		out := vreg.New(Block)
		for i := 0; i < Block; i++ {
			sel := c.Byte(i)
			if sel&0x80 == 0 {
				out.SetByte(i, x.Byte(int(sel&0x0f)))
			}
		}
		return out
	})
}

// ShuffleEpi32 permutes 32-bit lanes within each block: dst[i] =
// src[(imm >> 2i) & 3] (pshufd).
func ShuffleEpi32(a vreg.Reg, imm uint8) vreg.Reg {
	checkWidth("ShuffleEpi32", a)
	return perBlock(a, a, func(x, _ vreg.Reg) vreg.Reg {
		out := vreg.New(Block)
		for i := 0; i < 4; i++ {
			out.SetBits(4, i, x.Bits(4, int(imm>>(2*i))&3))
		}
		return out
	})
}

// ShufflePS selects lanes 0-1 from a and lanes 2-3 from b within each
// block (shufps).
func ShufflePS(a, b vreg.Reg, imm uint8) vreg.Reg {
	checkPair("ShufflePS", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg {
		out := vreg.New(Block)
		out.SetBits(4, 0, x.Bits(4, int(imm)&3))
		out.SetBits(4, 1, x.Bits(4, int(imm>>2)&3))
		out.SetBits(4, 2, y.Bits(4, int(imm>>4)&3))
		out.SetBits(4, 3, y.Bits(4, int(imm>>6)&3))
		return out
	})
}

// ShuffleLoEpi16 permutes the low four 16-bit lanes of each block and
// copies the high four (pshuflw).
func ShuffleLoEpi16(a vreg.Reg, imm uint8) vreg.Reg {
	checkWidth("ShuffleLoEpi16", a)
	return perBlock(a, a, func(x, _ vreg.Reg) vreg.Reg {
		out := x
		for i := 0; i < 4; i++ {
			out.SetBits(2, i, x.Bits(2, int(imm>>(2*i))&3))
		}
		return out
	})
}

// BlendEpi16 takes 16-bit lane i of each block from b when bit i of imm is
// set, else from a (pblendw).
func BlendEpi16(a, b vreg.Reg, imm uint8) vreg.Reg {
	checkPair("BlendEpi16", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg {
		out := x
		for i := 0; i < 8; i++ {
			if imm>>i&1 != 0 {
				out.SetBits(2, i, y.Bits(2, i))
			}
		}
		return out
	})
}

// BlendEpi32 takes 32-bit lane i from b when bit i of imm is set (vpblendd).
func BlendEpi32(a, b vreg.Reg, imm uint8) vreg.Reg {
	checkPair("BlendEpi32", a, b)
	out := a
	for i := 0; i < a.Lanes(4) && i < 8; i++ {
		if imm>>i&1 != 0 {
			out.SetBits(4, i, b.Bits(4, i))
		}
	}
	return out
}

// Blendv takes each size-byte lane from b where the top bit of the same
// lane of mask is set (pblendvb, blendvps, blendvpd).
func Blendv(a, b, mask vreg.Reg, size int) vreg.Reg {
	checkPair("Blendv", a, b)
	out := a
	top := uint64(1) << uint(8*size-1)
	for i := 0; i < a.Lanes(size); i++ {
		if mask.Bits(size, i)&top != 0 {
			out.SetBits(size, i, b.Bits(size, i))
		}
	}
	return out
}

// Permute4x64 permutes the 64-bit lanes of a ymm register across blocks
// (vpermq).
func Permute4x64(a vreg.Reg, imm uint8) vreg.Reg {
	if a.Bytes() != 32 {
		panic(fmt.Sprintf("x86: Permute4x64 on %d-byte register", a.Bytes()))
	}
	out := vreg.New(32)
	for i := 0; i < 4; i++ {
		out.SetBits(8, i, a.Bits(8, int(imm>>(2*i))&3))
	}
	return out
}

// PermuteVar8x32 permutes the 32-bit lanes of a ymm register by the low
// three bits of each lane of idx (vpermd).
func PermuteVar8x32(a, idx vreg.Reg) vreg.Reg {
	if a.Bytes() != 32 || idx.Bytes() != 32 {
		panic(fmt.Sprintf("x86: PermuteVar8x32 on %d-byte register", a.Bytes()))
	}
	out := vreg.New(32)
	for i := 0; i < 8; i++ {
		out.SetBits(4, i, a.Bits(4, int(idx.Bits(4, i)&7)))
	}
	return out
}

// Concat256 builds a ymm from two xmm halves (inserti128 / set_m128i with
// lo first).
func Concat256(lo, hi vreg.Reg) vreg.Reg {
	if lo.Bytes() != 16 || hi.Bytes() != 16 {
		panic(fmt.Sprintf("x86: Concat256 of %d-byte and %d-byte registers", lo.Bytes(), hi.Bytes()))
	}
	return vreg.Concat(lo, hi)
}

// Concat512 builds a zmm from two ymm halves (inserti64x4).
func Concat512(lo, hi vreg.Reg) vreg.Reg {
	if lo.Bytes() != 32 || hi.Bytes() != 32 {
		panic(fmt.Sprintf("x86: Concat512 of %d-byte and %d-byte registers", lo.Bytes(), hi.Bytes()))
	}
	return vreg.Concat(lo, hi)
}

func saturate(x int64, lo, hi int64) uint64 {
	return uint64(max(lo, min(hi, x)))
}

// PacksEpi32 narrows the int32 lanes of a then b to int16 with signed
// saturation, per 128-bit block (packssdw).
func PacksEpi32(a, b vreg.Reg) vreg.Reg {
	checkPair("PacksEpi32", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg {
		out := vreg.New(Block)
		for i := 0; i < 4; i++ {
			out.SetBits(2, i, saturate(x.Int(4, i), -1<<15, 1<<15-1))
			out.SetBits(2, 4+i, saturate(y.Int(4, i), -1<<15, 1<<15-1))
		}
		return out
	})
}

// PackusEpi16 narrows the int16 lanes of a then b to uint8 with unsigned
// saturation, per 128-bit block (packuswb).
func PackusEpi16(a, b vreg.Reg) vreg.Reg {
	checkPair("PackusEpi16", a, b)
	return perBlock(a, b, func(x, y vreg.Reg) vreg.Reg {
		out := vreg.New(Block)
		for i := 0; i < 8; i++ {
			out.SetBits(1, i, saturate(x.Int(2, i), 0, 255))
			out.SetBits(1, 8+i, saturate(y.Int(2, i), 0, 255))
		}
		return out
	})
}
