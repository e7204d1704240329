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

// Package x86 emulates the SSE2 through AVX-512 instructions used by the
// vectorized conversion and mask-reduction sequences.
//
// Each function follows the lane semantics of the instruction it is named
// after, operating on vreg.Reg values of 16, 32 or 64 bytes. Instructions
// that work within 128-bit lanes on ymm/zmm registers (unpacks, pshufb,
// pshufd, byte shifts) do so here too; cross-lane permutes are explicit.
//
//	UnpackLo(a, b, 2)       punpcklwd / vpunpcklwd
//	ShuffleEpi8(a, ctrl)    pshufb
//	CvttPS2DQ(a)            cvttps2dq
//	Pmov(a, 8, 4)           vpmovqd
package x86

import (
	"fmt"

	"github.com/ajroetker/go-simd/simd/vreg"
)

// Block is the width of an SSE register and of the in-lane blocks of the
// wider registers.
const Block = 16

func checkWidth(op string, r vreg.Reg) {
	switch r.Bytes() {
	case 16, 32, 64:
		return
	}
	panic(fmt.Sprintf("x86: %s on %d-byte register", op, r.Bytes()))
}

func checkPair(op string, a, b vreg.Reg) {
	checkWidth(op, a)
	if a.Bytes() != b.Bytes() {
		panic(fmt.Sprintf("x86: %s of %d-byte and %d-byte registers", op, a.Bytes(), b.Bytes()))
	}
}

// perBlock applies f to each 128-bit block of a (and b) and reassembles.
func perBlock(a, b vreg.Reg, f func(x, y vreg.Reg) vreg.Reg) vreg.Reg {
	n := a.Bytes() / Block
	if n == 1 {
		return f(a, b)
	}
	parts := make([]vreg.Reg, n)
	for i := range parts {
		parts[i] = f(vreg.ExtractPart(a, i, n), vreg.ExtractPart(b, i, n))
	}
	return vreg.ConcatAll(parts...)
}

// Set returns a register of the given width with lanes set from vals,
// lowest lane first. Missing lanes are zero.
func Set(bytes, size int, vals ...uint64) vreg.Reg {
	r := vreg.New(bytes)
	for i, v := range vals {
		r.SetBits(size, i, v)
	}
	return r
}

// SetEpi8 builds a 16-byte control vector for ShuffleEpi8, repeated to
// bytes bytes. Values are given lowest byte first; -1 (0x80) zeroes.
func SetEpi8(bytes int, vals ...int) vreg.Reg {
	r := vreg.New(bytes)
	for blk := 0; blk < bytes/Block; blk++ {
		for i, v := range vals {
			r.SetByte(blk*Block+i, byte(v))
		}
	}
	return r
}

// Set1 broadcasts bits to every lane of the given size.
func Set1(bytes, size int, bits uint64) vreg.Reg {
	return vreg.Broadcast(bytes, size, bits)
}

// Zero returns an all-zero register (pxor x, x).
func Zero(bytes int) vreg.Reg { return vreg.Zero(bytes) }

// Cvtsi32Si128 returns a 16-byte register whose low 32 bits are x.
func Cvtsi32Si128(x uint32) vreg.Reg {
	return Set(16, 4, uint64(x))
}

// Cvtsi128Si32 returns the low 32 bits of a.
func Cvtsi128Si32(a vreg.Reg) uint32 {
	return uint32(a.Bits(4, 0))
}

// ExtractEpi16 returns 16-bit lane i of a (pextrw).
func ExtractEpi16(a vreg.Reg, i int) uint16 {
	return uint16(a.Bits(2, i))
}

// Lo128 returns the low 16 bytes of a (castsi256_si128).
func Lo128(a vreg.Reg) vreg.Reg { return vreg.Truncate(a, 16) }

// Hi128 returns bytes 16..31 of a (extracti128 1).
func Hi128(a vreg.Reg) vreg.Reg { return vreg.ExtractPart(vreg.Truncate(a, 32), 1, 2) }
