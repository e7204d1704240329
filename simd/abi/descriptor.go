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

package abi

import (
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Descriptor is the static description of a register class.
type Descriptor struct {
	Class Class
	Name  string
	Mask  MaskRep
	// MaxBytes is the width of the widest register of the class.
	MaxBytes int
	// Full returns the full register width for a class instance using
	// bytes bytes.
	Full func(bytes int) int
	// Valid reports whether bytes bytes of kind k fit the class under f.
	Valid func(k vreg.Kind, bytes int, f isa.Features) bool
	// Arith runs lane-wise arithmetic, bitwise operations, shifts, compares
	// and blends on registers of the class.
	Arith Backend
	// MaskOps runs the reductions of vector masks of the class.
	MaskOps Backend
}

var descriptors = [...]Descriptor{
	ClassScalar: {
		Class:    ClassScalar,
		Name:     "scalar",
		Mask:     BoolMask,
		MaxBytes: 8,
		Full:     func(bytes int) int { return bytes },
		Valid:    func(k vreg.Kind, bytes int, _ isa.Features) bool { return bytes == k.Size() },
		Arith:    GenericBackend,
		MaskOps:  GenericBackend,
	},
	ClassSSE: {
		Class:    ClassSSE,
		Name:     "sse",
		Mask:     VectorMask,
		MaxBytes: 16,
		Full:     func(int) int { return 16 },
		Valid: func(k vreg.Kind, bytes int, f isa.Features) bool {
			return f.Has(isa.SSE2) && bytes > 0 && bytes <= 16 &&
				bytes%k.Size() == 0 && bytes/k.Size() > 1
		},
		Arith:   X86Backend,
		MaskOps: X86Backend,
	},
	ClassAVX: {
		Class:    ClassAVX,
		Name:     "avx",
		Mask:     VectorMask,
		MaxBytes: 32,
		Full:     func(int) int { return 32 },
		Valid: func(k vreg.Kind, bytes int, f isa.Features) bool {
			if bytes != 32 {
				return false
			}
			if k.IsFloat() {
				return f.Has(isa.AVX)
			}
			return f.Has(isa.AVX2)
		},
		Arith:   X86Backend,
		MaskOps: X86Backend,
	},
	ClassAVX512: {
		Class:    ClassAVX512,
		Name:     "avx512",
		Mask:     BitMask,
		MaxBytes: 64,
		Full:     func(int) int { return 64 },
		Valid: func(k vreg.Kind, bytes int, f isa.Features) bool {
			if bytes != 64 || !f.Has(isa.AVX512F) {
				return false
			}
			return k.Size() >= 4 || f.Has(isa.AVX512BW)
		},
		Arith:   X86Backend,
		MaskOps: X86Backend,
	},
	ClassNEON: {
		Class:    ClassNEON,
		Name:     "neon",
		Mask:     VectorMask,
		MaxBytes: 16,
		Full: func(bytes int) int {
			if bytes >= 16 {
				return 16
			}
			return 8
		},
		Valid: func(k vreg.Kind, bytes int, f isa.Features) bool {
			if !f.Has(isa.NEON) || (bytes != 8 && bytes != 16) || bytes/k.Size() < 2 {
				return false
			}
			return k != vreg.Float64 || f.Has(isa.NEONA64)
		},
		Arith:   NEONBackend,
		MaskOps: NEONBackend,
	},
	ClassFixed: {
		Class:   ClassFixed,
		Name:    "fixed_size",
		Mask:    CompositeMask,
		Full:    func(bytes int) int { return bytes },
		Arith:   GenericBackend,
		MaskOps: GenericBackend,
	},
}

// nativeOrder is the priority order of native classes: earlier wins.
var nativeOrder = []Class{ClassAVX512, ClassAVX, ClassSSE, ClassNEON, ClassScalar}

// Descriptors returns the descriptors of every class.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors[:]...)
}
