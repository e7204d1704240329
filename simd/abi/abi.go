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

// Package abi holds the register-class metadata behind every vector type:
// which classes exist, which (lane kind, byte count) pairs each one accepts
// under a feature set, how masks are represented, and how a fixed_size
// vector is packed into native registers.
package abi

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

var (
	// ErrNoABI is returned when no ABI can hold the requested lanes.
	ErrNoABI = errors.New("abi: no valid ABI")
	// ErrInvalidABI is returned when an ABI cannot hold a lane kind.
	ErrInvalidABI = errors.New("abi: invalid ABI")
)

// Class is a register class.
type Class uint8

const (
	ClassScalar Class = iota
	ClassSSE
	ClassAVX
	ClassAVX512
	ClassNEON
	ClassFixed
)

// MaskRep is the storage representation of a mask.
type MaskRep uint8

const (
	// VectorMask masks are registers whose lanes are all ones or all zeros.
	VectorMask MaskRep = iota
	// BitMask masks hold one bit per lane (AVX-512 k-registers).
	BitMask
	// BoolMask is the single bool of the scalar ABI.
	BoolMask
	// CompositeMask is an ordered list of native masks (fixed_size).
	CompositeMask
)

func (m MaskRep) String() string {
	switch m {
	case VectorMask:
		return "vector"
	case BitMask:
		return "bitmask"
	case BoolMask:
		return "bool"
	case CompositeMask:
		return "composite"
	}
	return "MaskRep(" + strconv.Itoa(int(m)) + ")"
}

// ABI names a register class plus the bytes in use (native classes) or
// the lane count (fixed_size). ABI values are comparable.
type ABI struct {
	class Class
	n     uint8
}

// Scalar returns the one-lane ABI.
func Scalar() ABI { return ABI{class: ClassScalar} }

// SSE returns the xmm ABI using the low bytes bytes of the register.
func SSE(bytes int) ABI { return ABI{class: ClassSSE, n: clampU8(bytes)} }

// AVX returns the full ymm ABI.
func AVX() ABI { return ABI{class: ClassAVX, n: 32} }

// AVX512 returns the full zmm ABI.
func AVX512() ABI { return ABI{class: ClassAVX512, n: 64} }

// NEON returns the NEON ABI of 8 or 16 bytes.
func NEON(bytes int) ABI { return ABI{class: ClassNEON, n: clampU8(bytes)} }

// Fixed returns the fixed_size ABI of n lanes.
func Fixed(n int) ABI { return ABI{class: ClassFixed, n: clampU8(n)} }

func clampU8(n int) uint8 {
	if n < 0 || n > 255 {
		return 0
	}
	return uint8(n)
}

func native(c Class, bytes int) ABI {
	if c == ClassScalar {
		return Scalar()
	}
	return ABI{class: c, n: clampU8(bytes)}
}

var maxFixedSize atomic.Int32

func init() {
	maxFixedSize.Store(32)
}

// MaxFixedSize returns the largest lane count of a fixed_size ABI that is
// valid for every lane kind.
func MaxFixedSize() int {
	return int(maxFixedSize.Load())
}

// SetMaxFixedSize changes MaxFixedSize. n must be in [1, 64].
func SetMaxFixedSize(n int) error {
	if n < 1 || n > vreg.MaxBytes {
		return fmt.Errorf("%w: max fixed size %d outside [1, %d]", ErrInvalidABI, n, vreg.MaxBytes)
	}
	maxFixedSize.Store(int32(n))
	return nil
}

// Class returns the register class.
func (a ABI) Class() Class { return a.class }

// IsFixed reports whether a is a fixed_size ABI.
func (a ABI) IsFixed() bool { return a.class == ClassFixed }

// IsScalar reports whether a is the scalar ABI.
func (a ABI) IsScalar() bool { return a.class == ClassScalar }

// Descriptor returns the static description of a's class.
func (a ABI) Descriptor() *Descriptor { return &descriptors[a.class] }

// MaskRep returns how masks of a are stored.
func (a ABI) MaskRep() MaskRep { return descriptors[a.class].Mask }

// Size returns the number of lanes of kind k.
func (a ABI) Size(k vreg.Kind) int {
	switch a.class {
	case ClassScalar:
		return 1
	case ClassFixed:
		return int(a.n)
	}
	return int(a.n) / k.Size()
}

// Bytes returns the number of bytes the lanes occupy.
func (a ABI) Bytes(k vreg.Kind) int {
	return a.Size(k) * k.Size()
}

// RegisterBytes returns the width of the register that holds the lanes.
// For fixed_size it is the logical size.
func (a ABI) RegisterBytes(k vreg.Kind) int {
	switch a.class {
	case ClassScalar:
		return k.Size()
	case ClassFixed:
		return int(a.n) * k.Size()
	}
	return descriptors[a.class].Full(int(a.n))
}

// FullSize returns the lane count of the full register.
func (a ABI) FullSize(k vreg.Kind) int {
	return a.RegisterBytes(k) / k.Size()
}

// IsPartial reports whether a uses only part of its register.
func (a ABI) IsPartial(k vreg.Kind) bool {
	return a.Size(k) < a.FullSize(k)
}

// ImplicitMask returns one set bit per logical lane. Reductions AND raw
// masks with it so padding lanes never leak.
func (a ABI) ImplicitMask(k vreg.Kind) uint64 {
	return LaneMask(a.Size(k))
}

// LaneMask returns a mask with the low n bits set.
func LaneMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}

// Valid reports whether a can hold lanes of kind k under f.
func (a ABI) Valid(k vreg.Kind, f isa.Features) bool {
	if !k.Valid() || int(a.class) >= len(descriptors) {
		return false
	}
	if a.class == ClassFixed {
		return fixedValid(k, int(a.n), f)
	}
	if a.class == ClassScalar {
		return true
	}
	return descriptors[a.class].Valid(k, int(a.n), f)
}

// Validate is Valid returning a descriptive error wrapping ErrInvalidABI.
func (a ABI) Validate(k vreg.Kind, f isa.Features) error {
	if a.Valid(k, f) {
		return nil
	}
	return fmt.Errorf("%w: %s<%s> with features %s", ErrInvalidABI, a, k, f)
}

func fixedValid(k vreg.Kind, n int, f isa.Features) bool {
	if n <= 0 || n > vreg.MaxBytes {
		return false
	}
	if n <= MaxFixedSize() {
		return true
	}
	// The int8 lane count of any valid full native register is accepted
	// even above MaxFixedSize.
	for _, c := range nativeOrder {
		if c == ClassScalar {
			continue
		}
		full := native(c, descriptors[c].Full(descriptors[c].MaxBytes))
		if full.Valid(vreg.Int8, f) && full.Size(vreg.Int8) == n {
			return true
		}
	}
	return false
}

// String returns the ABI in C++ tag notation, e.g. "sse<12>".
func (a ABI) String() string {
	switch a.class {
	case ClassScalar:
		return "scalar"
	case ClassFixed:
		return "fixed_size<" + strconv.Itoa(int(a.n)) + ">"
	}
	if int(a.class) >= len(descriptors) {
		return "ABI(" + strconv.Itoa(int(a.class)) + ")"
	}
	return descriptors[a.class].Name + "<" + strconv.Itoa(int(a.n)) + ">"
}

// Parse reads an ABI in the notation of String. "fixed<N>", "native" and
// "compatible" are not accepted here; use Native and Compatible.
func Parse(s string) (ABI, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "scalar" {
		return Scalar(), nil
	}
	name, arg, ok := strings.Cut(s, "<")
	if !ok {
		switch s {
		case "avx":
			return AVX(), nil
		case "avx512":
			return AVX512(), nil
		}
		return ABI{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidABI, s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(arg, ">"))
	if err != nil || !strings.HasSuffix(arg, ">") || n <= 0 || n > 255 {
		return ABI{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidABI, s)
	}
	switch name {
	case "sse":
		return SSE(n), nil
	case "avx":
		return ABI{class: ClassAVX, n: uint8(n)}, nil
	case "avx512":
		return ABI{class: ClassAVX512, n: uint8(n)}, nil
	case "neon":
		return NEON(n), nil
	case "fixed_size", "fixed":
		return Fixed(n), nil
	}
	return ABI{}, fmt.Errorf("%w: unknown class in %q", ErrInvalidABI, s)
}

// MemoryAlignment returns the alignment of a vector of kind k in memory:
// the next power of two of its byte size.
func MemoryAlignment(a ABI, k vreg.Kind) int {
	return nextPowerOfTwo(a.Bytes(k))
}

// MaskMemoryAlignment returns the alignment of a mask stored as one bool
// per lane.
func MaskMemoryAlignment(a ABI, k vreg.Kind) int {
	return nextPowerOfTwo(a.Size(k))
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
