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
	"github.com/ajroetker/go-simd/simd/abi"
)

// ABI names a register layout. See package abi for the classes.
type ABI = abi.ABI

// Scalar returns the one-lane ABI.
func Scalar() ABI { return abi.Scalar() }

// SSE returns the SSE ABI using bytes bytes of an xmm register.
func SSE(bytes int) ABI { return abi.SSE(bytes) }

// AVX returns the full ymm ABI.
func AVX() ABI { return abi.AVX() }

// AVX512 returns the full zmm ABI.
func AVX512() ABI { return abi.AVX512() }

// NEON returns the NEON ABI using bytes bytes of a D or Q register.
func NEON(bytes int) ABI { return abi.NEON(bytes) }

// FixedSize returns the fixed_size ABI with n lanes.
func FixedSize(n int) ABI { return abi.Fixed(n) }

// Native returns the widest full native ABI for T under the current
// features.
func Native[T Lanes]() ABI {
	return abi.Native(kindOf[T](), CurrentFeatures())
}

// Compatible returns the ABI safe to exchange between code built for
// different feature levels.
func Compatible[T Lanes]() ABI {
	return abi.Compatible(kindOf[T](), CurrentFeatures())
}

// Deduce returns the ABI holding n lanes of T. It panics when no ABI
// exists, e.g. n above abi.MaxFixedSize.
func Deduce[T Lanes](n int) ABI {
	a, err := abi.Deduce(kindOf[T](), n, CurrentFeatures())
	if err != nil {
		panic(err)
	}
	return a
}

// Size returns the number of T lanes of a.
func Size[T Lanes](a ABI) int { return a.Size(kindOf[T]()) }

// MemoryAlignment returns the alignment VectorAligned loads and stores of
// a vector of T lanes require.
func MemoryAlignment[T Lanes](a ABI) int { return abi.MemoryAlignment(a, kindOf[T]()) }

// MaskMemoryAlignment returns the alignment of a mask stored as bools.
func MaskMemoryAlignment[T Lanes](a ABI) int { return abi.MaskMemoryAlignment(a, kindOf[T]()) }

// MaxLanes returns the lane count of Native[T]().
func MaxLanes[T Lanes]() int { return Size[T](Native[T]()) }
