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

import "github.com/ajroetker/go-simd/simd/abi"

// TailMask returns the mask of a with the first count lanes set. count is
// clamped to [0, Size[T](a)].
//
//	m := simd.TailMask[float32](a, remaining)
//	v := simd.MaskedLoad(simd.Zero[float32](a), m, data[offset:], simd.ElementAligned)
func TailMask[T Lanes](a ABI, count int) Mask[T] {
	n := Size[T](a)
	count = max(0, min(count, n))
	return MaskFromBits[T](a, abi.LaneMask(count))
}

// ProcessWithTail walks size elements in steps of Size[T](a). It calls
// full(offset) for every whole vector and tail(offset, count) once for the
// remainder, if any.
//
//	a := simd.Native[float32]()
//	simd.ProcessWithTail[float32](a, len(data),
//	    func(offset int) {
//	        v := simd.Load(a, data[offset:], simd.ElementAligned)
//	        simd.Store(simd.Add(v, v), out[offset:], simd.ElementAligned)
//	    },
//	    func(offset, count int) {
//	        m := simd.TailMask[float32](a, count)
//	        v := simd.MaskedLoad(simd.Zero[float32](a), m, data[offset:], simd.ElementAligned)
//	        simd.MaskedStore(simd.Add(v, v), m, out[offset:], simd.ElementAligned)
//	    },
//	)
func ProcessWithTail[T Lanes](a ABI, size int, full func(offset int), tail func(offset, count int)) {
	n := Size[T](a)
	whole := size / n
	for i := range whole {
		full(i * n)
	}
	if rem := size % n; rem > 0 {
		tail(whole*n, rem)
	}
}

// AlignedSize rounds size up to a multiple of Size[T](a), for buffers that
// are processed without a tail.
func AlignedSize[T Lanes](a ABI, size int) int {
	n := Size[T](a)
	return (size + n - 1) / n * n
}
