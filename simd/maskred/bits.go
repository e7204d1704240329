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

package maskred

import "math/bits"

// FirstBit returns the index of the lowest set bit of x, or -1 if x is
// zero. The 64-bit scan is split into 32-bit halves, the form used where
// no 64-bit tzcnt exists.
func FirstBit(x uint64) int {
	if x == 0 {
		return -1
	}
	lo := uint32(x)
	if lo == 0 {
		return 32 + bits.TrailingZeros32(uint32(x>>32))
	}
	return bits.TrailingZeros32(lo)
}

// LastBit returns the index of the highest set bit of x, or -1 if x is
// zero.
func LastBit(x uint64) int {
	if x == 0 {
		return -1
	}
	hi := uint32(x >> 32)
	if hi == 0 {
		return 31 - bits.LeadingZeros32(uint32(x))
	}
	return 63 - bits.LeadingZeros32(hi)
}
