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

package vreg

import "math"

// CastBits converts one lane from kind from to kind to, returning raw bits.
//
// Integer narrowing keeps the low bits, widening sign- or zero-extends
// according to the source. Float to integer truncates toward zero; the
// result for NaN or out-of-range values is unspecified. Integer to float
// and float64 to float32 round to nearest even.
func CastBits(from, to Kind, bits uint64) uint64 {
	if from == to {
		return bits
	}
	switch {
	case from.IsFloat() && to.IsFloat():
		if from == Float32 {
			return math.Float64bits(float64(math.Float32frombits(uint32(bits))))
		}
		return uint64(math.Float32bits(float32(math.Float64frombits(bits))))

	case from.IsFloat():
		f := FloatValue(from, bits)
		if to.IsSigned() {
			return uint64(int64(f)) & to.Mask()
		}
		if f < 0 {
			return uint64(int64(f)) & to.Mask()
		}
		return uint64(f) & to.Mask()

	case to.IsFloat():
		if from.IsSigned() {
			x := SignExtend(bits, from.Size())
			if to == Float32 {
				return uint64(math.Float32bits(float32(x)))
			}
			return math.Float64bits(float64(x))
		}
		x := bits & from.Mask()
		if to == Float32 {
			return uint64(math.Float32bits(float32(x)))
		}
		return math.Float64bits(float64(x))
	}

	if from.IsSigned() {
		return uint64(SignExtend(bits, from.Size())) & to.Mask()
	}
	return bits & from.Mask() & to.Mask()
}

// FloatValue returns the value of float lane bits as a float64.
func FloatValue(k Kind, bits uint64) float64 {
	if k == Float32 {
		return float64(math.Float32frombits(uint32(bits)))
	}
	return math.Float64frombits(bits)
}

// FloatBits returns the lane bits of x rounded to kind k.
func FloatBits(k Kind, x float64) uint64 {
	if k == Float32 {
		return uint64(math.Float32bits(float32(x)))
	}
	return math.Float64bits(x)
}

// Cast converts every lane of v to kind to. The result has the same lane
// count; it is the per-lane reference every vectorized conversion follows.
func Cast(v Vector, to Kind) Vector {
	n := v.Lanes()
	out := Make(to, n*to.Size())
	for i := 0; i < n; i++ {
		out.SetLane(i, CastBits(v.Kind, to, v.Lane(i)))
	}
	return out
}
