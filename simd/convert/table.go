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

package convert

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Plan pairs a case with the strategy that serves it.
type Plan struct {
	Case     Case
	Strategy *Strategy
}

func (p Plan) String() string {
	return fmt.Sprintf("%s => %s (%s)", p.Case, p.Strategy, p.Strategy.Tier)
}

// ArgCounts are the source register counts a conversion accepts.
var ArgCounts = []int{1, 2, 4, 8}

// sourceWidths lists the register widths exercised for lanes of k under
// f: a single lane, three lanes, and every power of two from 8 bytes up to
// the widest native register.
func sourceWidths(k vreg.Kind, f isa.Features) []int {
	widths := []int{k.Size(), 3 * k.Size()}
	for w := 8; w <= f.Width(); w *= 2 {
		widths = append(widths, w)
	}
	return lo.Uniq(lo.Filter(widths, func(w int, _ int) bool { return w%k.Size() == 0 && w <= vreg.MaxBytes }))
}

// Cases enumerates the conversions exercised for f: every pair of lane
// kinds, every source width from sourceWidths and every argument count.
// The destination holds all source lanes, capped at 64 bytes for single
// sources; multi-source cases that would not fit are skipped.
func Cases(f isa.Features) []Case {
	var out []Case
	for _, from := range vreg.Kinds {
		for _, fb := range sourceWidths(from, f) {
			for _, to := range vreg.Kinds {
				for _, args := range ArgCounts {
					c := Case{From: from, FromBytes: fb, To: to, Args: args}
					c.ToBytes = c.Lanes() * to.Size()
					if c.ToBytes > vreg.MaxBytes {
						if args > 1 {
							continue
						}
						c.ToBytes = vreg.MaxBytes
					}
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// Table returns the plan chosen for every case in Cases(f).
func Table(f isa.Features) []Plan {
	return lo.Map(Cases(f), func(c Case, _ int) Plan {
		return Plan{Case: c, Strategy: Select(c, f)}
	})
}

// Mismatch is a lane where a planned conversion disagrees with Fallback.
type Mismatch struct {
	Case     Case
	Features isa.Features
	Strategy string
	Lane     int
	Input    uint64
	Got      uint64
	Want     uint64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s under %s via %s: lane %d: %s -> %s, want %s",
		m.Case, m.Features, m.Strategy, m.Lane,
		vreg.FormatBits(m.Case.From, m.Input),
		vreg.FormatBits(m.Case.To, m.Got), vreg.FormatBits(m.Case.To, m.Want))
}

// Verify converts sample inputs for c under f and compares every
// destination lane, padding included, against Fallback. Each lane
// position sees every sample.
func Verify(c Case, f isa.Features) []Mismatch {
	samples := Samples(c.From, c.To)
	s := Select(c, f)
	var out []Mismatch
	for round := range samples {
		src := make([]vreg.Vector, c.Args)
		inputs := make([]uint64, 0, c.Lanes())
		for a := range src {
			src[a] = vreg.Make(c.From, c.FromBytes)
			for i := 0; i < c.SrcLanes(); i++ {
				bits := samples[(round+len(inputs))%len(samples)]
				src[a].SetLane(i, bits)
				inputs = append(inputs, bits)
			}
		}
		got := Convert(c.To, c.ToBytes, f, src...)
		want := Fallback(c.To, c.ToBytes, src...)
		for i := 0; i < want.Lanes(); i++ {
			if got.Lane(i) == want.Lane(i) {
				continue
			}
			in := uint64(0)
			if i < len(inputs) {
				in = inputs[i]
			}
			out = append(out, Mismatch{
				Case: c, Features: f, Strategy: s.String(), Lane: i,
				Input: in, Got: got.Lane(i), Want: want.Lane(i),
			})
		}
	}
	return out
}

// VerifyAll runs Verify over every case of Cases(f).
func VerifyAll(f isa.Features) []Mismatch {
	return lo.FlatMap(Cases(f), func(c Case, _ int) []Mismatch { return Verify(c, f) })
}

var intSamples = []uint64{
	0, 1, 2, 3, 0x7f, 0x80, 0xff, 0x100, 0x7fff, 0x8000, 0xffff, 0x10000,
	1<<24 - 1, 1 << 24, 1<<24 + 1,
	0x7fffffff, 0x80000000, 0xffffffff, 0x100000000,
	1<<53 + 1, 1<<56 + 1<<32 + 1,
	0x7fffffffffffffff, 0x8000000000000000, 0xfffffffffffffffe, 0xffffffffffffffff,
	0x0123456789abcdef, 0xfedcba9876543210,
}

var floatSamples = []float64{
	0, math.Copysign(0, -1), 1, -1.5, 0.1, 1 + 1.0/(1<<24), 1 + 3.0/(1<<25),
	1e30, -1e300, 5e-324, 1e-40, 3.4028235e38,
	math.NaN(), math.Inf(1), math.Inf(-1),
}

var truncSamples = []float64{
	0, math.Copysign(0, -1), 0.5, -0.5, 1.9, -2.9, 127.9, -128.9, 255.5,
	32767.5, -32768.9, 65535.9, 2147483520, -2147483648, 3e9,
	4294967040, 4294967295.9, -(1 << 53), 1 << 53,
	9.2e18, -9.2e18, 1.8e19,
}

// Samples returns the raw input bits used to compare strategies for
// conversions from one kind to another. Inputs whose result is
// unspecified, such as NaN or out-of-range float to integer conversions,
// are excluded.
func Samples(from, to vreg.Kind) []uint64 {
	switch {
	case from.IsInteger():
		return lo.Uniq(lo.Map(intSamples, func(x uint64, _ int) uint64 { return x & from.Mask() }))
	case to.IsFloat():
		return lo.Map(floatSamples, func(x float64, _ int) uint64 { return vreg.FloatBits(from, x) })
	}
	lowEnd, highEnd := intRange(to)
	var out []uint64
	for _, x := range truncSamples {
		bits := vreg.FloatBits(from, x)
		t := math.Trunc(vreg.FloatValue(from, bits))
		if t >= lowEnd && t < highEnd {
			out = append(out, bits)
		}
	}
	return lo.Uniq(out)
}

// intRange returns the half-open range of truncated values k represents.
func intRange(k vreg.Kind) (float64, float64) {
	if k.IsSigned() {
		return -math.Ldexp(1, k.Bits()-1), math.Ldexp(1, k.Bits()-1)
	}
	return 0, math.Ldexp(1, k.Bits())
}
