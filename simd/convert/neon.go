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
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/neon"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// qreg reports whether n is a D or Q register width.
func qreg(n int) bool { return n == 8 || n == 16 }

func neonOne(c Case) bool { return c.Args == 1 && qreg(c.FromBytes) && qreg(c.ToBytes) }

func neonOp(name string, tier Tier, req isa.Features, match func(c Case) bool, run func(x *call, a vreg.Reg) vreg.Reg) *Strategy {
	return &Strategy{
		Name:     name,
		Backend:  "neon",
		Tier:     tier,
		Requires: isa.NEON | req,
		Match:    func(c Case, _ isa.Features) bool { return neonOne(c) && match(c) },
		run:      func(x *call, src []vreg.Reg) vreg.Reg { return run(x, src[0]) },
	}
}

func neonShape(name string, match func(c Case) bool, run func(x *call, src []vreg.Reg) vreg.Reg) *Strategy {
	return &Strategy{
		Name:     name,
		Backend:  "neon",
		Tier:     TierStructural,
		Requires: isa.NEON,
		Match:    func(c Case, _ isa.Features) bool { return match(c) },
		run:      run,
	}
}

// low returns the D register holding the low lanes of a.
func low(a vreg.Reg) vreg.Reg {
	if a.Bytes() == 8 {
		return a
	}
	return neon.GetLow(a)
}

// quad widens a D register to a Q register with a zero high half.
func quad(a vreg.Reg) vreg.Reg {
	if a.Bytes() == 16 {
		return a
	}
	return neon.Combine(a, vreg.Zero(8))
}

// neonCvt picks the same-width int<->float instruction for c.
func neonCvt(c Case) func(vreg.Reg) vreg.Reg {
	switch {
	case is(c, vreg.Int32, vreg.Float32):
		return neon.CvtF32S32
	case is(c, vreg.Uint32, vreg.Float32):
		return neon.CvtF32U32
	case is(c, vreg.Float32, vreg.Int32):
		return neon.CvtS32F32
	case is(c, vreg.Float32, vreg.Uint32):
		return neon.CvtU32F32
	case is(c, vreg.Int64, vreg.Float64):
		return neon.CvtF64S64
	case is(c, vreg.Uint64, vreg.Float64):
		return neon.CvtF64U64
	case is(c, vreg.Float64, vreg.Int64):
		return neon.CvtS64F64
	case is(c, vreg.Float64, vreg.Uint64):
		return neon.CvtU64F64
	}
	return nil
}

var neonStrategies = []*Strategy{
	{
		Name:     "uzp1-2arg",
		Backend:  "neon",
		Tier:     TierDirect,
		Requires: isa.NEON | isa.NEONA64,
		Match: func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && ints(c) && c.From.Size() == 2*c.To.Size()
		},
		// The even narrow lanes are the low halves of the wide ones.
		run: func(x *call, src []vreg.Reg) vreg.Reg { return neon.Uzp1(src[0], src[1], x.c.To.Size()) },
	},
	neonShape("concat-args",
		func(c Case) bool { return c.Args > 1 && 2*c.FromBytes <= 16 },
		func(x *call, src []vreg.Reg) vreg.Reg {
			pairs := make([]vreg.Reg, len(src)/2)
			for i := range pairs {
				pairs[i] = vreg.Concat(src[2*i], src[2*i+1])
			}
			return x.subN(x.c.From, x.c.To, x.c.ToBytes, pairs)
		}),
	neonShape("split-args",
		func(c Case) bool { return c.Args > 1 },
		func(x *call, src []vreg.Reg) vreg.Reg {
			part := x.c.SrcLanes() * x.c.To.Size()
			parts := make([]vreg.Reg, len(src))
			for i, r := range src {
				parts[i] = x.sub(x.c.From, r, x.c.To, part)
			}
			return fit(vreg.ConcatAll(parts...), x.c.ToBytes)
		}),
	neonShape("truncate-src",
		func(c Case) bool {
			need := regFor(c.OutLanes()*c.From.Size(), 8)
			return c.Args == 1 && need <= 16 && need < c.FromBytes
		},
		func(x *call, src []vreg.Reg) vreg.Reg {
			a := vreg.Truncate(src[0], regFor(x.c.OutLanes()*x.c.From.Size(), 8))
			return x.sub(x.c.From, a, x.c.To, x.c.ToBytes)
		}),
	neonShape("split",
		func(c Case) bool {
			n := c.Converted()
			return c.Args == 1 && n >= 2 && (n*c.From.Size() > 16 || n*c.To.Size() > 16)
		},
		splitLanes),
	neonShape("zext-src",
		func(c Case) bool { return c.Args == 1 && c.FromBytes < 16 && !qreg(c.FromBytes) },
		func(x *call, src []vreg.Reg) vreg.Reg {
			a := vreg.ZeroExtend(src[0], regFor(x.c.FromBytes, 8))
			return x.sub(x.c.From, a, x.c.To, x.c.ToBytes)
		}),
	neonShape("fit-dst",
		func(c Case) bool { return c.Args == 1 && qreg(c.FromBytes) && !qreg(c.ToBytes) },
		func(x *call, src []vreg.Reg) vreg.Reg {
			r := x.sub(x.c.From, src[0], x.c.To, min(regFor(x.c.ToBytes, 8), 16))
			return fit(r, x.c.ToBytes)
		}),
	neonShape("zext-dst",
		func(c Case) bool {
			return neonOne(c) && regFor(c.SrcLanes()*c.To.Size(), 8) < c.ToBytes
		},
		func(x *call, src []vreg.Reg) vreg.Reg {
			r := x.sub(x.c.From, src[0], x.c.To, regFor(x.c.SrcLanes()*x.c.To.Size(), 8))
			return vreg.ZeroExtend(r, x.c.ToBytes)
		}),

	neonOp("vmovl", TierDirect, 0,
		func(c Case) bool { return ints(c) && c.To.Size() == 2*c.From.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			return fit(neon.Movl(low(a), x.c.From.Size(), x.c.From.IsSigned()), x.c.ToBytes)
		}),
	neonOp("vmovn", TierDirect, 0,
		func(c Case) bool { return ints(c) && c.From.Size() == 2*c.To.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			return fit(neon.Movn(quad(a), x.c.From.Size()), x.c.ToBytes)
		}),
	neonOp("vcvt", TierDirect, 0,
		func(c Case) bool {
			return c.From.Size() == 4 && c.FromBytes == c.ToBytes && neonCvt(c) != nil
		},
		func(x *call, a vreg.Reg) vreg.Reg { return neonCvt(x.c)(a) }),
	neonOp("vcvtq-64", TierDirect, isa.NEONA64,
		func(c Case) bool {
			return c.From.Size() == 8 && c.FromBytes == 16 && c.ToBytes == 16 && neonCvt(c) != nil
		},
		func(x *call, a vreg.Reg) vreg.Reg { return neonCvt(x.c)(a) }),
	neonOp("fcvtl", TierDirect, isa.NEONA64,
		func(c Case) bool { return is(c, vreg.Float32, vreg.Float64) },
		func(x *call, a vreg.Reg) vreg.Reg { return fit(neon.CvtF64F32(low(a)), x.c.ToBytes) }),
	neonOp("fcvtn", TierDirect, isa.NEONA64,
		func(c Case) bool { return is(c, vreg.Float64, vreg.Float32) },
		func(x *call, a vreg.Reg) vreg.Reg { return fit(neon.CvtF32F64(quad(a)), x.c.ToBytes) }),

	neonOp("widen-chain", TierSynthetic, 0,
		func(c Case) bool { return ints(c) && c.To.Size() >= 4*c.From.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			s := x.c.From.Size()
			mid := vreg.IntKind(2*s, x.c.From.IsSigned())
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*2*s, 8))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	neonOp("narrow-chain", TierSynthetic, 0,
		func(c Case) bool { return ints(c) && c.From.Size() >= 4*c.To.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			s := x.c.From.Size()
			mid := vreg.IntKind(s/2, false)
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*s/2, 8))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	// Widening an integer first keeps the conversion exact; f64 targets
	// need the A64 conversions.
	neonOp("widen-int", TierSynthetic, 0,
		func(c Case) bool {
			return c.From.IsInteger() && c.To.IsFloat() && c.From.Size() < c.To.Size()
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			mid := vreg.IntKind(x.c.To.Size(), x.c.From.IsSigned())
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*mid.Size(), 8))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	neonOp("narrow-int", TierSynthetic, 0,
		func(c Case) bool {
			return c.From.IsFloat() && c.To.IsInteger() && c.To.Size() < c.From.Size()
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			mid := vreg.IntKind(x.c.From.Size(), x.c.To.IsSigned())
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*mid.Size(), 8))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	neonOp("widen-float", TierSynthetic, isa.NEONA64,
		func(c Case) bool { return c.From == vreg.Float32 && c.To.IsInteger() && c.To.Size() == 8 },
		func(x *call, a vreg.Reg) vreg.Reg {
			m := x.sub(x.c.From, a, vreg.Float64, regFor(x.c.Converted()*8, 8))
			return x.sub(vreg.Float64, m, x.c.To, x.c.ToBytes)
		}),
}
