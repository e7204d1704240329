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
	"github.com/ajroetker/go-simd/simd/vreg"
	"github.com/ajroetker/go-simd/simd/x86"
)

const (
	signBit32 = 0x80000000
	two31f32  = 0x4f000000         // float32(1 << 31)
	two16f32  = 0x47800000         // float32(1 << 16)
	two31f64  = 0x41e0000000000000 // float64(1 << 31)
	two32f64  = 0x41f0000000000000 // float64(1 << 32)
	two52f64  = 0x4330000000000000 // float64(1 << 52)
	two84f64  = 0x4530000000000000 // float64(1 << 84)
	magicF64  = 0x4530000000100000 // float64(1<<84 + 1<<52)
)

// xreg reports whether n is an xmm, ymm or zmm width.
func xreg(n int) bool { return n == 16 || n == 32 || n == 64 }

// one reports whether c is a single-register case on native widths.
func one(c Case) bool { return c.Args == 1 && xreg(c.FromBytes) && xreg(c.ToBytes) }

func is(c Case, from, to vreg.Kind) bool { return c.From == from && c.To == to }

func ints(c Case) bool { return c.From.IsInteger() && c.To.IsInteger() }

// floatReg reports whether float instructions of the given width exist,
// including the int<->float conversions of the same encoding family.
func floatReg(f isa.Features, bytes int) bool {
	switch bytes {
	case 16:
		return f.Has(isa.SSE2)
	case 32:
		return f.Has(isa.AVX)
	case 64:
		return f.Has(isa.AVX512F)
	}
	return false
}

// evex reports whether an AVX-512 instruction needing extra is encodable
// at the given width: 128/256-bit forms need AVX512VL.
func evex(f isa.Features, bytes int, extra isa.Features) bool {
	need := isa.AVX512F | extra
	if bytes < 64 {
		need |= isa.AVX512VL
	}
	return f.Has(need)
}

// narrowed is the output width of a 64-bit to 32-bit lane conversion.
func narrowed(in int) int { return max(16, in/2) }

func x86Op(name string, tier Tier, req isa.Features, match func(c Case, f isa.Features) bool, run func(x *call, a vreg.Reg) vreg.Reg) *Strategy {
	return &Strategy{
		Name:     name,
		Backend:  "x86",
		Tier:     tier,
		Requires: isa.SSE2 | req,
		Match:    func(c Case, f isa.Features) bool { return one(c) && match(c, f) },
		run:      func(x *call, src []vreg.Reg) vreg.Reg { return run(x, src[0]) },
	}
}

func x86Shape(name string, tier Tier, match func(c Case, f isa.Features) bool, run func(x *call, src []vreg.Reg) vreg.Reg) *Strategy {
	return &Strategy{Name: name, Backend: "x86", Tier: tier, Requires: isa.SSE2, Match: match, run: run}
}

// pairOK reports whether two sources concatenated still fit a register
// the feature set can convert from and to.
func pairOK(c Case, f isa.Features) bool {
	w := 2 * c.FromBytes
	switch {
	case w <= 16:
		return true
	case w <= 32:
		return f.Has(isa.AVX2) || (f.Has(isa.AVX) && c.From.IsFloat() && c.To.IsFloat())
	case w <= 64:
		return f.Has(isa.AVX512F) && (min(c.From.Size(), c.To.Size()) >= 4 || f.Has(isa.AVX512BW))
	}
	return false
}

func sext16(a vreg.Reg) vreg.Reg {
	return x86.Srai(x86.Slli(a, 4, 16), 4, 16)
}

func lowBytes(a vreg.Reg) vreg.Reg {
	return x86.And(a, x86.Set1(a.Bytes(), 2, 0xff))
}

// u32ToF64 converts the low uint32 lanes of an xmm exactly: flipping the
// sign bit maps x to x - 2^31 as an int32, which cvtdq2pd converts
// exactly, and adding 2^31 back is exact in float64.
func u32ToF64(a vreg.Reg, outBytes int) vreg.Reg {
	d := x86.CvtDQ2PD(x86.Xor(a, x86.Set1(16, 4, signBit32)), outBytes)
	return x86.AddPD(d, x86.Set1(outBytes, 8, two31f64))
}

// narrowCtrl is the pshufb control keeping the low to bytes of every
// from-byte lane of a block, packed at the bottom.
func narrowCtrl(bytes, from, to int) vreg.Reg {
	ctrl := make([]int, x86.Block)
	for i := range ctrl {
		ctrl[i] = -1
	}
	for i := 0; i < x86.Block/from; i++ {
		for j := 0; j < to; j++ {
			ctrl[i*to+j] = i*from + j
		}
	}
	return x86.SetEpi8(bytes, ctrl...)
}

var x86Strategies = []*Strategy{
	// Multi-register cases.
	x86Shape("concat-args", TierStructural,
		func(c Case, f isa.Features) bool { return c.Args > 1 && pairOK(c, f) },
		func(x *call, src []vreg.Reg) vreg.Reg {
			pairs := make([]vreg.Reg, len(src)/2)
			for i := range pairs {
				pairs[i] = vreg.Concat(src[2*i], src[2*i+1])
			}
			return x.subN(x.c.From, x.c.To, x.c.ToBytes, pairs)
		}),
	x86Shape("packssdw-2arg", TierDirect,
		func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && ints(c) && c.From.Size() == 4 && c.To.Size() == 2
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.PacksEpi32(sext16(src[0]), sext16(src[1]))
		}),
	// packssdw works per 128-bit block; vpermq restores lane order.
	x86Shape("packssdw-2arg-ymm", TierDirect,
		func(c Case, f isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 32 && c.ToBytes == 32 && ints(c) &&
				c.From.Size() == 4 && c.To.Size() == 2 && f.Has(isa.AVX2)
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.Permute4x64(x86.PacksEpi32(sext16(src[0]), sext16(src[1])), 0xd8)
		}),
	x86Shape("packuswb-2arg", TierDirect,
		func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && ints(c) && c.From.Size() == 2 && c.To.Size() == 1
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.PackusEpi16(lowBytes(src[0]), lowBytes(src[1]))
		}),
	x86Shape("shufps-2arg", TierDirect,
		func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && ints(c) && c.From.Size() == 8 && c.To.Size() == 4
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.ShufflePS(src[0], src[1], 0x88)
		}),
	x86Shape("cvtpd2ps-2arg", TierDirect,
		func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && is(c, vreg.Float64, vreg.Float32)
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.UnpackLo(x86.CvtPD2PS(src[0]), x86.CvtPD2PS(src[1]), 8)
		}),
	x86Shape("cvttpd2dq-2arg", TierDirect,
		func(c Case, _ isa.Features) bool {
			return c.Args == 2 && c.FromBytes == 16 && c.ToBytes == 16 && is(c, vreg.Float64, vreg.Int32)
		},
		func(_ *call, src []vreg.Reg) vreg.Reg {
			return x86.UnpackLo(x86.CvttPD2DQ(src[0]), x86.CvttPD2DQ(src[1]), 8)
		}),
	x86Shape("split-args", TierStructural,
		func(c Case, _ isa.Features) bool { return c.Args > 1 },
		func(x *call, src []vreg.Reg) vreg.Reg {
			part := x.c.SrcLanes() * x.c.To.Size()
			parts := make([]vreg.Reg, len(src))
			for i, r := range src {
				parts[i] = x.sub(x.c.From, r, x.c.To, part)
			}
			return fit(vreg.ConcatAll(parts...), x.c.ToBytes)
		}),

	// Width normalization of single-register cases.
	x86Shape("zext-src", TierStructural,
		func(c Case, _ isa.Features) bool { return c.Args == 1 && !xreg(c.FromBytes) },
		func(x *call, src []vreg.Reg) vreg.Reg {
			a := vreg.ZeroExtend(src[0], regFor(x.c.FromBytes, 16))
			return x.sub(x.c.From, a, x.c.To, x.c.ToBytes)
		}),
	x86Shape("truncate-src", TierStructural,
		func(c Case, _ isa.Features) bool {
			return c.Args == 1 && regFor(c.OutLanes()*c.From.Size(), 16) < c.FromBytes
		},
		func(x *call, src []vreg.Reg) vreg.Reg {
			a := vreg.Truncate(src[0], regFor(x.c.OutLanes()*x.c.From.Size(), 16))
			return x.sub(x.c.From, a, x.c.To, x.c.ToBytes)
		}),
	x86Shape("fit-dst", TierStructural,
		func(c Case, _ isa.Features) bool { return c.Args == 1 && !xreg(c.ToBytes) },
		func(x *call, src []vreg.Reg) vreg.Reg {
			r := x.sub(x.c.From, src[0], x.c.To, regFor(x.c.ToBytes, 16))
			return vreg.Truncate(r, x.c.ToBytes)
		}),
	x86Shape("zext-dst", TierStructural,
		func(c Case, _ isa.Features) bool {
			return c.Args == 1 && regFor(c.SrcLanes()*c.To.Size(), 16) < c.ToBytes
		},
		func(x *call, src []vreg.Reg) vreg.Reg {
			r := x.sub(x.c.From, src[0], x.c.To, regFor(x.c.SrcLanes()*x.c.To.Size(), 16))
			return vreg.ZeroExtend(r, x.c.ToBytes)
		}),

	// Integer widening and narrowing.
	x86Op("pmovsx", TierDirect, isa.SSE41,
		func(c Case, f isa.Features) bool {
			return ints(c) && c.From.IsSigned() && c.To.Size() > c.From.Size() && pmovOK(c, f)
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			return x86.Extend(a, x.c.From.Size(), x.c.To.Size(), true, x.c.ToBytes)
		}),
	x86Op("pmovzx", TierDirect, isa.SSE41,
		func(c Case, f isa.Features) bool {
			return ints(c) && !c.From.IsSigned() && c.To.Size() > c.From.Size() && pmovOK(c, f)
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			return x86.Extend(a, x.c.From.Size(), x.c.To.Size(), false, x.c.ToBytes)
		}),
	x86Op("vpmov", TierDirect, isa.AVX512F,
		func(c Case, f isa.Features) bool {
			var bw isa.Features
			if c.From.Size() == 2 {
				bw = isa.AVX512BW
			}
			return ints(c) && c.To.Size() < c.From.Size() && evex(f, c.FromBytes, bw) &&
				max(16, c.SrcLanes()*c.To.Size()) == c.ToBytes
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			return x86.Pmov(a, x.c.From.Size(), x.c.To.Size())
		}),
	x86Op("pshufb", TierDirect, isa.SSSE3,
		func(c Case, f isa.Features) bool {
			if !ints(c) || c.To.Size() >= c.From.Size() || c.ToBytes != 16 {
				return false
			}
			r := c.From.Size() / c.To.Size()
			return c.FromBytes == 16 || (c.FromBytes == 32 && f.Has(isa.AVX2) && r <= 4)
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			s, t := x.c.From.Size(), x.c.To.Size()
			y := x86.ShuffleEpi8(a, narrowCtrl(a.Bytes(), s, t))
			if a.Bytes() == 16 {
				return y
			}
			// Each block holds its results in the low 16/r bytes; gather
			// them into the low xmm.
			idx := []uint64{0, 4}
			if s/t == 2 {
				idx = []uint64{0, 1, 4, 5}
			}
			return x86.Lo128(x86.PermuteVar8x32(y, x86.Set(32, 4, idx...)))
		}),
	x86Op("pack", TierDirect, 0,
		func(c Case, _ isa.Features) bool {
			if !ints(c) || c.FromBytes != 16 || c.ToBytes != 16 {
				return false
			}
			return c.From.Size() == 2*c.To.Size()
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			switch x.c.From.Size() {
			case 8:
				return x86.ShuffleEpi32(a, 0x08)
			case 4:
				s := sext16(a)
				return x86.PacksEpi32(s, s)
			}
			l := lowBytes(a)
			return x86.PackusEpi16(l, l)
		}),

	// Float to float.
	x86Op("cvtps2pd", TierDirect, 0,
		func(c Case, f isa.Features) bool { return is(c, vreg.Float32, vreg.Float64) && floatReg(f, c.ToBytes) },
		func(x *call, a vreg.Reg) vreg.Reg { return x86.CvtPS2PD(a, x.c.ToBytes) }),
	x86Op("cvtpd2ps", TierDirect, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Float32) && floatReg(f, c.FromBytes) && c.ToBytes == narrowed(c.FromBytes)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtPD2PS(a) }),

	// Integer to float.
	x86Op("cvtdq2ps", TierDirect, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Int32, vreg.Float32) && c.ToBytes == c.FromBytes && floatReg(f, c.FromBytes)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtDQ2PS(a) }),
	x86Op("cvtudq2ps", TierDirect, isa.AVX512F,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint32, vreg.Float32) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, 0)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtUDQ2PS(a) }),
	x86Op("cvtdq2pd", TierDirect, 0,
		func(c Case, f isa.Features) bool { return is(c, vreg.Int32, vreg.Float64) && floatReg(f, c.ToBytes) },
		func(x *call, a vreg.Reg) vreg.Reg { return x86.CvtDQ2PD(a, x.c.ToBytes) }),
	x86Op("cvtudq2pd", TierDirect, isa.AVX512F,
		func(c Case, f isa.Features) bool { return is(c, vreg.Uint32, vreg.Float64) && evex(f, c.ToBytes, 0) },
		func(x *call, a vreg.Reg) vreg.Reg { return x86.CvtUDQ2PD(a, x.c.ToBytes) }),
	x86Op("cvtqq2pd", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Int64, vreg.Float64) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtQQ2PD(a) }),
	x86Op("cvtuqq2pd", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint64, vreg.Float64) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtUQQ2PD(a) }),
	x86Op("cvtqq2ps", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Int64, vreg.Float32) && c.ToBytes == narrowed(c.FromBytes) && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtQQ2PS(a) }),
	x86Op("cvtuqq2ps", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint64, vreg.Float32) && c.ToBytes == narrowed(c.FromBytes) && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvtUQQ2PS(a) }),

	// Float to integer, truncating.
	x86Op("cvttps2dq", TierDirect, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float32, vreg.Int32) && c.ToBytes == c.FromBytes && floatReg(f, c.FromBytes)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPS2DQ(a) }),
	x86Op("cvttps2udq", TierDirect, isa.AVX512F,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float32, vreg.Uint32) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, 0)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPS2UDQ(a) }),
	x86Op("cvttpd2dq", TierDirect, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Int32) && c.ToBytes == narrowed(c.FromBytes) && floatReg(f, c.FromBytes)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPD2DQ(a) }),
	x86Op("cvttpd2udq", TierDirect, isa.AVX512F,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Uint32) && c.ToBytes == narrowed(c.FromBytes) && evex(f, c.FromBytes, 0)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPD2UDQ(a) }),
	x86Op("cvttpd2qq", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Int64) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPD2QQ(a) }),
	x86Op("cvttpd2uqq", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Uint64) && c.ToBytes == c.FromBytes && evex(f, c.FromBytes, isa.AVX512DQ)
		},
		func(_ *call, a vreg.Reg) vreg.Reg { return x86.CvttPD2UQQ(a) }),
	x86Op("cvttps2qq", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float32, vreg.Int64) && evex(f, c.ToBytes, isa.AVX512DQ)
		},
		func(x *call, a vreg.Reg) vreg.Reg { return x86.CvttPS2QQ(a, x.c.ToBytes) }),
	x86Op("cvttps2uqq", TierDirect, isa.AVX512DQ,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float32, vreg.Uint64) && evex(f, c.ToBytes, isa.AVX512DQ)
		},
		func(x *call, a vreg.Reg) vreg.Reg { return x86.CvttPS2UQQ(a, x.c.ToBytes) }),

	// Synthetic sequences. Each one is exact for every input whose
	// result is specified.
	x86Op("unpack-widen", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool {
			return ints(c) && c.To.Size() == 2*c.From.Size() && c.ToBytes == 16
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			lo, s := x86.Lo128(a), x.c.From.Size()
			if !x.c.From.IsSigned() {
				return x86.UnpackLo(lo, x86.Zero(16), s)
			}
			if s == 1 {
				return x86.Srai(x86.UnpackLo(lo, lo, 1), 2, 8)
			}
			return x86.UnpackLo(lo, x86.Srai(lo, s, 8*s-1), s)
		}),
	x86Op("unpack-widen-pair", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool {
			return ints(c) && c.To.Size() == 2*c.From.Size() && c.FromBytes == 16 && c.ToBytes == 32
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			s := x.c.From.Size()
			if x.c.From.IsSigned() && s == 1 {
				lo := x86.Srai(x86.UnpackLo(a, a, 1), 2, 8)
				hi := x86.Srai(x86.UnpackHi(a, a, 1), 2, 8)
				return x86.Concat256(lo, hi)
			}
			ext := x86.Zero(16)
			if x.c.From.IsSigned() {
				ext = x86.Srai(a, s, 8*s-1)
			}
			return x86.Concat256(x86.UnpackLo(a, ext, s), x86.UnpackHi(a, ext, s))
		}),
	x86Op("widen-chain", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool { return ints(c) && c.To.Size() >= 4*c.From.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			s := x.c.From.Size()
			mid := vreg.IntKind(2*s, x.c.From.IsSigned())
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*2*s, 16))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	x86Op("narrow-chain", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool { return ints(c) && c.From.Size() >= 4*c.To.Size() },
		func(x *call, a vreg.Reg) vreg.Reg {
			s := x.c.From.Size()
			mid := vreg.IntKind(s/2, false)
			m := x.sub(x.c.From, a, mid, regFor(x.c.Converted()*s/2, 16))
			return x.sub(mid, m, x.c.To, x.c.ToBytes)
		}),
	x86Op("u32-halves", TierSynthetic, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint32, vreg.Float32) && c.ToBytes == c.FromBytes &&
				(c.FromBytes == 16 || (c.FromBytes == 32 && f.Has(isa.AVX2)))
		},
		func(_ *call, a vreg.Reg) vreg.Reg {
			// hi·2^16 is exact, so the sum rounds once.
			w := a.Bytes()
			hi := x86.CvtDQ2PS(x86.Srli(a, 4, 16))
			lo := x86.CvtDQ2PS(x86.And(a, x86.Set1(w, 4, 0xffff)))
			return x86.AddPS(x86.MulPS(hi, x86.Set1(w, 4, two16f32)), lo)
		}),
	x86Op("u32-bias", TierSynthetic, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint32, vreg.Float64) && (c.ToBytes == 16 || (c.ToBytes == 32 && f.Has(isa.AVX)))
		},
		func(x *call, a vreg.Reg) vreg.Reg { return u32ToF64(x86.Lo128(a), x.c.ToBytes) }),
	x86Op("f32-bias", TierSynthetic, 0,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float32, vreg.Uint32) && c.ToBytes == c.FromBytes &&
				(c.FromBytes == 16 || (c.FromBytes == 32 && f.Has(isa.AVX2)))
		},
		func(_ *call, a vreg.Reg) vreg.Reg {
			w := a.Bytes()
			big := x86.Set1(w, 4, two31f32)
			ge := x86.CmpGePS(a, big)
			lo := x86.CvttPS2DQ(a)
			hi := x86.Xor(x86.CvttPS2DQ(x86.SubPS(a, big)), x86.Set1(w, 4, signBit32))
			return x86.Or(x86.And(ge, hi), x86.AndNot(ge, lo))
		}),
	x86Op("f64-trunc-bias", TierSynthetic, isa.SSE41,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Float64, vreg.Uint32) && c.ToBytes == narrowed(c.FromBytes) &&
				(c.FromBytes == 16 || (c.FromBytes == 32 && f.Has(isa.AVX)))
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			y := x86.SubPD(x86.TruncPD(a), x86.Set1(a.Bytes(), 8, two31f64))
			return x86.Xor(x86.CvttPD2DQ(y), x86.Set1(x.c.ToBytes, 4, signBit32))
		}),
	x86Op("u64-magic", TierSynthetic, isa.SSE41,
		func(c Case, f isa.Features) bool {
			return is(c, vreg.Uint64, vreg.Float64) && c.ToBytes == c.FromBytes &&
				(c.FromBytes == 16 || (c.FromBytes == 32 && f.Has(isa.AVX2)))
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			// 2^52+lo and 2^84+hi·2^32 are exact, and so is subtracting
			// 2^84+2^52 from the latter; only the final add rounds.
			w := a.Bytes()
			var lo vreg.Reg
			if x.f.Has(isa.AVX2) {
				lo = x86.BlendEpi32(a, x86.Set1(w, 8, two52f64), 0xaa)
			} else {
				lo = x86.BlendEpi16(a, x86.Set1(w, 8, two52f64), 0xcc)
			}
			hi := x86.Or(x86.Srli(a, 8, 32), x86.Set1(w, 8, two84f64))
			return x86.AddPD(x86.SubPD(hi, x86.Set1(w, 8, magicF64)), lo)
		}),
	x86Op("i64-halves", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool {
			return c.From.Size() == 8 && c.From.IsInteger() && c.To == vreg.Float64 &&
				c.FromBytes == 16 && c.ToBytes == 16
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			// hi·2^32 and lo are exact in float64, so the sum rounds once.
			hi32 := x86.ShuffleEpi32(a, 0x0d)
			lo32 := x86.ShuffleEpi32(a, 0x08)
			var hi vreg.Reg
			if x.c.From.IsSigned() {
				hi = x86.CvtDQ2PD(hi32, 16)
			} else {
				hi = u32ToF64(hi32, 16)
			}
			return x86.AddPD(x86.MulPD(hi, x86.Set1(16, 8, two32f64)), u32ToF64(lo32, 16))
		}),
	x86Op("via-int32", TierSynthetic, 0,
		func(c Case, _ isa.Features) bool {
			return (c.From.IsInteger() && c.From.Size() < 4 && c.To.IsFloat()) ||
				(c.From.IsFloat() && c.To.IsInteger() && c.To.Size() < 4)
		},
		func(x *call, a vreg.Reg) vreg.Reg {
			m := x.sub(x.c.From, a, vreg.Int32, regFor(x.c.Converted()*4, 16))
			return x.sub(vreg.Int32, m, x.c.To, x.c.ToBytes)
		}),

	// Halve the lane count when one side is wider than an xmm and nothing
	// above handles the full width.
	x86Shape("split", TierStructural,
		func(c Case, _ isa.Features) bool {
			n := c.Converted()
			return one(c) && n >= 2 &&
				(regFor(n*c.From.Size(), 16) >= 32 || regFor(n*c.To.Size(), 16) >= 32)
		},
		splitLanes),
}

// splitLanes converts the low and high halves of the converted lanes
// separately and joins the results.
func splitLanes(x *call, src []vreg.Reg) vreg.Reg {
	n := x.c.Converted()
	h := n / 2
	s, t := x.c.From.Size(), x.c.To.Size()
	lo := x.sub(x.c.From, slice(src[0], 0, h*s), x.c.To, h*t)
	hi := x.sub(x.c.From, slice(src[0], h*s, (n-h)*s), x.c.To, (n-h)*t)
	return fit(join(lo, hi), x.c.ToBytes)
}

// join concatenates two converted halves, inserting into a ymm or zmm
// when both fill a whole register.
func join(lo, hi vreg.Reg) vreg.Reg {
	switch {
	case lo.Bytes() == 16 && hi.Bytes() == 16:
		return x86.Concat256(lo, hi)
	case lo.Bytes() == 32 && hi.Bytes() == 32:
		return x86.Concat512(lo, hi)
	}
	return vreg.Concat(lo, hi)
}

// pmovOK reports whether pmovsx/pmovzx can produce c.ToBytes bytes.
func pmovOK(c Case, f isa.Features) bool {
	switch c.ToBytes {
	case 16:
		return true
	case 32:
		return f.Has(isa.AVX2)
	case 64:
		return f.Has(isa.AVX512F) && (c.To.Size() > 2 || f.Has(isa.AVX512BW))
	}
	return false
}
