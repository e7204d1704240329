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
	"sync"

	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/internal/metrics"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
	"go.uber.org/zap"
)

// Convert converts the concatenated lanes of src to a toBytes-wide
// register of kind to. All sources must share one kind and width. With
// more than one source every source lane must fit the destination; a
// single source may have lanes beyond the destination, which are dropped.
// Destination lanes past the converted ones are zero.
func Convert(to vreg.Kind, toBytes int, f isa.Features, src ...vreg.Vector) vreg.Vector {
	c, regs := prepare(to, toBytes, src)
	x := &call{c: c, f: f}
	out := execute(x, regs)
	metrics.ConvertCallsTotal.WithLabelValues(Select(c, f).Tier.String()).Inc()
	return vreg.Vector{Reg: clearPadding(out, c), Kind: to}
}

// Convert1 converts one register, dropping lanes that do not fit.
func Convert1(to vreg.Kind, toBytes int, f isa.Features, a vreg.Vector) vreg.Vector {
	return Convert(to, toBytes, f, a)
}

// Convert2 converts the lanes of a followed by b.
func Convert2(to vreg.Kind, toBytes int, f isa.Features, a, b vreg.Vector) vreg.Vector {
	return Convert(to, toBytes, f, a, b)
}

// Convert4 converts the lanes of a through d.
func Convert4(to vreg.Kind, toBytes int, f isa.Features, a, b, c, d vreg.Vector) vreg.Vector {
	return Convert(to, toBytes, f, a, b, c, d)
}

// Convert8 converts the lanes of eight registers.
func Convert8(to vreg.Kind, toBytes int, f isa.Features, src [8]vreg.Vector) vreg.Vector {
	return Convert(to, toBytes, f, src[:]...)
}

// Fallback is the per-lane reference conversion: every lane goes through
// vreg.CastBits. Every strategy must produce the same lanes.
func Fallback(to vreg.Kind, toBytes int, src ...vreg.Vector) vreg.Vector {
	c, regs := prepare(to, toBytes, src)
	return vreg.Vector{Reg: clearPadding(perLane(c, regs), c), Kind: to}
}

func prepare(to vreg.Kind, toBytes int, src []vreg.Vector) (Case, []vreg.Reg) {
	switch len(src) {
	case 1, 2, 4, 8:
	default:
		panic(fmt.Sprintf("convert: %d source registers, want 1, 2, 4 or 8", len(src)))
	}
	if !to.Valid() || toBytes <= 0 || toBytes > vreg.MaxBytes || toBytes%to.Size() != 0 {
		panic(fmt.Sprintf("convert: invalid destination %d bytes of %s", toBytes, to))
	}
	regs := make([]vreg.Reg, len(src))
	for i, v := range src {
		if v.Kind != src[0].Kind || v.Bytes() != src[0].Bytes() {
			panic(fmt.Sprintf("convert: source %d is %d bytes of %s, want %d bytes of %s",
				i, v.Bytes(), v.Kind, src[0].Bytes(), src[0].Kind))
		}
		regs[i] = v.Reg
	}
	c := Case{From: src[0].Kind, FromBytes: src[0].Bytes(), To: to, ToBytes: toBytes, Args: len(src)}
	if c.Args > 1 && c.Lanes() > c.OutLanes() {
		panic(fmt.Sprintf("convert: %s: %d source lanes would be discarded", c, c.Lanes()-c.OutLanes()))
	}
	return c, regs
}

func clearPadding(r vreg.Reg, c Case) vreg.Reg {
	keep := c.Converted() * c.To.Size()
	return fit(vreg.Truncate(r, keep), c.ToBytes)
}

func perLane(c Case, src []vreg.Reg) vreg.Reg {
	out := vreg.New(c.ToBytes)
	n, per := c.Converted(), c.SrcLanes()
	for i := 0; i < n; i++ {
		bits := src[i/per].Bits(c.From.Size(), i%per)
		out.SetBits(c.To.Size(), i, vreg.CastBits(c.From, c.To, bits))
	}
	return out
}

func execute(x *call, src []vreg.Reg) vreg.Reg {
	s := Select(x.c, x.f)
	out := s.run(x, src)
	if out.Bytes() != x.c.ToBytes {
		panic(fmt.Sprintf("convert: unreachable: %s produced %d bytes for %s", s, out.Bytes(), x.c))
	}
	return out
}

type planKey struct {
	c Case
	f isa.Features
}

var plans = struct {
	sync.RWMutex
	m map[planKey]*Strategy
}{m: make(map[planKey]*Strategy)}

// Select returns the strategy that serves c under f: the first entry of
// the strategy table whose requirements f meets and which matches c.
// Choices are memoised per (case, features).
func Select(c Case, f isa.Features) *Strategy {
	key := planKey{c, f}
	plans.RLock()
	s, ok := plans.m[key]
	plans.RUnlock()
	if ok {
		return s
	}

	s = choose(c, f)

	plans.Lock()
	if cached, ok := plans.m[key]; ok {
		s = cached
	} else {
		plans.m[key] = s
		metrics.ConvertPlansTotal.WithLabelValues(s.Backend, s.Tier.String(), s.Name).Inc()
		logging.L().Debug("conversion planned",
			zap.Stringer("case", c), zap.Stringer("features", f),
			zap.String("strategy", s.String()), zap.Stringer("tier", s.Tier))
	}
	plans.Unlock()
	return s
}

func choose(c Case, f isa.Features) *Strategy {
	for _, s := range Strategies() {
		if f.Has(s.Requires) && s.Match(c, f) {
			return s
		}
	}
	panic(fmt.Sprintf("convert: unreachable: no strategy for %s", c))
}

// Strategies returns every strategy in priority order.
func Strategies() []*Strategy {
	return strategies
}

var strategies []*Strategy

func init() {
	strategies = append(strategies, genericStructural...)
	strategies = append(strategies, x86Strategies...)
	strategies = append(strategies, neonStrategies...)
	strategies = append(strategies, fallbackStrategy)
}
