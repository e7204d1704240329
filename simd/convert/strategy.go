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

// Package convert converts between lane kinds and register widths.
//
// A conversion takes 1, 2, 4 or 8 source registers of one lane kind,
// concatenates their lanes and produces a destination register of another
// kind and width. Every (Case, isa.Features) pair is served by one
// Strategy, chosen from ordered per-backend tables: width normalization
// first, then dedicated instructions, then synthetic sequences, and finally
// the per-lane Fallback that defines the semantics all others reproduce.
package convert

import (
	"fmt"

	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
)

// Case describes one conversion request.
type Case struct {
	From vreg.Kind
	// FromBytes is the width of each source register.
	FromBytes int
	To        vreg.Kind
	ToBytes   int
	// Args is the number of source registers: 1, 2, 4 or 8.
	Args int
}

// SrcLanes returns the lane count of one source register.
func (c Case) SrcLanes() int { return c.FromBytes / c.From.Size() }

// Lanes returns the total source lane count.
func (c Case) Lanes() int { return c.Args * c.SrcLanes() }

// OutLanes returns the lane count of the destination register.
func (c Case) OutLanes() int { return c.ToBytes / c.To.Size() }

// Converted returns the number of lanes the conversion produces.
func (c Case) Converted() int { return min(c.Lanes(), c.OutLanes()) }

func (c Case) String() string {
	return fmt.Sprintf("%dx%s[%d] -> %s[%d]", c.Args, c.From, c.SrcLanes(), c.To, c.OutLanes())
}

// Tier ranks strategies. Structural strategies reshape registers and
// recurse; among the rest, direct beats synthetic beats fallback.
type Tier uint8

const (
	TierStructural Tier = iota
	TierDirect
	TierSynthetic
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierStructural:
		return "structural"
	case TierDirect:
		return "direct"
	case TierSynthetic:
		return "synthetic"
	case TierFallback:
		return "fallback"
	}
	return fmt.Sprintf("Tier(%d)", uint8(t))
}

// Strategy is one way of performing a conversion.
type Strategy struct {
	Name    string
	Backend string
	Tier    Tier
	// Requires lists the features that must all be present.
	Requires isa.Features
	// Match reports whether the strategy handles c under f. Requires has
	// already been checked.
	Match func(c Case, f isa.Features) bool

	run func(x *call, src []vreg.Reg) vreg.Reg
}

func (s *Strategy) String() string {
	return s.Backend + "/" + s.Name
}

// Run executes the strategy for c under f. The result is c.ToBytes wide;
// lanes past c.Converted() are unspecified.
func (s *Strategy) Run(c Case, f isa.Features, src ...vreg.Reg) vreg.Reg {
	return s.run(&call{c: c, f: f}, src)
}

// call carries a conversion through nested strategies.
type call struct {
	c     Case
	f     isa.Features
	depth int
}

// maxDepth bounds strategy recursion; exceeding it is a planning bug.
const maxDepth = 48

// sub converts a single register inside a strategy.
func (x *call) sub(from vreg.Kind, src vreg.Reg, to vreg.Kind, toBytes int) vreg.Reg {
	return x.subN(from, to, toBytes, []vreg.Reg{src})
}

// subN converts several registers inside a strategy.
func (x *call) subN(from, to vreg.Kind, toBytes int, src []vreg.Reg) vreg.Reg {
	c := Case{From: from, FromBytes: src[0].Bytes(), To: to, ToBytes: toBytes, Args: len(src)}
	if x.depth >= maxDepth {
		panic(fmt.Sprintf("convert: unreachable: recursion limit planning %s under %s", c, x.f))
	}
	return execute(&call{c: c, f: x.f, depth: x.depth + 1}, src)
}

// fit truncates or zero-extends r to bytes.
func fit(r vreg.Reg, bytes int) vreg.Reg {
	switch {
	case r.Bytes() > bytes:
		return vreg.Truncate(r, bytes)
	case r.Bytes() < bytes:
		return vreg.ZeroExtend(r, bytes)
	}
	return r
}

// slice returns n bytes of r starting at off.
func slice(r vreg.Reg, off, n int) vreg.Reg {
	return vreg.FromBytes(r.Raw()[off : off+n])
}

// regFor returns the smallest power of two that is at least n and at least
// floor.
func regFor(n, floor int) int {
	r := floor
	for r < n {
		r *= 2
	}
	return r
}
