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

// Package isa describes the instruction-set features that gate each
// vectorized code path.
//
// Features is a plain bitset. Every consumer takes one explicitly, so the
// same process can plan and verify conversions for an AVX-512 machine and
// a NEON machine side by side. Detect reports what the running CPU offers.
package isa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Features is a set of ISA extensions.
type Features uint32

const (
	SSE2 Features = 1 << iota
	SSE3
	SSSE3
	SSE41
	SSE42
	POPCNT
	AVX
	FMA
	AVX2
	AVX512F
	AVX512VL
	AVX512BW
	AVX512DQ
	NEON
	NEONA64
)

// ErrUnknownFeature is returned by Parse for names it does not recognise.
var ErrUnknownFeature = errors.New("isa: unknown feature")

type featureName struct {
	f    Features
	name string
}

var featureNames = []featureName{
	{SSE2, "sse2"},
	{SSE3, "sse3"},
	{SSSE3, "ssse3"},
	{SSE41, "sse4.1"},
	{SSE42, "sse4.2"},
	{POPCNT, "popcnt"},
	{AVX, "avx"},
	{FMA, "fma"},
	{AVX2, "avx2"},
	{AVX512F, "avx512f"},
	{AVX512VL, "avx512vl"},
	{AVX512BW, "avx512bw"},
	{AVX512DQ, "avx512dq"},
	{NEON, "neon"},
	{NEONA64, "neon-a64"},
}

// X86 is the union of all x86 features.
const X86 = SSE2 | SSE3 | SSSE3 | SSE41 | SSE42 | POPCNT | AVX | FMA | AVX2 |
	AVX512F | AVX512VL | AVX512BW | AVX512DQ

// ARM is the union of all ARM features.
const ARM = NEON | NEONA64

// Preset is a named, self-consistent feature set.
type Preset struct {
	Name     string
	Features Features
}

// Presets lists the feature levels used for cross-path testing, from
// weakest to strongest per architecture.
var Presets = []Preset{
	{"scalar", 0},
	{"sse2", SSE2},
	{"ssse3", SSE2 | SSE3 | SSSE3},
	{"sse4.1", SSE2 | SSE3 | SSSE3 | SSE41},
	{"sse4.2", SSE2 | SSE3 | SSSE3 | SSE41 | SSE42 | POPCNT},
	{"avx", SSE2 | SSE3 | SSSE3 | SSE41 | SSE42 | POPCNT | AVX},
	{"avx2", SSE2 | SSE3 | SSSE3 | SSE41 | SSE42 | POPCNT | AVX | FMA | AVX2},
	{"avx512f", SSE2 | SSE3 | SSSE3 | SSE41 | SSE42 | POPCNT | AVX | FMA | AVX2 | AVX512F},
	{"avx512", X86},
	{"neon", NEON},
	{"neon-a64", NEON | NEONA64},
}

// PresetByName returns the preset with the given name.
func PresetByName(name string) (Preset, bool) {
	return lo.Find(Presets, func(p Preset) bool { return p.Name == name })
}

// Has reports whether every feature in want is present.
func (f Features) Has(want Features) bool {
	return f&want == want
}

// Any reports whether at least one feature in want is present.
func (f Features) Any(want Features) bool {
	return f&want != 0
}

// IsX86 reports whether f contains any x86 feature.
func (f Features) IsX86() bool { return f.Any(X86) }

// IsARM reports whether f contains any ARM feature.
func (f Features) IsARM() bool { return f.Any(ARM) }

// Closure adds every feature implied by the ones present, e.g. AVX2
// implies AVX and SSE4.2, AVX512BW implies AVX512F.
func (f Features) Closure() Features {
	implied := []struct{ by, adds Features }{
		{AVX512VL | AVX512BW | AVX512DQ, AVX512F},
		{AVX512F, AVX2 | FMA},
		{AVX2, AVX},
		{FMA, AVX},
		{AVX, SSE42},
		{SSE42, SSE41 | POPCNT},
		{SSE41, SSSE3},
		{SSSE3, SSE3},
		{SSE3, SSE2},
		{NEONA64, NEON},
	}
	for {
		before := f
		for _, rule := range implied {
			if f.Any(rule.by) {
				f |= rule.adds
			}
		}
		if f == before {
			return f
		}
	}
}

// Names returns the feature names in canonical order.
func (f Features) Names() []string {
	return lo.FilterMap(featureNames, func(e featureName, _ int) (string, bool) {
		return e.name, f.Has(e.f)
	})
}

// String returns a comma-separated list of features, or "scalar".
func (f Features) String() string {
	if f == 0 {
		return "scalar"
	}
	return strings.Join(f.Names(), ",")
}

// Level returns the name of the strongest preset contained in f.
func (f Features) Level() string {
	best := "scalar"
	for _, p := range Presets {
		if p.Features != 0 && f.Has(p.Features) {
			best = p.Name
		}
	}
	return best
}

// Width returns the widest native register in bytes that f supports, or
// zero for scalar-only feature sets.
func (f Features) Width() int {
	switch {
	case f.Has(AVX512F):
		return 64
	case f.Has(AVX):
		return 32
	case f.Has(SSE2), f.Has(NEON):
		return 16
	}
	return 0
}

// Parse reads a comma-separated list of feature or preset names. A preset
// name expands to its features. The result is closed under implication.
// "none" and "scalar" yield the empty set.
func Parse(s string) (Features, error) {
	var f Features
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || tok == "none" {
			continue
		}
		if p, ok := PresetByName(tok); ok {
			f |= p.Features
			continue
		}
		e, ok := lo.Find(featureNames, func(e featureName) bool { return e.name == tok })
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, tok)
		}
		f |= e.f
	}
	return f.Closure(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Features {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}
