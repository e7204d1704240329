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
)

// sameRep reports whether from and to share a bit representation up to
// signedness, so converting is a reinterpretation.
func sameRep(from, to vreg.Kind) bool {
	return from.IsFloat() == to.IsFloat() && from.Size() == to.Size()
}

var genericStructural = []*Strategy{
	{
		Name:    "bitcast",
		Backend: "generic",
		Tier:    TierStructural,
		Match:   func(c Case, _ isa.Features) bool { return sameRep(c.From, c.To) },
		run: func(x *call, src []vreg.Reg) vreg.Reg {
			return fit(vreg.ConcatAll(src...), x.c.ToBytes)
		},
	},
}

var fallbackStrategy = &Strategy{
	Name:    "per-lane",
	Backend: "generic",
	Tier:    TierFallback,
	Match:   func(Case, isa.Features) bool { return true },
	run: func(x *call, src []vreg.Reg) vreg.Reg {
		return perLane(x.c, src)
	},
}
