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

package abi

import (
	"fmt"
	"sync"

	"github.com/ajroetker/go-simd/internal/logging"
	"github.com/ajroetker/go-simd/internal/metrics"
	"github.com/ajroetker/go-simd/simd/isa"
	"github.com/ajroetker/go-simd/simd/vreg"
	"go.uber.org/zap"
)

// Deduce returns the ABI for n lanes of kind k: the first native class in
// priority order that holds exactly n lanes, else fixed_size<n>.
func Deduce(k vreg.Kind, n int, f isa.Features) (ABI, error) {
	if !k.Valid() || n <= 0 {
		return ABI{}, fmt.Errorf("%w: %d lanes of %s", ErrNoABI, n, k)
	}
	for _, c := range nativeOrder {
		a := native(c, n*k.Size())
		if c == ClassScalar && n != 1 {
			continue
		}
		if a.Valid(k, f) {
			metrics.ABIDeduceTotal.WithLabelValues(descriptors[c].Name).Inc()
			return a, nil
		}
	}
	if a := Fixed(n); a.Valid(k, f) {
		metrics.ABIDeduceTotal.WithLabelValues(descriptors[ClassFixed].Name).Inc()
		return a, nil
	}
	return ABI{}, fmt.Errorf("%w: %d lanes of %s with features %s (max fixed size %d)",
		ErrNoABI, n, k, f, MaxFixedSize())
}

// Native returns the widest full native ABI for kind k. It always succeeds:
// the scalar ABI is the last resort.
func Native(k vreg.Kind, f isa.Features) ABI {
	for _, c := range nativeOrder {
		d := &descriptors[c]
		a := native(c, d.Full(d.MaxBytes))
		if c == ClassScalar || a.Valid(k, f) {
			return a
		}
	}
	return Scalar()
}

// Compatible returns the ABI that is safe to pass between code built for
// different feature levels of the same architecture: a 16-byte register on
// x86 and ARM, else scalar.
func Compatible(k vreg.Kind, f isa.Features) ABI {
	if a := SSE(16); f.IsX86() && a.Valid(k, f) {
		return a
	}
	if a := NEON(16); f.IsARM() && a.Valid(k, f) {
		return a
	}
	return Scalar()
}

// best returns the largest native ABI that fits into r lanes.
func best(k vreg.Kind, r int, f isa.Features) ABI {
	for _, c := range nativeOrder {
		if c == ClassScalar {
			return Scalar()
		}
		d := &descriptors[c]
		bytes := r * k.Size()
		if a := native(c, bytes); bytes <= 255 && a.Valid(k, f) {
			return a
		}
		if full := native(c, d.Full(bytes)); full.Valid(k, f) && full.Size(k) <= r {
			return full
		}
	}
	return Scalar()
}

type layoutKey struct {
	k vreg.Kind
	n int
	f isa.Features
}

var layouts = struct {
	sync.RWMutex
	m map[layoutKey][]ABI
}{m: make(map[layoutKey][]ABI)}

// Layout returns the native registers that hold a fixed_size vector of n
// lanes, in lane order. Each step takes the largest native ABI that fits
// the remaining lanes. The result is shared; callers must not modify it.
func Layout(k vreg.Kind, n int, f isa.Features) []ABI {
	if !k.Valid() || n <= 0 {
		panic(fmt.Sprintf("abi: no layout for %d lanes of %s", n, k))
	}
	key := layoutKey{k, n, f}
	layouts.RLock()
	parts, ok := layouts.m[key]
	layouts.RUnlock()
	if ok {
		return parts
	}

	for r := n; r > 0; {
		a := best(k, r, f)
		parts = append(parts, a)
		r -= a.Size(k)
	}

	layouts.Lock()
	if cached, ok := layouts.m[key]; ok {
		parts = cached
	} else {
		layouts.m[key] = parts
		metrics.LayoutsComputedTotal.Inc()
		logging.L().Debug("fixed_size layout computed",
			zap.Stringer("kind", k), zap.Int("lanes", n),
			zap.Stringer("features", f), zap.Stringers("parts", parts))
	}
	layouts.Unlock()
	return parts
}

// Parts returns the register layout of a: a itself for native ABIs, the
// fixed_size packing otherwise.
func Parts(a ABI, k vreg.Kind, f isa.Features) []ABI {
	if a.IsFixed() {
		return Layout(k, a.Size(k), f)
	}
	return []ABI{a}
}
