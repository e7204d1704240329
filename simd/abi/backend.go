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
	"strconv"
	"sync/atomic"
)

// Backend identifies the register-level implementation behind a class.
type Backend uint8

const (
	// GenericBackend works lane by lane.
	GenericBackend Backend = iota
	// X86Backend runs the emulated SSE, AVX and AVX-512 sequences.
	X86Backend
	// NEONBackend runs the emulated Advanced SIMD sequences.
	NEONBackend
)

func (b Backend) String() string {
	switch b {
	case GenericBackend:
		return "generic"
	case X86Backend:
		return "x86"
	case NEONBackend:
		return "neon"
	}
	return "Backend(" + strconv.Itoa(int(b)) + ")"
}

// backends holds the arith backend of each class in the low byte and the
// mask backend in the next one.
var backends [len(descriptors)]atomic.Uint32

func init() {
	for c, d := range descriptors {
		backends[c].Store(packBackends(d.Arith, d.MaskOps))
	}
}

func packBackends(arith, mask Backend) uint32 {
	return uint32(arith) | uint32(mask)<<8
}

// ArithBackend returns the backend running lane-wise operations on
// registers of a.
func (a ABI) ArithBackend() Backend {
	return Backend(backends[a.class].Load())
}

// MaskBackend returns the backend running reductions of vector masks of a.
func (a ABI) MaskBackend() Backend {
	return Backend(backends[a.class].Load() >> 8)
}

// SetBackends replaces the backends of class c and returns a function
// restoring the previous ones. Setting GenericBackend lets the lane-by-lane
// path be compared with the register sequences.
func SetBackends(c Class, arith, mask Backend) (restore func()) {
	prev := backends[c].Swap(packBackends(arith, mask))
	return func() { backends[c].Store(prev) }
}
