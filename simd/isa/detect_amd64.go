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

//go:build amd64 && !goexperiment.simd

package isa

import "golang.org/x/sys/cpu"

// Detect returns the x86 features reported by CPUID.
func Detect() Features {
	return detectX86()
}

func detectX86() Features {
	var f Features
	set := func(ok bool, bit Features) {
		if ok {
			f |= bit
		}
	}
	set(cpu.X86.HasSSE2, SSE2)
	set(cpu.X86.HasSSE3, SSE3)
	set(cpu.X86.HasSSSE3, SSSE3)
	set(cpu.X86.HasSSE41, SSE41)
	set(cpu.X86.HasSSE42, SSE42)
	set(cpu.X86.HasPOPCNT, POPCNT)
	set(cpu.X86.HasAVX, AVX)
	set(cpu.X86.HasFMA, FMA)
	set(cpu.X86.HasAVX2, AVX2)
	set(cpu.X86.HasAVX512F, AVX512F)
	set(cpu.X86.HasAVX512VL, AVX512VL)
	set(cpu.X86.HasAVX512BW, AVX512BW)
	set(cpu.X86.HasAVX512DQ, AVX512DQ)
	return f
}
