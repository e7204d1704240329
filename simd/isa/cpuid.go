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

package isa

import "github.com/klauspost/cpuid/v2"

// DetectCPUID returns the features reported by klauspost/cpuid. It is an
// independent reading of the same CPUID bits and is used to cross-check
// Detect.
func DetectCPUID() Features {
	var f Features
	pairs := []struct {
		id  cpuid.FeatureID
		bit Features
	}{
		{cpuid.SSE2, SSE2},
		{cpuid.SSE3, SSE3},
		{cpuid.SSSE3, SSSE3},
		{cpuid.SSE4, SSE41},
		{cpuid.SSE42, SSE42},
		{cpuid.POPCNT, POPCNT},
		{cpuid.AVX, AVX},
		{cpuid.FMA3, FMA},
		{cpuid.AVX2, AVX2},
		{cpuid.AVX512F, AVX512F},
		{cpuid.AVX512VL, AVX512VL},
		{cpuid.AVX512BW, AVX512BW},
		{cpuid.AVX512DQ, AVX512DQ},
		{cpuid.ASIMD, NEON | NEONA64},
	}
	for _, p := range pairs {
		if cpuid.CPU.Supports(p.id) {
			f |= p.bit
		}
	}
	return f
}

// CPUInfo describes the host processor.
type CPUInfo struct {
	Brand    string
	Vendor   string
	Cores    int
	Threads  int
	X64Level int
}

// HostCPU returns the host processor description from cpuid.
func HostCPU() CPUInfo {
	return CPUInfo{
		Brand:    cpuid.CPU.BrandName,
		Vendor:   cpuid.CPU.VendorString,
		Cores:    cpuid.CPU.PhysicalCores,
		Threads:  cpuid.CPU.LogicalCores,
		X64Level: cpuid.CPU.X64Level(),
	}
}
