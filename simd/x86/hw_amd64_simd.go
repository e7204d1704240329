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

//go:build amd64 && goexperiment.simd

package x86

import (
	"simd/archsimd"

	"github.com/ajroetker/go-simd/simd/vreg"
)

var hasAVX2 = archsimd.X86.AVX2()

// hwCvttPS2DQ runs vcvttps2dq on the host for full ymm registers.
func hwCvttPS2DQ(a vreg.Reg) (vreg.Reg, bool) {
	if !hasAVX2 || a.Bytes() != 32 {
		return vreg.Reg{}, false
	}
	v := archsimd.LoadFloat32x8Slice(vreg.ToSlice[float32](a))
	var data [8]int32
	v.ConvertToInt32().Store(&data)
	return vreg.FromSlice(data[:]), true
}

// hwCvtDQ2PS runs vcvtdq2ps on the host for full ymm registers.
func hwCvtDQ2PS(a vreg.Reg) (vreg.Reg, bool) {
	if !hasAVX2 || a.Bytes() != 32 {
		return vreg.Reg{}, false
	}
	v := archsimd.LoadInt32x8Slice(vreg.ToSlice[int32](a))
	var data [8]float32
	v.ConvertToFloat32().Store(&data)
	return vreg.FromSlice(data[:]), true
}

// Hardware reports whether host instructions back part of the emulation.
func Hardware() bool { return hasAVX2 }
