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

import (
	"os"
	"strconv"
)

// NoSimdEnv reports whether SIMD_NO_SIMD or the older HWY_NO_SIMD variable
// asks for scalar-only execution. Any non-empty value that does not parse
// as false counts as set.
func NoSimdEnv() bool {
	for _, name := range []string{"SIMD_NO_SIMD", "HWY_NO_SIMD"} {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			if b {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// Host returns the features of the running CPU, or the empty set when
// NoSimdEnv is set.
func Host() Features {
	if NoSimdEnv() {
		return 0
	}
	return Detect()
}
