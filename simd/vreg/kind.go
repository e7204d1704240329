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

// Package vreg models raw vector registers and the ABI-agnostic bit
// primitives built on them.
//
// A Reg is an untyped little-endian byte array of up to 64 bytes (one zmm
// register). A Vector pairs a Reg with the Kind of its lanes. None of the
// primitives here know about conversion semantics; they only rearrange
// bits. The one exception is CastBits, the per-lane reference cast that
// every vectorized conversion path must reproduce.
package vreg

import (
	"fmt"
	"reflect"
)

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
// bool is deliberately absent: masks have their own representation.
type Lanes interface {
	Floats | Integers
}

// Kind identifies the element type of a lane.
type Kind uint8

const (
	Invalid Kind = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// Kinds lists every valid lane kind in declaration order.
var Kinds = []Kind{Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Float32, Float64}

var kindInfo = [...]struct {
	name   string
	size   int
	float  bool
	signed bool
}{
	Invalid: {name: "invalid"},
	Int8:    {name: "int8", size: 1, signed: true},
	Uint8:   {name: "uint8", size: 1},
	Int16:   {name: "int16", size: 2, signed: true},
	Uint16:  {name: "uint16", size: 2},
	Int32:   {name: "int32", size: 4, signed: true},
	Uint32:  {name: "uint32", size: 4},
	Int64:   {name: "int64", size: 8, signed: true},
	Uint64:  {name: "uint64", size: 8},
	Float32: {name: "float32", size: 4, float: true, signed: true},
	Float64: {name: "float64", size: 8, float: true, signed: true},
}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	if int(k) >= len(kindInfo) {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfo[k].name
}

// Valid reports whether k names a lane type.
func (k Kind) Valid() bool {
	return k > Invalid && int(k) < len(kindInfo)
}

// Size returns the lane width in bytes.
func (k Kind) Size() int {
	if !k.Valid() {
		return 0
	}
	return kindInfo[k].size
}

// Bits returns the lane width in bits.
func (k Kind) Bits() int {
	return 8 * k.Size()
}

// Mask returns a value with the low Bits() bits set.
func (k Kind) Mask() uint64 {
	if k.Size() == 8 {
		return ^uint64(0)
	}
	return 1<<uint(k.Bits()) - 1
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k.Valid() && kindInfo[k].float
}

// IsInteger reports whether k is an integer kind.
func (k Kind) IsInteger() bool {
	return k.Valid() && !kindInfo[k].float
}

// IsSigned reports whether k is signed. Floats are signed, matching
// std::is_signed.
func (k Kind) IsSigned() bool {
	return k.Valid() && kindInfo[k].signed
}

// ParseKind returns the kind named by a Go type name such as "int16".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("vreg: unknown lane kind %q", s)
}

// IntKind returns the integer kind with the given size and signedness.
func IntKind(size int, signed bool) Kind {
	switch size {
	case 1:
		if signed {
			return Int8
		}
		return Uint8
	case 2:
		if signed {
			return Int16
		}
		return Uint16
	case 4:
		if signed {
			return Int32
		}
		return Uint32
	case 8:
		if signed {
			return Int64
		}
		return Uint64
	}
	return Invalid
}

// KindOf returns the lane kind of T, following T's underlying type.
func KindOf[T Lanes]() Kind {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return Int8
	case reflect.Uint8:
		return Uint8
	case reflect.Int16:
		return Int16
	case reflect.Uint16:
		return Uint16
	case reflect.Int32:
		return Int32
	case reflect.Uint32:
		return Uint32
	case reflect.Int64:
		return Int64
	case reflect.Uint64:
		return Uint64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	}
	return Invalid
}
