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

package vreg

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// MaxBytes is the width of the widest register (AVX-512 zmm).
const MaxBytes = 64

// Reg is a raw vector register of 1 to MaxBytes bytes. Lane i of size s
// occupies bytes [i*s, (i+1)*s) in little-endian order, so lane 0 is the
// lowest-order lane as on every supported ISA.
//
// Reg is a value type; copying it copies the register.
type Reg struct {
	b [MaxBytes]byte
	n uint8
}

// New returns a zeroed register of the given byte width.
func New(bytes int) Reg {
	if bytes <= 0 || bytes > MaxBytes {
		panic(fmt.Sprintf("vreg: invalid register width %d", bytes))
	}
	return Reg{n: uint8(bytes)}
}

// FromBytes returns a register holding a copy of b.
func FromBytes(b []byte) Reg {
	r := New(len(b))
	copy(r.b[:], b)
	return r
}

// Bytes returns the register width in bytes.
func (r Reg) Bytes() int {
	return int(r.n)
}

// Lanes returns how many lanes of the given byte size fit in r.
func (r Reg) Lanes(size int) int {
	return int(r.n) / size
}

// Raw returns the register contents. The slice aliases r.
func (r *Reg) Raw() []byte {
	return r.b[:r.n]
}

// Byte returns byte i.
func (r Reg) Byte(i int) byte {
	if i < 0 || i >= int(r.n) {
		panic(fmt.Sprintf("vreg: byte %d out of range for %d-byte register", i, r.n))
	}
	return r.b[i]
}

// SetByte sets byte i.
func (r *Reg) SetByte(i int, v byte) {
	if i < 0 || i >= int(r.n) {
		panic(fmt.Sprintf("vreg: byte %d out of range for %d-byte register", i, r.n))
	}
	r.b[i] = v
}

func (r Reg) checkLane(size, i int) int {
	off := i * size
	if i < 0 || off+size > int(r.n) {
		panic(fmt.Sprintf("vreg: lane %d of size %d out of range for %d-byte register", i, size, r.n))
	}
	return off
}

// Bits returns the raw bits of lane i, zero-extended to 64 bits.
func (r Reg) Bits(size, i int) uint64 {
	off := r.checkLane(size, i)
	switch size {
	case 1:
		return uint64(r.b[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(r.b[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(r.b[off:]))
	case 8:
		return binary.LittleEndian.Uint64(r.b[off:])
	}
	panic(fmt.Sprintf("vreg: invalid lane size %d", size))
}

// SetBits stores the low size*8 bits of v into lane i.
func (r *Reg) SetBits(size, i int, v uint64) {
	off := r.checkLane(size, i)
	switch size {
	case 1:
		r.b[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(r.b[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(r.b[off:], uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(r.b[off:], v)
	default:
		panic(fmt.Sprintf("vreg: invalid lane size %d", size))
	}
}

// Int returns lane i sign-extended to int64.
func (r Reg) Int(size, i int) int64 {
	return SignExtend(r.Bits(size, i), size)
}

// String formats the register as hex bytes, lowest first.
func (r Reg) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < int(r.n); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", r.b[i])
	}
	sb.WriteByte(']')
	return sb.String()
}

// SignExtend interprets the low size bytes of bits as a signed integer.
func SignExtend(bits uint64, size int) int64 {
	shift := uint(64 - 8*size)
	return int64(bits<<shift) >> shift
}

// Vector is a register tagged with the kind of its lanes.
type Vector struct {
	Reg
	Kind Kind
}

// Make returns a zeroed vector of kind k occupying bytes bytes.
func Make(k Kind, bytes int) Vector {
	if bytes%k.Size() != 0 {
		panic(fmt.Sprintf("vreg: %d bytes is not a whole number of %s lanes", bytes, k))
	}
	return Vector{Reg: New(bytes), Kind: k}
}

// Lanes returns the number of lanes in v.
func (v Vector) Lanes() int {
	return v.Reg.Lanes(v.Kind.Size())
}

// Lane returns the raw bits of lane i.
func (v Vector) Lane(i int) uint64 {
	return v.Bits(v.Kind.Size(), i)
}

// SetLane stores raw bits into lane i.
func (v *Vector) SetLane(i int, bits uint64) {
	v.SetBits(v.Kind.Size(), i, bits)
}

// String formats the lanes of v as values.
func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteString(v.Kind.String())
	sb.WriteByte('{')
	for i := 0; i < v.Lanes(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatBits(v.Kind, v.Lane(i)))
	}
	sb.WriteByte('}')
	return sb.String()
}

// FormatBits renders lane bits of kind k as a number.
func FormatBits(k Kind, bits uint64) string {
	switch {
	case k == Float32:
		return fmt.Sprint(math.Float32frombits(uint32(bits)))
	case k == Float64:
		return fmt.Sprint(math.Float64frombits(bits))
	case k.IsSigned():
		return fmt.Sprint(SignExtend(bits, k.Size()))
	}
	return fmt.Sprint(bits & k.Mask())
}

// Get returns lane i of r as a T.
func Get[T Lanes](r Reg, i int) T {
	switch KindOf[T]() {
	case Float32:
		return T(math.Float32frombits(uint32(r.Bits(4, i))))
	case Float64:
		return T(math.Float64frombits(r.Bits(8, i)))
	}
	var z T
	return T(r.Bits(sizeOf(z), i))
}

// Set stores x into lane i of r.
func Set[T Lanes](r *Reg, i int, x T) {
	r.SetBits(sizeOf(x), i, ToBits(x))
}

// ToBits returns the raw lane bits of x.
func ToBits[T Lanes](x T) uint64 {
	switch KindOf[T]() {
	case Float32:
		return uint64(math.Float32bits(float32(x)))
	case Float64:
		return math.Float64bits(float64(x))
	}
	return uint64(x) & KindOf[T]().Mask()
}

// FromBits converts raw lane bits to a T.
func FromBits[T Lanes](bits uint64) T {
	switch KindOf[T]() {
	case Float32:
		return T(math.Float32frombits(uint32(bits)))
	case Float64:
		return T(math.Float64frombits(bits))
	}
	return T(bits)
}

func sizeOf[T Lanes](T) int {
	return KindOf[T]().Size()
}

// FromSlice packs xs into a register of len(xs)*sizeof(T) bytes.
func FromSlice[T Lanes](xs []T) Reg {
	var z T
	r := New(len(xs) * sizeOf(z))
	for i, x := range xs {
		Set(&r, i, x)
	}
	return r
}

// ToSlice unpacks every lane of r.
func ToSlice[T Lanes](r Reg) []T {
	var z T
	out := make([]T, r.Lanes(sizeOf(z)))
	for i := range out {
		out[i] = Get[T](r, i)
	}
	return out
}

// VectorOf returns a vector holding xs.
func VectorOf[T Lanes](xs ...T) Vector {
	return Vector{Reg: FromSlice(xs), Kind: KindOf[T]()}
}

// Values unpacks the lanes of v. The kind of v must match T.
func Values[T Lanes](v Vector) []T {
	if k := KindOf[T](); k != v.Kind {
		panic(fmt.Sprintf("vreg: Values[%s] on %s vector", k, v.Kind))
	}
	return ToSlice[T](v.Reg)
}
