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

import "fmt"

// Bitcast reinterprets the bytes of v as lanes of kind to.
func Bitcast(v Vector, to Kind) Vector {
	if v.Bytes()%to.Size() != 0 {
		panic(fmt.Sprintf("vreg: cannot bitcast %d bytes to %s lanes", v.Bytes(), to))
	}
	return Vector{Reg: v.Reg, Kind: to}
}

// ZeroExtend returns a register of the given width whose low bytes equal r
// and whose remaining bytes are zero.
func ZeroExtend(r Reg, bytes int) Reg {
	if bytes < r.Bytes() {
		panic(fmt.Sprintf("vreg: cannot zero-extend %d bytes to %d", r.Bytes(), bytes))
	}
	out := New(bytes)
	copy(out.b[:], r.b[:r.n])
	return out
}

// Truncate returns the low bytes of r.
func Truncate(r Reg, bytes int) Reg {
	if bytes > r.Bytes() {
		panic(fmt.Sprintf("vreg: cannot truncate %d bytes to %d", r.Bytes(), bytes))
	}
	out := New(bytes)
	copy(out.b[:], r.b[:bytes])
	return out
}

// ExtractPart returns partition offset of r split into divisor equal parts.
func ExtractPart(r Reg, offset, divisor int) Reg {
	if divisor <= 0 || r.Bytes()%divisor != 0 || offset < 0 || offset >= divisor {
		panic(fmt.Sprintf("vreg: invalid part %d/%d of %d-byte register", offset, divisor, r.Bytes()))
	}
	w := r.Bytes() / divisor
	out := New(w)
	copy(out.b[:], r.b[offset*w:(offset+1)*w])
	return out
}

// Lo returns the low half of r.
func Lo(r Reg) Reg { return ExtractPart(r, 0, 2) }

// Hi returns the high half of r.
func Hi(r Reg) Reg { return ExtractPart(r, 1, 2) }

// Concat returns a's bytes followed by b's bytes.
func Concat(a, b Reg) Reg {
	out := New(a.Bytes() + b.Bytes())
	copy(out.b[:], a.b[:a.n])
	copy(out.b[a.n:], b.b[:b.n])
	return out
}

// ConcatAll concatenates registers in order.
func ConcatAll(rs ...Reg) Reg {
	total := 0
	for _, r := range rs {
		total += r.Bytes()
	}
	out := New(total)
	off := 0
	for _, r := range rs {
		off += copy(out.b[off:], r.b[:r.n])
	}
	return out
}

func sameWidth(op string, a, b Reg) {
	if a.n != b.n {
		panic(fmt.Sprintf("vreg: %s of %d-byte and %d-byte registers", op, a.n, b.n))
	}
}

// InterleaveLo alternates the lanes of the lower halves of a and b,
// starting with a.
func InterleaveLo(a, b Reg, size int) Reg {
	sameWidth("InterleaveLo", a, b)
	out := New(a.Bytes())
	half := a.Lanes(size) / 2
	for i := 0; i < half; i++ {
		out.SetBits(size, 2*i, a.Bits(size, i))
		out.SetBits(size, 2*i+1, b.Bits(size, i))
	}
	return out
}

// InterleaveHi alternates the lanes of the upper halves of a and b,
// starting with a.
func InterleaveHi(a, b Reg, size int) Reg {
	sameWidth("InterleaveHi", a, b)
	out := New(a.Bytes())
	half := a.Lanes(size) / 2
	for i := 0; i < half; i++ {
		out.SetBits(size, 2*i, a.Bits(size, half+i))
		out.SetBits(size, 2*i+1, b.Bits(size, half+i))
	}
	return out
}

// Broadcast returns a register with every lane set to bits. The register is
// filled by repeated doubling of the first lane.
func Broadcast(bytes, size int, bits uint64) Reg {
	out := New(bytes)
	out.SetBits(size, 0, bits)
	for filled := size; filled < bytes; filled *= 2 {
		copy(out.b[filled:bytes], out.b[:filled])
	}
	return out
}

// BroadcastOf returns lanes copies of x.
func BroadcastOf[T Lanes](lanes int, x T) Reg {
	k := KindOf[T]()
	return Broadcast(lanes*k.Size(), k.Size(), ToBits(x))
}

// Generate returns a register whose lane i holds gen(i).
func Generate(bytes, size int, gen func(i int) uint64) Reg {
	out := New(bytes)
	for i := 0; i < bytes/size; i++ {
		out.SetBits(size, i, gen(i))
	}
	return out
}

// GenerateOf returns a register of lanes values produced by gen.
func GenerateOf[T Lanes](lanes int, gen func(i int) T) Reg {
	k := KindOf[T]()
	return Generate(lanes*k.Size(), k.Size(), func(i int) uint64 { return ToBits(gen(i)) })
}

func bytewise(op string, a, b Reg, f func(x, y byte) byte) Reg {
	sameWidth(op, a, b)
	out := New(a.Bytes())
	for i := 0; i < int(a.n); i++ {
		out.b[i] = f(a.b[i], b.b[i])
	}
	return out
}

// And returns a & b.
func And(a, b Reg) Reg { return bytewise("And", a, b, func(x, y byte) byte { return x & y }) }

// Or returns a | b.
func Or(a, b Reg) Reg { return bytewise("Or", a, b, func(x, y byte) byte { return x | y }) }

// Xor returns a ^ b.
func Xor(a, b Reg) Reg { return bytewise("Xor", a, b, func(x, y byte) byte { return x ^ y }) }

// AndNot returns ^a & b, matching the operand order of andnot on x86.
func AndNot(a, b Reg) Reg {
	return bytewise("AndNot", a, b, func(x, y byte) byte { return ^x & y })
}

// Equal reports whether a and b have the same width and contents.
func Equal(a, b Reg) bool {
	return a.n == b.n && a.b == b.b
}

// Zero returns an all-zero register.
func Zero(bytes int) Reg { return New(bytes) }

// Ones returns an all-ones register.
func Ones(bytes int) Reg {
	out := New(bytes)
	for i := range out.b[:bytes] {
		out.b[i] = 0xff
	}
	return out
}

// IsZero reports whether every byte of r is zero.
func (r Reg) IsZero() bool {
	for _, b := range r.b[:r.n] {
		if b != 0 {
			return false
		}
	}
	return true
}
