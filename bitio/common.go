// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitio implements big-endian, bit-exact reading and writing of the
// VC-2 bitstream, including bounded blocks and interleaved exp-Golomb
// integer codes.
//
// Unlike the LSB-first bit packing used by DEFLATE-style formats, VC-2 reads
// and writes bits MSB-first within each byte: bit index 7 is read or written
// before bit index 0.
package bitio

import "runtime"

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "bitio: " + string(e) }

var (
	// ErrEndOfStream indicates a read ran past the end of the underlying
	// source outside of any bounded block.
	ErrEndOfStream error = Error("unexpected end of stream")

	// ErrOutOfRange indicates a value did not fit the requested field width,
	// or was negative where only non-negative values are legal.
	ErrOutOfRange error = Error("value out of range")

	// ErrBoundedBlockOverflow indicates a write of an illegal 0 bit past the
	// end of an active bounded block.
	ErrBoundedBlockOverflow error = Error("write of 0 bit overflows bounded block")

	// ErrNestedBoundedBlock indicates an attempt to open a bounded block
	// while another is already active; bounded blocks do not nest.
	ErrNestedBoundedBlock error = Error("bounded blocks cannot be nested")

	// ErrNoBoundedBlock indicates bounded_block_end was called with no
	// active bounded block.
	ErrNoBoundedBlock error = Error("no bounded block is active")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// Position identifies a bit-exact location within a byte-oriented stream.
// Bit runs from 7 (MSB, next to be read or written) down to 0 (LSB).
type Position struct {
	Byte int64
	Bit  int
}

// Offset converts the position to a linear bit offset: byte*8 + (7 - bit).
func (p Position) Offset() int64 {
	return p.Byte*8 + int64(7-p.Bit)
}

// FromOffset constructs a Position from a linear bit offset.
func FromOffset(offset int64) Position {
	b := offset / 8
	r := offset % 8
	if r < 0 {
		b--
		r += 8
	}
	return Position{Byte: b, Bit: 7 - int(r)}
}

// Sub returns p.Offset() - q.Offset(), the number of bits p is ahead of q.
func (p Position) Sub(q Position) int64 {
	return p.Offset() - q.Offset()
}
