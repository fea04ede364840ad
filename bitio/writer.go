// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import (
	"io"
	"math/big"
)

// Writer writes a big-endian bit stream, mirroring Reader.
type Writer struct {
	wr  io.WriteSeeker
	err error

	pos    Position
	curVal byte
	curLen int // number of bits already placed into curVal (0..7)

	remaining   int64
	blockActive bool
	blockStart  Position
}

// NewWriter returns a Writer positioned at the current seek position of w.
func NewWriter(w io.WriteSeeker) *Writer {
	zw := new(Writer)
	zw.Reset(w)
	return zw
}

// Reset reinitializes the Writer to write to w.
func (zw *Writer) Reset(w io.WriteSeeker) {
	*zw = Writer{wr: w}
}

// Tell reports the current bit position.
func (zw *Writer) Tell() Position { return zw.pos }

// BitsRemaining reports the bounded block counter and whether a block is
// currently active.
func (zw *Writer) BitsRemaining() (remaining int64, active bool) {
	return zw.remaining, zw.blockActive
}

func (zw *Writer) flushByte() error {
	if zw.curLen == 0 {
		return nil
	}
	if _, err := zw.wr.Write([]byte{zw.curVal}); err != nil {
		return err
	}
	zw.curVal = 0
	zw.curLen = 0
	return nil
}

// WriteBit writes a single bit. Inside a bounded block past its end, writing
// 1 is silently absorbed; writing 0 fails with ErrBoundedBlockOverflow.
func (zw *Writer) WriteBit(b uint) (err error) {
	defer errRecover(&err)
	zw.writeBit(b)
	return nil
}

func (zw *Writer) writeBit(b uint) {
	wasOverrun := zw.blockActive && zw.remaining <= 0
	if zw.blockActive {
		zw.remaining--
	}
	if wasOverrun {
		if b == 0 {
			panic(ErrBoundedBlockOverflow)
		}
		return
	}

	zw.curVal |= byte(b&1) << uint(7-zw.curLen)
	zw.curLen++
	if zw.curLen == 8 {
		if err := zw.flushByte(); err != nil {
			panic(err)
		}
		zw.pos.Byte++
		zw.pos.Bit = 7
	} else {
		zw.pos.Bit--
	}
}

// WriteBitsBE64 writes the low n bits of v (0 <= n <= 64), MSB first.
func (zw *Writer) WriteBitsBE64(n int, v uint64) (err error) {
	defer errRecover(&err)
	for i := n - 1; i >= 0; i-- {
		zw.writeBit(uint(v>>uint(i)) & 1)
	}
	return nil
}

// WriteBitsBig writes the low n bits of v, MSB first. Fails ErrOutOfRange if
// v is negative or requires more than n bits.
func (zw *Writer) WriteBitsBig(n int, v *big.Int) (err error) {
	defer errRecover(&err)
	if v.Sign() < 0 || v.BitLen() > n {
		panic(ErrOutOfRange)
	}
	for i := n - 1; i >= 0; i-- {
		zw.writeBit(uint(v.Bit(i)))
	}
	return nil
}

// WriteUintLit writes 8*k bits without performing byte alignment.
func (zw *Writer) WriteUintLit(k int, v uint64) (err error) {
	return zw.WriteBitsBE64(8*k, v)
}

// WriteBitArray writes n bits from b, right-padding with zero bits if b is
// shorter than n and failing ErrOutOfRange if longer.
func (zw *Writer) WriteBitArray(n int, b BitArray) (err error) {
	defer errRecover(&err)
	if b.Len() > n {
		panic(ErrOutOfRange)
	}
	for i := 0; i < n; i++ {
		if i < b.Len() {
			zw.writeBit(b.Bit(i))
		} else {
			zw.writeBit(0)
		}
	}
	return nil
}

// WriteBytes writes k bytes (8k bits concatenated MSB-first), right-padding
// with zero bits if p is shorter than k bytes and failing ErrOutOfRange if
// longer.
func (zw *Writer) WriteBytes(k int, p []byte) (err error) {
	defer errRecover(&err)
	if len(p) > k {
		panic(ErrOutOfRange)
	}
	for i := 0; i < k; i++ {
		var b byte
		if i < len(p) {
			b = p[i]
		}
		for j := 7; j >= 0; j-- {
			zw.writeBit(uint(b>>uint(j)) & 1)
		}
	}
	return nil
}

// WriteUint writes v (v >= 0) as an interleaved exp-Golomb code: v+1 encoded
// MSB-first as data bits interleaved with 0 terminator bits, ending with a
// final 1 terminator bit. Fails ErrOutOfRange on negative input.
func (zw *Writer) WriteUint(v *big.Int) (err error) {
	defer errRecover(&err)
	if v.Sign() < 0 {
		panic(ErrOutOfRange)
	}
	n := new(big.Int).Add(v, big.NewInt(1))
	for i := n.BitLen() - 2; i >= 0; i-- {
		zw.writeBit(0) // continue flag: more data follows
		zw.writeBit(uint(n.Bit(i)))
	}
	zw.writeBit(1) // terminator: no more data

	return nil
}

// WriteSint writes WriteUint(|v|) followed, if v != 0, by a sign bit
// (1 = negative).
func (zw *Writer) WriteSint(v *big.Int) (err error) {
	defer errRecover(&err)
	mag := new(big.Int).Abs(v)
	if err2 := zw.WriteUint(mag); err2 != nil {
		panic(err2)
	}
	if v.Sign() != 0 {
		if v.Sign() < 0 {
			zw.writeBit(1)
		} else {
			zw.writeBit(0)
		}
	}
	return nil
}

// Seek flushes the current partial byte (zero-extending unwritten bits) and
// moves the writer to an arbitrary bit position. If a bounded block is
// active, its remaining-bits counter is adjusted by the seek delta.
func (zw *Writer) Seek(pos Position) (err error) {
	defer errRecover(&err)
	if zw.curLen != 0 {
		if err := zw.flushByte(); err != nil {
			panic(err)
		}
		zw.pos.Byte++
		zw.pos.Bit = 7
	}
	if _, err := zw.wr.Seek(pos.Byte, io.SeekStart); err != nil {
		panic(err)
	}
	delta := pos.Offset() - zw.pos.Offset()
	if zw.blockActive {
		zw.remaining -= delta
	}
	zw.pos = pos
	zw.curVal = 0
	zw.curLen = 7 - pos.Bit
	return nil
}

// Flush writes any partial byte to the underlying sink without advancing
// the logical bit position (the partial byte is re-read and merged with
// further writes on the next full-byte boundary is not supported; Flush is
// intended for end-of-stream use only).
func (zw *Writer) Flush() (err error) {
	defer errRecover(&err)
	if zw.curLen == 0 {
		return nil
	}
	if err := zw.flushByte(); err != nil {
		panic(err)
	}
	if _, err := zw.wr.Seek(zw.pos.Byte, io.SeekStart); err != nil {
		panic(err)
	}
	return nil
}

// BoundedBlockBegin activates a bounded block of the given length in bits.
// Bounded blocks do not nest.
func (zw *Writer) BoundedBlockBegin(length int64) error {
	if zw.blockActive {
		return ErrNestedBoundedBlock
	}
	zw.blockActive = true
	zw.remaining = length
	zw.blockStart = zw.pos
	return nil
}

// BoundedBlockEnd deactivates the current bounded block, writing 1 bits for
// any remaining unused bits, and returns the number of unused bits
// (non-negative).
func (zw *Writer) BoundedBlockEnd() (unused int64, err error) {
	if !zw.blockActive {
		return 0, ErrNoBoundedBlock
	}
	defer errRecover(&err)
	unused = zw.remaining
	if unused < 0 {
		unused = 0
	}
	for zw.remaining > 0 {
		zw.writeBit(1)
	}
	zw.blockActive = false
	return unused, nil
}
