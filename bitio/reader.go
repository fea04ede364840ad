// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import (
	"io"
	"math/big"
)

// Reader reads a big-endian bit stream, with support for a single
// non-nesting bounded block and arbitrary-precision exp-Golomb codes.
type Reader struct {
	rd  io.ReadSeeker
	err error

	pos    Position // position of the next bit to be read
	curVal byte     // byte currently loaded for bit-at-a-time reads
	curLen int      // number of unread bits remaining in curVal (0 means reload)

	remaining    int64 // bounded block counter; only valid when blockActive
	blockActive  bool
	blockStart   Position
}

// NewReader returns a Reader positioned at the start of r.
func NewReader(r io.ReadSeeker) *Reader {
	zr := new(Reader)
	zr.Reset(r)
	return zr
}

// Reset reinitializes the Reader to read from r, starting at its current
// seek position.
func (zr *Reader) Reset(r io.ReadSeeker) {
	*zr = Reader{rd: r}
}

// Tell reports the current bit position.
func (zr *Reader) Tell() Position { return zr.pos }

// BitsRemaining reports the bounded block counter and whether a block is
// currently active.
func (zr *Reader) BitsRemaining() (remaining int64, active bool) {
	return zr.remaining, zr.blockActive
}

// AtEnd reports whether no further bytes remain in the underlying source,
// for callers reading a concatenation of self-delimiting records (such as
// one or more VC-2 sequences in a single stream) who need to know whether
// to keep looping. Only meaningful at a byte boundary; returns false if a
// partially-consumed byte is cached.
func (zr *Reader) AtEnd() bool {
	if zr.curLen != 0 {
		return false
	}
	var buf [1]byte
	n, err := zr.rd.Read(buf[:])
	if n > 0 {
		if _, seekErr := zr.rd.Seek(-1, io.SeekCurrent); seekErr != nil {
			panic(seekErr)
		}
		return false
	}
	return err != nil
}

func (zr *Reader) loadByte() error {
	var buf [1]byte
	if _, err := io.ReadFull(zr.rd, buf[:]); err != nil {
		return ErrEndOfStream
	}
	zr.curVal = buf[0]
	zr.curLen = 8
	return nil
}

// ReadBit reads a single bit (0 or 1).
func (zr *Reader) ReadBit() (v uint, err error) {
	defer errRecover(&err)
	return zr.readBit(), nil
}

func (zr *Reader) readBit() uint {
	wasOverrun := zr.blockActive && zr.remaining <= 0
	if zr.blockActive {
		zr.remaining--
	}
	if wasOverrun {
		// Past the end of a bounded block: synthesize a 1 bit without
		// consuming input.
		return 1
	}

	if zr.curLen == 0 {
		if err := zr.loadByte(); err != nil {
			panic(err)
		}
	}
	zr.curLen--
	bit := uint(zr.curVal>>uint(zr.curLen)) & 1
	if zr.curLen == 0 {
		zr.pos.Byte++
		zr.pos.Bit = 7
	} else {
		zr.pos.Bit--
	}
	return bit
}

// ReadBitsBE64 reads n bits (0 <= n <= 64), MSB first, returning them
// right-justified in a uint64.
func (zr *Reader) ReadBitsBE64(n int) (v uint64, err error) {
	defer errRecover(&err)
	for i := 0; i < n; i++ {
		v = v<<1 | uint64(zr.readBit())
	}
	return v, nil
}

// ReadBitsBig reads n bits (n >= 0), MSB first, into an arbitrary-precision
// unsigned integer.
func (zr *Reader) ReadBitsBig(n int) (v *big.Int, err error) {
	defer errRecover(&err)
	v = new(big.Int)
	for i := 0; i < n; i++ {
		v.Lsh(v, 1)
		if zr.readBit() == 1 {
			v.SetBit(v, 0, 1)
		}
	}
	return v, nil
}

// ReadUintLit reads 8*k bits without performing byte alignment.
func (zr *Reader) ReadUintLit(k int) (v uint64, err error) {
	return zr.ReadBitsBE64(8 * k)
}

// ReadBitArray reads n bits into a BitArray.
func (zr *Reader) ReadBitArray(n int) (b BitArray, err error) {
	defer errRecover(&err)
	b = NewBitArray(n)
	for i := 0; i < n; i++ {
		b.SetBit(i, zr.readBit())
	}
	return b, nil
}

// ReadBytes reads k bytes (8k bits concatenated MSB-first).
func (zr *Reader) ReadBytes(k int) (p []byte, err error) {
	defer errRecover(&err)
	p = make([]byte, k)
	for i := range p {
		p[i] = byte(zr.readBit())<<7 | byte(zr.readBit())<<6 | byte(zr.readBit())<<5 |
			byte(zr.readBit())<<4 | byte(zr.readBit())<<3 | byte(zr.readBit())<<2 |
			byte(zr.readBit())<<1 | byte(zr.readBit())
	}
	return p, nil
}

// ReadUint reads an interleaved exp-Golomb coded non-negative integer.
func (zr *Reader) ReadUint() (v *big.Int, err error) {
	defer errRecover(&err)
	v = big.NewInt(1)
	for zr.readBit() == 0 {
		v.Lsh(v, 1)
		if zr.readBit() == 1 {
			v.SetBit(v, 0, 1)
		}
	}
	return v.Sub(v, big.NewInt(1)), nil
}

// ReadSint reads a signed interleaved exp-Golomb coded integer: a uint
// magnitude followed, if non-zero, by a sign bit (1 = negative).
func (zr *Reader) ReadSint() (v *big.Int, err error) {
	defer errRecover(&err)
	mag, err2 := zr.ReadUint()
	if err2 != nil {
		panic(err2)
	}
	if mag.Sign() != 0 && zr.readBit() == 1 {
		mag.Neg(mag)
	}
	return mag, nil
}

// Seek moves the reader to an arbitrary bit position. If a bounded block is
// active, its remaining-bits counter is adjusted by the seek delta.
func (zr *Reader) Seek(pos Position) error {
	if _, err := zr.rd.Seek(pos.Byte, io.SeekStart); err != nil {
		return err
	}
	delta := pos.Offset() - zr.pos.Offset()
	if zr.blockActive {
		zr.remaining -= delta
	}
	zr.pos = Position{Byte: pos.Byte, Bit: 7}
	zr.curLen = 0
	if pos.Bit != 7 {
		// Re-load the byte and discard bits above the target bit index so
		// that zr.pos lines up with pos exactly.
		if err := zr.loadByte(); err != nil {
			return err
		}
		for zr.pos.Bit > pos.Bit {
			zr.curLen--
			zr.pos.Bit--
		}
		zr.pos.Byte = pos.Byte
	}
	return nil
}

// BoundedBlockBegin activates a bounded block of the given length in bits.
// Bounded blocks do not nest.
func (zr *Reader) BoundedBlockBegin(length int64) error {
	if zr.blockActive {
		return ErrNestedBoundedBlock
	}
	zr.blockActive = true
	zr.remaining = length
	zr.blockStart = zr.pos
	return nil
}

// BoundedBlockEnd deactivates the current bounded block, consuming any
// unused bits (including synthesized ones), and returns them as a
// BitArray (non-negative length; overrun does not produce a negative
// result).
func (zr *Reader) BoundedBlockEnd() (unused BitArray, err error) {
	if !zr.blockActive {
		return BitArray{}, ErrNoBoundedBlock
	}
	defer errRecover(&err)
	n := zr.remaining
	if n < 0 {
		n = 0
	}
	unused = NewBitArray(int(n))
	for i := 0; i < int(n); i++ {
		unused.SetBit(i, zr.readBit())
	}
	zr.blockActive = false
	return unused, nil
}
