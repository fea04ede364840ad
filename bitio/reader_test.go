// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBitsBE64(t *testing.T) {
	vectors := []struct {
		data []byte
		n    int
		want uint64
	}{
		{[]byte{0x80}, 1, 1},
		{[]byte{0x00}, 1, 0},
		{[]byte{0xff}, 8, 0xff},
		{[]byte{0xab, 0xcd}, 16, 0xabcd},
		{[]byte{0xf0}, 4, 0xf},
	}
	for _, v := range vectors {
		rd := NewReader(bytes.NewReader(v.data))
		got, err := rd.ReadBitsBE64(v.n)
		require.NoError(t, err)
		assert.Equal(t, v.want, got)
	}
}

func TestReadBitEndOfStream(t *testing.T) {
	rd := NewReader(bytes.NewReader(nil))
	_, err := rd.ReadBit()
	assert.Equal(t, ErrEndOfStream, err)
}

func TestBoundedBlockOverrunReadsOnes(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{0xff}))
	require.NoError(t, rd.BoundedBlockBegin(4))
	v, err := rd.ReadBitsBE64(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xf), v)

	// Block is now exhausted; further reads synthesize 1 bits without
	// touching the underlying stream, even though the second nibble of the
	// byte (also 0xf) has not been consumed.
	bit, err := rd.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, uint(1), bit)

	unused, err := rd.BoundedBlockEnd()
	require.NoError(t, err)
	assert.Equal(t, 0, unused.Len())
}

func TestBoundedBlockUnusedBits(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{0xf0}))
	require.NoError(t, rd.BoundedBlockBegin(4))
	v, err := rd.ReadBitsBE64(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), v)

	unused, err := rd.BoundedBlockEnd()
	require.NoError(t, err)
	assert.Equal(t, 2, unused.Len())
	assert.Equal(t, "11", unused.String())
}

func TestNestedBoundedBlockRejected(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{0xff, 0xff}))
	require.NoError(t, rd.BoundedBlockBegin(8))
	assert.Equal(t, ErrNestedBoundedBlock, rd.BoundedBlockBegin(4))
}

func TestReadUint(t *testing.T) {
	// Each pair of bits is (continue-flag, data-bit); a final lone 1 bit
	// terminates the code. Verified against the interleaved exp-Golomb
	// definition and against ExpGolombLength.
	vectors := []struct {
		bits string
		want int64
	}{
		{"1", 0},
		{"001", 1},
		{"011", 2},
		{"00001", 3},
		{"01011", 6},
	}
	for _, v := range vectors {
		rd := NewReader(bytes.NewReader(packBits(v.bits)))
		got, err := rd.ReadUint()
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(v.want), got)
	}
}

func TestReadSint(t *testing.T) {
	rd := NewReader(bytes.NewReader(packBits("0111"))) // uint=2, sign=1 (negative)
	got, err := rd.ReadSint()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(-2), got)
}

func TestSeekAdjustsBoundedBlockRemaining(t *testing.T) {
	rd := NewReader(bytes.NewReader([]byte{0xff, 0xff}))
	require.NoError(t, rd.BoundedBlockBegin(8))
	_, err := rd.ReadBitsBE64(4)
	require.NoError(t, err)

	require.NoError(t, rd.Seek(Position{Byte: 1, Bit: 7}))
	remaining, active := rd.BitsRemaining()
	assert.True(t, active)
	assert.Equal(t, int64(0), remaining)
}

// packBits turns a string of '0'/'1' characters, right-padded with zeros to a
// byte boundary, into a byte slice.
func packBits(s string) []byte {
	for len(s)%8 != 0 {
		s += "0"
	}
	out := make([]byte, len(s)/8)
	for i, c := range s {
		if c == '1' {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
