// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2bitstream

import (
	"io"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/serdes"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// treeDiffOptions lets cmp.Diff walk valuetree.Record's unexported fields
// and compare *big.Int values (which carry unexported state of their own)
// by numeric value rather than by identity.
var treeDiffOptions = cmp.Options{
	cmp.AllowUnexported(valuetree.Record{}, valuetree.List{}, bitio.BitArray{}),
	cmp.Comparer(func(a, b *valuetree.RecordType) bool { return a == b }),
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
}

// seekBuffer adapts a byte slice into an io.ReadWriteSeeker for driving
// bitio.Reader/Writer directly in tests.
type seekBuffer struct {
	buf []byte
	off int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.off + int64(len(p))
	if end > int64(len(s.buf)) {
		s.buf = append(s.buf, make([]byte, end-int64(len(s.buf)))...)
	}
	copy(s.buf[s.off:end], p)
	s.off = end
	return len(p), nil
}

func (s *seekBuffer) Read(p []byte) (int, error) {
	n := copy(p, s.buf[s.off:])
	s.off += int64(n)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.off = offset
	case 1:
		s.off += offset
	case 2:
		s.off = int64(len(s.buf)) + offset
	}
	return s.off, nil
}

func parseInfoBytes(code byte, nextOffset, prevOffset uint32) []byte {
	b := []byte{0x42, 0x42, 0x43, 0x44, code, 0, 0, 0, 0, 0, 0, 0, 0}
	b[5], b[6], b[7], b[8] = byte(nextOffset>>24), byte(nextOffset>>16), byte(nextOffset>>8), byte(nextOffset)
	b[9], b[10], b[11], b[12] = byte(prevOffset>>24), byte(prevOffset>>16), byte(prevOffset>>8), byte(prevOffset)
	return b
}

func TestParseSequenceEndOfSequenceOnly(t *testing.T) {
	raw := parseInfoBytes(ParseCodeEndOfSequence, 0, 0)
	sb := &seekBuffer{buf: raw}
	rd := bitio.NewReader(sb)
	d := serdes.NewDeserialiser(rd, SequenceType)
	st := NewState(nil)

	require.NoError(t, ParseSequence(d, st))
	require.NoError(t, d.VerifyComplete())

	lv, ok := d.Context().Get("data_units")
	require.True(t, ok)
	list := lv.(*valuetree.List)
	require.Equal(t, 1, list.Len())

	unit := list.At(0).(*valuetree.Record)
	info := mustGetRecord(t, unit, "parse_info")
	code, ok := info.Get("parse_code")
	require.True(t, ok)
	assert.Equal(t, uint64(ParseCodeEndOfSequence), code)
}

func TestParseSequenceRoundTripWithPadding(t *testing.T) {
	padBody := []byte{0xaa, 0xbb, 0xcc}
	paddingUnit := parseInfoBytes(0x30, uint32(ParseInfoHeaderBytes+len(padBody)), 0)
	paddingUnit = append(paddingUnit, padBody...)
	endUnit := parseInfoBytes(ParseCodeEndOfSequence, 0, uint32(len(paddingUnit)))
	raw := append(paddingUnit, endUnit...)

	sb := &seekBuffer{buf: raw}
	rd := bitio.NewReader(sb)
	d := serdes.NewDeserialiser(rd, SequenceType)
	st := NewState(nil)

	require.NoError(t, ParseSequence(d, st))
	require.NoError(t, d.VerifyComplete())

	out := &seekBuffer{}
	wr := bitio.NewWriter(out)
	s := serdes.NewSerialiser(wr, d.Context(), nil)
	st2 := NewState(nil)
	require.NoError(t, ParseSequence(s, st2))
	require.NoError(t, wr.Flush())
	require.NoError(t, s.VerifyComplete())

	assert.Equal(t, raw, out.buf)

	// Re-deserialise the re-serialised bytes and compare the resulting
	// value tree against the original structurally, not just byte-for-byte.
	sb2 := &seekBuffer{buf: out.buf}
	d2 := serdes.NewDeserialiser(bitio.NewReader(sb2), SequenceType)
	require.NoError(t, ParseSequence(d2, NewState(nil)))
	require.NoError(t, d2.VerifyComplete())

	if diff := cmp.Diff(d.Context(), d2.Context(), treeDiffOptions); diff != "" {
		t.Errorf("value tree mismatch after round trip (-original +reparsed):\n%s", diff)
	}
}

func mustGetRecord(t *testing.T, rec *valuetree.Record, name string) *valuetree.Record {
	t.Helper()
	v, ok := rec.Get(name)
	require.True(t, ok)
	child, ok := v.(*valuetree.Record)
	require.True(t, ok)
	return child
}

func TestVisitSubbandLevelsMatchesNumSubbands(t *testing.T) {
	cases := []struct {
		depth, depthHO int
	}{
		{0, 0}, {1, 0}, {3, 0}, {0, 2}, {2, 2},
	}
	for _, c := range cases {
		st := &State{DWTDepth: c.depth, DWTDepthHO: c.depthHO}
		count := 0
		require.NoError(t, visitSubbandLevels(st, func() error {
			count++
			return nil
		}))
		want := 1 + c.depthHO + c.depth*3
		assert.Equal(t, want, count, "depth=%d depthHO=%d", c.depth, c.depthHO)
	}
}

func TestColorDiffSubsamplingRatio(t *testing.T) {
	tests := []struct {
		index  uint64
		h, v   int
	}{
		{0, 1, 1},
		{1, 2, 1},
		{2, 2, 2},
	}
	for _, tt := range tests {
		h, v := colorDiffSubsamplingRatio(tt.index)
		assert.Equal(t, tt.h, h)
		assert.Equal(t, tt.v, v)
	}
}

func TestTrailingBytes(t *testing.T) {
	assert.Equal(t, 0, trailingBytes(0))
	assert.Equal(t, 0, trailingBytes(uint64(ParseInfoHeaderBytes)))
	assert.Equal(t, 5, trailingBytes(uint64(ParseInfoHeaderBytes+5)))
}
