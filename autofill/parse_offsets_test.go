// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

// seekBuffer adapts an in-memory byte slice into an io.WriteSeeker for
// exercising AutofillParseOffsetsFinalize without a full traversal.
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

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.off = offset
	case io.SeekCurrent:
		s.off += offset
	case io.SeekEnd:
		s.off = int64(len(s.buf)) + offset
	}
	return s.off, nil
}

func withOffset(t *testing.T, code uint64, offset int64) *valuetree.Record {
	t.Helper()
	pi, err := vc2bitstream.ParseInfoType.NewFrom(map[string]interface{}{
		"parse_code":            code,
		"next_parse_offset":     valuetree.Auto,
		"previous_parse_offset": valuetree.Auto,
		"_offset":               offset,
	})
	require.NoError(t, err)
	return newDataUnit(t, map[string]interface{}{"parse_info": pi})
}

func TestAutofillParseOffsetsFinalize(t *testing.T) {
	du0 := withOffset(t, vc2bitstream.ParseCodeSequenceHeader, 0)
	du1 := withOffset(t, vc2bitstream.ParseCodeEndOfSequence, 13)
	stream := newStream(t, []*valuetree.Record{du0, du1})

	next, prev, err := AutofillParseOffsets(stream)
	require.NoError(t, err)
	require.Len(t, next, 2)
	require.Len(t, prev, 2)

	buf := &seekBuffer{buf: make([]byte, 26)}
	wr := bitio.NewWriter(buf)
	require.NoError(t, wr.Seek(bitio.Position{Byte: 26, Bit: 7}))

	require.NoError(t, AutofillParseOffsetsFinalize(wr, stream, next, prev))

	// du0: first data unit, so previous_parse_offset is 0; next points at
	// du1, 13 bytes further on.
	require.EqualValues(t, 13, binary.BigEndian.Uint32(buf.buf[5:9]))
	require.EqualValues(t, 0, binary.BigEndian.Uint32(buf.buf[9:13]))

	// du1: last data unit, so next_parse_offset is 0; previous points back
	// at du0, 13 bytes behind.
	require.EqualValues(t, 0, binary.BigEndian.Uint32(buf.buf[18:22]))
	require.EqualValues(t, 13, binary.BigEndian.Uint32(buf.buf[22:26]))

	require.EqualValues(t, 26, wr.Tell().Byte)
}

func TestAutofillParseOffsetsComputesAuxiliaryDataDirectly(t *testing.T) {
	aux, err := vc2bitstream.AuxiliaryDataType.NewFrom(map[string]interface{}{
		"bytes": []byte{1, 2, 3},
	})
	require.NoError(t, err)
	pi, err := vc2bitstream.ParseInfoType.NewFrom(map[string]interface{}{
		"parse_code":        uint64(0x20), // IsAuxiliaryData
		"next_parse_offset": valuetree.Auto,
	})
	require.NoError(t, err)
	du := newDataUnit(t, map[string]interface{}{
		"parse_info":     pi,
		"auxiliary_data": aux,
	})
	stream := newStream(t, []*valuetree.Record{du})

	next, prev, err := AutofillParseOffsets(stream)
	require.NoError(t, err)
	require.Empty(t, next)
	require.Equal(t, []OffsetPosition{{SequenceIndex: 0, DataUnitIndex: 0}}, prev)

	v, ok := pi.Get("next_parse_offset")
	require.True(t, ok)
	require.Equal(t, uint64(vc2bitstream.ParseInfoHeaderBytes+3), v)
}
