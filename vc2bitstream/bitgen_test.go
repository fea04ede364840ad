// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/internal/testutil"
	"github.com/bbc/vc2-conformance-sub004/serdes"
)

// TestParseSequencePaddingFromBitGen builds the same padding-then-end
// sequence as TestParseSequenceRoundTripWithPadding, but scripts the raw
// bytes with testutil.DecodeBitGen rather than assembling a []byte by hand.
func TestParseSequencePaddingFromBitGen(t *testing.T) {
	raw, err := testutil.DecodeBitGen(`
		# parse_info: padding data unit, 3-byte payload
		H32:42424344        # parse_info_prefix
		H8:30                # parse_code: padding data
		H32:10               # next_parse_offset: 13 header + payload bytes
		H32:0                # previous_parse_offset
		X:aabbcc              # padding payload

		# parse_info: end of sequence
		H32:42424344
		H8:10
		H32:0
		H32:10                # previous_parse_offset: back to the padding unit
	`)
	require.NoError(t, err)

	sb := &seekBuffer{buf: raw}
	rd := bitio.NewReader(sb)
	d := serdes.NewDeserialiser(rd, SequenceType)
	st := NewState(nil)

	require.NoError(t, ParseSequence(d, st))
	require.NoError(t, d.VerifyComplete())

	expected := parseInfoBytes(0x30, uint32(ParseInfoHeaderBytes+3), 0)
	expected = append(expected, testutil.MustDecodeHex("aabbcc")...)
	expected = append(expected, parseInfoBytes(ParseCodeEndOfSequence, 0, uint32(len(expected)))...)
	require.Equal(t, expected, raw)
}
