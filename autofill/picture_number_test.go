// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

const ldPictureParseCode = 0xC8

func newDataUnit(t *testing.T, fields map[string]interface{}) *valuetree.Record {
	t.Helper()
	du, err := vc2bitstream.DataUnitType.NewFrom(fields)
	require.NoError(t, err)
	return du
}

func newParseInfo(t *testing.T, code uint64) *valuetree.Record {
	t.Helper()
	pi, err := vc2bitstream.ParseInfoType.NewFrom(map[string]interface{}{
		"parse_code": code,
	})
	require.NoError(t, err)
	return pi
}

func newPictureParse(t *testing.T, pictureNumber interface{}) *valuetree.Record {
	t.Helper()
	header, err := vc2bitstream.PictureHeaderType.NewFrom(map[string]interface{}{
		"picture_number": pictureNumber,
	})
	require.NoError(t, err)
	picture, err := vc2bitstream.PictureParseType.NewFrom(map[string]interface{}{
		"picture_header": header,
	})
	require.NoError(t, err)
	return picture
}

func newStream(t *testing.T, dataUnits []*valuetree.Record) *valuetree.Record {
	t.Helper()
	list := valuetree.NewList()
	for _, du := range dataUnits {
		list.Append(du)
	}
	seq, err := vc2bitstream.SequenceType.NewFrom(map[string]interface{}{"data_units": list})
	require.NoError(t, err)
	seqList := valuetree.NewList()
	seqList.Append(seq)
	stream, err := vc2bitstream.StreamType.NewFrom(map[string]interface{}{"sequences": seqList})
	require.NoError(t, err)
	return stream
}

func pictureNumberOf(t *testing.T, du *valuetree.Record) uint32 {
	t.Helper()
	v, ok := du.Get("picture_parse")
	require.True(t, ok)
	picture := v.(*valuetree.Record)
	v, ok = picture.Get("picture_header")
	require.True(t, ok)
	header := v.(*valuetree.Record)
	v, ok = header.Get("picture_number")
	require.True(t, ok)
	return uint32(v.(uint64))
}

// Mirrors the reference implementation's wraparound case: a picture whose
// number is not mentioned at all is autofilled exactly like one explicitly
// marked Auto, and numbering wraps at 2^32 rather than erroring.
func TestAutofillPictureNumberWraparound(t *testing.T) {
	dataUnits := []*valuetree.Record{
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, valuetree.Auto),
		}),
		newDataUnit(t, map[string]interface{}{
			"parse_info": newParseInfo(t, ldPictureParseCode),
		}),
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, uint64(0xFFFFFFFE)),
		}),
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, valuetree.Auto),
		}),
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, valuetree.Auto),
		}),
	}
	stream := newStream(t, dataUnits)

	require.NoError(t, AutofillPictureNumber(stream, 1234))

	want := []uint32{1234, 1235, 0xFFFFFFFE, 0xFFFFFFFF, 0x0}
	for i, du := range dataUnits {
		require.Equal(t, want[i], pictureNumberOf(t, du), "data unit %d", i)
	}
}

func TestAutofillPictureNumberRestartsPerSequence(t *testing.T) {
	seq1 := []*valuetree.Record{
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, valuetree.Auto),
		}),
	}
	seq2 := []*valuetree.Record{
		newDataUnit(t, map[string]interface{}{
			"parse_info":    newParseInfo(t, ldPictureParseCode),
			"picture_parse": newPictureParse(t, valuetree.Auto),
		}),
	}

	list1 := valuetree.NewList()
	for _, du := range seq1 {
		list1.Append(du)
	}
	s1, err := vc2bitstream.SequenceType.NewFrom(map[string]interface{}{"data_units": list1})
	require.NoError(t, err)

	list2 := valuetree.NewList()
	for _, du := range seq2 {
		list2.Append(du)
	}
	s2, err := vc2bitstream.SequenceType.NewFrom(map[string]interface{}{"data_units": list2})
	require.NoError(t, err)

	seqList := valuetree.NewList()
	seqList.Append(s1)
	seqList.Append(s2)
	stream, err := vc2bitstream.StreamType.NewFrom(map[string]interface{}{"sequences": seqList})
	require.NoError(t, err)

	require.NoError(t, AutofillPictureNumber(stream, 10))

	require.Equal(t, uint32(10), pictureNumberOf(t, seq1[0]))
	require.Equal(t, uint32(10), pictureNumberOf(t, seq2[0]))
}
