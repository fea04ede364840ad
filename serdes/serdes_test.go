// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import (
	"io"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// seekBuffer adapts a byte slice into an io.ReadWriteSeeker for tests.
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

var parseInfoType = valuetree.NewRecordType("ParseInfo",
	valuetree.FieldDef{Name: "parse_info_prefix"},
	valuetree.FieldDef{Name: "parse_code"},
)

func describeParseInfo(s SerDes) error {
	if _, err := s.NBits("parse_info_prefix", 32); err != nil {
		return err
	}
	if _, err := s.NBits("parse_code", 8); err != nil {
		return err
	}
	return nil
}

func TestDeserialiserSerialiserRoundTrip(t *testing.T) {
	sb := &seekBuffer{buf: []byte{0x42, 0x42, 0x43, 0x44, 0x10}}
	rd := bitio.NewReader(sb)
	d := NewDeserialiser(rd, parseInfoType)
	require.NoError(t, describeParseInfo(d))
	require.NoError(t, d.VerifyComplete())

	prefix, _ := d.Context().Get("parse_info_prefix")
	assert.Equal(t, uint64(0x42424344), prefix)
	code, _ := d.Context().Get("parse_code")
	assert.Equal(t, uint64(0x10), code)

	out := &seekBuffer{}
	wr := bitio.NewWriter(out)
	s := NewSerialiser(wr, d.Context(), nil)
	require.NoError(t, describeParseInfo(s))
	require.NoError(t, wr.Flush())
	require.NoError(t, s.VerifyComplete())

	assert.Equal(t, sb.buf, out.buf)
}

func TestSerialiserUsesDefaultValueTable(t *testing.T) {
	root := parseInfoType.New(map[string]interface{}{"parse_code": uint64(0x10)})
	defaults := DefaultValues{
		parseInfoType: {"parse_info_prefix": uint64(0x42424344)},
	}
	out := &seekBuffer{}
	wr := bitio.NewWriter(out)
	s := NewSerialiser(wr, root, defaults)
	require.NoError(t, describeParseInfo(s))
	require.NoError(t, wr.Flush())
	assert.Equal(t, []byte{0x42, 0x42, 0x43, 0x44, 0x10}, out.buf)
}

func TestReusedTargetFails(t *testing.T) {
	sb := &seekBuffer{buf: []byte{0xff, 0xff, 0xff, 0xff, 0xff}}
	rd := bitio.NewReader(sb)
	d := NewDeserialiser(rd, parseInfoType)
	_, err := d.NBits("parse_info_prefix", 32)
	require.NoError(t, err)
	_, err = d.NBits("parse_info_prefix", 8)
	assert.ErrorIs(t, err, ErrReusedTarget)
}

var sliceListType = valuetree.NewRecordType("List",
	valuetree.FieldDef{Name: "qindex"},
)

func TestDeclaredListAdvancesIndex(t *testing.T) {
	sb := &seekBuffer{buf: []byte{0x11, 0x22, 0x33}}
	rd := bitio.NewReader(sb)
	d := NewDeserialiser(rd, sliceListType)
	require.NoError(t, d.DeclareList("qindex"))
	for i := 0; i < 3; i++ {
		_, err := d.NBits("qindex", 8)
		require.NoError(t, err)
	}
	require.NoError(t, d.VerifyComplete())

	lv, ok := d.Context().Get("qindex")
	require.True(t, ok)
	l := lv.(*valuetree.List)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, uint64(0x11), l.At(0))
	assert.Equal(t, uint64(0x33), l.At(2))
}

var wrapperType = valuetree.NewRecordType("Wrapper",
	valuetree.FieldDef{Name: "inner"},
)

func TestSubcontextPathTracking(t *testing.T) {
	sb := &seekBuffer{buf: []byte{0x42, 0x42, 0x43, 0x44, 0x10}}
	rd := bitio.NewReader(sb)
	d := NewDeserialiser(rd, wrapperType)
	err := d.Subcontext("inner", parseInfoType, func() error {
		assert.Equal(t, `Wrapper['inner']`, d.DescribePath())
		return describeParseInfo(d)
	})
	require.NoError(t, err)
	require.NoError(t, d.VerifyComplete())
}

func TestBoundedBlockOverrunDeserialise(t *testing.T) {
	sb := &seekBuffer{buf: []byte{0xf0}}
	rd := bitio.NewReader(sb)
	d := NewDeserialiser(rd, valuetree.NewRecordType("Block",
		valuetree.FieldDef{Name: "qindex"},
		valuetree.FieldDef{Name: "padding"},
	))
	require.NoError(t, d.BoundedBlockBegin(4))
	v, err := d.NBits("qindex", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), v)
	unused, err := d.BoundedBlockEnd("padding")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unused)
}

func TestComputedValueReusedFails(t *testing.T) {
	d := NewDeserialiser(bitio.NewReader(&seekBuffer{}), valuetree.NewRecordType("X",
		valuetree.FieldDef{Name: "_offset"},
	))
	require.NoError(t, d.ComputedValue("_offset", big.NewInt(7)))
	assert.ErrorIs(t, d.ComputedValue("_offset", big.NewInt(8)), ErrReusedTarget)
}

func TestPadTruncateFillsMissingScalars(t *testing.T) {
	root := parseInfoType.New(nil)
	p := NewPadTruncate(root, parseInfoType)
	require.NoError(t, describeParseInfo(p))
	require.NoError(t, p.VerifyComplete())

	prefix, ok := root.Get("parse_info_prefix")
	require.True(t, ok)
	assert.Equal(t, uint64(0), prefix)
}

func TestPadTruncateCoercesOversizedValue(t *testing.T) {
	root := parseInfoType.New(map[string]interface{}{"parse_code": uint64(0x1ff)})
	p := NewPadTruncate(root, parseInfoType)
	v, err := p.NBits("parse_code", 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff), v)
}

func TestPadTruncateTruncatesLists(t *testing.T) {
	root := sliceListType.New(nil)
	lst := valuetree.NewList()
	lst.Append(uint64(1))
	lst.Append(uint64(2))
	lst.Append(uint64(3))
	_ = root.Set("qindex", lst)

	p := NewPadTruncate(root, sliceListType)
	require.NoError(t, p.DeclareList("qindex"))
	_, err := p.NBits("qindex", 8) // consume only one of the three entries
	require.NoError(t, err)
	require.NoError(t, p.VerifyComplete())

	assert.Equal(t, 1, lst.Len())
}
