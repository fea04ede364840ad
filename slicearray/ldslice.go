// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package slicearray

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/sliceindex"
)

// LDSliceArray is the columnar store for a contiguous run of low-delay
// slices: one entry per slice in QIndex/SliceYLength/YBlockPadding/
// CBlockPadding, and one flat array of coefficients per component spanning
// every slice in the run (YTransform for luma, CTransform holding C1/C2
// interleaved pairs for the colour-difference components).
type LDSliceArray struct {
	Parameters            sliceindex.Parameters
	SliceBytesNumerator   int
	SliceBytesDenominator int

	QIndex        []uint64
	SliceYLength  []uint64
	YBlockPadding []bitio.BitArray
	CBlockPadding []bitio.BitArray

	YTransform []*big.Int
	CTransform []*big.Int // interleaved: [c1_0, c2_0, c1_1, c2_1, ...]

	lumaDims      []sliceindex.Dimensions
	colorDiffDims []sliceindex.Dimensions
}

// NewLDSliceArray allocates a zeroed LDSliceArray for p.SliceCount slices.
func NewLDSliceArray(p sliceindex.Parameters, numerator, denominator int) *LDSliceArray {
	lumaDims := p.LumaSubbandDimensions()
	colorDiffDims := p.ColorDiffSubbandDimensions()
	yCount := coeffCount(lumaDims)
	cCount := coeffCount(colorDiffDims)

	return &LDSliceArray{
		Parameters:            p,
		SliceBytesNumerator:   numerator,
		SliceBytesDenominator: denominator,
		QIndex:                make([]uint64, p.SliceCount),
		SliceYLength:          make([]uint64, p.SliceCount),
		YBlockPadding:         zeroBitArrays(p.SliceCount),
		CBlockPadding:         zeroBitArrays(p.SliceCount),
		YTransform:            zeroBigInts(yCount),
		CTransform:            zeroBigInts(2 * cCount),
		lumaDims:              lumaDims,
		colorDiffDims:         colorDiffDims,
	}
}

// Slice returns a view over slice (sx, sy) of this array.
func (a *LDSliceArray) Slice(sx, sy int) LDSliceView {
	return LDSliceView{array: a, sx: sx, sy: sy}
}

// LDSliceView is a view over a single low-delay slice's fields and
// transform coefficients.
type LDSliceView struct {
	array  *LDSliceArray
	sx, sy int
}

func (v LDSliceView) index() int { return v.array.Parameters.ToSliceIndex(v.sx, v.sy) }

func (v LDSliceView) QIndex() uint64      { return v.array.QIndex[v.index()] }
func (v LDSliceView) SetQIndex(q uint64)  { v.array.QIndex[v.index()] = q }
func (v LDSliceView) SliceYLength() uint64 {
	return v.array.SliceYLength[v.index()]
}
func (v LDSliceView) SetSliceYLength(n uint64) {
	v.array.SliceYLength[v.index()] = n
}
func (v LDSliceView) YBlockPadding() bitio.BitArray     { return v.array.YBlockPadding[v.index()] }
func (v LDSliceView) SetYBlockPadding(b bitio.BitArray) { v.array.YBlockPadding[v.index()] = b }
func (v LDSliceView) CBlockPadding() bitio.BitArray     { return v.array.CBlockPadding[v.index()] }
func (v LDSliceView) SetCBlockPadding(b bitio.BitArray) { v.array.CBlockPadding[v.index()] = b }

// Length is the total length of this slice, in bits. (13.5.3.2)
func (v LDSliceView) Length() int {
	return 8 * v.array.Parameters.SliceBytes(v.sx, v.sy, v.array.SliceBytesNumerator, v.array.SliceBytesDenominator)
}

// HeaderLength is the combined bit width of the qindex and slice_y_length
// fields.
func (v LDSliceView) HeaderLength() int {
	return sliceindex.HeaderLength(v.Length())
}

// TrueSliceYLength is the luma bounded-block length in bits, clamped to
// what the slice can actually hold.
func (v LDSliceView) TrueSliceYLength() int {
	max := v.Length() - v.HeaderLength()
	n := int(v.SliceYLength())
	if n > max {
		return max
	}
	return n
}

// SliceCLength is the colour-difference bounded-block length in bits.
func (v LDSliceView) SliceCLength() int {
	return v.Length() - v.HeaderLength() - v.TrueSliceYLength()
}

// YTransform returns a view over this slice's luma subband coefficients.
func (v LDSliceView) YTransform() ComponentView {
	return ComponentView{
		data:     v.array.YTransform,
		params:   v.array.Parameters,
		dims:     v.array.lumaDims,
		sx:       v.sx,
		sy:       v.sy,
		stride:   1,
		offset:   0,
	}
}

// C1Transform returns a view over this slice's C1 subband coefficients,
// stored interleaved with C2 in CTransform.
func (v LDSliceView) C1Transform() ComponentView {
	return ComponentView{
		data:   v.array.CTransform,
		params: v.array.Parameters,
		dims:   v.array.colorDiffDims,
		sx:     v.sx,
		sy:     v.sy,
		stride: 2,
		offset: 0,
	}
}

// C2Transform returns a view over this slice's C2 subband coefficients,
// stored interleaved with C1 in CTransform.
func (v LDSliceView) C2Transform() ComponentView {
	return ComponentView{
		data:   v.array.CTransform,
		params: v.array.Parameters,
		dims:   v.array.colorDiffDims,
		sx:     v.sx,
		sy:     v.sy,
		stride: 2,
		offset: 1,
	}
}
