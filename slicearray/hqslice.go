// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package slicearray

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/sliceindex"
)

// HQSliceArray is the columnar store for a contiguous run of high-quality
// slices: each component has its own length/padding/coefficient arrays
// (unlike low-delay, where colour-difference is interleaved into one pair).
type HQSliceArray struct {
	Parameters        sliceindex.Parameters
	SlicePrefixBytes  int
	SliceSizeScaler   int

	PrefixBytes [][]byte
	QIndex      []uint64

	SliceYLength  []uint64
	SliceC1Length []uint64
	SliceC2Length []uint64

	YBlockPadding  []bitio.BitArray
	C1BlockPadding []bitio.BitArray
	C2BlockPadding []bitio.BitArray

	YTransform  []*big.Int
	C1Transform []*big.Int
	C2Transform []*big.Int

	lumaDims      []sliceindex.Dimensions
	colorDiffDims []sliceindex.Dimensions
}

// NewHQSliceArray allocates a zeroed HQSliceArray for p.SliceCount slices.
func NewHQSliceArray(p sliceindex.Parameters, slicePrefixBytes, sliceSizeScaler int) *HQSliceArray {
	lumaDims := p.LumaSubbandDimensions()
	colorDiffDims := p.ColorDiffSubbandDimensions()
	yCount := coeffCount(lumaDims)
	cCount := coeffCount(colorDiffDims)

	prefixBytes := make([][]byte, p.SliceCount)
	for i := range prefixBytes {
		prefixBytes[i] = make([]byte, slicePrefixBytes)
	}

	return &HQSliceArray{
		Parameters:       p,
		SlicePrefixBytes: slicePrefixBytes,
		SliceSizeScaler:  sliceSizeScaler,
		PrefixBytes:      prefixBytes,
		QIndex:           make([]uint64, p.SliceCount),
		SliceYLength:     make([]uint64, p.SliceCount),
		SliceC1Length:    make([]uint64, p.SliceCount),
		SliceC2Length:    make([]uint64, p.SliceCount),
		YBlockPadding:    zeroBitArrays(p.SliceCount),
		C1BlockPadding:   zeroBitArrays(p.SliceCount),
		C2BlockPadding:   zeroBitArrays(p.SliceCount),
		YTransform:       zeroBigInts(yCount),
		C1Transform:      zeroBigInts(cCount),
		C2Transform:      zeroBigInts(cCount),
		lumaDims:         lumaDims,
		colorDiffDims:    colorDiffDims,
	}
}

// Slice returns a view over slice (sx, sy) of this array.
func (a *HQSliceArray) Slice(sx, sy int) HQSliceView {
	return HQSliceView{array: a, sx: sx, sy: sy}
}

// HQSliceView is a view over a single high-quality slice's fields and
// transform coefficients.
type HQSliceView struct {
	array  *HQSliceArray
	sx, sy int
}

func (v HQSliceView) index() int { return v.array.Parameters.ToSliceIndex(v.sx, v.sy) }

func (v HQSliceView) PrefixBytes() []byte    { return v.array.PrefixBytes[v.index()] }
func (v HQSliceView) SetPrefixBytes(b []byte) { v.array.PrefixBytes[v.index()] = b }

func (v HQSliceView) QIndex() uint64     { return v.array.QIndex[v.index()] }
func (v HQSliceView) SetQIndex(q uint64) { v.array.QIndex[v.index()] = q }

func (v HQSliceView) SliceYLength() uint64      { return v.array.SliceYLength[v.index()] }
func (v HQSliceView) SetSliceYLength(n uint64)  { v.array.SliceYLength[v.index()] = n }
func (v HQSliceView) SliceC1Length() uint64     { return v.array.SliceC1Length[v.index()] }
func (v HQSliceView) SetSliceC1Length(n uint64) { v.array.SliceC1Length[v.index()] = n }
func (v HQSliceView) SliceC2Length() uint64     { return v.array.SliceC2Length[v.index()] }
func (v HQSliceView) SetSliceC2Length(n uint64) { v.array.SliceC2Length[v.index()] = n }

func (v HQSliceView) YBlockPadding() bitio.BitArray      { return v.array.YBlockPadding[v.index()] }
func (v HQSliceView) SetYBlockPadding(b bitio.BitArray)  { v.array.YBlockPadding[v.index()] = b }
func (v HQSliceView) C1BlockPadding() bitio.BitArray     { return v.array.C1BlockPadding[v.index()] }
func (v HQSliceView) SetC1BlockPadding(b bitio.BitArray) { v.array.C1BlockPadding[v.index()] = b }
func (v HQSliceView) C2BlockPadding() bitio.BitArray     { return v.array.C2BlockPadding[v.index()] }
func (v HQSliceView) SetC2BlockPadding(b bitio.BitArray) { v.array.C2BlockPadding[v.index()] = b }

// sliceLengthBits converts a byte-granular, size-scaler-multiplied length
// field into bits.
func (v HQSliceView) sliceLengthBits(lengthBytes uint64) int {
	return 8 * int(lengthBytes) * v.array.SliceSizeScaler
}

func (v HQSliceView) TrueSliceYLength() int  { return v.sliceLengthBits(v.SliceYLength()) }
func (v HQSliceView) TrueSliceC1Length() int { return v.sliceLengthBits(v.SliceC1Length()) }
func (v HQSliceView) TrueSliceC2Length() int { return v.sliceLengthBits(v.SliceC2Length()) }

func (v HQSliceView) YTransform() ComponentView {
	return ComponentView{data: v.array.YTransform, params: v.array.Parameters, dims: v.array.lumaDims, sx: v.sx, sy: v.sy, stride: 1}
}

func (v HQSliceView) C1Transform() ComponentView {
	return ComponentView{data: v.array.C1Transform, params: v.array.Parameters, dims: v.array.colorDiffDims, sx: v.sx, sy: v.sy, stride: 1}
}

func (v HQSliceView) C2Transform() ComponentView {
	return ComponentView{data: v.array.C2Transform, params: v.array.Parameters, dims: v.array.colorDiffDims, sx: v.sx, sy: v.sy, stride: 1}
}
