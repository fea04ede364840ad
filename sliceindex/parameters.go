// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sliceindex

// Dimensions is a subband's (width, height) in coefficients.
type Dimensions struct {
	Width, Height int
}

// Parameters holds the slice-array geometry needed to convert between slice
// coordinates, flat slice indices, subband dimensions, and coefficient
// offsets. It has no behaviour beyond pure arithmetic; the columnar data
// itself lives in package slicearray.
type Parameters struct {
	SlicesX, SlicesY int
	StartSX, StartSY int
	SliceCount       int

	DWTDepth   int
	DWTDepthHO int

	LumaWidth, LumaHeight         int
	ColorDiffWidth, ColorDiffHeight int
}

// ToSliceIndex converts a slice coordinate into its index into this
// contiguous run of slices.
func (p Parameters) ToSliceIndex(sx, sy int) int {
	index := sx + sy*p.SlicesX
	offset := p.StartSX + p.StartSY*p.SlicesX
	return index - offset
}

// FromSliceIndex converts an index into this run of slices back into its
// (sx, sy) coordinate.
func (p Parameters) FromSliceIndex(index int) (sx, sy int) {
	offset := p.StartSX + p.StartSY*p.SlicesX
	index += offset
	return index % p.SlicesX, index / p.SlicesX
}

// SubbandDimensions returns the (width, height) of the subband at level for
// a component of picture dimensions (w, h). (13.2.3)
func (p Parameters) SubbandDimensions(w, h, level int) Dimensions {
	scaleW := 1 << uint(p.DWTDepthHO+p.DWTDepth)
	scaleH := 1 << uint(p.DWTDepth)
	pw := scaleW * ((w + scaleW - 1) / scaleW)
	ph := scaleH * ((h + scaleH - 1) / scaleH)

	var width int
	if level == 0 {
		width = pw / (1 << uint(p.DWTDepthHO+p.DWTDepth))
	} else {
		width = pw / (1 << uint(p.DWTDepthHO+p.DWTDepth-level+1))
	}

	var height int
	if level <= p.DWTDepthHO {
		height = ph / (1 << uint(p.DWTDepth))
	} else {
		height = ph / (1 << uint(p.DWTDepthHO+p.DWTDepth-level+1))
	}

	return Dimensions{Width: width, Height: height}
}

// SliceSubbandBounds returns the (x1, y1, x2, y2) bounds, within a subband
// of size (subbandWidth, subbandHeight), occupied by slice (sx, sy). (13.5.6.2)
func (p Parameters) SliceSubbandBounds(sx, sy, subbandWidth, subbandHeight int) (x1, y1, x2, y2 int) {
	x1 = (subbandWidth * sx) / p.SlicesX
	y1 = (subbandHeight * sy) / p.SlicesY
	x2 = (subbandWidth * (sx + 1)) / p.SlicesX
	y2 = (subbandHeight * (sy + 1)) / p.SlicesY
	return x1, y1, x2, y2
}

// NumSubbandLevels is the number of distinct transform levels.
func (p Parameters) NumSubbandLevels() int { return 1 + p.DWTDepthHO + p.DWTDepth }

// NumSubbands is the total number of subbands across all levels.
func (p Parameters) NumSubbands() int { return 1 + p.DWTDepthHO + p.DWTDepth*3 }

func (p Parameters) subbandDimensionsFor(w, h int) []Dimensions {
	out := make([]Dimensions, 0, p.NumSubbands())
	for level := 0; level < p.NumSubbandLevels(); level++ {
		count := 1
		if level >= 1+p.DWTDepthHO {
			count = 3
		}
		for i := 0; i < count; i++ {
			out = append(out, p.SubbandDimensions(w, h, level))
		}
	}
	return out
}

// LumaSubbandDimensions returns the dimensions of every subband, in
// bitstream order, for the luma component.
func (p Parameters) LumaSubbandDimensions() []Dimensions {
	return p.subbandDimensionsFor(p.LumaWidth, p.LumaHeight)
}

// ColorDiffSubbandDimensions returns the dimensions of every subband, in
// bitstream order, for either colour-difference component.
func (p Parameters) ColorDiffSubbandDimensions() []Dimensions {
	return p.subbandDimensionsFor(p.ColorDiffWidth, p.ColorDiffHeight)
}

// ToCoeffIndex computes the flat-array offset of coefficient (x, y) within
// subband subbandIndex of slice (sx, sy), given the per-level subband
// dimensions of the component in bitstream order. sy is never range
// checked: a bitstream may (invalidly) address slices beyond slicesY and
// this is deliberately tolerated so malformed streams remain inspectable;
// sx, subbandIndex, x and y are all checked.
func (p Parameters) ToCoeffIndex(subbandDimensions []Dimensions, sx, sy, subbandIndex, x, y int) (index int, err error) {
	defer errRecover(&err)
	if !(0 <= sx && sx < p.SlicesX) {
		panic(ErrOutOfRange)
	}
	if !(0 <= subbandIndex && subbandIndex < len(subbandDimensions)) {
		panic(ErrOutOfRange)
	}

	var offset int
	var subbandSliceWidth, subbandSliceHeight int
	haveSliceDims := false

	for curIndex, dims := range subbandDimensions {
		ox1, oy1, _, oy2 := p.SliceSubbandBounds(p.StartSX, p.StartSY, dims.Width, dims.Height)
		x1, y1, x2, y2 := p.SliceSubbandBounds(sx, sy, dims.Width, dims.Height)

		offset -= oy1*dims.Width + ox1*(oy2-oy1)
		if curIndex >= subbandIndex {
			offset += y1*dims.Width + x1*(y2-y1)
		} else {
			offset += y1*dims.Width + x2*(y2-y1)
		}

		if curIndex == subbandIndex {
			subbandSliceWidth = x2 - x1
			subbandSliceHeight = y2 - y1
			haveSliceDims = true
		}
	}
	if !haveSliceDims {
		panic(ErrOutOfRange)
	}

	if !((subbandSliceWidth == 0 && x == 0) || (0 <= x && x < subbandSliceWidth)) {
		panic(ErrOutOfRange)
	}
	if !((subbandSliceHeight == 0 && y == 0) || (0 <= y && y < subbandSliceHeight)) {
		panic(ErrOutOfRange)
	}

	offset += y*subbandSliceWidth + x
	return offset, nil
}

// SliceBytes returns the number of bytes occupied by low-delay slice
// (sx, sy), given the slice_bytes_numerator/denominator fraction. (13.5.3.2)
func (p Parameters) SliceBytes(sx, sy, numerator, denominator int) int {
	n := sy*p.SlicesX + sx
	return (n+1)*numerator/denominator - n*numerator/denominator
}

// HeaderLength returns the combined bit width of a low-delay slice's qindex
// and slice_y_length fields, given the slice's total length in bits.
func HeaderLength(length int) int {
	return 7 + IntLog2(int64(length-7))
}
