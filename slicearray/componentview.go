// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package slicearray

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/sliceindex"
)

// ComponentView is a view over one picture component's transform
// coefficients within a single slice, spanning every subband. data holds
// the flat per-picture coefficient array for the component (shared across
// all slices); stride/offset select every stride'th entry starting at
// offset, which is how interleaved low-delay C1/C2 storage is expressed
// without a copy.
type ComponentView struct {
	data   []*big.Int
	params sliceindex.Parameters
	dims   []sliceindex.Dimensions
	sx, sy int
	stride int
	offset int
}

// Subband returns a view over one of this component's subbands, addressed
// either by flat subband index or by (level, subband name).
func (c ComponentView) Subband(subbandIndex int) ComponentSubbandView {
	return ComponentSubbandView{component: c, subbandIndex: subbandIndex}
}

// SubbandAt resolves (level, subband) to a flat index before returning the
// same view as Subband.
func (c ComponentView) SubbandAt(level int, subband sliceindex.Subband) (ComponentSubbandView, error) {
	idx, err := sliceindex.SubbandToIndex(level, subband, c.params.DWTDepth, c.params.DWTDepthHO)
	if err != nil {
		return ComponentSubbandView{}, err
	}
	return c.Subband(idx), nil
}

// Len is the number of subbands in this component.
func (c ComponentView) Len() int { return c.params.NumSubbands() }

// ComponentSubbandView is a view over the coefficients of a single subband
// within a single slice of a single component.
type ComponentSubbandView struct {
	component    ComponentView
	subbandIndex int
}

// Bounds returns the (x1, y1, x2, y2) bounds, within the full component,
// occupied by this slice's portion of the subband.
func (c ComponentSubbandView) Bounds() (x1, y1, x2, y2 int) {
	d := c.component.dims[c.subbandIndex]
	return c.component.params.SliceSubbandBounds(c.component.sx, c.component.sy, d.Width, d.Height)
}

// Dimensions is the (width, height) of this slice's subband data.
func (c ComponentSubbandView) Dimensions() (width, height int) {
	x1, y1, x2, y2 := c.Bounds()
	return x2 - x1, y2 - y1
}

// Len is the number of coefficients in this slice's subband.
func (c ComponentSubbandView) Len() int {
	w, h := c.Dimensions()
	return w * h
}

func (c ComponentSubbandView) coeffIndex(x, y int) (int, error) {
	return c.component.params.ToCoeffIndex(c.component.dims, c.component.sx, c.component.sy, c.subbandIndex, x, y)
}

// At returns the coefficient at (x, y) within this subband slice.
func (c ComponentSubbandView) At(x, y int) (*big.Int, error) {
	idx, err := c.coeffIndex(x, y)
	if err != nil {
		return nil, err
	}
	return c.component.data[c.component.offset+idx*c.component.stride], nil
}

// Set stores v at coefficient (x, y) within this subband slice.
func (c ComponentSubbandView) Set(x, y int, v *big.Int) error {
	idx, err := c.coeffIndex(x, y)
	if err != nil {
		return err
	}
	c.component.data[c.component.offset+idx*c.component.stride] = v
	return nil
}

// AtLinear addresses a coefficient by row-major linear index within the
// subband slice rather than by (x, y).
func (c ComponentSubbandView) AtLinear(i int) (*big.Int, error) {
	w, _ := c.Dimensions()
	if w == 0 {
		return c.At(0, 0)
	}
	return c.At(i%w, i/w)
}

// SetLinear is the Set analogue of AtLinear.
func (c ComponentSubbandView) SetLinear(i int, v *big.Int) error {
	w, _ := c.Dimensions()
	if w == 0 {
		return c.Set(0, 0, v)
	}
	return c.Set(i%w, i/w, v)
}
