// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package slicearray

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/sliceindex"
)

func testParameters() sliceindex.Parameters {
	return sliceindex.Parameters{
		SlicesX: 2, SlicesY: 2, SliceCount: 4,
		DWTDepth: 1, DWTDepthHO: 0,
		LumaWidth: 8, LumaHeight: 8,
		ColorDiffWidth: 4, ColorDiffHeight: 4,
	}
}

func TestLDSliceArrayQIndexRoundTrip(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	for sy := 0; sy < 2; sy++ {
		for sx := 0; sx < 2; sx++ {
			a.Slice(sx, sy).SetQIndex(uint64(sx + sy*2))
		}
	}
	for sy := 0; sy < 2; sy++ {
		for sx := 0; sx < 2; sx++ {
			assert.Equal(t, uint64(sx+sy*2), a.Slice(sx, sy).QIndex())
		}
	}
}

func TestLDSliceArrayLengthSumsToTotalBytes(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	total := 0
	for sy := 0; sy < 2; sy++ {
		for sx := 0; sx < 2; sx++ {
			total += a.Slice(sx, sy).Length()
		}
	}
	assert.Equal(t, 8*17, total)
}

func TestLDSliceViewTrueSliceYLengthClamps(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	v := a.Slice(0, 0)
	v.SetSliceYLength(1 << 30)
	assert.Equal(t, v.Length()-v.HeaderLength(), v.TrueSliceYLength())
}

func TestComponentViewCoefficientRoundTrip(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	v := a.Slice(1, 0)
	sb := v.YTransform().Subband(0)
	w, h := sb.Dimensions()
	require.True(t, w > 0 && h > 0)
	require.NoError(t, sb.Set(0, 0, big.NewInt(42)))
	got, err := sb.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), got)
}

func TestLDSliceInterleavedC1C2DoNotAlias(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	v := a.Slice(0, 0)
	require.NoError(t, v.C1Transform().Subband(0).Set(0, 0, big.NewInt(1)))
	require.NoError(t, v.C2Transform().Subband(0).Set(0, 0, big.NewInt(2)))
	c1, err := v.C1Transform().Subband(0).At(0, 0)
	require.NoError(t, err)
	c2, err := v.C2Transform().Subband(0).At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), c1)
	assert.Equal(t, big.NewInt(2), c2)
}

func TestHQSliceArrayLengthsAreIndependentPerComponent(t *testing.T) {
	p := testParameters()
	a := NewHQSliceArray(p, 0, 1)
	v := a.Slice(0, 0)
	v.SetSliceYLength(10)
	v.SetSliceC1Length(20)
	v.SetSliceC2Length(30)
	assert.Equal(t, 8*10, v.TrueSliceYLength())
	assert.Equal(t, 8*20, v.TrueSliceC1Length())
	assert.Equal(t, 8*30, v.TrueSliceC2Length())
}

func TestToCoeffIndexOutOfRangeSurfacesAsError(t *testing.T) {
	p := testParameters()
	a := NewLDSliceArray(p, 17, 4)
	v := a.Slice(0, 0)
	_, err := v.YTransform().Subband(0).At(-1, 0)
	assert.ErrorIs(t, err, sliceindex.ErrOutOfRange)
}
