// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package sliceindex

// Subband names one of the seven wavelet subbands in the order they appear
// in the bitstream: DC/L/LL first, then any horizontal-only "H" bands, then
// "HL"/"LH"/"HH" per remaining level.
type Subband string

const (
	DC Subband = "DC"
	L  Subband = "L"
	LL Subband = "LL"
	H  Subband = "H"
	HL Subband = "HL"
	LH Subband = "LH"
	HH Subband = "HH"
)

// IndexToSubband converts a flat subband index into its (level, subband)
// pair, given the 2-D transform depth and horizontal-only depth in effect.
func IndexToSubband(index, dwtDepth, dwtDepthHO int) (level int, subband Subband, err error) {
	defer errRecover(&err)
	switch {
	case index == 0:
		level = 0
		switch {
		case dwtDepth == 0 && dwtDepthHO == 0:
			subband = DC
		case dwtDepthHO != 0:
			subband = L
		default:
			subband = LL
		}
	case index < dwtDepthHO+1:
		level = index
		subband = H
	default:
		offset := index - dwtDepthHO - 1
		level = 1 + dwtDepthHO + offset/3
		switch offset % 3 {
		case 0:
			subband = HL
		case 1:
			subband = LH
		case 2:
			subband = HH
		}
	}
	if level > dwtDepth+dwtDepthHO {
		panic(ErrOutOfRange)
	}
	return level, subband, nil
}

// SubbandToIndex converts a (level, subband) pair into its flat subband
// index, given the 2-D transform depth and horizontal-only depth in effect.
func SubbandToIndex(level int, subband Subband, dwtDepth, dwtDepthHO int) (index int, err error) {
	defer errRecover(&err)
	switch {
	case level == 0:
		want := DC
		switch {
		case dwtDepthHO > 0:
			want = L
		case dwtDepth > 0:
			want = LL
		}
		if subband != want {
			panic(ErrOutOfRange)
		}
		return 0, nil
	case level < 1+dwtDepthHO:
		if subband != H {
			panic(ErrOutOfRange)
		}
		return level, nil
	case level < 1+dwtDepthHO+dwtDepth:
		var sub int
		switch subband {
		case HL:
			sub = 0
		case LH:
			sub = 1
		case HH:
			sub = 2
		default:
			panic(ErrOutOfRange)
		}
		return 1 + dwtDepthHO + (level-dwtDepthHO-1)*3 + sub, nil
	default:
		panic(ErrOutOfRange)
	}
}
