// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2bitstream

// Presets supplies the picture dimensions implied by a non-custom
// base_video_format index (Table 11.1). The full set of preset tables
// (frame rate, pixel aspect ratio, signal range, colour specification) are
// out of scope: the traversal records which index was selected and, where
// a custom_*_flag is false, leaves resolving that index to whatever
// Presets implementation the caller supplies. Only base video format
// dimensions are resolved here, because slice geometry math needs a
// picture size to operate on at all.
type Presets interface {
	BaseVideoFormatDimensions(baseVideoFormat uint64) (lumaWidth, lumaHeight int)
}

// NoPresets resolves every base video format to a 0x0 picture. It is the
// default used when a caller has no real preset table to hand, and is only
// adequate for bitstreams that set custom_dimensions_flag.
type NoPresets struct{}

// BaseVideoFormatDimensions always reports a 0x0 picture.
func (NoPresets) BaseVideoFormatDimensions(uint64) (int, int) { return 0, 0 }

// colorDiffSubsamplingRatio returns the (horizontal, vertical) chroma
// subsampling divisors for a color_diff_format_index (Table 11.3): 4:4:4,
// 4:2:2, and 4:2:0 respectively. Unlike the base-video-format preset
// table, this mapping is a fixed three-entry enum rather than a large
// lookup table, so it is resolved directly rather than through Presets.
func colorDiffSubsamplingRatio(index uint64) (h, v int) {
	switch index {
	case 1:
		return 2, 1
	case 2:
		return 2, 2
	default:
		return 1, 1
	}
}
