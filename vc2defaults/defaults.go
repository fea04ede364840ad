// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package vc2defaults supplies serdes.DefaultValues tables for every
// vc2bitstream record type, so a Serialiser can fill in constants (the
// parse-info prefix, zero-length byte slices, ...) for trees built with
// NewFrom from a partial map rather than New with its field defaults
// already applied.
package vc2defaults

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/serdes"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

func bi(v int64) *big.Int { return big.NewInt(v) }

func emptyBits() interface{} { return bitio.NewBitArray(0) }
func emptyBytes() interface{} { return []byte{} }

// DefaultValues mirrors the field defaults already declared on each
// vc2bitstream record type, for callers whose trees are built with
// RecordType.NewFrom (which applies no defaults) rather than New.
var DefaultValues = serdes.DefaultValues{
	vc2bitstream.ParseInfoType: {
		"parse_info_prefix":     uint64(vc2bitstream.ParseInfoPrefix),
		"parse_code":            uint64(0),
		"next_parse_offset":     uint64(0),
		"previous_parse_offset": uint64(0),
	},
	vc2bitstream.AuxiliaryDataType: {
		"padding": emptyBits(),
		"bytes":   emptyBytes(),
	},
	vc2bitstream.PaddingType: {
		"padding": emptyBits(),
		"bytes":   emptyBytes(),
	},
	vc2bitstream.ParseParametersType: {
		"major_version": bi(3),
		"minor_version": bi(0),
		"profile":       bi(3),
		"level":         bi(0),
	},
	vc2bitstream.FrameSizeType: {
		"custom_dimensions_flag": false,
	},
	vc2bitstream.ColorDiffSamplingFormatType: {
		"custom_color_diff_format_flag": false,
	},
	vc2bitstream.ScanFormatType: {
		"custom_scan_format_flag": false,
	},
	vc2bitstream.FrameRateType: {
		"custom_frame_rate_flag": false,
	},
	vc2bitstream.PixelAspectRatioType: {
		"custom_pixel_aspect_ratio_flag": false,
	},
	vc2bitstream.CleanAreaType: {
		"custom_clean_area_flag": false,
	},
	vc2bitstream.SignalRangeType: {
		"custom_signal_range_flag": false,
	},
	vc2bitstream.ColorPrimariesType: {
		"custom_color_primaries_flag": false,
	},
	vc2bitstream.ColorMatrixType: {
		"custom_color_matrix_flag": false,
	},
	vc2bitstream.TransferFunctionType: {
		"custom_transfer_function_flag": false,
	},
	vc2bitstream.ColorSpecType: {
		"custom_color_spec_flag": false,
	},
	vc2bitstream.SequenceHeaderType: {
		"padding":             emptyBits(),
		"base_video_format":   bi(0),
		"picture_coding_mode": bi(0),
	},
	vc2bitstream.ExtendedTransformParametersType: {
		"asym_transform_index_flag": false,
		"asym_transform_flag":       false,
	},
	vc2bitstream.SliceParametersType: {
		"slices_x": bi(1),
		"slices_y": bi(1),
	},
	vc2bitstream.QuantMatrixType: {
		"custom_quant_matrix": false,
	},
	vc2bitstream.TransformParametersType: {
		"wavelet_index": bi(0),
		"dwt_depth":     bi(0),
	},
	vc2bitstream.PictureHeaderType: {
		"picture_number": uint64(0),
	},
	vc2bitstream.WaveletTransformType: {
		"padding": emptyBits(),
	},
	vc2bitstream.PictureParseType: {
		"padding1": emptyBits(),
		"padding2": emptyBits(),
	},
	vc2bitstream.FragmentHeaderType: {
		"picture_number":       uint64(0),
		"fragment_data_length": uint64(0),
		"fragment_slice_count": uint64(0),
	},
	vc2bitstream.FragmentParseType: {
		"padding1": emptyBits(),
		"padding2": emptyBits(),
	},
}

// AutoDefaultValues is DefaultValues with valuetree.Auto set as the default
// for every field the autofill package can compute: parse_info's
// next/previous_parse_offset, parse_parameters' major_version, and the
// picture_number carried by picture and fragment headers. Passing this
// table to serdes.NewSerialiser lets a tree omit those fields entirely and
// have autofill.AutofillAndSerialiseStream resolve them before any byte is
// written.
var AutoDefaultValues = withAutoDefaults()

func withAutoDefaults() serdes.DefaultValues {
	out := make(serdes.DefaultValues, len(DefaultValues))
	for rt, fields := range DefaultValues {
		copied := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out[rt] = copied
	}
	out[vc2bitstream.ParseInfoType]["next_parse_offset"] = valuetree.Auto
	out[vc2bitstream.ParseInfoType]["previous_parse_offset"] = valuetree.Auto
	out[vc2bitstream.ParseParametersType]["major_version"] = valuetree.Auto
	out[vc2bitstream.PictureHeaderType]["picture_number"] = valuetree.Auto
	out[vc2bitstream.FragmentHeaderType]["picture_number"] = valuetree.Auto
	return out
}
