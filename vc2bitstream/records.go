// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2bitstream

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// ParseInfoPrefix is the fixed 32-bit magic value ("BBCD") every parse_info
// header begins with.
const ParseInfoPrefix = 0x42424344

func bi(v int64) *big.Int { return big.NewInt(v) }

var ParseInfoType = valuetree.NewRecordType("ParseInfo",
	valuetree.FieldDef{Name: "padding"},
	valuetree.FieldDef{Name: "parse_info_prefix", Default: uint64(ParseInfoPrefix)},
	valuetree.FieldDef{Name: "parse_code", Default: uint64(0)},
	valuetree.FieldDef{Name: "next_parse_offset", Default: uint64(0)},
	valuetree.FieldDef{Name: "previous_parse_offset", Default: uint64(0)},
	valuetree.FieldDef{Name: "_offset"},
)

var AuxiliaryDataType = valuetree.NewRecordType("AuxiliaryData",
	valuetree.FieldDef{Name: "padding", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "bytes", DefaultFactory: func() interface{} { return []byte{} }},
)

var PaddingType = valuetree.NewRecordType("Padding",
	valuetree.FieldDef{Name: "padding", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "bytes", DefaultFactory: func() interface{} { return []byte{} }},
)

var ParseParametersType = valuetree.NewRecordType("ParseParameters",
	valuetree.FieldDef{Name: "major_version", Default: bi(3)},
	valuetree.FieldDef{Name: "minor_version", Default: bi(0)},
	valuetree.FieldDef{Name: "profile", Default: bi(3)},
	valuetree.FieldDef{Name: "level", Default: bi(0)},
)

var FrameSizeType = valuetree.NewRecordType("FrameSize",
	valuetree.FieldDef{Name: "custom_dimensions_flag", Default: false},
	valuetree.FieldDef{Name: "frame_width"},
	valuetree.FieldDef{Name: "frame_height"},
)

var ColorDiffSamplingFormatType = valuetree.NewRecordType("ColorDiffSamplingFormat",
	valuetree.FieldDef{Name: "custom_color_diff_format_flag", Default: false},
	valuetree.FieldDef{Name: "color_diff_format_index"},
)

var ScanFormatType = valuetree.NewRecordType("ScanFormat",
	valuetree.FieldDef{Name: "custom_scan_format_flag", Default: false},
	valuetree.FieldDef{Name: "source_sampling"},
)

var FrameRateType = valuetree.NewRecordType("FrameRate",
	valuetree.FieldDef{Name: "custom_frame_rate_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
	valuetree.FieldDef{Name: "frame_rate_numer"},
	valuetree.FieldDef{Name: "frame_rate_denom"},
)

var PixelAspectRatioType = valuetree.NewRecordType("PixelAspectRatio",
	valuetree.FieldDef{Name: "custom_pixel_aspect_ratio_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
	valuetree.FieldDef{Name: "pixel_aspect_ratio_numer"},
	valuetree.FieldDef{Name: "pixel_aspect_ratio_denom"},
)

var CleanAreaType = valuetree.NewRecordType("CleanArea",
	valuetree.FieldDef{Name: "custom_clean_area_flag", Default: false},
	valuetree.FieldDef{Name: "clean_width"},
	valuetree.FieldDef{Name: "clean_height"},
	valuetree.FieldDef{Name: "left_offset"},
	valuetree.FieldDef{Name: "top_offset"},
)

var SignalRangeType = valuetree.NewRecordType("SignalRange",
	valuetree.FieldDef{Name: "custom_signal_range_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
	valuetree.FieldDef{Name: "luma_offset"},
	valuetree.FieldDef{Name: "luma_excursion"},
	valuetree.FieldDef{Name: "color_diff_offset"},
	valuetree.FieldDef{Name: "color_diff_excursion"},
)

var ColorPrimariesType = valuetree.NewRecordType("ColorPrimaries",
	valuetree.FieldDef{Name: "custom_color_primaries_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
)

var ColorMatrixType = valuetree.NewRecordType("ColorMatrix",
	valuetree.FieldDef{Name: "custom_color_matrix_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
)

var TransferFunctionType = valuetree.NewRecordType("TransferFunction",
	valuetree.FieldDef{Name: "custom_transfer_function_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
)

var ColorSpecType = valuetree.NewRecordType("ColorSpec",
	valuetree.FieldDef{Name: "custom_color_spec_flag", Default: false},
	valuetree.FieldDef{Name: "index"},
	valuetree.FieldDef{Name: "color_primaries"},
	valuetree.FieldDef{Name: "color_matrix"},
	valuetree.FieldDef{Name: "transfer_function"},
)

var SourceParametersType = valuetree.NewRecordType("SourceParameters",
	valuetree.FieldDef{Name: "frame_size", DefaultFactory: func() interface{} { return FrameSizeType.New(nil) }},
	valuetree.FieldDef{Name: "color_diff_sampling_format", DefaultFactory: func() interface{} { return ColorDiffSamplingFormatType.New(nil) }},
	valuetree.FieldDef{Name: "scan_format", DefaultFactory: func() interface{} { return ScanFormatType.New(nil) }},
	valuetree.FieldDef{Name: "frame_rate", DefaultFactory: func() interface{} { return FrameRateType.New(nil) }},
	valuetree.FieldDef{Name: "pixel_aspect_ratio", DefaultFactory: func() interface{} { return PixelAspectRatioType.New(nil) }},
	valuetree.FieldDef{Name: "clean_area", DefaultFactory: func() interface{} { return CleanAreaType.New(nil) }},
	valuetree.FieldDef{Name: "signal_range", DefaultFactory: func() interface{} { return SignalRangeType.New(nil) }},
	valuetree.FieldDef{Name: "color_spec", DefaultFactory: func() interface{} { return ColorSpecType.New(nil) }},
)

var SequenceHeaderType = valuetree.NewRecordType("SequenceHeader",
	valuetree.FieldDef{Name: "padding", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "parse_parameters", DefaultFactory: func() interface{} { return ParseParametersType.New(nil) }},
	valuetree.FieldDef{Name: "base_video_format", Default: bi(0)},
	valuetree.FieldDef{Name: "video_parameters", DefaultFactory: func() interface{} { return SourceParametersType.New(nil) }},
	valuetree.FieldDef{Name: "picture_coding_mode", Default: bi(0)},
)

var ExtendedTransformParametersType = valuetree.NewRecordType("ExtendedTransformParameters",
	valuetree.FieldDef{Name: "asym_transform_index_flag", Default: false},
	valuetree.FieldDef{Name: "wavelet_index_ho"},
	valuetree.FieldDef{Name: "asym_transform_flag", Default: false},
	valuetree.FieldDef{Name: "dwt_depth_ho"},
)

var SliceParametersType = valuetree.NewRecordType("SliceParameters",
	valuetree.FieldDef{Name: "slices_x", Default: bi(1)},
	valuetree.FieldDef{Name: "slices_y", Default: bi(1)},
	valuetree.FieldDef{Name: "slice_bytes_numerator"},
	valuetree.FieldDef{Name: "slice_bytes_denominator"},
	valuetree.FieldDef{Name: "slice_prefix_bytes"},
	valuetree.FieldDef{Name: "slice_size_scaler"},
)

var QuantMatrixType = valuetree.NewRecordType("QuantMatrix",
	valuetree.FieldDef{Name: "custom_quant_matrix", Default: false},
	valuetree.FieldDef{Name: "quant_matrix"},
)

var TransformParametersType = valuetree.NewRecordType("TransformParameters",
	valuetree.FieldDef{Name: "wavelet_index", Default: bi(0)},
	valuetree.FieldDef{Name: "dwt_depth", Default: bi(0)},
	valuetree.FieldDef{Name: "extended_transform_parameters", DefaultFactory: func() interface{} { return ExtendedTransformParametersType.New(nil) }},
	valuetree.FieldDef{Name: "slice_parameters", DefaultFactory: func() interface{} { return SliceParametersType.New(nil) }},
	valuetree.FieldDef{Name: "quant_matrix", DefaultFactory: func() interface{} { return QuantMatrixType.New(nil) }},
)

var PictureHeaderType = valuetree.NewRecordType("PictureHeader",
	valuetree.FieldDef{Name: "picture_number", Default: uint64(0)},
)

var WaveletTransformType = valuetree.NewRecordType("WaveletTransform",
	valuetree.FieldDef{Name: "transform_parameters", DefaultFactory: func() interface{} { return TransformParametersType.New(nil) }},
	valuetree.FieldDef{Name: "padding", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "ld_slice_array"},
	valuetree.FieldDef{Name: "hq_slice_array"},
)

var PictureParseType = valuetree.NewRecordType("PictureParse",
	valuetree.FieldDef{Name: "padding1", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "picture_header", DefaultFactory: func() interface{} { return PictureHeaderType.New(nil) }},
	valuetree.FieldDef{Name: "padding2", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "wavelet_transform", DefaultFactory: func() interface{} { return WaveletTransformType.New(nil) }},
)

var FragmentHeaderType = valuetree.NewRecordType("FragmentHeader",
	valuetree.FieldDef{Name: "picture_number", Default: uint64(0)},
	valuetree.FieldDef{Name: "fragment_data_length", Default: uint64(0)},
	valuetree.FieldDef{Name: "fragment_slice_count", Default: uint64(0)},
	valuetree.FieldDef{Name: "fragment_x_offset"},
	valuetree.FieldDef{Name: "fragment_y_offset"},
)

var FragmentParseType = valuetree.NewRecordType("FragmentParse",
	valuetree.FieldDef{Name: "padding1", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "fragment_header", DefaultFactory: func() interface{} { return FragmentHeaderType.New(nil) }},
	valuetree.FieldDef{Name: "padding2", DefaultFactory: func() interface{} { return bitio.NewBitArray(0) }},
	valuetree.FieldDef{Name: "transform_parameters"},
	valuetree.FieldDef{Name: "ld_slice_array"},
	valuetree.FieldDef{Name: "hq_slice_array"},
)

var DataUnitType = valuetree.NewRecordType("DataUnit",
	valuetree.FieldDef{Name: "parse_info", DefaultFactory: func() interface{} { return ParseInfoType.New(nil) }},
	valuetree.FieldDef{Name: "sequence_header"},
	valuetree.FieldDef{Name: "picture_parse"},
	valuetree.FieldDef{Name: "fragment_parse"},
	valuetree.FieldDef{Name: "auxiliary_data"},
	valuetree.FieldDef{Name: "padding"},
)

var SequenceType = valuetree.NewRecordType("Sequence",
	valuetree.FieldDef{Name: "data_units"},
)

var StreamType = valuetree.NewRecordType("Stream",
	valuetree.FieldDef{Name: "sequences"},
)

// LDSliceArrayType and HQSliceArrayType hold the slice-array store's
// parallel arrays as declared serdes lists; sliceindex.Parameters and the
// columnar views in package slicearray interpret the resulting lists, so
// these record types carry only the field names and the computed metadata
// the traversal stashes alongside them.
var LDSliceArrayType = valuetree.NewRecordType("LDSliceArray",
	valuetree.FieldDef{Name: "_parameters"},
	valuetree.FieldDef{Name: "_slice_bytes_numerator"},
	valuetree.FieldDef{Name: "_slice_bytes_denominator"},
	valuetree.FieldDef{Name: "qindex"},
	valuetree.FieldDef{Name: "slice_y_length"},
	valuetree.FieldDef{Name: "y_transform"},
	valuetree.FieldDef{Name: "c1_transform"},
	valuetree.FieldDef{Name: "c2_transform"},
	valuetree.FieldDef{Name: "y_block_padding"},
	valuetree.FieldDef{Name: "c_block_padding"},
)

var HQSliceArrayType = valuetree.NewRecordType("HQSliceArray",
	valuetree.FieldDef{Name: "_parameters"},
	valuetree.FieldDef{Name: "_slice_prefix_bytes"},
	valuetree.FieldDef{Name: "_slice_size_scaler"},
	valuetree.FieldDef{Name: "prefix_bytes"},
	valuetree.FieldDef{Name: "qindex"},
	valuetree.FieldDef{Name: "slice_y_length"},
	valuetree.FieldDef{Name: "slice_c1_length"},
	valuetree.FieldDef{Name: "slice_c2_length"},
	valuetree.FieldDef{Name: "y_transform"},
	valuetree.FieldDef{Name: "c1_transform"},
	valuetree.FieldDef{Name: "c2_transform"},
	valuetree.FieldDef{Name: "y_block_padding"},
	valuetree.FieldDef{Name: "c1_block_padding"},
	valuetree.FieldDef{Name: "c2_block_padding"},
)
