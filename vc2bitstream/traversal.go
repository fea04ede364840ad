// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2bitstream

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/serdes"
	"github.com/bbc/vc2-conformance-sub004/sliceindex"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

func toInt(v *big.Int) int { return int(v.Int64()) }

// Positioner is implemented by serdes.Deserialiser and serdes.Serialiser,
// giving the traversal access to the current byte offset so it can stash
// one in every parse_info for the auto-fill package's second pass. Back-
// ends without a notion of position (PadTruncate, or a SerDes wrapped in
// something that doesn't forward it) simply don't satisfy this interface,
// and parseInfo falls back to recording offset 0.
type Positioner interface {
	Tell() bitio.Position
}

// eofChecker is implemented by serdes.Deserialiser, letting ParseStream
// detect the end of a concatenation of sequences when reading (there is no
// length prefix; VC-2 sequences are self-delimiting only by end-of-sequence
// parse codes, so the final word on "is there another one" is whether any
// bytes remain at all).
type eofChecker interface {
	AtEnd() bool
}

// ParseStream drives s through one or more back-to-back sequences, each
// parsed independently by ParseSequence with its own fresh State (picture
// and fragment bookkeeping never carries across a sequence boundary). For
// a Deserialiser this reads sequences until the underlying source is
// exhausted; for back-ends driven by a pre-populated tree (Serialiser,
// PadTruncate) it stops once the declared sequences list is exhausted.
func ParseStream(s serdes.SerDes, newState func() *State) error {
	if err := s.DeclareList("sequences"); err != nil {
		return err
	}
	for {
		if err := sequenceInStream(s, newState); err != nil {
			return err
		}
		if more, ok := s.(eofChecker); ok {
			if more.AtEnd() {
				return nil
			}
			continue
		}
		if s.IsTargetComplete("sequences") {
			return nil
		}
	}
}

func sequenceInStream(s serdes.SerDes, newState func() *State) (err error) {
	if err := s.SubcontextEnter("sequences", SequenceType); err != nil {
		return err
	}
	defer func() {
		if leaveErr := s.SubcontextLeave(); err == nil {
			err = leaveErr
		}
	}()
	return ParseSequence(s, newState())
}

// ParseSequence drives s through an entire sequence (10.4.1): a leading
// data unit, then data units in a loop until one carries an end-of-sequence
// parse code.
func ParseSequence(s serdes.SerDes, st *State) error {
	if err := s.DeclareList("data_units"); err != nil {
		return err
	}
	for {
		done, err := dataUnit(s, st)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func dataUnit(s serdes.SerDes, st *State) (done bool, err error) {
	if err := s.SubcontextEnter("data_units", DataUnitType); err != nil {
		return false, err
	}
	defer func() {
		if leaveErr := s.SubcontextLeave(); err == nil {
			err = leaveErr
		}
	}()

	if err := s.Subcontext("parse_info", ParseInfoType, func() error {
		return parseInfo(s, st)
	}); err != nil {
		return false, err
	}

	switch {
	case isSeqHeader(st.ParseCode):
		err = s.Subcontext("sequence_header", SequenceHeaderType, func() error {
			return sequenceHeader(s, st)
		})
	case isPicture(st.ParseCode):
		err = s.Subcontext("picture_parse", PictureParseType, func() error {
			return pictureParse(s, st)
		})
	case isFragment(st.ParseCode):
		err = s.Subcontext("fragment_parse", FragmentParseType, func() error {
			return fragmentParse(s, st)
		})
	case isAuxiliaryData(st.ParseCode):
		err = s.Subcontext("auxiliary_data", AuxiliaryDataType, func() error {
			return auxiliaryData(s, st)
		})
	case isPaddingData(st.ParseCode):
		err = s.Subcontext("padding", PaddingType, func() error {
			return padding(s, st)
		})
	}
	if err != nil {
		return false, err
	}
	return isEndOfSequence(st.ParseCode), nil
}

// parseInfo reads a parse_info header (10.5.1). The byte_align the
// standard's wording requires but its pseudocode omits is reproduced here
// regardless, matching the traversal this was ported from.
func parseInfo(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding"); err != nil {
		return err
	}
	var offset int64
	if p, ok := s.(Positioner); ok {
		offset = p.Tell().Byte
	}
	if err := s.ComputedValue("_offset", offset); err != nil {
		return err
	}
	if _, err := s.UintLit("parse_info_prefix", 4); err != nil {
		return err
	}
	code, err := s.UintLit("parse_code", 1)
	if err != nil {
		return err
	}
	st.ParseCode = code
	next, err := s.UintLit("next_parse_offset", 4)
	if err != nil {
		return err
	}
	st.NextParseOffset = next
	prev, err := s.UintLit("previous_parse_offset", 4)
	if err != nil {
		return err
	}
	st.PreviousParseOffset = prev
	return nil
}

func trailingBytes(nextParseOffset uint64) int {
	n := int(nextParseOffset) - ParseInfoHeaderBytes
	if n < 0 {
		n = 0
	}
	return n
}

// auxiliaryData reads an auxiliary data block (10.4.4).
func auxiliaryData(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding"); err != nil {
		return err
	}
	_, err := s.Bytes("bytes", trailingBytes(st.NextParseOffset))
	return err
}

// padding reads a padding data block (10.4.5).
func padding(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding"); err != nil {
		return err
	}
	_, err := s.Bytes("bytes", trailingBytes(st.NextParseOffset))
	return err
}

// sequenceHeader parses a sequence header (11.1).
func sequenceHeader(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding"); err != nil {
		return err
	}
	if err := s.Subcontext("parse_parameters", ParseParametersType, func() error {
		return parseParameters(s, st)
	}); err != nil {
		return err
	}
	bvf, err := s.Uint("base_video_format")
	if err != nil {
		return err
	}
	st.BaseVideoFormat = bvf.Uint64()
	if err := s.Subcontext("video_parameters", SourceParametersType, func() error {
		return sourceParameters(s, st)
	}); err != nil {
		return err
	}
	_, err = s.Uint("picture_coding_mode")
	return err
}

// parseParameters reads the codec-identification fields (11.2.1).
func parseParameters(s serdes.SerDes, st *State) error {
	major, err := s.Uint("major_version")
	if err != nil {
		return err
	}
	st.MajorVersion = major.Uint64()
	if _, err := s.Uint("minor_version"); err != nil {
		return err
	}
	if _, err := s.Uint("profile"); err != nil {
		return err
	}
	_, err = s.Uint("level")
	return err
}

// sourceParameters parses the video source parameters (11.4.1).
func sourceParameters(s serdes.SerDes, st *State) error {
	if err := s.Subcontext("frame_size", FrameSizeType, func() error {
		return frameSize(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("color_diff_sampling_format", ColorDiffSamplingFormatType, func() error {
		return colorDiffSamplingFormat(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("scan_format", ScanFormatType, func() error {
		return scanFormat(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("frame_rate", FrameRateType, func() error {
		return frameRate(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("pixel_aspect_ratio", PixelAspectRatioType, func() error {
		return pixelAspectRatio(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("clean_area", CleanAreaType, func() error {
		return cleanArea(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("signal_range", SignalRangeType, func() error {
		return signalRange(s, st)
	}); err != nil {
		return err
	}
	return s.Subcontext("color_spec", ColorSpecType, func() error {
		return colorSpec(s, st)
	})
}

// frameSize overrides the picture dimensions (11.4.3).
func frameSize(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_dimensions_flag")
	if err != nil {
		return err
	}
	if custom {
		w, err := s.Uint("frame_width")
		if err != nil {
			return err
		}
		h, err := s.Uint("frame_height")
		if err != nil {
			return err
		}
		st.LumaWidth, st.LumaHeight = toInt(w), toInt(h)
		return nil
	}
	st.LumaWidth, st.LumaHeight = st.Presets.BaseVideoFormatDimensions(st.BaseVideoFormat)
	return nil
}

// colorDiffSamplingFormat overrides the chroma subsampling format (11.4.4).
func colorDiffSamplingFormat(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_color_diff_format_flag")
	if err != nil {
		return err
	}
	var index uint64
	if custom {
		v, err := s.Uint("color_diff_format_index")
		if err != nil {
			return err
		}
		index = v.Uint64()
	}
	h, v := colorDiffSubsamplingRatio(index)
	st.ColorDiffWidth, st.ColorDiffHeight = st.LumaWidth/h, st.LumaHeight/v
	return nil
}

// scanFormat overrides the source sampling parameter (11.4.5).
func scanFormat(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_scan_format_flag")
	if err != nil {
		return err
	}
	if custom {
		_, err = s.Uint("source_sampling")
	}
	return err
}

// frameRate overrides the frame rate parameter (11.4.6).
func frameRate(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_frame_rate_flag")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	index, err := s.Uint("index")
	if err != nil {
		return err
	}
	if index.Sign() != 0 {
		return nil
	}
	if _, err := s.Uint("frame_rate_numer"); err != nil {
		return err
	}
	_, err = s.Uint("frame_rate_denom")
	return err
}

// pixelAspectRatio overrides the pixel aspect ratio parameter (11.4.7).
func pixelAspectRatio(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_pixel_aspect_ratio_flag")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	index, err := s.Uint("index")
	if err != nil {
		return err
	}
	if index.Sign() != 0 {
		return nil
	}
	if _, err := s.Uint("pixel_aspect_ratio_numer"); err != nil {
		return err
	}
	_, err = s.Uint("pixel_aspect_ratio_denom")
	return err
}

// cleanArea overrides the clean area parameter (11.4.8).
func cleanArea(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_clean_area_flag")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	for _, target := range []string{"clean_width", "clean_height", "left_offset", "top_offset"} {
		if _, err := s.Uint(target); err != nil {
			return err
		}
	}
	return nil
}

// signalRange overrides the signal range parameter (11.4.9).
func signalRange(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_signal_range_flag")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	index, err := s.Uint("index")
	if err != nil {
		return err
	}
	if index.Sign() != 0 {
		return nil
	}
	for _, target := range []string{"luma_offset", "luma_excursion", "color_diff_offset", "color_diff_excursion"} {
		if _, err := s.Uint(target); err != nil {
			return err
		}
	}
	return nil
}

// colorSpec overrides the colour specification parameter (11.4.10.1).
func colorSpec(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_color_spec_flag")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	index, err := s.Uint("index")
	if err != nil {
		return err
	}
	if index.Sign() != 0 {
		return nil
	}
	if err := s.Subcontext("color_primaries", ColorPrimariesType, func() error {
		return colorPrimaries(s, st)
	}); err != nil {
		return err
	}
	if err := s.Subcontext("color_matrix", ColorMatrixType, func() error {
		return colorMatrix(s, st)
	}); err != nil {
		return err
	}
	return s.Subcontext("transfer_function", TransferFunctionType, func() error {
		return transferFunction(s, st)
	})
}

func colorPrimaries(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_color_primaries_flag")
	if err != nil {
		return err
	}
	if custom {
		_, err = s.Uint("index")
	}
	return err
}

func colorMatrix(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_color_matrix_flag")
	if err != nil {
		return err
	}
	if custom {
		_, err = s.Uint("index")
	}
	return err
}

func transferFunction(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_transfer_function_flag")
	if err != nil {
		return err
	}
	if custom {
		_, err = s.Uint("index")
	}
	return err
}

// pictureParse reads a whole picture (12.1).
func pictureParse(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding1"); err != nil {
		return err
	}
	if err := s.Subcontext("picture_header", PictureHeaderType, func() error {
		return pictureHeader(s, st)
	}); err != nil {
		return err
	}
	if _, err := s.ByteAlign("padding2"); err != nil {
		return err
	}
	return s.Subcontext("wavelet_transform", WaveletTransformType, func() error {
		return waveletTransform(s, st)
	})
}

// pictureHeader reads the picture number (12.2).
func pictureHeader(s serdes.SerDes, st *State) error {
	n, err := s.UintLit("picture_number", 4)
	if err != nil {
		return err
	}
	st.PictureNumber = n
	return nil
}

// waveletTransform reads the transform parameters and transform data
// (12.3).
func waveletTransform(s serdes.SerDes, st *State) error {
	if err := s.Subcontext("transform_parameters", TransformParametersType, func() error {
		return transformParameters(s, st)
	}); err != nil {
		return err
	}
	if _, err := s.ByteAlign("padding"); err != nil {
		return err
	}
	return transformData(s, st)
}

// transformParameters reads the wavelet transform parameters (12.4.1).
func transformParameters(s serdes.SerDes, st *State) error {
	wi, err := s.Uint("wavelet_index")
	if err != nil {
		return err
	}
	st.WaveletIndex = wi.Uint64()
	dd, err := s.Uint("dwt_depth")
	if err != nil {
		return err
	}
	st.DWTDepth = toInt(dd)

	st.WaveletIndexHO = st.WaveletIndex
	st.DWTDepthHO = 0
	if st.MajorVersion >= 3 {
		if err := s.Subcontext("extended_transform_parameters", ExtendedTransformParametersType, func() error {
			return extendedTransformParameters(s, st)
		}); err != nil {
			return err
		}
	}
	if err := s.Subcontext("slice_parameters", SliceParametersType, func() error {
		return sliceParameters(s, st)
	}); err != nil {
		return err
	}
	return s.Subcontext("quant_matrix", QuantMatrixType, func() error {
		return quantMatrix(s, st)
	})
}

// extendedTransformParameters reads the horizontal-only transform
// parameters (12.4.4.1).
func extendedTransformParameters(s serdes.SerDes, st *State) error {
	asymIndex, err := s.Bool("asym_transform_index_flag")
	if err != nil {
		return err
	}
	if asymIndex {
		v, err := s.Uint("wavelet_index_ho")
		if err != nil {
			return err
		}
		st.WaveletIndexHO = v.Uint64()
	}
	asymTransform, err := s.Bool("asym_transform_flag")
	if err != nil {
		return err
	}
	if asymTransform {
		v, err := s.Uint("dwt_depth_ho")
		if err != nil {
			return err
		}
		st.DWTDepthHO = toInt(v)
	}
	return nil
}

// sliceParameters reads the slice layout parameters (12.4.5.2).
func sliceParameters(s serdes.SerDes, st *State) error {
	sx, err := s.Uint("slices_x")
	if err != nil {
		return err
	}
	st.SlicesX = toInt(sx)
	sy, err := s.Uint("slices_y")
	if err != nil {
		return err
	}
	st.SlicesY = toInt(sy)

	if st.isLDPicture() || st.isLDFragment() {
		n, err := s.Uint("slice_bytes_numerator")
		if err != nil {
			return err
		}
		st.SliceBytesNumerator = toInt(n)
		d, err := s.Uint("slice_bytes_denominator")
		if err != nil {
			return err
		}
		st.SliceBytesDenominator = toInt(d)
	}
	if st.isHQPicture() || st.isHQFragment() {
		pb, err := s.Uint("slice_prefix_bytes")
		if err != nil {
			return err
		}
		st.SlicePrefixBytes = toInt(pb)
		scaler, err := s.Uint("slice_size_scaler")
		if err != nil {
			return err
		}
		st.SliceSizeScaler = toInt(scaler)
	}
	return nil
}

// quantMatrix reads the (optional) custom quantisation matrix (12.4.5.3),
// one entry per subband in bitstream order: level 0, then the remaining
// levels (a single H entry per horizontal-only level, HL/LH/HH per 2D
// level) — the same enumeration sliceindex.Parameters.NumSubbands counts.
func quantMatrix(s serdes.SerDes, st *State) error {
	custom, err := s.Bool("custom_quant_matrix")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}
	if err := s.DeclareList("quant_matrix"); err != nil {
		return err
	}
	return visitSubbandLevels(st, func() error {
		_, err := s.Uint("quant_matrix")
		return err
	})
}

// visitSubbandLevels calls visit once per subband, in the order VC-2
// transform data and the quantisation matrix both lay them out.
func visitSubbandLevels(st *State, visit func() error) error {
	if st.DWTDepthHO == 0 {
		if err := visit(); err != nil { // level 0: LL
			return err
		}
	} else {
		if err := visit(); err != nil { // level 0: L
			return err
		}
		for level := 1; level <= st.DWTDepthHO; level++ {
			if err := visit(); err != nil { // H
				return err
			}
		}
	}
	for level := st.DWTDepthHO + 1; level <= st.DWTDepthHO+st.DWTDepth; level++ {
		for orient := 0; orient < 3; orient++ { // HL, LH, HH
			if err := visit(); err != nil {
				return err
			}
		}
	}
	return nil
}

// fragmentParse reads a picture fragment (14.1).
func fragmentParse(s serdes.SerDes, st *State) error {
	if _, err := s.ByteAlign("padding1"); err != nil {
		return err
	}
	if err := s.Subcontext("fragment_header", FragmentHeaderType, func() error {
		return fragmentHeader(s, st)
	}); err != nil {
		return err
	}
	if _, err := s.ByteAlign("padding2"); err != nil {
		return err
	}
	if st.FragmentSliceCount == 0 {
		return s.Subcontext("transform_parameters", TransformParametersType, func() error {
			return transformParameters(s, st)
		})
	}
	return fragmentData(s, st)
}

// fragmentHeader reads the fragment header (14.2).
func fragmentHeader(s serdes.SerDes, st *State) error {
	n, err := s.UintLit("picture_number", 4)
	if err != nil {
		return err
	}
	st.PictureNumber = n
	if _, err := s.UintLit("fragment_data_length", 2); err != nil {
		return err
	}
	sliceCount, err := s.UintLit("fragment_slice_count", 2)
	if err != nil {
		return err
	}
	st.FragmentSliceCount = int(sliceCount)
	if st.FragmentSliceCount == 0 {
		return nil
	}
	xo, err := s.UintLit("fragment_x_offset", 2)
	if err != nil {
		return err
	}
	st.FragmentXOffset = int(xo)
	yo, err := s.UintLit("fragment_y_offset", 2)
	if err != nil {
		return err
	}
	st.FragmentYOffset = int(yo)
	return nil
}

// sliceIndexParameters builds the geometry shared by every slice-array
// operation over a contiguous run of slices starting at (startSX, startSY).
func (st *State) sliceIndexParameters(startSX, startSY, sliceCount int) sliceindex.Parameters {
	return sliceindex.Parameters{
		SlicesX: st.SlicesX, SlicesY: st.SlicesY,
		StartSX: startSX, StartSY: startSY,
		SliceCount: sliceCount,
		DWTDepth:   st.DWTDepth, DWTDepthHO: st.DWTDepthHO,
		LumaWidth: st.LumaWidth, LumaHeight: st.LumaHeight,
		ColorDiffWidth: st.ColorDiffWidth, ColorDiffHeight: st.ColorDiffHeight,
	}
}

// transformData reads every slice of a whole picture (13.5.2).
func transformData(s serdes.SerDes, st *State) error {
	return sliceArray(s, st, 0, 0, st.SlicesX*st.SlicesY, func() error {
		for sy := 0; sy < st.SlicesY; sy++ {
			for sx := 0; sx < st.SlicesX; sx++ {
				if err := slice(s, st, sx, sy); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// fragmentData reads the slices carried by a single fragment (14.4).
func fragmentData(s serdes.SerDes, st *State) error {
	return sliceArray(s, st, st.FragmentXOffset, st.FragmentYOffset, st.FragmentSliceCount, func() error {
		for i := 0; i < st.FragmentSliceCount; i++ {
			linear := st.FragmentYOffset*st.SlicesX + st.FragmentXOffset + i
			sx, sy := linear%st.SlicesX, linear/st.SlicesX
			if err := slice(s, st, sx, sy); err != nil {
				return err
			}
		}
		return nil
	})
}

// slice reads one slice (13.5.2), dispatching on the active picture or
// fragment's parse code.
func slice(s serdes.SerDes, st *State, sx, sy int) error {
	switch {
	case st.isLDPicture() || st.isLDFragment():
		return ldSlice(s, st, sx, sy)
	case st.isHQPicture() || st.isHQFragment():
		return hqSlice(s, st, sx, sy)
	}
	return nil
}

// sliceArray opens the ld_slice_array/hq_slice_array sub-context, stashes
// the geometry needed to interpret the declared lists it is about to
// populate, then runs fn before leaving. Not part of the syntax itself —
// bookkeeping shared by transformData and fragmentData.
func sliceArray(s serdes.SerDes, st *State, startSX, startSY, sliceCount int, fn func() error) (err error) {
	var target string
	var rt *valuetree.RecordType
	switch {
	case st.isLDPicture() || st.isLDFragment():
		target, rt = "ld_slice_array", LDSliceArrayType
	case st.isHQPicture() || st.isHQFragment():
		target, rt = "hq_slice_array", HQSliceArrayType
	default:
		return nil
	}

	if err := s.SubcontextEnter(target, rt); err != nil {
		return err
	}
	defer func() {
		if leaveErr := s.SubcontextLeave(); err == nil {
			err = leaveErr
		}
	}()

	params := st.sliceIndexParameters(startSX, startSY, sliceCount)
	if err := s.ComputedValue("_parameters", params); err != nil {
		return err
	}

	if rt == LDSliceArrayType {
		if err := s.ComputedValue("_slice_bytes_numerator", st.SliceBytesNumerator); err != nil {
			return err
		}
		if err := s.ComputedValue("_slice_bytes_denominator", st.SliceBytesDenominator); err != nil {
			return err
		}
		for _, target := range []string{"slice_y_length", "y_block_padding", "c_block_padding"} {
			if err := s.DeclareList(target); err != nil {
				return err
			}
		}
	} else {
		if err := s.ComputedValue("_slice_prefix_bytes", st.SlicePrefixBytes); err != nil {
			return err
		}
		if err := s.ComputedValue("_slice_size_scaler", st.SliceSizeScaler); err != nil {
			return err
		}
		for _, target := range []string{
			"prefix_bytes", "slice_y_length", "slice_c1_length", "slice_c2_length",
			"y_block_padding", "c1_block_padding", "c2_block_padding",
		} {
			if err := s.DeclareList(target); err != nil {
				return err
			}
		}
	}

	for _, target := range []string{"qindex", "y_transform", "c1_transform", "c2_transform"} {
		if err := s.DeclareList(target); err != nil {
			return err
		}
	}

	return fn()
}

// ldSlice reads one low-delay slice (13.5.3.1).
func ldSlice(s serdes.SerDes, st *State, sx, sy int) error {
	params := st.sliceIndexParameters(0, 0, st.SlicesX*st.SlicesY)
	totalBits := 8 * params.SliceBytes(sx, sy, st.SliceBytesNumerator, st.SliceBytesDenominator)
	bitsLeft := totalBits

	if _, err := s.NBits("qindex", 7); err != nil {
		return err
	}
	bitsLeft -= 7

	lengthBits := sliceindex.IntLog2(int64(totalBits - 7))
	sliceYLength, err := s.NBits("slice_y_length", lengthBits)
	if err != nil {
		return err
	}
	bitsLeft -= lengthBits

	// Not part of the standard: tolerate an oversized length field in a
	// malformed bitstream rather than reading past the slice.
	trueYLength := int(sliceYLength)
	if trueYLength > bitsLeft {
		trueYLength = bitsLeft
	}

	lumaDims := params.LumaSubbandDimensions()
	colorDiffDims := params.ColorDiffSubbandDimensions()

	if err := s.BoundedBlock(int64(trueYLength), "y_block_padding", func() error {
		return lumaSliceBands(s, st, params, lumaDims, "y_transform", sx, sy)
	}); err != nil {
		return err
	}
	bitsLeft -= trueYLength

	return s.BoundedBlock(int64(bitsLeft), "c_block_padding", func() error {
		idx := 0
		return visitSubbandLevels(st, func() error {
			d := colorDiffDims[idx]
			idx++
			x1, y1, x2, y2 := params.SliceSubbandBounds(sx, sy, d.Width, d.Height)
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					if _, err := s.Sint("c1_transform"); err != nil {
						return err
					}
					if _, err := s.Sint("c2_transform"); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

func lumaSliceBands(s serdes.SerDes, st *State, params sliceindex.Parameters, dims []sliceindex.Dimensions, transform string, sx, sy int) error {
	idx := 0
	return visitSubbandLevels(st, func() error {
		d := dims[idx]
		idx++
		x1, y1, x2, y2 := params.SliceSubbandBounds(sx, sy, d.Width, d.Height)
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				if _, err := s.Sint(transform); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// hqSlice reads one high-quality slice (13.5.4).
func hqSlice(s serdes.SerDes, st *State, sx, sy int) error {
	params := st.sliceIndexParameters(0, 0, st.SlicesX*st.SlicesY)

	if _, err := s.Bytes("prefix_bytes", st.SlicePrefixBytes); err != nil {
		return err
	}
	if _, err := s.NBits("qindex", 8); err != nil {
		return err
	}

	components := []struct {
		lengthTarget  string
		paddingTarget string
		transform     string
		colorDiff     bool
	}{
		{"slice_y_length", "y_block_padding", "y_transform", false},
		{"slice_c1_length", "c1_block_padding", "c1_transform", true},
		{"slice_c2_length", "c2_block_padding", "c2_transform", true},
	}
	lumaDims := params.LumaSubbandDimensions()
	colorDiffDims := params.ColorDiffSubbandDimensions()
	for _, comp := range components {
		lengthField, err := s.NBits(comp.lengthTarget, 8)
		if err != nil {
			return err
		}
		lengthBits := 8 * int(lengthField) * st.SliceSizeScaler
		dims := lumaDims
		if comp.colorDiff {
			dims = colorDiffDims
		}
		transform := comp.transform
		paddingTarget := comp.paddingTarget
		if err := s.BoundedBlock(int64(lengthBits), paddingTarget, func() error {
			return lumaSliceBands(s, st, params, dims, transform, sx, sy)
		}); err != nil {
			return err
		}
	}
	return nil
}
