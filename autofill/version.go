// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

// MinimumMajorVersion is the floor every sequence's deduced major_version
// is clamped above, regardless of which features it uses.
const MinimumMajorVersion = 1

// VersionPresets supplies the minimum major_version implied by each preset
// index a sequence header can select (profile, frame rate, signal range,
// colour specification and its three sub-presets). Like
// vc2bitstream.Presets, the preset *tables* themselves (which numeric
// index requires which version) are an external collaborator: this
// package only contains the deduction algorithm that walks a sequence and
// combines whatever a VersionPresets implementation reports.
type VersionPresets interface {
	ProfileVersion(profile uint64) int
	FrameRateVersion(index uint64) int
	SignalRangeVersion(index uint64) int
	ColorSpecVersion(index uint64) int
	ColorPrimariesVersion(index uint64) int
	ColorMatrixVersion(index uint64) int
	TransferFunctionVersion(index uint64) int
}

// MinimumVersionPresets reports MinimumMajorVersion for every preset,
// i.e. "assume no preset index implies anything beyond the floor". It is
// the default used when a caller has no real version-implication table to
// hand, adequate only for streams that avoid the preset mechanism
// entirely (custom_*_flag set, or no sequence headers at all).
type MinimumVersionPresets struct{}

func (MinimumVersionPresets) ProfileVersion(uint64) int          { return MinimumMajorVersion }
func (MinimumVersionPresets) FrameRateVersion(uint64) int        { return MinimumMajorVersion }
func (MinimumVersionPresets) SignalRangeVersion(uint64) int      { return MinimumMajorVersion }
func (MinimumVersionPresets) ColorSpecVersion(uint64) int        { return MinimumMajorVersion }
func (MinimumVersionPresets) ColorPrimariesVersion(uint64) int   { return MinimumMajorVersion }
func (MinimumVersionPresets) ColorMatrixVersion(uint64) int      { return MinimumMajorVersion }
func (MinimumVersionPresets) TransferFunctionVersion(uint64) int { return MinimumMajorVersion }

// parseCodeVersionImplication reports the minimum major_version a parse
// code requires. Fragmented pictures were introduced alongside low-delay
// profile support in major_version 3; every other parse code is
// compatible with the floor version.
func parseCodeVersionImplication(code uint64) int {
	if vc2bitstream.IsFragment(code) {
		return 3
	}
	return MinimumMajorVersion
}

// waveletTransformVersionImplication reports the minimum major_version a
// wavelet transform configuration requires: an asymmetric transform (a
// distinct horizontal-only wavelet index, or any horizontal-only depth)
// requires the extended_transform_parameters record, which in turn
// requires major_version 3.
func waveletTransformVersionImplication(waveletIndex, waveletIndexHO uint64, dwtDepthHO int) int {
	if waveletIndexHO != waveletIndex || dwtDepthHO != 0 {
		return 3
	}
	return MinimumMajorVersion
}

func maxVersion(a, b int) int {
	if b > a {
		return b
	}
	return a
}

// getTransformParameters returns the TransformParameters record reachable
// from du if du contains a picture, or the first fragment of a fragmented
// picture (identified by a zero fragment_slice_count), creating the
// intervening records if necessary. Returns nil for any other data unit.
func getTransformParameters(du *valuetree.Record) (*valuetree.Record, error) {
	parseInfo, err := parseInfoOf(du)
	if err != nil {
		return nil, err
	}
	code := getAutoUint64(parseInfo, "parse_code")

	if vc2bitstream.IsPicture(code) {
		picture, err := getChild(du, "picture_parse", vc2bitstream.PictureParseType)
		if err != nil {
			return nil, err
		}
		wavelet, err := getChild(picture, "wavelet_transform", vc2bitstream.WaveletTransformType)
		if err != nil {
			return nil, err
		}
		return getChild(wavelet, "transform_parameters", vc2bitstream.TransformParametersType)
	}

	if vc2bitstream.IsFragment(code) {
		fragment, err := getChild(du, "fragment_parse", vc2bitstream.FragmentParseType)
		if err != nil {
			return nil, err
		}
		header, err := getChild(fragment, "fragment_header", vc2bitstream.FragmentHeaderType)
		if err != nil {
			return nil, err
		}
		if getAutoUint64(header, "fragment_slice_count") == 0 {
			return getChild(fragment, "transform_parameters", vc2bitstream.TransformParametersType)
		}
	}

	return nil, nil
}

// AutofillMajorVersion walks each sequence in stream (a Stream record),
// deducing the minimum major_version that satisfies every feature used
// (parse codes, profile, the video-parameter presets, and wavelet
// transform symmetry), and writes it into every sequence header whose
// major_version is valuetree.Auto. presets supplies the preset-index
// version tables; a nil presets falls back to MinimumVersionPresets.
//
// As a side effect, wherever Auto was used for a sequence's version,
// extended_transform_parameters sub-records are stripped from the
// following transform-parameter records if the deduced version turns out
// to be below 3 (since such a sequence cannot have used an asymmetric
// transform, by construction of the deduction above). A sequence header
// with an explicit (non-Auto) major_version is left untouched, along with
// every transform-parameter record that follows it, since the explicit
// value may deliberately disagree with what auto-fill would deduce.
func AutofillMajorVersion(stream *valuetree.Record, presets VersionPresets) (err error) {
	defer errRecover(&err)
	if presets == nil {
		presets = MinimumVersionPresets{}
	}

	sequences, err := listRecords(stream, "sequences")
	if err != nil {
		return err
	}
	for _, seq := range sequences {
		if err := autofillMajorVersionInSequence(seq, presets); err != nil {
			return err
		}
	}
	return nil
}

func autofillMajorVersionInSequence(seq *valuetree.Record, presets VersionPresets) error {
	dataUnits, err := listRecords(seq, "data_units")
	if err != nil {
		return err
	}

	majorVersion := MinimumMajorVersion
	for _, du := range dataUnits {
		parseInfo, err := parseInfoOf(du)
		if err != nil {
			return err
		}
		code := getAutoUint64(parseInfo, "parse_code")
		majorVersion = maxVersion(majorVersion, parseCodeVersionImplication(code))

		if vc2bitstream.IsSeqHeader(code) {
			v, err := sequenceHeaderVersionImplication(du, presets)
			if err != nil {
				return err
			}
			majorVersion = maxVersion(majorVersion, v)
			continue
		}

		tp, err := getTransformParameters(du)
		if err != nil {
			return err
		}
		if tp == nil {
			continue
		}
		majorVersion = maxVersion(majorVersion, transformParametersVersionImplication(tp))
	}

	autoUsed := false
	for _, du := range dataUnits {
		parseInfo, err := parseInfoOf(du)
		if err != nil {
			return err
		}
		code := getAutoUint64(parseInfo, "parse_code")

		if vc2bitstream.IsSeqHeader(code) {
			seqHeader, err := getChild(du, "sequence_header", vc2bitstream.SequenceHeaderType)
			if err != nil {
				return err
			}
			parseParameters, err := getChild(seqHeader, "parse_parameters", vc2bitstream.ParseParametersType)
			if err != nil {
				return err
			}
			if valuetree.IsAuto(getAuto(parseParameters, "major_version")) {
				if err := parseParameters.Set("major_version", big.NewInt(int64(majorVersion))); err != nil {
					return err
				}
				autoUsed = true
			} else {
				autoUsed = false
			}
			continue
		}

		if !autoUsed {
			continue
		}
		tp, err := getTransformParameters(du)
		if err != nil {
			return err
		}
		if tp == nil {
			continue
		}
		if majorVersion < 3 {
			if _, has := tp.Get("extended_transform_parameters"); has {
				if err := tp.Delete("extended_transform_parameters"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func sequenceHeaderVersionImplication(du *valuetree.Record, presets VersionPresets) (int, error) {
	seqHeader, present, err := childRecord(du, "sequence_header")
	if err != nil {
		return 0, err
	}
	if !present {
		seqHeader, err = vc2bitstream.SequenceHeaderType.NewFrom(nil)
		if err != nil {
			return 0, err
		}
	}

	version := MinimumMajorVersion

	parseParameters, present, err := childRecord(seqHeader, "parse_parameters")
	if err != nil {
		return 0, err
	}
	if !present {
		parseParameters, err = vc2bitstream.ParseParametersType.NewFrom(nil)
		if err != nil {
			return 0, err
		}
	}
	profile := getAutoUint64(parseParameters, "profile")
	version = maxVersion(version, presets.ProfileVersion(profile))

	videoParameters, present, err := childRecord(seqHeader, "video_parameters")
	if err != nil {
		return 0, err
	}
	if !present {
		videoParameters, err = vc2bitstream.SourceParametersType.NewFrom(nil)
		if err != nil {
			return 0, err
		}
	}

	if frameRate, present, err := childRecord(videoParameters, "frame_rate"); err != nil {
		return 0, err
	} else if present && getAutoBool(frameRate, "custom_frame_rate_flag") {
		version = maxVersion(version, presets.FrameRateVersion(getAutoUint64(frameRate, "index")))
	}

	if signalRange, present, err := childRecord(videoParameters, "signal_range"); err != nil {
		return 0, err
	} else if present && getAutoBool(signalRange, "custom_signal_range_flag") {
		version = maxVersion(version, presets.SignalRangeVersion(getAutoUint64(signalRange, "index")))
	}

	colorSpec, present, err := childRecord(videoParameters, "color_spec")
	if err != nil {
		return 0, err
	}
	if present && getAutoBool(colorSpec, "custom_color_spec_flag") {
		index := getAutoUint64(colorSpec, "index")
		version = maxVersion(version, presets.ColorSpecVersion(index))

		if index == 0 {
			if colorPrimaries, present, err := childRecord(colorSpec, "color_primaries"); err != nil {
				return 0, err
			} else if present && getAutoBool(colorPrimaries, "custom_color_primaries_flag") {
				version = maxVersion(version, presets.ColorPrimariesVersion(getAutoUint64(colorPrimaries, "index")))
			}
			if colorMatrix, present, err := childRecord(colorSpec, "color_matrix"); err != nil {
				return 0, err
			} else if present && getAutoBool(colorMatrix, "custom_color_matrix_flag") {
				version = maxVersion(version, presets.ColorMatrixVersion(getAutoUint64(colorMatrix, "index")))
			}
			if transferFunction, present, err := childRecord(colorSpec, "transfer_function"); err != nil {
				return 0, err
			} else if present && getAutoBool(transferFunction, "custom_transfer_function_flag") {
				version = maxVersion(version, presets.TransferFunctionVersion(getAutoUint64(transferFunction, "index")))
			}
		}
	}

	return version, nil
}

func transformParametersVersionImplication(tp *valuetree.Record) int {
	waveletIndex := getAutoUint64(tp, "wavelet_index")
	waveletIndexHO := waveletIndex
	dwtDepthHO := 0

	if etp, present, err := childRecord(tp, "extended_transform_parameters"); err == nil && present {
		if getAutoBool(etp, "asym_transform_index_flag") {
			waveletIndexHO = getAutoUint64(etp, "wavelet_index_ho")
		}
		if getAutoBool(etp, "asym_transform_flag") {
			dwtDepthHO = int(getAutoUint64(etp, "dwt_depth_ho"))
		}
	}

	return waveletTransformVersionImplication(waveletIndex, waveletIndexHO, dwtDepthHO)
}
