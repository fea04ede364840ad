// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

func newSequenceHeaderDataUnit(t *testing.T, majorVersion interface{}) *valuetree.Record {
	t.Helper()
	parseParameters, err := vc2bitstream.ParseParametersType.NewFrom(map[string]interface{}{
		"major_version": majorVersion,
	})
	require.NoError(t, err)
	seqHeader, err := vc2bitstream.SequenceHeaderType.NewFrom(map[string]interface{}{
		"parse_parameters": parseParameters,
	})
	require.NoError(t, err)
	return newDataUnit(t, map[string]interface{}{
		"parse_info":      newParseInfo(t, vc2bitstream.ParseCodeSequenceHeader),
		"sequence_header": seqHeader,
	})
}

func majorVersionOf(t *testing.T, du *valuetree.Record) int64 {
	t.Helper()
	v, ok := du.Get("sequence_header")
	require.True(t, ok)
	seqHeader := v.(*valuetree.Record)
	v, ok = seqHeader.Get("parse_parameters")
	require.True(t, ok)
	parseParameters := v.(*valuetree.Record)
	v, ok = parseParameters.Get("major_version")
	require.True(t, ok)
	return v.(*big.Int).Int64()
}

func newAsymmetricTransformDataUnit(t *testing.T) *valuetree.Record {
	t.Helper()
	etp, err := vc2bitstream.ExtendedTransformParametersType.NewFrom(map[string]interface{}{
		"asym_transform_index_flag": true,
		"wavelet_index_ho":          big.NewInt(1),
	})
	require.NoError(t, err)
	tp, err := vc2bitstream.TransformParametersType.NewFrom(map[string]interface{}{
		"wavelet_index":                 big.NewInt(0),
		"extended_transform_parameters": etp,
	})
	require.NoError(t, err)
	wavelet, err := vc2bitstream.WaveletTransformType.NewFrom(map[string]interface{}{
		"transform_parameters": tp,
	})
	require.NoError(t, err)
	picture, err := vc2bitstream.PictureParseType.NewFrom(map[string]interface{}{
		"wavelet_transform": wavelet,
	})
	require.NoError(t, err)
	return newDataUnit(t, map[string]interface{}{
		"parse_info":    newParseInfo(t, ldPictureParseCode),
		"picture_parse": picture,
	})
}

// An asymmetric wavelet transform requires extended_transform_parameters,
// which in turn requires major_version 3, even though nothing else in the
// sequence asks for it.
func TestAutofillMajorVersionAsymmetricTransform(t *testing.T) {
	seqHeaderDU := newSequenceHeaderDataUnit(t, valuetree.Auto)
	pictureDU := newAsymmetricTransformDataUnit(t)
	stream := newStream(t, []*valuetree.Record{seqHeaderDU, pictureDU})

	require.NoError(t, AutofillMajorVersion(stream, nil))

	require.Equal(t, int64(3), majorVersionOf(t, seqHeaderDU))
}

func TestAutofillMajorVersionFragmentRequiresVersion3(t *testing.T) {
	seqHeaderDU := newSequenceHeaderDataUnit(t, valuetree.Auto)
	fragmentDU := newDataUnit(t, map[string]interface{}{
		"parse_info": newParseInfo(t, 0xCC), // IsLDFragment
	})
	stream := newStream(t, []*valuetree.Record{seqHeaderDU, fragmentDU})

	require.NoError(t, AutofillMajorVersion(stream, nil))

	require.Equal(t, int64(3), majorVersionOf(t, seqHeaderDU))
}

func TestAutofillMajorVersionLeavesExplicitValueAlone(t *testing.T) {
	seqHeaderDU := newSequenceHeaderDataUnit(t, big.NewInt(1))
	fragmentDU := newDataUnit(t, map[string]interface{}{
		"parse_info": newParseInfo(t, 0xCC),
	})
	stream := newStream(t, []*valuetree.Record{seqHeaderDU, fragmentDU})

	require.NoError(t, AutofillMajorVersion(stream, nil))

	require.Equal(t, int64(1), majorVersionOf(t, seqHeaderDU))
}

func TestAutofillMajorVersionMinimumWithNoFeatures(t *testing.T) {
	seqHeaderDU := newSequenceHeaderDataUnit(t, valuetree.Auto)
	stream := newStream(t, []*valuetree.Record{seqHeaderDU})

	require.NoError(t, AutofillMajorVersion(stream, nil))

	require.Equal(t, int64(MinimumMajorVersion), majorVersionOf(t, seqHeaderDU))
}
