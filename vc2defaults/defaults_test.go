// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vc2defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

func TestDefaultValuesMirrorsParseInfoConstants(t *testing.T) {
	fields, ok := DefaultValues[vc2bitstream.ParseInfoType]
	require.True(t, ok)
	assert.Equal(t, uint64(vc2bitstream.ParseInfoPrefix), fields["parse_info_prefix"])
	assert.Equal(t, uint64(0), fields["next_parse_offset"])
}

// AutoDefaultValues must be a genuine copy: mutating it must not affect
// DefaultValues, since a caller serialising with plain defaults still needs
// next_parse_offset to default to 0, not valuetree.Auto.
func TestAutoDefaultValuesIsIndependentCopy(t *testing.T) {
	assert.Equal(t, uint64(0), DefaultValues[vc2bitstream.ParseInfoType]["next_parse_offset"])
	assert.True(t, valuetree.IsAuto(AutoDefaultValues[vc2bitstream.ParseInfoType]["next_parse_offset"]))
	assert.True(t, valuetree.IsAuto(AutoDefaultValues[vc2bitstream.ParseParametersType]["major_version"]))
	assert.True(t, valuetree.IsAuto(AutoDefaultValues[vc2bitstream.PictureHeaderType]["picture_number"]))
	assert.True(t, valuetree.IsAuto(AutoDefaultValues[vc2bitstream.FragmentHeaderType]["picture_number"]))
}
