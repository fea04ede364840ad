// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"io"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/serdes"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
	"github.com/bbc/vc2-conformance-sub004/vc2defaults"
)

// AutofillAndSerialiseStream resolves every Auto-valued field reachable
// from stream (picture numbers, each sequence's major_version, and the
// parse offsets linking data units) and writes the result to w.
// versionPresets supplies the version-implication tables
// AutofillMajorVersion needs; framePresets supplies the base video format
// lookups the traversal itself consults. Either may be nil, falling back
// to MinimumVersionPresets and vc2bitstream.NoPresets respectively.
func AutofillAndSerialiseStream(w io.WriteSeeker, stream *valuetree.Record, versionPresets VersionPresets, framePresets vc2bitstream.Presets) error {
	if err := AutofillPictureNumber(stream, 0); err != nil {
		return err
	}
	if err := AutofillMajorVersion(stream, versionPresets); err != nil {
		return err
	}
	next, prev, err := AutofillParseOffsets(stream)
	if err != nil {
		return err
	}

	wr := bitio.NewWriter(w)
	s := serdes.NewSerialiser(wr, stream, vc2defaults.AutoDefaultValues)
	if err := vc2bitstream.ParseStream(s, func() *vc2bitstream.State {
		return vc2bitstream.NewState(framePresets)
	}); err != nil {
		return err
	}
	if err := wr.Flush(); err != nil {
		return err
	}
	if err := s.VerifyComplete(); err != nil {
		return err
	}

	return AutofillParseOffsetsFinalize(wr, s.Context(), next, prev)
}
