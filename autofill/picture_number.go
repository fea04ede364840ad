// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

// AutofillPictureNumber scans every sequence in stream (a Stream record)
// for picture and fragment headers whose picture_number is valuetree.Auto
// or absent, and assigns consecutive numbers modulo 2^32. Numbering
// restarts at startNumber for each sequence; a fragment continues the
// previous picture's number unless it is the first fragment of a new
// picture (identified by a zero fragment_slice_count), in which case the
// number increments exactly as a whole picture would.
func AutofillPictureNumber(stream *valuetree.Record, startNumber uint32) (err error) {
	defer errRecover(&err)

	sequences, err := listRecords(stream, "sequences")
	if err != nil {
		return err
	}
	for _, seq := range sequences {
		if err := autofillPictureNumberInSequence(seq, startNumber); err != nil {
			return err
		}
	}
	return nil
}

func autofillPictureNumberInSequence(seq *valuetree.Record, startNumber uint32) error {
	dataUnits, err := listRecords(seq, "data_units")
	if err != nil {
		return err
	}

	last := startNumber - 1
	for _, du := range dataUnits {
		parseInfo, err := parseInfoOf(du)
		if err != nil {
			return err
		}
		code := getAutoUint64(parseInfo, "parse_code")

		var header *valuetree.Record
		var increment bool
		switch {
		case vc2bitstream.IsLDPicture(code) || vc2bitstream.IsHQPicture(code):
			picture, err := getChild(du, "picture_parse", vc2bitstream.PictureParseType)
			if err != nil {
				return err
			}
			header, err = getChild(picture, "picture_header", vc2bitstream.PictureHeaderType)
			if err != nil {
				return err
			}
			increment = true
		case vc2bitstream.IsLDFragment(code) || vc2bitstream.IsHQFragment(code):
			fragment, err := getChild(du, "fragment_parse", vc2bitstream.FragmentParseType)
			if err != nil {
				return err
			}
			header, err = getChild(fragment, "fragment_header", vc2bitstream.FragmentHeaderType)
			if err != nil {
				return err
			}
			increment = getAutoUint64(header, "fragment_slice_count") == 0
		default:
			continue
		}

		if valuetree.IsAuto(getAuto(header, "picture_number")) {
			var n uint32
			if increment {
				n = last + 1
			} else {
				n = last
			}
			if err := header.Set("picture_number", uint64(n)); err != nil {
				return err
			}
		}
		v, _ := header.Get("picture_number")
		last = uint32(v.(uint64))
	}
	return nil
}
