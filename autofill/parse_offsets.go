// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package autofill

import (
	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
)

// OffsetPosition names a data unit within a stream whose parse_info carries
// a parse offset that could not be resolved until every data unit had been
// serialised and its byte offset recorded.
type OffsetPosition struct {
	SequenceIndex int
	DataUnitIndex int
}

// AutofillParseOffsets resolves every next_parse_offset that can be
// computed directly from a data unit's own payload (auxiliary data and
// padding, whose length is already fixed), and assigns a placeholder of
// zero to every remaining Auto-valued next_parse_offset and
// previous_parse_offset, returning their positions so
// AutofillParseOffsetsFinalize can patch in the real values once the
// stream's byte offsets are known.
func AutofillParseOffsets(stream *valuetree.Record) (next, prev []OffsetPosition, err error) {
	defer errRecover(&err)

	sequences, err := listRecords(stream, "sequences")
	if err != nil {
		return nil, nil, err
	}
	for seqIdx, seq := range sequences {
		dataUnits, err := listRecords(seq, "data_units")
		if err != nil {
			return nil, nil, err
		}
		for duIdx, du := range dataUnits {
			parseInfo, err := parseInfoOf(du)
			if err != nil {
				return nil, nil, err
			}
			code := getAutoUint64(parseInfo, "parse_code")

			if vc2bitstream.IsAuxiliaryData(code) || vc2bitstream.IsPaddingData(code) {
				if valuetree.IsAuto(getAuto(parseInfo, "next_parse_offset")) {
					payload := payloadBytesOf(du, code)
					n := uint64(vc2bitstream.ParseInfoHeaderBytes + len(payload))
					if err := parseInfo.Set("next_parse_offset", n); err != nil {
						return nil, nil, err
					}
				}
			}

			if valuetree.IsAuto(getAuto(parseInfo, "next_parse_offset")) {
				if err := parseInfo.Set("next_parse_offset", uint64(0)); err != nil {
					return nil, nil, err
				}
				next = append(next, OffsetPosition{seqIdx, duIdx})
			}
			if valuetree.IsAuto(getAuto(parseInfo, "previous_parse_offset")) {
				if err := parseInfo.Set("previous_parse_offset", uint64(0)); err != nil {
					return nil, nil, err
				}
				prev = append(prev, OffsetPosition{seqIdx, duIdx})
			}
		}
	}
	return next, prev, nil
}

func payloadBytesOf(du *valuetree.Record, code uint64) []byte {
	var key string
	var rt *valuetree.RecordType
	switch {
	case vc2bitstream.IsAuxiliaryData(code):
		key, rt = "auxiliary_data", vc2bitstream.AuxiliaryDataType
	case vc2bitstream.IsPaddingData(code):
		key, rt = "padding", vc2bitstream.PaddingType
	default:
		return nil
	}
	child, err := getChild(du, key, rt)
	if err != nil {
		return nil
	}
	return getAutoBytes(child, "bytes")
}

// AutofillParseOffsetsFinalize patches the placeholder parse offsets
// AutofillParseOffsets left behind, once the byte offset of every data
// unit has been recorded into parse_info's "_offset" by a traversal
// driven against wr. It restores the writer's position before returning.
func AutofillParseOffsetsFinalize(wr *bitio.Writer, stream *valuetree.Record, next, prev []OffsetPosition) (err error) {
	defer errRecover(&err)

	end := wr.Tell()

	sequences, err := listRecords(stream, "sequences")
	if err != nil {
		return err
	}
	dataUnitsBySequence := make([][]*valuetree.Record, len(sequences))
	for i, seq := range sequences {
		dataUnits, err := listRecords(seq, "data_units")
		if err != nil {
			return err
		}
		dataUnitsBySequence[i] = dataUnits
	}

	for _, pos := range next {
		dataUnits := dataUnitsBySequence[pos.SequenceIndex]
		du := dataUnits[pos.DataUnitIndex]
		parseInfo, _, err := childRecord(du, "parse_info")
		if err != nil {
			return err
		}
		offset := offsetOf(parseInfo)

		var value uint64
		if pos.DataUnitIndex == len(dataUnits)-1 {
			value = 0
		} else {
			nextDU := dataUnits[pos.DataUnitIndex+1]
			nextParseInfo, _, err := childRecord(nextDU, "parse_info")
			if err != nil {
				return err
			}
			value = uint64(offsetOf(nextParseInfo) - offset)
		}
		if err := wr.Seek(bitio.Position{Byte: offset + 4 + 1, Bit: 7}); err != nil {
			return err
		}
		if err := wr.WriteUintLit(4, value); err != nil {
			return err
		}
	}

	for _, pos := range prev {
		dataUnits := dataUnitsBySequence[pos.SequenceIndex]
		du := dataUnits[pos.DataUnitIndex]
		parseInfo, _, err := childRecord(du, "parse_info")
		if err != nil {
			return err
		}
		offset := offsetOf(parseInfo)

		var value uint64
		if pos.DataUnitIndex == 0 {
			value = 0
		} else {
			prevDU := dataUnits[pos.DataUnitIndex-1]
			prevParseInfo, _, err := childRecord(prevDU, "parse_info")
			if err != nil {
				return err
			}
			value = uint64(offset - offsetOf(prevParseInfo))
		}
		if err := wr.Seek(bitio.Position{Byte: offset + 4 + 1 + 4, Bit: 7}); err != nil {
			return err
		}
		if err := wr.WriteUintLit(4, value); err != nil {
			return err
		}
	}

	return wr.Seek(end)
}

func offsetOf(parseInfo *valuetree.Record) int64 {
	v, _ := parseInfo.Get("_offset")
	n, _ := v.(int64)
	return n
}
