// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package vc2bitstream is the concrete format description driving the
// serdes traversal interface: value-tree record types for every VC-2 data
// unit and the functions that walk a SerDes through them in the order the
// bitstream requires. It is the one collaborator spec.md's core leaves
// external, implemented here as a working instance grounded directly in
// the VC-2 reference source.
package vc2bitstream

// ParseInfoHeaderBytes is the fixed size, in bytes, of a parse_info header:
// a 4-byte prefix, 1-byte parse code, and two 4-byte parse offsets.
const ParseInfoHeaderBytes = 13

// Parse code classification, per (Table 10.2). The is* predicates below
// operate directly on the raw byte rather than a named enum, matching how
// the value arrives off the wire as an 8-bit field.
const (
	ParseCodeSequenceHeader = 0x00
	ParseCodeEndOfSequence  = 0x10
)

func isSeqHeader(code uint64) bool      { return code == ParseCodeSequenceHeader }
func isEndOfSequence(code uint64) bool  { return code == ParseCodeEndOfSequence }
func isAuxiliaryData(code uint64) bool  { return code&0xF8 == 0x20 }
func isPaddingData(code uint64) bool    { return code == 0x30 }
func isPicture(code uint64) bool        { return code&0x8C == 0x88 }
func isLDPicture(code uint64) bool      { return code&0xFC == 0xC8 }
func isHQPicture(code uint64) bool      { return code&0xFC == 0xE8 }
func isFragment(code uint64) bool       { return code&0x0C == 0x0C }
func isLDFragment(code uint64) bool     { return code&0xFC == 0xCC }
func isHQFragment(code uint64) bool     { return code&0xFC == 0xEC }
func usingDCPrediction(code uint64) bool { return code&0x28 == 0x08 }

// Exported mirrors of the predicates above, for callers outside this
// package (the auto-fill layer) that need to classify a raw parse code
// without duplicating Table 10.2's bitmasks.
func IsSeqHeader(code uint64) bool     { return isSeqHeader(code) }
func IsEndOfSequence(code uint64) bool { return isEndOfSequence(code) }
func IsAuxiliaryData(code uint64) bool { return isAuxiliaryData(code) }
func IsPaddingData(code uint64) bool   { return isPaddingData(code) }
func IsPicture(code uint64) bool       { return isPicture(code) }
func IsLDPicture(code uint64) bool     { return isLDPicture(code) }
func IsHQPicture(code uint64) bool     { return isHQPicture(code) }
func IsFragment(code uint64) bool      { return isFragment(code) }
func IsLDFragment(code uint64) bool    { return isLDFragment(code) }
func IsHQFragment(code uint64) bool    { return isHQFragment(code) }

// State is the mutable scratch record threaded through a traversal,
// accumulating the fields later steps need (parse code, version, slice
// geometry, ...). It is not part of the value tree: nothing in State is a
// serdes target, so it carries plain Go types rather than valuetree values.
type State struct {
	Presets Presets

	ParseCode uint64

	MajorVersion    uint64
	BaseVideoFormat uint64

	WaveletIndex   uint64
	WaveletIndexHO uint64
	DWTDepth       int
	DWTDepthHO     int

	SlicesX, SlicesY      int
	SliceBytesNumerator   int
	SliceBytesDenominator int
	SlicePrefixBytes      int
	SliceSizeScaler       int

	LumaWidth, LumaHeight           int
	ColorDiffWidth, ColorDiffHeight int

	NextParseOffset     uint64
	PreviousParseOffset uint64

	FragmentSliceCount int
	FragmentXOffset    int
	FragmentYOffset    int

	PictureNumber uint64
}

// NewState returns a State ready to drive ParseSequence, falling back to
// NoPresets when presets is nil.
func NewState(presets Presets) *State {
	if presets == nil {
		presets = NoPresets{}
	}
	return &State{Presets: presets}
}

func (s *State) isLDPicture() bool  { return isLDPicture(s.ParseCode) }
func (s *State) isHQPicture() bool  { return isHQPicture(s.ParseCode) }
func (s *State) isLDFragment() bool { return isLDFragment(s.ParseCode) }
func (s *State) isHQFragment() bool { return isHQFragment(s.ParseCode) }
