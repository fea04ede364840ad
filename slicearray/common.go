// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package slicearray implements the columnar slice-array store: VC-2 coded
// pictures contain many repeating slices, each holding per-component
// transform coefficients, flattened here into parallel arrays (LDSliceArray
// for low-delay, HQSliceArray for high-quality) with per-slice views over
// them.
package slicearray

import (
	"math/big"
	"runtime"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/sliceindex"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "slicearray: " + string(e) }

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// Component names one of the three picture components stored in a slice.
type Component int

const (
	Y Component = iota
	C1
	C2
)

func coeffCount(dims []sliceindex.Dimensions) int {
	n := 0
	for _, d := range dims {
		n += d.Width * d.Height
	}
	return n
}

func zeroBigInts(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
	}
	return out
}

func zeroBitArrays(n int) []bitio.BitArray {
	out := make([]bitio.BitArray, n)
	for i := range out {
		out[i] = bitio.NewBitArray(0)
	}
	return out
}
