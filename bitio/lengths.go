// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import "math/big"

// ExpGolombLength returns the number of bits needed to encode v (v >= 0) as
// an interleaved exp-Golomb code: 2*floor(log2(v+1)) + 1. Fails with
// ErrOutOfRange if v is negative.
//
// big.Int is used, rather than a machine integer, because conformance
// scenarios exercise values up to 2^100 and beyond.
func ExpGolombLength(v *big.Int) (int, error) {
	if v.Sign() < 0 {
		return 0, ErrOutOfRange
	}
	n := new(big.Int).Add(v, big.NewInt(1))
	return 2*(n.BitLen()-1) + 1, nil
}

// SignedExpGolombLength returns ExpGolombLength(|v|), plus 1 if v != 0.
func SignedExpGolombLength(v *big.Int) (int, error) {
	n, err := ExpGolombLength(new(big.Int).Abs(v))
	if err != nil {
		return 0, err
	}
	if v.Sign() != 0 {
		n++
	}
	return n, nil
}

// ExpGolombLengthInt is the int convenience form of ExpGolombLength for the
// common small-value case used throughout the format description.
func ExpGolombLengthInt(v int64) (int, error) {
	return ExpGolombLength(big.NewInt(v))
}

// SignedExpGolombLengthInt is the int convenience form of
// SignedExpGolombLength.
func SignedExpGolombLengthInt(v int64) (int, error) {
	return SignedExpGolombLength(big.NewInt(v))
}
