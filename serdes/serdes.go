// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// SerDes is the abstract collaborator a format description is written
// against. Every primitive operation names a target: a string key in the
// current record. Implementations perform both the underlying bit I/O (or,
// for PadTruncate, no I/O at all) and the bookkeeping needed to store or
// fetch the value from the current record.
type SerDes interface {
	Bool(target string) (bool, error)
	NBits(target string, n int) (uint64, error)
	UintLit(target string, k int) (uint64, error)
	BitArray(target string, n int) (bitio.BitArray, error)
	Bytes(target string, k int) ([]byte, error)
	Uint(target string) (*big.Int, error)
	Sint(target string) (*big.Int, error)

	ByteAlign(target string) (bitio.BitArray, error)

	BoundedBlockBegin(length int64) error
	BoundedBlockEnd(target string) (int64, error)
	BoundedBlock(length int64, target string, fn func() error) error

	DeclareList(target string) error
	SetContextType(rt *valuetree.RecordType) error

	SubcontextEnter(target string, rt *valuetree.RecordType) error
	SubcontextLeave() error
	Subcontext(target string, rt *valuetree.RecordType, fn func() error) error

	ComputedValue(target string, v interface{}) error

	IsTargetComplete(target string) bool
	VerifyComplete() error

	Path() []PathElem
	DescribePath() string
	Context() *valuetree.Record
}

// byteAlignLen computes the number of bits remaining to the next byte
// boundary given the next-bit-to-touch index (7 = already aligned).
func byteAlignLen(bit int) int {
	if bit == 7 {
		return 0
	}
	return bit + 1
}
