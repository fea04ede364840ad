// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// PadTruncate neither reads nor writes a bitstream. It traverses a format
// description against a provided tree, filling in missing scalars with
// type-appropriate zero/empty values, coercing values to the bit width
// implied by each op, and truncating lists to the count actually consumed.
// It is used to normalize a hand-built tree (e.g. a test fixture) before
// passing it to a Serialiser, and raises only on structural mismatches
// (unclosed bounded blocks or sub-contexts) rather than on missing scalars.
type PadTruncate struct {
	engine
}

// NewPadTruncate returns a PadTruncate traversing root (of type rt).
func NewPadTruncate(root *valuetree.Record, rt *valuetree.RecordType) *PadTruncate {
	p := &PadTruncate{}
	p.engine = *newEngine(root, rt.Name())
	return p
}

// fetchOrZero returns the existing value at target, or zero if absent,
// without raising on a missing field. List targets advance an index; when
// the list is shorter than the traversal requires, zero is appended and
// returned, so a short list never raises ErrListTargetExhausted.
func (p *PadTruncate) fetchOrZero(target string, zero interface{}) interface{} {
	f := p.top()
	if f.isList[target] {
		lv, ok := f.record.Get(target)
		if !ok {
			lv = valuetree.NewList()
			_ = f.record.Set(target, lv)
		}
		l := lv.(*valuetree.List)
		idx := f.listIdx[target]
		p.markUsed(target)
		if idx < l.Len() {
			return l.At(idx)
		}
		l.Append(zero)
		return zero
	}
	p.markUsed(target)
	if v, ok := f.record.Get(target); ok {
		return v
	}
	return zero
}

func (p *PadTruncate) store(target string, v interface{}) {
	f := p.top()
	if f.isList[target] {
		lv, _ := f.record.Get(target)
		l := lv.(*valuetree.List)
		idx := p.top().listIdx[target] - 1
		if idx < l.Len() {
			l.Set(idx, v)
		}
		return
	}
	_ = f.record.Set(target, v)
}

func (p *PadTruncate) Bool(target string) (bool, error) {
	v, _ := p.fetchOrZero(target, false).(bool)
	p.store(target, v)
	return v, nil
}

func (p *PadTruncate) NBits(target string, n int) (uint64, error) {
	v, _ := p.fetchOrZero(target, uint64(0)).(uint64)
	if n < 64 {
		v &= (uint64(1) << uint(n)) - 1
	}
	p.store(target, v)
	return v, nil
}

func (p *PadTruncate) UintLit(target string, k int) (uint64, error) {
	return p.NBits(target, 8*k)
}

func (p *PadTruncate) BitArray(target string, n int) (bitio.BitArray, error) {
	v, _ := p.fetchOrZero(target, bitio.NewBitArray(n)).(bitio.BitArray)
	out := bitio.NewBitArray(n)
	for i := 0; i < n && i < v.Len(); i++ {
		out.SetBit(i, v.Bit(i))
	}
	p.store(target, out)
	return out, nil
}

func (p *PadTruncate) Bytes(target string, k int) ([]byte, error) {
	v, _ := p.fetchOrZero(target, make([]byte, k)).([]byte)
	out := make([]byte, k)
	copy(out, v)
	p.store(target, out)
	return out, nil
}

func (p *PadTruncate) Uint(target string) (*big.Int, error) {
	v, _ := p.fetchOrZero(target, big.NewInt(0)).(*big.Int)
	if v.Sign() < 0 {
		v = big.NewInt(0)
	}
	p.store(target, v)
	return v, nil
}

func (p *PadTruncate) Sint(target string) (*big.Int, error) {
	v, _ := p.fetchOrZero(target, big.NewInt(0)).(*big.Int)
	p.store(target, v)
	return v, nil
}

// ByteAlign is a no-op: PadTruncate tracks no bit position, so it always
// reports (and stores) a zero-length bitarray.
func (p *PadTruncate) ByteAlign(target string) (bitio.BitArray, error) {
	b := bitio.NewBitArray(0)
	f := p.top()
	f.used[target] = true
	_ = f.record.Set(target, b)
	return b, nil
}

func (p *PadTruncate) BoundedBlockBegin(length int64) error {
	p.blockOpen = true
	return nil
}

func (p *PadTruncate) BoundedBlockEnd(target string) (int64, error) {
	p.blockOpen = false
	b := bitio.NewBitArray(0)
	f := p.top()
	f.used[target] = true
	_ = f.record.Set(target, b)
	return 0, nil
}

func (p *PadTruncate) BoundedBlock(length int64, target string, fn func() error) (err error) {
	if err := p.BoundedBlockBegin(length); err != nil {
		return err
	}
	defer func() {
		if _, endErr := p.BoundedBlockEnd(target); err == nil {
			err = endErr
		}
	}()
	return fn()
}

func (p *PadTruncate) DeclareList(target string) (err error) {
	defer func() { err = p.wrapErr(err) }()
	defer errRecover(&err)
	p.declareList(target)
	return nil
}

func (p *PadTruncate) SetContextType(rt *valuetree.RecordType) error {
	p.setContextType(rt)
	return nil
}

func (p *PadTruncate) SubcontextEnter(target string, rt *valuetree.RecordType) (err error) {
	defer func() { err = p.wrapErr(err) }()
	defer errRecover(&err)
	f := p.top()
	var child *valuetree.Record
	if f.isList[target] {
		lv, ok := f.record.Get(target)
		if !ok {
			lv = valuetree.NewList()
			_ = f.record.Set(target, lv)
		}
		l := lv.(*valuetree.List)
		idx := f.listIdx[target]
		if idx < l.Len() {
			child = l.At(idx).(*valuetree.Record)
		} else {
			child = rt.New(nil)
			l.Append(child)
		}
	} else {
		if v, ok := f.record.Get(target); ok {
			child = v.(*valuetree.Record)
		} else {
			child = rt.New(nil)
			_ = f.record.Set(target, child)
		}
	}
	p.subcontextEnter(target, child)
	return nil
}

func (p *PadTruncate) SubcontextLeave() (err error) {
	defer func() { err = p.wrapErr(err) }()
	if len(p.frames) <= 1 {
		return ErrNoSubcontext
	}
	p.truncateFrameLists(p.top())
	p.frames = p.frames[:len(p.frames)-1]
	return nil
}

func (p *PadTruncate) Subcontext(target string, rt *valuetree.RecordType, fn func() error) (err error) {
	if err := p.SubcontextEnter(target, rt); err != nil {
		return err
	}
	defer func() {
		if leaveErr := p.SubcontextLeave(); err == nil {
			err = leaveErr
		}
	}()
	return fn()
}

func (p *PadTruncate) ComputedValue(target string, v interface{}) (err error) {
	defer func() { err = p.wrapErr(err) }()
	f := p.top()
	f.used[target] = true
	_ = f.record.Set(target, v)
	return nil
}

func (p *PadTruncate) IsTargetComplete(target string) bool { return p.isTargetComplete(target) }

// truncateFrameLists truncates every declared list in f to the number of
// elements the traversal actually advanced through.
func (p *PadTruncate) truncateFrameLists(f *frame) {
	for target, isList := range f.isList {
		if !isList {
			continue
		}
		v, ok := f.record.Get(target)
		if !ok {
			continue
		}
		v.(*valuetree.List).Truncate(f.listIdx[target])
	}
}

// VerifyComplete asserts no bounded block or sub-context remains open. It
// does not require every scalar field to have been touched (PadTruncate
// fills rather than rejects missing scalars) but does truncate the root's
// declared lists to what was consumed.
func (p *PadTruncate) VerifyComplete() error {
	if p.blockOpen {
		return p.wrapErr(ErrUnclosedBoundedBlock)
	}
	if len(p.frames) != 1 {
		return p.wrapErr(ErrUnclosedNestedContext)
	}
	p.truncateFrameLists(p.top())
	return nil
}

func (p *PadTruncate) Path() []PathElem           { return p.path() }
func (p *PadTruncate) DescribePath() string       { return p.describePath() }
func (p *PadTruncate) Context() *valuetree.Record { return p.context() }

var _ SerDes = (*PadTruncate)(nil)
