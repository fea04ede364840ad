// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
	"github.com/bbc/vc2-conformance-sub004/valuetree"
)

// Deserialiser reads a bitstream via a bitio.Reader, storing each value read
// into the target named by the calling primitive op.
type Deserialiser struct {
	engine
	rd *bitio.Reader
}

// NewDeserialiser returns a Deserialiser reading from rd into a fresh record
// of type rt.
func NewDeserialiser(rd *bitio.Reader, rt *valuetree.RecordType) *Deserialiser {
	d := &Deserialiser{rd: rd}
	d.engine = *newEngine(rt.New(nil), rt.Name())
	return d
}

// Tell reports the reader's current bit position, for callers (such as a
// format description recording parse-info offsets for auto-fill) that need
// to know where in the stream the current primitive op sits.
func (d *Deserialiser) Tell() bitio.Position { return d.rd.Tell() }

// AtEnd reports whether the underlying reader has no further bytes,
// letting a format description know when to stop looping over a
// concatenation of top-level records.
func (d *Deserialiser) AtEnd() bool { return d.rd.AtEnd() }

func (d *Deserialiser) store(target string, v interface{}) {
	idx, isList := d.markUsed(target)
	if isList {
		lst, ok := d.context().Get(target)
		if !ok {
			panic(Error("list target not declared"))
		}
		l := lst.(*valuetree.List)
		if idx == l.Len() {
			l.Append(v)
		} else {
			l.Set(idx, v)
		}
		return
	}
	_ = d.context().Set(target, v)
}

func (d *Deserialiser) Bool(target string) (v bool, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	bit, err2 := d.rd.ReadBit()
	if err2 != nil {
		panic(err2)
	}
	v = bit != 0
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) NBits(target string, n int) (v uint64, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadBitsBE64(n)
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) UintLit(target string, k int) (v uint64, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadUintLit(k)
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) BitArray(target string, n int) (v bitio.BitArray, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadBitArray(n)
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) Bytes(target string, k int) (v []byte, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadBytes(k)
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) Uint(target string) (v *big.Int, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadUint()
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) Sint(target string) (v *big.Int, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	v, err2 := d.rd.ReadSint()
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) ByteAlign(target string) (v bitio.BitArray, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	n := byteAlignLen(d.rd.Tell().Bit)
	v, err2 := d.rd.ReadBitArray(n)
	if err2 != nil {
		panic(err2)
	}
	d.store(target, v)
	return v, nil
}

func (d *Deserialiser) BoundedBlockBegin(length int64) error {
	if err := d.rd.BoundedBlockBegin(length); err != nil {
		return d.wrapErr(err)
	}
	d.blockOpen = true
	return nil
}

func (d *Deserialiser) BoundedBlockEnd(target string) (unused int64, err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	bits, err2 := d.rd.BoundedBlockEnd()
	if err2 != nil {
		panic(err2)
	}
	d.blockOpen = false
	d.store(target, bits)
	return int64(bits.Len()), nil
}

// BoundedBlock runs fn between a matched BoundedBlockBegin/BoundedBlockEnd
// pair, guaranteeing the end call happens on every exit path (including a
// panic unwinding through fn).
func (d *Deserialiser) BoundedBlock(length int64, target string, fn func() error) (err error) {
	if err := d.BoundedBlockBegin(length); err != nil {
		return err
	}
	defer func() {
		_, endErr := d.BoundedBlockEnd(target)
		if err == nil {
			err = endErr
		}
	}()
	return fn()
}

func (d *Deserialiser) DeclareList(target string) (err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	d.declareList(target)
	return nil
}

func (d *Deserialiser) SetContextType(rt *valuetree.RecordType) error {
	d.setContextType(rt)
	return nil
}

func (d *Deserialiser) SubcontextEnter(target string, rt *valuetree.RecordType) (err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	child := rt.New(nil)
	idx, isList := d.markUsed(target)
	if isList {
		lst, ok := d.context().Get(target)
		if !ok {
			panic(Error("list target not declared"))
		}
		l := lst.(*valuetree.List)
		if idx == l.Len() {
			l.Append(child)
		} else {
			l.Set(idx, child)
		}
	} else {
		_ = d.context().Set(target, child)
	}
	d.pushFrame(target, child, idx, isList)
	return nil
}

func (d *Deserialiser) SubcontextLeave() (err error) {
	defer func() { err = d.wrapErr(err) }()
	return d.subcontextLeave()
}

func (d *Deserialiser) Subcontext(target string, rt *valuetree.RecordType, fn func() error) (err error) {
	if err := d.SubcontextEnter(target, rt); err != nil {
		return err
	}
	defer func() {
		if leaveErr := d.SubcontextLeave(); err == nil {
			err = leaveErr
		}
	}()
	return fn()
}

func (d *Deserialiser) ComputedValue(target string, v interface{}) (err error) {
	defer func() { err = d.wrapErr(err) }()
	defer errRecover(&err)
	if d.top().used[target] {
		panic(ErrReusedTarget)
	}
	d.top().used[target] = true
	_ = d.context().Set(target, v)
	return nil
}

func (d *Deserialiser) IsTargetComplete(target string) bool { return d.isTargetComplete(target) }
func (d *Deserialiser) VerifyComplete() error               { return d.wrapErr(d.verifyComplete()) }
func (d *Deserialiser) Path() []PathElem                    { return d.path() }
func (d *Deserialiser) DescribePath() string                { return d.describePath() }
func (d *Deserialiser) Context() *valuetree.Record          { return d.context() }

var _ SerDes = (*Deserialiser)(nil)
