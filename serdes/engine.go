// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import "github.com/bbc/vc2-conformance-sub004/valuetree"

// frame holds the bookkeeping for one active record context: which targets
// have been used, which are declared lists and how far into them the
// traversal has advanced, and the path element describing how this frame
// was entered from its parent.
type frame struct {
	record   *valuetree.Record
	used     map[string]bool
	isList   map[string]bool
	listIdx  map[string]int
	pathElem PathElem
}

func newFrame(r *valuetree.Record, elem PathElem) *frame {
	return &frame{
		record:   r,
		used:     make(map[string]bool),
		isList:   make(map[string]bool),
		listIdx:  make(map[string]int),
		pathElem: elem,
	}
}

// engine holds the bookkeeping shared by all three back-ends: the frame
// stack (root record plus any open sub-contexts) and the single, non-
// nesting bounded block marker. Bit I/O and default-value lookups are
// back-end specific and layered on top in deserialiser.go/serialiser.go/
// padtruncate.go.
type engine struct {
	frames      []*frame
	blockOpen   bool
	blockTarget string
}

func newEngine(root *valuetree.Record, typeName string) *engine {
	e := &engine{}
	e.frames = []*frame{newFrame(root, PathElem{TypeName: typeName})}
	return e
}

func (e *engine) top() *frame { return e.frames[len(e.frames)-1] }

func (e *engine) path() []PathElem {
	out := make([]PathElem, len(e.frames))
	for i, f := range e.frames {
		out[i] = f.pathElem
	}
	return out
}

func (e *engine) describePath() string { return describePath(e.path()) }

func (e *engine) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Path: e.describePath(), Err: err}
}

// context returns the record at the top of the frame stack.
func (e *engine) context() *valuetree.Record { return e.top().record }

// markUsed enforces the non-list/list usage bookkeeping rule shared by all
// back-ends: a non-list target may be touched by exactly one primitive op;
// a declared-list target advances an index on every touch.
func (e *engine) markUsed(target string) (listIndex int, isList bool) {
	f := e.top()
	if f.isList[target] {
		idx := f.listIdx[target]
		f.listIdx[target]++
		return idx, true
	}
	if f.used[target] {
		panic(ErrReusedTarget)
	}
	f.used[target] = true
	return 0, false
}

// declareList marks target as a list for the remainder of the current
// record.
func (e *engine) declareList(target string) {
	f := e.top()
	if f.isList[target] {
		panic(ErrReusedTarget)
	}
	if v, ok := f.record.Get(target); ok {
		if _, isList := v.(*valuetree.List); !isList {
			panic(ErrListTargetContainsNonList)
		}
	}
	f.isList[target] = true
	f.listIdx[target] = 0
	if _, ok := f.record.Get(target); !ok {
		_ = f.record.Set(target, valuetree.NewList())
	}
}

// setContextType changes the type identity of the current record,
// preserving its existing values (invariant: never duplicates entries).
func (e *engine) setContextType(rt *valuetree.RecordType) {
	f := e.top()
	f.record.SetType(rt)
	f.pathElem.TypeName = rt.Name()
}

// pushFrame pushes a new frame for a nested record stored at target in the
// current record, at the given (already-bookkept) list index.
func (e *engine) pushFrame(target string, child *valuetree.Record, idx int, isList bool) {
	elem := PathElem{TypeName: child.Type().Name(), Key: target}
	if isList {
		elem.Index = idx
		elem.HasIndex = true
	}
	e.frames = append(e.frames, newFrame(child, elem))
}

// subcontextEnter pushes a new frame for a nested record stored at target
// in the current record, performing the usage bookkeeping itself (used by
// PadTruncate, which passes the existing nested record or, if absent, one
// it has just created).
func (e *engine) subcontextEnter(target string, child *valuetree.Record) {
	idx, isList := e.markUsed(target)
	e.pushFrame(target, child, idx, isList)
}

// subcontextLeave pops the current frame, verifying it is fully consumed.
func (e *engine) subcontextLeave() error {
	if len(e.frames) <= 1 {
		return ErrNoSubcontext
	}
	if err := e.verifyFrameComplete(e.top()); err != nil {
		return err
	}
	e.frames = e.frames[:len(e.frames)-1]
	return nil
}

func (e *engine) verifyFrameComplete(f *frame) error {
	for _, key := range f.record.Keys() {
		if f.isList[key] {
			v, _ := f.record.Get(key)
			lst := v.(*valuetree.List)
			if f.listIdx[key] != lst.Len() {
				return ErrListTargetExhausted
			}
			continue
		}
		if !f.used[key] {
			return ErrUnusedTarget
		}
	}
	return nil
}

// isTargetComplete reports whether target has been fully consumed: used
// (for a scalar) or exhausted (for a declared list).
func (e *engine) isTargetComplete(target string) bool {
	f := e.top()
	if f.isList[target] {
		v, ok := f.record.Get(target)
		if !ok {
			return false
		}
		return f.listIdx[target] == v.(*valuetree.List).Len()
	}
	return f.used[target]
}

// verifyComplete asserts the root record is fully consumed, no sub-contexts
// remain open, and no bounded block is active.
func (e *engine) verifyComplete() error {
	if e.blockOpen {
		return ErrUnclosedBoundedBlock
	}
	if len(e.frames) != 1 {
		return ErrUnclosedNestedContext
	}
	return e.verifyFrameComplete(e.top())
}
