// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package autofill computes the handful of bitstream fields that can't
// sensibly default to a fixed constant: picture numbers, the sequence
// header's major_version, and the next/previous parse offsets linking
// adjacent data units. Each operates directly on a value tree built from
// the vc2bitstream record types, leaving fields set to valuetree.Auto
// wherever the caller wants a value computed rather than supplied.
package autofill

import (
	"math/big"
	"runtime"

	"github.com/bbc/vc2-conformance-sub004/valuetree"
	"github.com/bbc/vc2-conformance-sub004/vc2bitstream"
	"github.com/bbc/vc2-conformance-sub004/vc2defaults"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "autofill: " + string(e) }

// ErrMalformedTree indicates a value tree whose shape doesn't match the
// vc2bitstream record types this package expects (a sub-record target
// holding something other than a *valuetree.Record, or a declared list
// item that isn't a record).
var ErrMalformedTree error = Error("value tree does not match expected record shape")

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

// getAuto reads key from rec, falling back to vc2defaults.AutoDefaultValues
// when the field is altogether absent (as happens for trees built with
// RecordType.NewFrom from a partial map). This mirrors the original's
// get_auto: the sole point where an absent field and a field explicitly
// set to valuetree.Auto are treated identically.
func getAuto(rec *valuetree.Record, key string) interface{} {
	if v, ok := rec.Get(key); ok {
		return v
	}
	if fields, ok := vc2defaults.AutoDefaultValues[rec.Type()]; ok {
		if v, ok := fields[key]; ok {
			return v
		}
	}
	return nil
}

func getAutoUint64(rec *valuetree.Record, key string) uint64 {
	switch v := getAuto(rec, key).(type) {
	case uint64:
		return v
	case *big.Int:
		return v.Uint64()
	default:
		return 0
	}
}

func getAutoBool(rec *valuetree.Record, key string) bool {
	v, _ := getAuto(rec, key).(bool)
	return v
}

func getAutoBytes(rec *valuetree.Record, key string) []byte {
	v, _ := getAuto(rec, key).([]byte)
	return v
}

// getChild returns the record at key, creating an empty one of type rt and
// storing it if absent. Mirrors the original's repeated
// dict.setdefault(key, SomeFixedDict()) idiom: the created record holds no
// field values of its own, so getAuto's fallback to
// vc2defaults.AutoDefaultValues still applies to every field read from it
// (NewFrom, unlike New, applies no field defaults).
func getChild(rec *valuetree.Record, key string, rt *valuetree.RecordType) (*valuetree.Record, error) {
	if v, ok := rec.Get(key); ok {
		child, ok := v.(*valuetree.Record)
		if !ok {
			return nil, ErrMalformedTree
		}
		return child, nil
	}
	child, err := rt.NewFrom(nil)
	if err != nil {
		return nil, err
	}
	if err := rec.Set(key, child); err != nil {
		return nil, err
	}
	return child, nil
}

// childRecord returns the record at key without creating one, reporting
// whether it was present at all.
func childRecord(rec *valuetree.Record, key string) (*valuetree.Record, bool, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, false, nil
	}
	child, ok := v.(*valuetree.Record)
	if !ok {
		return nil, false, ErrMalformedTree
	}
	return child, true, nil
}

// listRecords returns the records held by the declared-list target key, in
// order.
func listRecords(rec *valuetree.Record, key string) ([]*valuetree.Record, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, nil
	}
	l, ok := v.(*valuetree.List)
	if !ok {
		return nil, ErrMalformedTree
	}
	out := make([]*valuetree.Record, l.Len())
	for i := 0; i < l.Len(); i++ {
		item, ok := l.At(i).(*valuetree.Record)
		if !ok {
			return nil, ErrMalformedTree
		}
		out[i] = item
	}
	return out, nil
}

// parseInfoOf returns du's parse_info sub-record, creating one if absent.
func parseInfoOf(du *valuetree.Record) (*valuetree.Record, error) {
	return getChild(du, "parse_info", vc2bitstream.ParseInfoType)
}
