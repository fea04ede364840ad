// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package serdes implements the declarative bitstream traversal interface
// (SerDes) and its three interchangeable back-ends: Deserialiser,
// Serialiser, and PadTruncate. A format description is written once against
// the SerDes interface and drives all three, plus a Monitored wrapper around
// any of them.
package serdes

import (
	"fmt"
	"runtime"
	"strings"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "serdes: " + string(e) }

var (
	ErrReusedTarget              error = Error("target already used in this context")
	ErrUnusedTarget               error = Error("target was never used")
	ErrListTargetExhausted        error = Error("list target has no more elements")
	ErrListTargetContainsNonList  error = Error("target already holds a non-list value")
	ErrUnclosedBoundedBlock       error = Error("bounded block was not closed")
	ErrUnclosedNestedContext      error = Error("sub-context was not left")
	ErrNoBoundedBlock             error = Error("no bounded block is active")
	ErrNoSubcontext               error = Error("no sub-context is active")
)

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

// PathElem names one step of a SerDes path: the type name of the record
// the step is taken within, the target key, and (for list targets) the
// index touched.
type PathElem struct {
	TypeName string
	Key      string
	Index    int
	HasIndex bool
}

func (p PathElem) String() string {
	if p.HasIndex {
		return fmt.Sprintf("%s[%q][%d]", p.TypeName, p.Key, p.Index)
	}
	return fmt.Sprintf("%s[%q]", p.TypeName, p.Key)
}

// describePath renders a path the way spec.md §4.2 shows it:
// SequenceHeader['source_parameters']['frame_size']['frame_width'].
func describePath(path []PathElem) string {
	var sb strings.Builder
	for i, p := range path {
		if i == 0 {
			sb.WriteString(p.TypeName)
			continue
		}
		if p.HasIndex {
			fmt.Fprintf(&sb, "['%s'][%d]", p.Key, p.Index)
		} else {
			fmt.Fprintf(&sb, "['%s']", p.Key)
		}
	}
	return sb.String()
}

// PathError wraps an error with the SerDes path active when it occurred.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *PathError) Unwrap() error { return e.Err }
