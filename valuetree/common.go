// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package valuetree implements the fixed-key record/list value tree that
// the traversal engine reads from and writes into: an ordered mapping
// restricted to a closed, type-declared set of keys, plus the companion
// list type used for repeated fields.
package valuetree

import "runtime"

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "valuetree: " + string(e) }

// ErrFixedDictKey indicates an attempt to get, set, or delete a key outside
// a record type's declared key set.
var ErrFixedDictKey error = Error("key not allowed in this record type")

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

// autoType is the distinguished, unexported sentinel type behind Auto: a
// dedicated type (rather than a reused int/string constant) so that it can
// never collide with a legitimate bitstream value and can never be
// serialised by accident.
type autoType struct{}

// Auto requests that auto-fill compute a field's value (see the autofill
// package). It must not be written to the bitstream; format descriptions
// that see it outside of an auto-fill pass should treat it as a
// programming error.
var Auto = autoType{}

// IsAuto reports whether v is the Auto sentinel.
func IsAuto(v interface{}) bool {
	_, ok := v.(autoType)
	return ok
}
