// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package valuetree

import "fmt"

// EnumEntry names one legal value of an enumerated field.
type EnumEntry struct {
	Value interface{}
	Name  string
}

// Enum is a lookup table from raw value to friendly name, used to render
// field values as "Name (Value)" the way the VC-2 parse codes and preset
// indices are displayed.
type Enum []EnumEntry

func (e Enum) lookup(v interface{}) (name string, ok bool) {
	for _, ent := range e {
		if ent.Value == v {
			return ent.Name, true
		}
	}
	return "", false
}

// FieldDef describes one key of a record type: its default (or
// default-producing factory, for mutable defaults like lists), its
// enumeration (if any), and its formatter.
//
// Defaults apply only when a record is constructed with no provided initial
// value for the key and no complete-state initialiser is given (see
// RecordType.New vs RecordType.NewFrom).
type FieldDef struct {
	Name string

	// Default is used verbatim as the field's initial value if non-nil and
	// DefaultFactory is nil.
	Default interface{}

	// DefaultFactory, if non-nil, is called to produce a fresh initial value
	// each time one is needed (used for field types, such as lists, that
	// must not be shared between instances).
	DefaultFactory func() interface{}

	// Enum, if non-nil, renders the field as "Name (Value)" via Formatter
	// when the raw value matches a known variant, else just the value.
	Enum Enum

	// Formatter renders a scalar value as a string. Defaults to fmt.Sprint.
	Formatter func(interface{}) string
}

func (f FieldDef) defaultValue() (interface{}, bool) {
	if f.DefaultFactory != nil {
		return f.DefaultFactory(), true
	}
	if f.Default != nil {
		return f.Default, true
	}
	return nil, false
}

// toString renders value per the field's formatter/enum configuration,
// matching Entry.to_string: "Name (value)" when a friendly enum name is
// known, otherwise just the formatted value.
func (f FieldDef) toString(value interface{}) string {
	formatter := f.Formatter
	if formatter == nil {
		formatter = func(v interface{}) string { return fmt.Sprint(v) }
	}
	s := formatter(value)
	if f.Enum != nil {
		if name, ok := f.Enum.lookup(value); ok {
			return fmt.Sprintf("%s (%s)", name, s)
		}
	}
	return s
}
