// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package valuetree

import (
	"fmt"
	"strings"
)

// RecordType declares the closed set of keys permitted in instances of one
// kind of record, in declaration order, along with their field metadata.
// A type is declared once; instances behave as a mapping restricted to the
// declared keys.
type RecordType struct {
	name   string
	order  []string
	fields map[string]FieldDef
}

// NewRecordType declares a record type with the given name and ordered
// field list.
func NewRecordType(name string, fields ...FieldDef) *RecordType {
	rt := &RecordType{
		name:   name,
		order:  make([]string, len(fields)),
		fields: make(map[string]FieldDef, len(fields)),
	}
	for i, f := range fields {
		rt.order[i] = f.Name
		rt.fields[f.Name] = f
	}
	return rt
}

// Name reports the record type's declared name.
func (rt *RecordType) Name() string { return rt.name }

// Keys reports the type's declared keys in declaration order.
func (rt *RecordType) Keys() []string {
	out := make([]string, len(rt.order))
	copy(out, rt.order)
	return out
}

// HasKey reports whether key is part of this type's declared key set.
func (rt *RecordType) HasKey(key string) bool {
	_, ok := rt.fields[key]
	return ok
}

// Field returns the field metadata for key.
func (rt *RecordType) Field(key string) (FieldDef, bool) {
	f, ok := rt.fields[key]
	return f, ok
}

// New constructs an instance with defaults applied: any declared key absent
// from values is populated from its FieldDef default (if any); keys with
// neither a supplied value nor a default are left unset.
func (rt *RecordType) New(values map[string]interface{}) *Record {
	r := &Record{typ: rt, values: make(map[string]interface{})}
	for _, key := range rt.order {
		if v, ok := values[key]; ok {
			r.values[key] = v
			continue
		}
		if dv, ok := rt.fields[key].defaultValue(); ok {
			r.values[key] = dv
		}
	}
	return r
}

// NewFrom constructs an instance from a complete mapping with no defaults
// applied: the caller is assumed to supply complete state. Keys outside the
// declared set cause a panic recovered into the returned error.
func (rt *RecordType) NewFrom(values map[string]interface{}) (r *Record, err error) {
	defer errRecover(&err)
	r = &Record{typ: rt, values: make(map[string]interface{}, len(values))}
	for k, v := range values {
		if !rt.HasKey(k) {
			panic(ErrFixedDictKey)
		}
		r.values[k] = v
	}
	return r, nil
}

// Record is an instance of a RecordType: an ordered mapping restricted to
// the type's declared keys.
type Record struct {
	typ    *RecordType
	values map[string]interface{}
}

// Type reports the record's current type identity.
func (r *Record) Type() *RecordType { return r.typ }

// Get returns the value stored at key and whether it is present.
func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores value at key. It fails with ErrFixedDictKey if key is outside
// the record's declared key set.
func (r *Record) Set(key string, value interface{}) error {
	if !r.typ.HasKey(key) {
		return ErrFixedDictKey
	}
	r.values[key] = value
	return nil
}

// Delete removes the value at key, if any. It fails with ErrFixedDictKey if
// key is outside the record's declared key set.
func (r *Record) Delete(key string) error {
	if !r.typ.HasKey(key) {
		return ErrFixedDictKey
	}
	delete(r.values, key)
	return nil
}

// Has reports whether key currently holds a value.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys reports the keys currently holding a value, in declaration order.
func (r *Record) Keys() []string {
	var out []string
	for _, k := range r.typ.order {
		if _, ok := r.values[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// SetType changes the record's type identity to rt, preserving existing
// keys and values (invariant 4: record-type changes re-parent existing
// entries but never duplicate them). It is a no-op if the record is already
// of type rt.
func (r *Record) SetType(rt *RecordType) {
	if r.typ == rt {
		return
	}
	r.typ = rt
}

// String renders the record one line per present, non-underscore-prefixed
// key (in declaration order), using each field's formatter/enum. Nested
// records are indented by two spaces.
func (r *Record) String() string {
	if len(r.values) == 0 {
		return r.typ.name
	}
	var sb strings.Builder
	sb.WriteString(r.typ.name)
	sb.WriteString(":\n")
	for _, key := range r.typ.order {
		v, ok := r.values[key]
		if !ok || strings.HasPrefix(key, "_") {
			continue
		}
		field := r.typ.fields[key]
		line := fmt.Sprintf("%s: %s", key, formatValue(field, v))
		sb.WriteString(indent(line))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatValue(field FieldDef, v interface{}) string {
	if nested, ok := v.(fmt.Stringer); ok {
		if _, isRecord := v.(*Record); isRecord {
			return indentNested(nested.String())
		}
	}
	return field.toString(v)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

func indentNested(s string) string {
	return "\n" + indent(s)
}
