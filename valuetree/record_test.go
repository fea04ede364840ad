// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package valuetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTypeRejectsUnknownKey(t *testing.T) {
	rt := NewRecordType("FrameSize",
		FieldDef{Name: "frame_width"},
		FieldDef{Name: "frame_height"},
	)
	r := rt.New(nil)
	assert.Equal(t, ErrFixedDictKey, r.Set("not_in_fixeddict", 123))

	_, err := rt.NewFrom(map[string]interface{}{"bogus": 1})
	assert.Equal(t, ErrFixedDictKey, err)
}

func TestRecordDefaultsAppliedOnlyOnNew(t *testing.T) {
	rt := NewRecordType("ParseParameters",
		FieldDef{Name: "major_version", Default: 3},
		FieldDef{Name: "minor_version", Default: 0},
	)

	r := rt.New(map[string]interface{}{"major_version": 99})
	v, ok := r.Get("major_version")
	require.True(t, ok)
	assert.Equal(t, 99, v)
	v, ok = r.Get("minor_version")
	require.True(t, ok)
	assert.Equal(t, 0, v)

	// NewFrom supplies complete state: no defaults are consulted.
	r2, err := rt.NewFrom(map[string]interface{}{"major_version": 2})
	require.NoError(t, err)
	_, ok = r2.Get("minor_version")
	assert.False(t, ok)
}

func TestRecordDefaultFactoryProducesFreshValues(t *testing.T) {
	rt := NewRecordType("LDSliceArray",
		FieldDef{Name: "qindex", DefaultFactory: func() interface{} { return NewList() }},
	)
	r1 := rt.New(nil)
	r2 := rt.New(nil)
	v1, _ := r1.Get("qindex")
	v2, _ := r2.Get("qindex")
	assert.NotSame(t, v1.(*List), v2.(*List))
}

func TestRecordSetTypeRepointsWithoutDuplicating(t *testing.T) {
	base := NewRecordType("Base", FieldDef{Name: "x"})
	derived := NewRecordType("Derived", FieldDef{Name: "x"}, FieldDef{Name: "y"})

	r := base.New(map[string]interface{}{"x": 1})
	r.SetType(derived)
	assert.Same(t, derived, r.Type())
	v, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestRecordStringSkipsUnderscoreKeys(t *testing.T) {
	rt := NewRecordType("ParseInfo",
		FieldDef{Name: "parse_code"},
		FieldDef{Name: "_offset"},
	)
	r := rt.New(map[string]interface{}{"parse_code": 0x10, "_offset": 42})
	s := r.String()
	assert.Contains(t, s, "parse_code")
	assert.NotContains(t, s, "_offset")
}

func TestAutoSentinel(t *testing.T) {
	assert.True(t, IsAuto(Auto))
	assert.False(t, IsAuto(42))
}
