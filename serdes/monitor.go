// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package serdes

import (
	"math/big"

	"github.com/bbc/vc2-conformance-sub004/bitio"
)

// Hook is called after each primitive op with the SerDes and the target
// just touched. It returns true to request that the traversal pause (see
// Monitored.Paused); used for progress reporting and for interruptible
// re-entrant traversal without emulating coroutines in a systems language.
type Hook func(s SerDes, target string, value interface{}) (pause bool)

// Monitored wraps any SerDes back-end, invoking a hook after every
// primitive op.
type Monitored struct {
	SerDes
	hook   Hook
	paused bool
}

// NewMonitored wraps s, invoking hook after each primitive op.
func NewMonitored(s SerDes, hook Hook) *Monitored {
	return &Monitored{SerDes: s, hook: hook}
}

// Paused reports whether the most recently completed primitive op asked the
// traversal to pause. The format description's traversal loop is expected
// to check this after each op it drives and return control to the caller
// when true; this is the "interruptable" form referred to by spec.md §4.2,
// implemented as a cooperative flag rather than a goroutine/channel pair so
// that pausing never leaves a bounded block or sub-context half-open.
func (m *Monitored) Paused() bool { return m.paused }

func (m *Monitored) after(target string, value interface{}) {
	m.paused = m.hook(m.SerDes, target, value)
}

func (m *Monitored) Bool(target string) (bool, error) {
	v, err := m.SerDes.Bool(target)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) NBits(target string, n int) (uint64, error) {
	v, err := m.SerDes.NBits(target, n)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) UintLit(target string, k int) (uint64, error) {
	v, err := m.SerDes.UintLit(target, k)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) BitArray(target string, n int) (bitio.BitArray, error) {
	v, err := m.SerDes.BitArray(target, n)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) Bytes(target string, k int) ([]byte, error) {
	v, err := m.SerDes.Bytes(target, k)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) Uint(target string) (*big.Int, error) {
	v, err := m.SerDes.Uint(target)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

func (m *Monitored) Sint(target string) (*big.Int, error) {
	v, err := m.SerDes.Sint(target)
	if err == nil {
		m.after(target, v)
	}
	return v, err
}

var _ SerDes = (*Monitored)(nil)
