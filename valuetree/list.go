// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package valuetree

// List is an ordered sequence of values sharing a single key in its parent
// record, used for declared-list targets (declare_list) and for the
// slice-array store's parallel columns.
type List struct {
	items []interface{}
}

// NewList returns an empty List.
func NewList() *List { return &List{} }

// Len reports the number of items in the list.
func (l *List) Len() int { return len(l.items) }

// Append adds v to the end of the list.
func (l *List) Append(v interface{}) { l.items = append(l.items, v) }

// At returns the item at index i.
func (l *List) At(i int) interface{} { return l.items[i] }

// Set overwrites the item at index i.
func (l *List) Set(i int, v interface{}) { l.items[i] = v }

// Truncate shrinks the list to its first n items, used by the pad-and-
// truncate back-end to cut a list down to what the traversal consumed.
func (l *List) Truncate(n int) {
	if n < len(l.items) {
		l.items = l.items[:n]
	}
}

// Items returns the list's items as a slice; callers must not mutate it.
func (l *List) Items() []interface{} { return l.items }
