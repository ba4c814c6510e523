// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synidx

// Iterator is a non-owning lazy view over a slice of Interval. It never
// copies the underlying slice, which must outlive the Iterator. Random
// subscript access is amortized O(1) for sequential (monotonically
// increasing) callers via a cached cursor; non-monotonic access resets
// the cursor and falls back to a linear scan from the start.
type Iterator struct {
	ivs []Interval

	total int

	// cursor caches the position of the most recent At/AtWithInterval
	// call: cursorInterval is the interval index, cursorBase is the flat
	// index of that interval's first element.
	cursorInterval int
	cursorBase     int
	cursorValid    bool
}

// NewIterator builds an Iterator over ivs. ivs is retained, not copied.
func NewIterator(ivs []Interval) *Iterator {
	return &Iterator{ivs: ivs, total: Total(ivs)}
}

// Len returns the total number of indices across all intervals.
func (it *Iterator) Len() int { return it.total }

// Last returns the final signed index of the whole sequence, honoring
// the sign of the interval that contains it. Panics if the iterator is
// empty.
func (it *Iterator) Last() int32 {
	if it.total == 0 {
		panic("synidx: Last of empty iterator")
	}
	for i := len(it.ivs) - 1; i >= 0; i-- {
		if it.ivs[i].Size > 0 {
			return it.ivs[i].Last()
		}
	}
	panic("synidx: Last of empty iterator")
}

// resetCursor rewinds the cursor to the start of the interval list.
func (it *Iterator) resetCursor() {
	it.cursorInterval = 0
	it.cursorBase = 0
	it.cursorValid = true
}

// At returns the signed index at flat position i across the whole
// sequence, expanding intervals lazily. Panics if i is out of range.
// Sequential ascending calls are amortized O(1); any other access
// pattern resets the cursor and walks forward from interval 0.
func (it *Iterator) At(i int) int32 {
	if i < 0 || i >= it.total {
		panic("synidx: iterator subscript out of range")
	}
	if !it.cursorValid || i < it.cursorBase {
		it.resetCursor()
	}
	for it.cursorInterval < len(it.ivs) {
		iv := it.ivs[it.cursorInterval]
		if i < it.cursorBase+int(iv.Size) {
			return iv.At(i - it.cursorBase)
		}
		it.cursorBase += int(iv.Size)
		it.cursorInterval++
	}
	panic("synidx: iterator subscript out of range")
}

// AtWithInterval is At, but also returns the Interval the element at
// flat position i belongs to, so callers can read Past alongside the
// signed index without a second pass.
func (it *Iterator) AtWithInterval(i int) (Interval, int32) {
	if i < 0 || i >= it.total {
		panic("synidx: iterator subscript out of range")
	}
	if !it.cursorValid || i < it.cursorBase {
		it.resetCursor()
	}
	for it.cursorInterval < len(it.ivs) {
		iv := it.ivs[it.cursorInterval]
		if i < it.cursorBase+int(iv.Size) {
			return iv, iv.At(i - it.cursorBase)
		}
		it.cursorBase += int(iv.Size)
		it.cursorInterval++
	}
	panic("synidx: iterator subscript out of range")
}

// IterateIndices visits every signed index in order, calling fn with
// each. fn returns false to stop early. IterateIndices returns the
// number of indices actually visited: the index of the first element on
// which fn returned false, or the total length if fn never did.
func (it *Iterator) IterateIndices(fn func(signed int32) bool) int {
	n := 0
	for _, iv := range it.ivs {
		for k := 0; k < int(iv.Size); k++ {
			if !fn(iv.At(k)) {
				return n
			}
			n++
		}
	}
	return n
}

// IterateWithInterval visits every signed index in order along with the
// interval it came from, useful for callers that need the Past offset
// alongside the index. Returns the count visited, terminating early
// when fn returns false.
func (it *Iterator) IterateWithInterval(fn func(iv Interval, signed int32) bool) int {
	n := 0
	for _, iv := range it.ivs {
		for k := 0; k < int(iv.Size); k++ {
			if !fn(iv, iv.At(k)) {
				return n
			}
			n++
		}
	}
	return n
}

// IterateIntervals skims the interval list without expanding indices,
// for callers that only need interval-level metadata (e.g. counting or
// Past values). Returns the number of intervals visited.
func (it *Iterator) IterateIntervals(fn func(iv Interval) bool) int {
	n := 0
	for _, iv := range it.ivs {
		if !fn(iv) {
			return n
		}
		n++
	}
	return n
}
