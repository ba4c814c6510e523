// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package synidx provides the synapse-interval representation used
// throughout the engine to express indexed fan-in, fan-out, and weight
// references without materializing the indices it denotes.
package synidx

// Interval is a compact run of synapse indices: [Start, Start+Size) for
// non-negative Start, or the Size indices counting down from Start for
// negative Start. Past marks a back-reference into ring-buffer history;
// zero means the current step.
type Interval struct {
	Start int32
	Size  uint32
	Past  uint32
}

// Len returns the number of indices this interval expands to.
func (iv Interval) Len() int { return int(iv.Size) }

// Negative reports whether this interval addresses the input tape
// (Start < 0) rather than neuron outputs.
func (iv Interval) Negative() bool { return iv.Start < 0 }

// At returns the i'th signed index within this interval (0 <= i < iv.Size).
// Panics if i is out of range.
func (iv Interval) At(i int) int32 {
	if i < 0 || uint32(i) >= iv.Size {
		panic("synidx: interval index out of range")
	}
	if iv.Start >= 0 {
		return iv.Start + int32(i)
	}
	return iv.Start - int32(i)
}

// Last returns the final signed index this interval expands to, honoring
// the direction implied by its sign. Panics if the interval is empty.
func (iv Interval) Last() int32 {
	if iv.Size == 0 {
		panic("synidx: Last of empty interval")
	}
	return iv.At(int(iv.Size - 1))
}

// TapeOffset converts a negative synapse index into a non-negative
// input-tape slot. It is the inverse of SignedFromTape.
func TapeOffset(i int32) int32 { return -i - 1 }

// SignedFromTape converts a non-negative input-tape slot into the
// negative synapse index that addresses it. It is the inverse of
// TapeOffset.
func SignedFromTape(k int32) int32 { return -k - 1 }

// Total returns the sum of Size across all intervals in ivs.
func Total(ivs []Interval) int {
	n := 0
	for _, iv := range ivs {
		n += int(iv.Size)
	}
	return n
}

// Contiguous reports whether appending a single index equal to next
// would extend iv in place: next immediately follows iv's last element
// in iv's direction (upward for a non-negative Start, downward for a
// negative one). Past is not compared; callers check it themselves.
func (iv Interval) Contiguous(next int32) bool {
	if iv.Size == 0 {
		return false
	}
	if iv.Start >= 0 {
		return next == iv.Start+int32(iv.Size)
	}
	return next == iv.Start-int32(iv.Size)
}

// Grow returns iv with its Size incremented by one, assuming Contiguous
// already reported true for the index being appended.
func (iv Interval) Grow() Interval {
	iv.Size++
	return iv
}
