// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ringbuf provides a fixed-depth circular store of per-step
// neuron activation frames. The indexing scheme is adapted from
// ringidx.Idx's modulo cursor, generalized to carry a dense []float64
// frame at each logical position instead of a bare index.
package ringbuf

// Buffer is a fixed-capacity circular store of neuron-activation
// frames. Frame i (0 <= i < MemoryLength) is reached through Past(i)
// relative to the current head.
type Buffer struct {
	width  int
	depth  int
	frames [][]float64
	head   int
}

// New allocates a zero-initialized Buffer with the given memory depth
// (>= 1) and per-frame width (neuron count).
func New(memoryLength, width int) *Buffer {
	if memoryLength < 1 {
		panic("ringbuf: memoryLength must be >= 1")
	}
	b := &Buffer{width: width, depth: memoryLength}
	b.frames = make([][]float64, memoryLength)
	for i := range b.frames {
		b.frames[i] = make([]float64, width)
	}
	return b
}

// Width returns the number of neuron slots per frame.
func (b *Buffer) Width() int { return b.width }

// Depth returns the buffer's memory length (capacity).
func (b *Buffer) Depth() int { return b.depth }

// idx maps a logical "k steps back from head" offset to a physical
// frame index, wrapping modulo depth.
func (b *Buffer) idx(back int) int {
	i := b.head - back
	for i < 0 {
		i += b.depth
	}
	return i % b.depth
}

// Step advances the head by one position. If depth > 1, the prior head
// frame's values are copied into the new head so recurrent neurons see
// their last activation as initial state for the new step. If depth
// == 1 there is only one frame and no copy is needed or possible.
func (b *Buffer) Step() {
	if b.depth == 1 {
		return
	}
	prev := b.head
	b.head = b.idx(-1)
	copy(b.frames[b.head], b.frames[prev])
}

// Reset zeroes every frame and resets the head to the first frame.
func (b *Buffer) Reset() {
	for _, f := range b.frames {
		for i := range f {
			f[i] = 0
		}
	}
	b.head = 0
}

// PopFront clears the current head frame to zero and moves the head
// back by one position (wrapping), undoing the effect of the most
// recent Step without needing to remember prior contents.
func (b *Buffer) PopFront() {
	f := b.frames[b.head]
	for i := range f {
		f[i] = 0
	}
	b.head = b.idx(1)
}

// Current returns the frame at the head, read-only by convention.
func (b *Buffer) Current() []float64 { return b.frames[b.head] }

// CurrentMut returns the writable frame at the head.
func (b *Buffer) CurrentMut() []float64 { return b.frames[b.head] }

// Past returns the frame that was current k steps ago (0 <= k <
// Depth()). Past(0) is the same as Current(). Panics if k is out of
// range.
func (b *Buffer) Past(k int) []float64 {
	if k < 0 || k >= b.depth {
		panic("ringbuf: past offset out of range")
	}
	return b.frames[b.idx(k)]
}

// At maps sequence-coordinate lookups (used by solvers that accumulate
// an entire unrolled sequence rather than a sliding window) onto the
// physical frame: sequenceIndex is the 0-based position in an unrolled
// run of length Depth(), and past is an additional back-offset from
// that position.
func (b *Buffer) At(sequenceIndex, past int) []float64 {
	k := (b.depth - sequenceIndex - 1) + past
	return b.Past(k)
}
