// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewZeroInitialized(t *testing.T) {
	b := New(3, 4)
	for k := 0; k < 3; k++ {
		for _, v := range b.Past(k) {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestStepCopiesPriorHead(t *testing.T) {
	b := New(2, 2)
	b.CurrentMut()[0] = 7
	b.CurrentMut()[1] = 9
	beforeStep := append([]float64(nil), b.Current()...)
	b.Step()
	// past(1) must equal what past(0) returned immediately before the step.
	assert.Equal(t, beforeStep, b.Past(1))
	assert.Equal(t, beforeStep, b.Past(0)) // copied forward as initial state
}

func TestStepNoCopyWhenDepthOne(t *testing.T) {
	b := New(1, 2)
	b.CurrentMut()[0] = 5
	b.Step()
	assert.Equal(t, 5.0, b.Current()[0])
}

func TestResetZeroesAll(t *testing.T) {
	b := New(2, 2)
	b.CurrentMut()[0] = 1
	b.Step()
	b.CurrentMut()[1] = 2
	b.Reset()
	for k := 0; k < 2; k++ {
		for _, v := range b.Past(k) {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestPastOutOfRangePanics(t *testing.T) {
	b := New(2, 1)
	assert.Panics(t, func() { b.Past(2) })
	assert.Panics(t, func() { b.Past(-1) })
}

func TestPopFrontUndoesStep(t *testing.T) {
	b := New(2, 1)
	b.CurrentMut()[0] = 3
	b.Step()
	b.CurrentMut()[0] = 9
	b.PopFront()
	assert.Equal(t, 3.0, b.Current()[0])
}

func TestAtSequenceCoordinates(t *testing.T) {
	b := New(3, 1)
	// fill frames across 3 steps with distinguishable values
	b.CurrentMut()[0] = 1
	b.Step()
	b.CurrentMut()[0] = 2
	b.Step()
	b.CurrentMut()[0] = 3
	// At(2, 0) should be the most recent frame (sequenceIndex = depth-1)
	assert.Equal(t, 3.0, b.At(2, 0)[0])
	assert.Equal(t, 2.0, b.At(1, 0)[0])
	assert.Equal(t, 1.0, b.At(0, 0)[0])
}
