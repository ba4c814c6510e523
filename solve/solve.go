// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve evaluates one compiled partition for the current step:
// gather its fan-in, update every inner neuron in declaration order,
// and scatter the results back into the ring buffer. Grounded on
// basic/leabra/act.go's ActFmG — a sequential per-neuron update pulling
// from param structs and writing back into a neuron record — adapted
// here to pull from a gathered scratch vector and earlier inner results
// instead of per-neuron param structs, per spec §4.5.
package solve

import (
	"github.com/emer/sparserun/compile"
	"github.com/emer/sparserun/ringbuf"
	"github.com/emer/sparserun/synidx"
	"github.com/emer/sparserun/transfer"
)

// Solve evaluates part against the ring buffer's current step. inputTape
// holds this step's network input values, one per input-tape slot.
// Solve must not be called concurrently with another Solve sharing the
// same ring buffer unless the partitions involved have disjoint inner
// neuron sets and the caller has already established the ordering
// spec §5 requires (row barrier before any cross-row reference).
func Solve(part *compile.PartialSolution, ring *ringbuf.Buffer, inputTape []float64) {
	gather := gatherInputs(part, ring, inputTape)

	frame := ring.CurrentMut()
	var prevFrame []float64
	if ring.Depth() > 1 {
		prevFrame = ring.Past(1)
	}

	activations := make([]float64, len(part.Inner))
	for n := range part.Inner {
		in := &part.Inner[n]

		sum := 0.0
		wOff := int(in.Weights.Start)
		it := synidx.NewIterator(in.Inputs)
		total := it.Len()
		for i := 0; i < total; i++ {
			local := it.At(i)
			var v float64
			if local < 0 {
				v = gather[synidx.TapeOffset(local)]
			} else {
				v = activations[local]
			}
			sum += v * part.Weights[wOff+i]
		}
		if in.BiasIndex >= 0 {
			sum += part.Weights[in.BiasIndex]
		}
		transferred := transfer.Apply(in.TransferFn, sum)

		// previous is read before this partition's own scatter writes
		// frame[in.GlobalIndex]; no other partition can have touched
		// that slot this step, since global neuron indices are
		// disjoint across partitions.
		var previous float64
		if ring.Depth() > 1 {
			previous = prevFrame[in.GlobalIndex]
		} else {
			previous = frame[in.GlobalIndex]
		}
		spikeWeight := part.Weights[in.SpikeIndex]
		activations[n] = transfer.Spike(spikeWeight, previous, transferred)
	}

	scatter(part, frame, activations)
}

// gatherInputs resolves part's gather list once per solve, reading
// tape-addressed entries from inputTape and neuron-addressed entries
// (optionally with a Past offset) from ring.
func gatherInputs(part *compile.PartialSolution, ring *ringbuf.Buffer, inputTape []float64) []float64 {
	it := synidx.NewIterator(part.Inputs)
	n := it.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		iv, signed := it.AtWithInterval(i)
		if signed < 0 {
			out[i] = inputTape[synidx.TapeOffset(signed)]
		} else {
			out[i] = ring.Past(int(iv.Past))[signed]
		}
	}
	return out
}

// scatter walks part's output list in lockstep with activations,
// writing each inner neuron's result to its global slot in frame.
func scatter(part *compile.PartialSolution, frame []float64, activations []float64) {
	it := synidx.NewIterator(part.Outputs)
	n := it.Len()
	for i := 0; i < n; i++ {
		frame[it.At(i)] = activations[i]
	}
}
