// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile turns a router's stream of ready-neuron subsets into
// a two-dimensional matrix of memory-bounded partial solutions,
// rewriting every cross-neuron reference into the partition's own
// local coordinate system, per spec §4.4.
package compile

import (
	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/synidx"
)

// InnerNeuron is one partition-local neuron record. Local input and
// weight addressing uses the same synidx.Interval sign convention as
// Network.Neuron: a negative element resolves through the partition's
// gather list (PartialSolution.Inputs); a non-negative element is the
// inner index of an earlier neuron in the same partition.
//
// This collapses the parallel-array layout spec §3 describes
// (inner_input_sizes, inner_weight_sizes, transfer_fns, spike_indices,
// bias_indices as separate slices keyed by inner index) into a single
// slice of structs — the same information, addressed the way
// netmodel.Network already addresses its own Neurons slice, rather
// than a hand-rolled CSR layout Go has no need to imitate.
type InnerNeuron struct {
	GlobalIndex uint32
	TransferFn  netmodel.TransferKind

	// Inputs are this neuron's fan-in in local coordinates.
	Inputs []synidx.Interval
	// Weights is the (single, contiguous) interval into the
	// partition's Weights table holding this neuron's input-aligned
	// weight values, one per flattened Inputs element.
	Weights synidx.Interval
	// BiasIndex is the local Weights-table slot of this neuron's bias
	// weight, or -1 if it has none.
	BiasIndex int
	// SpikeIndex is the local Weights-table slot of this neuron's
	// spike-mixing coefficient.
	SpikeIndex uint32
}

// PartialSolution is one compiled partition: spec §3's "partial
// solution".
type PartialSolution struct {
	Inner []InnerNeuron

	// Inputs is the gather list: negative entries address the network
	// input tape, non-negative entries are global neuron indices
	// (optionally with Past > 0) produced by earlier partitions or
	// earlier time steps.
	Inputs []synidx.Interval
	// Outputs lists, in the same order as Inner, the global neuron
	// index each inner neuron's result scatters back to.
	Outputs []synidx.Interval

	// Weights is this partition's local copy of referenced weight
	// values, synchronized from the network's global table.
	Weights []float64
	// WeightSources[i] is the global weight-table index Weights[i] was
	// last copied from, retained so SyncWeights can re-pull fresh
	// values without recompiling the partition.
	WeightSources []uint32

	// globalToInner maps a global neuron index already added to this
	// partition to its inner position, so later neurons in the same
	// partition can address it directly instead of through the gather
	// list.
	globalToInner map[uint32]int
	// gatherDedup maps an (interval-key) already present in Inputs to
	// its flat slot, so repeated references to the same producer reuse
	// one gather-list slot instead of duplicating it.
	gatherDedup map[gatherKey]int32
}

type gatherKey struct {
	value int32
	past  uint32
}

func newPartial() *PartialSolution {
	return &PartialSolution{
		globalToInner: make(map[uint32]int),
		gatherDedup:   make(map[gatherKey]int32),
	}
}

// Row is one sequential stage of a Solution: its partitions have
// disjoint write-sets and may be solved concurrently.
type Row struct {
	Partitions []*PartialSolution
}

// Solution is the compiler's full output: a row-major matrix of
// partitions plus the network-wide metadata the solver and
// orchestrator need.
type Solution struct {
	Rows         []Row
	NeuronCount  int
	OutputCount  int
	MemoryLength uint32
}
