// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netmodel holds the declarative value types the rest of the
// engine compiles and solves: Network, Neuron, and FeatureGroup. These
// are plain structs with no behavior beyond validation and simple
// accessors, matching the teacher's own emer.Network / emer.Path style
// (plain struct value types, fmt.Errorf-based validation, no deep
// inheritance) rather than the original's class hierarchy.
package netmodel

import (
	"github.com/emer/sparserun/engerr"
	"github.com/emer/sparserun/synidx"
)

// Neuron is a single computation node: a transfer function, a memory
// (spike) mixing coefficient, and weighted fan-in described by
// synapse intervals.
type Neuron struct {
	TransferFn       TransferKind
	SpikeWeightIndex uint32

	// InputIndices lists this neuron's fan-in as synapse intervals.
	// Negative starts address the input tape; non-negative starts
	// address other neurons' outputs, optionally from history via Past.
	InputIndices []synidx.Interval

	// InputWeights lists index intervals into the network's global
	// weight table, one flattened entry per flattened InputIndices
	// entry, plus any trailing bias weight.
	InputWeights []synidx.Interval
}

// InputCount returns the flattened fan-in length.
func (n *Neuron) InputCount() int { return synidx.Total(n.InputIndices) }

// WeightCount returns the flattened input-weight length, including any
// trailing bias weight.
func (n *Neuron) WeightCount() int { return synidx.Total(n.InputWeights) }

// BiasCount returns the number of trailing weights beyond the
// input-aligned ones (spec §3's "unmatched trailing weights are
// biases"). Sparserun supports at most one bias weight per neuron, the
// conventional scalar bias of spec §4.5's bias_indices[n]; a network
// whose subtraction yields more than one is rejected by Validate.
func (n *Neuron) BiasCount() int {
	bc := n.WeightCount() - n.InputCount()
	if bc < 0 {
		bc = 0
	}
	return bc
}

// BiasWeightIndex returns the global weight-table index of this
// neuron's bias weight, and whether one exists.
func (n *Neuron) BiasWeightIndex() (uint32, bool) {
	if n.BiasCount() == 0 {
		return 0, false
	}
	it := synidx.NewIterator(n.InputWeights)
	skip := n.InputCount()
	idx := it.At(skip)
	return uint32(idx), true
}

// FeatureGroup is a declarative post-activation transform applied by
// the feature executor over a subset of neurons after a step
// completes.
type FeatureGroup struct {
	Kind    FeatureKind
	Neurons []synidx.Interval
}

// Network is the full declarative sparse network: neuron records plus
// the global weight table and topology-wide settings.
type Network struct {
	InputWidth   int
	OutputCount  int
	Neurons      []Neuron
	Weights      []float64
	Recurrence   RecurrenceKind
	MemoryLength uint32

	FeatureGroups []FeatureGroup
}

// NeuronCount returns the number of neurons in the network.
func (net *Network) NeuronCount() int { return len(net.Neurons) }

// OutputStart returns the index of the first output neuron: output
// neurons are, by positional convention, the final OutputCount entries
// of Neurons.
func (net *Network) OutputStart() int { return len(net.Neurons) - net.OutputCount }

// Validate checks the structural invariants spec §3 and §9 require
// before a network may be compiled. It never panics; every violation
// becomes a *engerr.Error, identifying the offending neuron where
// applicable. Structurally-wrong shapes (bad enum value, too many bias
// weights, mismatched lengths) report KindMalformedNetwork; violations
// that are specifically an index or range falling outside a bound
// report KindOutOfBounds.
func (net *Network) Validate() error {
	if net.OutputCount < 0 || net.OutputCount > len(net.Neurons) {
		return engerr.New(engerr.KindMalformedNetwork,
			"output_count %d exceeds neuron count %d", net.OutputCount, len(net.Neurons))
	}
	if net.MemoryLength < 1 {
		return engerr.New(engerr.KindMalformedNetwork, "memory_length must be >= 1")
	}
	nNeurons := int32(len(net.Neurons))
	maxPast := uint32(0)

	for ni := range net.Neurons {
		nrn := &net.Neurons[ni]
		if !nrn.TransferFn.IsValid() {
			return engerr.NewAt(engerr.KindMalformedNetwork, ni,
				"transfer_fn_id %d out of range", nrn.TransferFn)
		}
		if nrn.BiasCount() > 1 {
			return engerr.NewAt(engerr.KindMalformedNetwork, ni,
				"more than one trailing bias weight (%d)", nrn.BiasCount())
		}
		if int(nrn.SpikeWeightIndex) >= len(net.Weights) {
			return engerr.NewAt(engerr.KindOutOfBounds, ni,
				"spike_weight_index %d out of bounds (weights len %d)", nrn.SpikeWeightIndex, len(net.Weights))
		}
		if nrn.WeightCount() < nrn.InputCount() {
			return engerr.NewAt(engerr.KindMalformedNetwork, ni,
				"input_weights length %d shorter than input_indices length %d", nrn.WeightCount(), nrn.InputCount())
		}

		for _, iv := range nrn.InputWeights {
			if iv.Size == 0 {
				continue
			}
			lo, hi := iv.Start, iv.Last()
			if lo > hi {
				lo, hi = hi, lo
			}
			if lo < 0 || int(hi) >= len(net.Weights) {
				return engerr.NewAt(engerr.KindOutOfBounds, ni,
					"input_weights interval [%d..%d] out of bounds (weights len %d)", lo, hi, len(net.Weights))
			}
		}

		for _, iv := range nrn.InputIndices {
			if iv.Past > maxPast {
				maxPast = iv.Past
			}
			if iv.Size == 0 {
				continue
			}
			if iv.Start >= 0 {
				hi := iv.Last()
				if hi >= nNeurons {
					return engerr.NewAt(engerr.KindOutOfBounds, ni,
						"input index %d references neuron beyond network bounds (%d neurons)", hi, nNeurons)
				}
			} else {
				// Negative interval: every expanded index must map to a
				// valid input-tape slot via synidx.TapeOffset.
				worst := iv.Last() // most negative endpoint
				offset := synidx.TapeOffset(worst)
				if int(offset) >= net.InputWidth {
					return engerr.NewAt(engerr.KindOutOfBounds, ni,
						"input tape offset %d exceeds input_width %d", offset, net.InputWidth)
				}
			}
		}
	}

	for gi, fg := range net.FeatureGroups {
		for _, iv := range fg.Neurons {
			if iv.Size == 0 {
				continue
			}
			hi := iv.Last()
			if iv.Start < 0 || hi >= nNeurons {
				return engerr.New(engerr.KindOutOfBounds,
					"feature group %d references neuron out of bounds", gi)
			}
		}
	}

	if maxPast > net.MemoryLength-1 {
		return engerr.New(engerr.KindMalformedNetwork,
			"max referenced past %d exceeds memory_length-1 (%d)", maxPast, net.MemoryLength-1)
	}

	return nil
}
