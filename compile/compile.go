// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/engerr"
	"github.com/emer/sparserun/router"
	"github.com/emer/sparserun/synidx"
)

// Byte-footprint constants for partialSizeBytes, which measures the
// tables a partition actually emits: a fixed overhead, one charge per
// gather-list, output-list and inner-input interval, and one per local
// weight. The measure is computed independently of
// router.EstimateBytes and is not fed back into the router's
// per-pass accumulator.
const (
	partitionOverheadBytes = 64
	intervalEntryBytes     = 16
	weightEntryBytes       = 8
)

func partialSizeBytes(part *PartialSolution) int64 {
	total := int64(partitionOverheadBytes)
	total += int64(len(part.Inputs)) * intervalEntryBytes
	total += int64(len(part.Outputs)) * intervalEntryBytes
	total += int64(len(part.Weights)) * weightEntryBytes
	for i := range part.Inner {
		total += int64(len(part.Inner[i].Inputs)) * intervalEntryBytes
	}
	return total
}

// Compile builds a Solution from net, per spec §4.4: it drives a
// Router across successive passes, folding each ready neuron into the
// current partition until its measured byte size exceeds budgetBytes
// (0 means unbounded), closing and opening partitions and rows as the
// router's strict/non-strict collection dictates. The neuron that
// crosses the budget stays in the partition it was added to, so a
// partition can exceed budgetBytes; a neuron whose own footprint is
// larger than budgetBytes is not rejected but placed in a partition of
// its own.
func Compile(net *netmodel.Network, budgetBytes int64, cfg router.Config) (*Solution, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}

	r := router.New(net, cfg)
	defer r.Close()

	sol := &Solution{
		NeuronCount:  net.NeuronCount(),
		OutputCount:  net.OutputCount,
		MemoryLength: net.MemoryLength,
	}

	row := Row{}
	part := newPartial()
	// strict is true whenever the router pass about to run should
	// treat only fully-processed producers as ready: on a freshly
	// opened partition or row. It becomes false once collection starts
	// extending that same still-open partition across more than one
	// pass, per DESIGN.md's "strict vs non-strict router mode at
	// partition boundaries" decision.
	strict := true

	for !r.Finished() {
		sub := r.CollectSubset(budgetBytes, strict)

		if sub.Len() == 0 {
			closed := closeRowOnEmptyPass(&row, part)
			if !closed && len(row.Partitions) == 0 {
				return nil, engerr.New(engerr.KindStructuralCycle,
					"router made no progress; the network contains a structural cycle")
			}
			if len(row.Partitions) > 0 {
				sol.Rows = append(sol.Rows, row)
			}
			row = Row{}
			part = newPartial()
			strict = true
			continue
		}

		added := false
		overflowed := false
		for {
			idx, ok := sub.First()
			if !ok {
				break
			}

			addNeuronToPartial(part, net, idx)
			sub.ConfirmProcessed(idx)
			added = true

			// Budget is checked after committing the neuron, not
			// before: the partition closes as soon as it first
			// crosses budgetBytes rather than trying to predict and
			// roll back the addition that tipped it over, per spec
			// §4.4 step 2. The replacement partition starts a new row
			// rather than staying in this one: same-row partitions
			// solve concurrently with no ordering between them
			// (§5), so a split that might carry a same-step
			// cross-partition dependency on the partition just closed
			// cannot safely share a row with it. See DESIGN.md.
			if budgetBytes > 0 && partialSizeBytes(part) > budgetBytes {
				sub.ResetRemaining()
				row.Partitions = append(row.Partitions, part)
				sol.Rows = append(sol.Rows, row)
				row = Row{}
				part = newPartial()
				strict = true
				overflowed = true
				break
			}
		}

		if added && !overflowed {
			strict = false
		}
	}

	if len(part.Inner) > 0 {
		row.Partitions = append(row.Partitions, part)
	}
	if len(row.Partitions) > 0 {
		sol.Rows = append(sol.Rows, row)
	}

	return sol, nil
}

// closeRowOnEmptyPass folds part into row if it holds any neurons.
// Returns whether the row gained a partition from this call.
func closeRowOnEmptyPass(row *Row, part *PartialSolution) bool {
	if len(part.Inner) == 0 {
		return false
	}
	row.Partitions = append(row.Partitions, part)
	return true
}

// SyncWeights re-copies every partition's locally held weight values
// from net's global weight table, leaving topology (partition
// membership, index rewiring) untouched. Weight synchronization is
// push-only: callers update net.Weights in place, then call SyncWeights
// before the next solve, per SPEC_FULL.md's supplemented weight-update
// path.
func SyncWeights(net *netmodel.Network, sol *Solution) {
	for _, row := range sol.Rows {
		for _, part := range row.Partitions {
			for i, src := range part.WeightSources {
				part.Weights[i] = net.Weights[src]
			}
		}
	}
}

// addNeuronToPartial appends neuron globalIdx to part, rewriting its
// fan-in into local coordinates per spec §4.4.1 and merging its
// contribution into the output list per §4.4.2.
func addNeuronToPartial(part *PartialSolution, net *netmodel.Network, globalIdx int) {
	nrn := &net.Neurons[globalIdx]
	inner := InnerNeuron{
		GlobalIndex: uint32(globalIdx),
		TransferFn:  nrn.TransferFn,
		BiasIndex:   -1,
	}

	inIt := synidx.NewIterator(nrn.InputIndices)
	n := inIt.Len()
	for i := 0; i < n; i++ {
		iv, signed := inIt.AtWithInterval(i)
		var local int32
		if signed < 0 {
			slot := resolveGatherSlot(part, iv.Past, signed)
			local = synidx.SignedFromTape(int32(slot))
		} else if pos, ok := part.globalToInner[uint32(signed)]; ok && iv.Past == 0 {
			local = int32(pos)
		} else {
			slot := resolveGatherSlot(part, iv.Past, signed)
			local = synidx.SignedFromTape(int32(slot))
		}
		appendLocalInput(&inner, local)
	}

	wIt := synidx.NewIterator(nrn.InputWeights)
	inCount := nrn.InputCount()
	wStart := len(part.Weights)
	for i := 0; i < inCount; i++ {
		gIdx := wIt.At(i)
		part.Weights = append(part.Weights, net.Weights[gIdx])
		part.WeightSources = append(part.WeightSources, uint32(gIdx))
	}
	inner.Weights = synidx.Interval{Start: int32(wStart), Size: uint32(inCount)}

	if biasGlobal, ok := nrn.BiasWeightIndex(); ok {
		inner.BiasIndex = len(part.Weights)
		part.Weights = append(part.Weights, net.Weights[biasGlobal])
		part.WeightSources = append(part.WeightSources, biasGlobal)
	}

	spikeGlobal := nrn.SpikeWeightIndex
	inner.SpikeIndex = uint32(len(part.Weights))
	part.Weights = append(part.Weights, net.Weights[spikeGlobal])
	part.WeightSources = append(part.WeightSources, spikeGlobal)

	part.Inner = append(part.Inner, inner)
	part.globalToInner[uint32(globalIdx)] = len(part.Inner) - 1
	appendOutput(part, uint32(globalIdx))
}

// resolveGatherSlot returns the flat gather-list slot for a reference
// to the given signed network index at the given Past offset, reusing
// an already-present slot when one exists and merging the new entry
// into the gather list's trailing interval when it is contiguous with
// it, per spec §4.4.1/§4.4.2's "merge contiguous additions" rule.
func resolveGatherSlot(part *PartialSolution, past uint32, signed int32) int {
	key := gatherKey{value: signed, past: past}
	if slot, ok := part.gatherDedup[key]; ok {
		return int(slot)
	}

	flatBefore := synidx.Total(part.Inputs)
	if n := len(part.Inputs); n > 0 {
		last := &part.Inputs[n-1]
		if last.Past == past && last.Contiguous(signed) {
			*last = last.Grow()
			part.gatherDedup[key] = int32(flatBefore)
			return flatBefore
		}
	}
	part.Inputs = append(part.Inputs, synidx.Interval{Start: signed, Size: 1, Past: past})
	part.gatherDedup[key] = int32(flatBefore)
	return flatBefore
}

// appendLocalInput appends local to inner's input list, merging into
// the trailing interval when contiguous.
func appendLocalInput(inner *InnerNeuron, local int32) {
	if n := len(inner.Inputs); n > 0 {
		last := &inner.Inputs[n-1]
		if last.Contiguous(local) {
			*last = last.Grow()
			return
		}
	}
	inner.Inputs = append(inner.Inputs, synidx.Interval{Start: local, Size: 1})
}

// appendOutput appends globalIdx to part's output list, merging into
// the trailing interval when contiguous.
func appendOutput(part *PartialSolution, globalIdx uint32) {
	g := int32(globalIdx)
	if n := len(part.Outputs); n > 0 {
		last := &part.Outputs[n-1]
		if last.Contiguous(g) {
			*last = last.Grow()
			return
		}
	}
	part.Outputs = append(part.Outputs, synidx.Interval{Start: g, Size: 1})
}
