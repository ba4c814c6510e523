// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/router"
	"github.com/emer/sparserun/synidx"
)

// chainNetwork builds a 3-neuron identity chain, weight i at synapse i,
// spike weight 0 for every neuron (no memory mixing), no bias. Matches
// spec.md §8 scenario 1's shape.
func chainNetwork() *netmodel.Network {
	return &netmodel.Network{
		InputWidth:   1,
		OutputCount:  1,
		MemoryLength: 1,
		Weights:      []float64{1, 1, 1, 0, 0, 0},
		Neurons: []netmodel.Neuron{
			{InputIndices: []synidx.Interval{{Start: -1, Size: 1}}, InputWeights: []synidx.Interval{{Start: 0, Size: 1}}, SpikeWeightIndex: 3},
			{InputIndices: []synidx.Interval{{Start: 0, Size: 1}}, InputWeights: []synidx.Interval{{Start: 1, Size: 1}}, SpikeWeightIndex: 4},
			{InputIndices: []synidx.Interval{{Start: 1, Size: 1}}, InputWeights: []synidx.Interval{{Start: 2, Size: 1}}, SpikeWeightIndex: 5},
		},
	}
}

func TestCompileChainFitsOneUnboundedPartition(t *testing.T) {
	sol, err := Compile(chainNetwork(), 0, router.Config{Workers: 1})
	require.NoError(t, err)
	require.Len(t, sol.Rows, 1)
	require.Len(t, sol.Rows[0].Partitions, 1)

	part := sol.Rows[0].Partitions[0]
	require.Len(t, part.Inner, 3)
	assert.Equal(t, uint32(0), part.Inner[0].GlobalIndex)
	assert.Equal(t, uint32(1), part.Inner[1].GlobalIndex)
	assert.Equal(t, uint32(2), part.Inner[2].GlobalIndex)

	// neuron 0 reads the input tape: local coordinate -1 (tape slot 0).
	require.Len(t, part.Inner[0].Inputs, 1)
	assert.Equal(t, int32(-1), part.Inner[0].Inputs[0].Start)

	// neuron 1 reads neuron 0, already inner position 0: local coordinate 0.
	require.Len(t, part.Inner[1].Inputs, 1)
	assert.Equal(t, int32(0), part.Inner[1].Inputs[0].Start)

	// neuron 2 reads neuron 1, inner position 1: local coordinate 1.
	require.Len(t, part.Inner[2].Inputs, 1)
	assert.Equal(t, int32(1), part.Inner[2].Inputs[0].Start)

	// local-coordinate invariant: every non-negative local input index
	// referenced by inner neuron n is strictly less than n.
	for n, in := range part.Inner {
		for _, iv := range in.Inputs {
			if !iv.Negative() {
				assert.Less(t, int(iv.Last()), n)
			}
		}
	}

	// Only one gather-list entry (the tape read for neuron 0).
	assert.Equal(t, 1, synidx.Total(part.Inputs))
	assert.Equal(t, int32(-1), part.Inputs[0].Start)

	// Output list covers all three global indices, merged into one
	// contiguous run since 0,1,2 are consecutive.
	assert.Equal(t, 3, synidx.Total(part.Outputs))
	require.Len(t, part.Outputs, 1)
	assert.Equal(t, int32(0), part.Outputs[0].Start)
	assert.Equal(t, uint32(3), part.Outputs[0].Size)
}

// fanInNetworkWithBias builds two tape-fed neurons (0, 1) feeding one output
// neuron (2, fan-in 2), with a bias weight on the output neuron.
func fanInNetworkWithBias() *netmodel.Network {
	return &netmodel.Network{
		InputWidth:   2,
		OutputCount:  1,
		MemoryLength: 1,
		Weights:      []float64{0.5, 0.25, 1, 1, 0.1, 0, 0, 0},
		Neurons: []netmodel.Neuron{
			{InputIndices: []synidx.Interval{{Start: -1, Size: 1}}, InputWeights: []synidx.Interval{{Start: 0, Size: 1}}, SpikeWeightIndex: 5},
			{InputIndices: []synidx.Interval{{Start: -2, Size: 1}}, InputWeights: []synidx.Interval{{Start: 1, Size: 1}}, SpikeWeightIndex: 6},
			{
				InputIndices: []synidx.Interval{{Start: 0, Size: 1}, {Start: 1, Size: 1}},
				InputWeights: []synidx.Interval{{Start: 2, Size: 3}}, // 2 input weights + 1 trailing bias
				SpikeWeightIndex: 7,
			},
		},
	}
}

func TestCompileBiasWeightPlacedAfterInputWeights(t *testing.T) {
	sol, err := Compile(fanInNetworkWithBias(), 0, router.Config{Workers: 1})
	require.NoError(t, err)
	require.Len(t, sol.Rows, 1)
	require.Len(t, sol.Rows[0].Partitions, 1)
	part := sol.Rows[0].Partitions[0]

	require.Len(t, part.Inner, 3)
	out := part.Inner[2]
	require.GreaterOrEqual(t, out.BiasIndex, 0)
	assert.Equal(t, 0.1, part.Weights[out.BiasIndex])
	assert.Equal(t, uint32(4), part.WeightSources[out.BiasIndex])

	// The two input-aligned weights precede the bias in the local table.
	assert.Equal(t, uint32(2), out.Weights.Size)
	assert.Less(t, int(out.Weights.Start)+int(out.Weights.Size)-1, out.BiasIndex)
}

func TestCompileGatherListDedupsRepeatedTapeReference(t *testing.T) {
	net := &netmodel.Network{
		InputWidth:   1,
		OutputCount:  1,
		MemoryLength: 1,
		Weights:      []float64{1, 0, 1, 1, 0},
		Neurons: []netmodel.Neuron{
			{InputIndices: []synidx.Interval{{Start: -1, Size: 1}}, InputWeights: []synidx.Interval{{Start: 0, Size: 1}}, SpikeWeightIndex: 1},
			// The output reads neuron 0's result AND the same tape slot
			// neuron 0 itself reads directly.
			{
				InputIndices:     []synidx.Interval{{Start: 0, Size: 1}, {Start: -1, Size: 1}},
				InputWeights:     []synidx.Interval{{Start: 2, Size: 2}},
				SpikeWeightIndex: 4,
			},
		},
	}
	sol, err := Compile(net, 0, router.Config{Workers: 1})
	require.NoError(t, err)
	require.Len(t, sol.Rows, 1)
	require.Len(t, sol.Rows[0].Partitions, 1)
	part := sol.Rows[0].Partitions[0]
	require.Len(t, part.Inner, 2)

	// Both neurons ultimately reference the same tape slot (neuron 0
	// directly, the output both via neuron 0's inner result and via its
	// own second fan-in entry): the gather list should carry exactly
	// one entry, reused rather than duplicated.
	assert.Equal(t, 1, synidx.Total(part.Inputs))

	out := part.Inner[1]
	require.Len(t, out.Inputs, 2)
	// First input: neuron 0, already inner position 0.
	assert.Equal(t, int32(0), out.Inputs[0].Start)
	// Second input: the tape slot, resolved to the same gather slot
	// neuron 0's own tape read created.
	assert.Equal(t, part.Inner[0].Inputs[0].Start, out.Inputs[1].Start)
}

// TestCompileSplitsAcrossRowsWhenBudgetForcesIt exercises spec.md §8
// scenario 3: a tiny per-neuron budget forces the chain to split, one
// neuron per partition, and — per DESIGN.md's decision to keep
// same-row partitions mutually independent — one neuron per row too.
func TestCompileSplitsAcrossRowsWhenBudgetForcesIt(t *testing.T) {
	net := chainNetwork()
	tiny := int64(partitionOverheadBytes + intervalEntryBytes + weightEntryBytes)
	sol, err := Compile(net, tiny, router.Config{Workers: 1})
	require.NoError(t, err)

	var total int
	for _, row := range sol.Rows {
		for _, part := range row.Partitions {
			total += len(part.Inner)
		}
	}
	assert.Equal(t, 3, total)
	assert.Greater(t, len(sol.Rows), 1, "a tiny budget should force more than one row")

	for _, row := range sol.Rows {
		assert.Len(t, row.Partitions, 1, "each row holds exactly one partition under this budget")
	}
}

func TestCompileRejectsStructuralCycle(t *testing.T) {
	net := &netmodel.Network{
		InputWidth:   0,
		OutputCount:  2,
		MemoryLength: 1,
		Weights:      []float64{0, 0},
		Neurons: []netmodel.Neuron{
			{InputIndices: []synidx.Interval{{Start: 1, Size: 1}}, InputWeights: []synidx.Interval{{Start: 0, Size: 1}}},
			{InputIndices: []synidx.Interval{{Start: 0, Size: 1}}, InputWeights: []synidx.Interval{{Start: 1, Size: 1}}},
		},
	}
	_, err := Compile(net, 0, router.Config{Workers: 1})
	require.Error(t, err)
}

func TestSyncWeightsPullsFreshValues(t *testing.T) {
	net := chainNetwork()
	sol, err := Compile(net, 0, router.Config{Workers: 1})
	require.NoError(t, err)
	part := sol.Rows[0].Partitions[0]

	net.Weights[0] = 42
	SyncWeights(net, sol)
	assert.Equal(t, 42.0, part.Weights[0])
	assert.NotEqual(t, 42.0, part.Weights[1])
}
