// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature applies whole-layer post-hoc transforms across a
// declared set of neurons, grounded directly on decoder/softmax.go's
// max-then-exp-sum-then-normalize structure, trimmed from a trainable
// decoder (weights, learning rate) down to the pure declarative
// transform spec §4.7 describes.
package feature

import (
	"math"

	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/synidx"
	"github.com/emer/sparserun/threadpool"
)

// Apply runs the transform named by group.Kind over the neuron indices
// it lists, reading and writing frame in place. Only FeatureSoftmax is
// implemented; any other kind is a no-op (see DESIGN.md's Open
// Question decision on feature kinds).
func Apply(group netmodel.FeatureGroup, frame []float64) {
	switch group.Kind {
	case netmodel.FeatureSoftmax:
		softmax(group.Neurons, frame)
	default:
		// Unimplemented feature kinds are intentionally inert.
	}
}

// ApplyParallel is Apply's two-phase form split across a worker pool:
// the max/sum reduction and the normalize-in-place pass are each
// parallelizable with a reduction join between them, per spec §4.7.
func ApplyParallel(group netmodel.FeatureGroup, frame []float64, pool *threadpool.Group) {
	if group.Kind != netmodel.FeatureSoftmax {
		Apply(group, frame)
		return
	}
	indices := collectIndices(group.Neurons)
	if len(indices) == 0 {
		return
	}
	n := pool.N()
	partials := make([]struct {
		max float64
		sum float64
	}, n)
	for w := range partials {
		partials[w].max = math.Inf(-1)
	}

	pool.StartAndBlock(func(worker int) {
		localMax := math.Inf(-1)
		for i := worker; i < len(indices); i += n {
			if v := frame[indices[i]]; v > localMax {
				localMax = v
			}
		}
		partials[worker].max = localMax
	})
	m := math.Inf(-1)
	for _, p := range partials {
		if p.max > m {
			m = p.max
		}
	}

	pool.StartAndBlock(func(worker int) {
		s := 0.0
		for i := worker; i < len(indices); i += n {
			s += math.Exp(frame[indices[i]] - m)
		}
		partials[worker].sum = s
	})
	total := 0.0
	for _, p := range partials {
		total += p.sum
	}

	pool.StartAndBlock(func(worker int) {
		for i := worker; i < len(indices); i += n {
			idx := indices[i]
			frame[idx] = math.Exp(frame[idx]-m) / total
		}
	})
}

func collectIndices(ivs []synidx.Interval) []int32 {
	it := synidx.NewIterator(ivs)
	out := make([]int32, 0, it.Len())
	it.IterateIndices(func(signed int32) bool {
		out = append(out, signed)
		return true
	})
	return out
}

// softmax applies the sequential two-pass numerically stable softmax
// over the indices named by ivs, in place on frame.
func softmax(ivs []synidx.Interval, frame []float64) {
	indices := collectIndices(ivs)
	if len(indices) == 0 {
		return
	}
	m := math.Inf(-1)
	for _, idx := range indices {
		if v := frame[idx]; v > m {
			m = v
		}
	}
	sum := 0.0
	for _, idx := range indices {
		sum += math.Exp(frame[idx] - m)
	}
	for _, idx := range indices {
		frame[idx] = math.Exp(frame[idx]-m) / sum
	}
}
