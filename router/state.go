// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package router implements the concurrent neuron router: it walks a
// network's dependency graph and hands the compiler maximal
// independent subsets of neurons that are ready to execute, per spec
// §4.3. The worker-pool shape is adapted from
// leabra/leabra/networkstru.go's channel-dispatch thread group; the
// per-neuron state-machine sentinel encoding follows
// original_source/cxx/services/neuron_router.h/.cc.
package router

// phaseState classifies a neuron's atomic progress counter against its
// fan-in count f, per spec §3/§4.3: a value below f counts confirmed-
// ready inputs found so far, f itself means every input is ready but
// the neuron has not yet been claimed, f+1 means a worker has claimed
// it for this pass's subset, and f+2 means it has been confirmed fully
// solved.
//
// Deferral (a neuron whose scan is blocked on a same-step producer
// this pass) is tracked separately, in Router.deferUntil, rather than
// folded into this counter: overwriting a partially-advanced progress
// count to record a deferral would discard real scan progress the
// next time the neuron becomes eligible.
type phaseState int

const (
	phaseInProgress phaseState = iota
	phaseSolvable
	phaseReserved
	phaseProcessed
)

// classify returns the phase a raw progress value s represents for a
// neuron whose fan-in is f.
func classify(s, f uint32) phaseState {
	switch {
	case s < f:
		return phaseInProgress
	case s == f:
		return phaseSolvable
	case s == f+1:
		return phaseReserved
	default:
		return phaseProcessed
	}
}
