// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package router

// Subset is one collection pass's set of reserved neurons, drained in
// FIFO order by the caller (the partition compiler). Under strict
// collection its members are mutually independent; under non-strict
// collection a member may depend on another member reserved earlier in
// the same pass. Every reserved neuron must be confirmed, via
// ConfirmProcessed or ConfirmOmitted, before the router's next
// CollectSubset call: a reserved neuron left unconfirmed would never
// reach phaseProcessed and would permanently block its dependents.
type Subset struct {
	router *Router
	// indices lists neurons reserved this pass, in the order they were
	// added to the subset. The compiler folds them into a partition in
	// this order.
	indices []int
	pos     int
}

// Len returns the number of neurons in the subset, confirmed or not.
func (s *Subset) Len() int { return len(s.indices) }

// Remaining returns the number of neurons not yet confirmed.
func (s *Subset) Remaining() int { return len(s.indices) - s.pos }

// First returns the next unconfirmed neuron's global index without
// removing it. The second return value is false once the subset is
// exhausted.
func (s *Subset) First() (int, bool) {
	if s.pos >= len(s.indices) {
		return 0, false
	}
	return s.indices[s.pos], true
}

// ConfirmProcessed marks idx, which must be the value last returned by
// First, as fully solved: its activation has been computed and
// written, and its dependents may now treat it as ready. It advances
// the router's state machine and, if idx lies in the output layer,
// the output-layer cursor.
func (s *Subset) ConfirmProcessed(idx int) {
	s.mustBeHead(idx)
	r := s.router
	f := r.fanIn[idx]
	r.state[idx].Store(f + 2)
	r.deferRuns[idx].Store(0)
	r.advanceOutputCursor()
	s.pos++
}

// ConfirmOmitted returns idx, which must be the value last returned by
// First, to the very start of the in-progress phase: the caller chose
// not to solve it this pass (e.g. a byte-budget cutoff ended the
// partition before reaching it). Per the original router's
// confirm_omitted, the progress counter resets to 0 rather than F-1,
// so an omitted neuron re-accumulates its ready inputs from scratch
// the next time it is visited rather than resuming.
func (s *Subset) ConfirmOmitted(idx int) {
	s.mustBeHead(idx)
	r := s.router
	r.state[idx].Store(0)
	s.pos++
}

// ResetRemaining omits every neuron not yet confirmed, in order. Used
// when a partition closes mid-subset because the byte budget was
// reached.
func (s *Subset) ResetRemaining() {
	for {
		idx, ok := s.First()
		if !ok {
			return
		}
		s.ConfirmOmitted(idx)
	}
}

func (s *Subset) mustBeHead(idx int) {
	if s.pos >= len(s.indices) || s.indices[s.pos] != idx {
		panic("router: confirm called out of order or on an unreserved neuron")
	}
}
