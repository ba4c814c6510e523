// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engerr defines the structured-diagnostic error taxonomy
// returned across the engine's fallible API boundaries — netmodel's
// Validate, compile's structural-cycle detection, and orchestrate's
// shape check. Centralized rather than co-located per owning package:
// callers (see netmodel/network_test.go, orchestrate's tests) match on Kind
// across package boundaries, which a per-package sentinel set cannot
// support without duplicating the taxonomy everywhere it's compared;
// see DESIGN.md for the full justification and the SPEC_FULL.md
// correction this required. Error construction itself stays on the
// standard library's fmt.Errorf-equivalent idiom (no wrapping library
// appears anywhere in the reference corpus).
package engerr

import "fmt"

// Kind is a closed taxonomy of fatal error categories surfaced at the
// engine's public API boundaries.
type Kind int32 //enums:enum

const (
	KindMalformedNetwork Kind = iota
	KindBudgetExhausted
	KindShapeMismatch
	KindOutOfBounds
	KindStructuralCycle
)

// Error is a structured diagnostic identifying the offending neuron (or
// -1 if not applicable) and the error's Kind. Compile and solve never
// panic on these conditions; they return an *Error instead, per §7.
type Error struct {
	Kind        Kind
	NeuronIndex int
	Msg         string
}

func (e *Error) Error() string {
	if e.NeuronIndex >= 0 {
		return fmt.Sprintf("%s: neuron %d: %s", e.Kind, e.NeuronIndex, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an *Error with no associated neuron.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, NeuronIndex: -1, Msg: fmt.Sprintf(format, args...)}
}

// NewAt builds an *Error identifying the offending neuron index.
func NewAt(kind Kind, neuronIndex int, format string, args ...any) *Error {
	return &Error{Kind: kind, NeuronIndex: neuronIndex, Msg: fmt.Sprintf(format, args...)}
}
