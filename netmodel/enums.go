// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netmodel

//go:generate goki generate

// TransferKind selects a neuron's pure scalar activation function.
// Re-architected from the original's deep transfer-function class
// hierarchy into a closed enumeration plus dispatch, per design note
// §9: transfer functions are pure and meant to be inlined.
type TransferKind int32 //enums:enum

const (
	TransferIdentity TransferKind = iota
	TransferSigmoid
	TransferTanh
	TransferReLU
	TransferSELU
)

// RecurrenceKind describes how a network's neurons reference prior
// time steps.
type RecurrenceKind int32 //enums:enum

const (
	RecurrenceNone RecurrenceKind = iota
	RecurrenceSelf
	RecurrenceLayer
)

// FeatureKind selects a declarative post-activation transform applied
// by the feature executor after a step completes. Left open-ended
// (Unknown as an explicit fallback) so additional kinds can be added
// without an interface break, though only Softmax is implemented.
type FeatureKind int32 //enums:enum

const (
	FeatureSoftmax FeatureKind = iota
	FeatureUnknown
)
