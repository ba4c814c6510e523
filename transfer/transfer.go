// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transfer holds the pure scalar transfer and spike (memory
// mixing) primitives dispatched by netmodel.TransferKind, per design
// note §9: re-architected from a deep transfer-function class
// hierarchy into a closed enumeration plus dispatch function. Style is
// adapted from basic/leabra/act.go's ActPars (scalar pure functions
// with paired derivatives), though the function set itself follows
// spec §4.8 directly since the teacher's own rate-coded activation
// functions are domain-specific to biological neuron models.
package transfer

import (
	"math"

	"github.com/emer/sparserun/netmodel"
)

// Apply evaluates the transfer function identified by kind at x.
func Apply(kind netmodel.TransferKind, x float64) float64 {
	switch kind {
	case netmodel.TransferIdentity:
		return x
	case netmodel.TransferSigmoid:
		return sigmoid(x)
	case netmodel.TransferTanh:
		return math.Tanh(x)
	case netmodel.TransferReLU:
		return relu(x)
	case netmodel.TransferSELU:
		return selu(x)
	default:
		panic("transfer: unknown transfer kind")
	}
}

// Derivative evaluates the derivative of the transfer function
// identified by kind at x. The core does not itself consume this value
// (per spec §4.8, it is forwarded for external training collaborators)
// but is kept alongside Apply since every transfer kind the spec names
// has a well-defined derivative.
func Derivative(kind netmodel.TransferKind, x float64) float64 {
	switch kind {
	case netmodel.TransferIdentity:
		return 1
	case netmodel.TransferSigmoid:
		s := sigmoid(x)
		return s * (1 - s)
	case netmodel.TransferTanh:
		t := math.Tanh(x)
		return 1 - t*t
	case netmodel.TransferReLU:
		if x > 0 {
			return 1
		}
		return 0
	case netmodel.TransferSELU:
		return seluDerivative(x)
	default:
		panic("transfer: unknown transfer kind")
	}
}

const (
	seluAlpha = 1.6732632423543772848170429916717
	seluScale = 1.0507009873554804934193349852946
)

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func selu(x float64) float64 {
	if x > 0 {
		return seluScale * x
	}
	return seluScale * seluAlpha * (math.Exp(x) - 1)
}

func seluDerivative(x float64) float64 {
	if x > 0 {
		return seluScale
	}
	return seluScale * seluAlpha * math.Exp(x)
}

// Spike mixes the previous step's activation with a newly transferred
// value according to the memory-filter coefficient p (the "spike
// weight"). out = p*prev + (1-p)*new. This makes every neuron an
// implicit first-order IIR filter, per design note §9.
func Spike(p, prev, newVal float64) float64 {
	return p*prev + (1-p)*newVal
}

// SpikeDerivative returns the derivative of Spike with respect to
// newVal, forwarded for training collaborators but not otherwise
// consumed by the core.
func SpikeDerivative(p float64) float64 {
	return 1 - p
}
