// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orchestrate drives a compiled Solution across a sequence of
// steps. Grounded on basic/leabra/network.go's Cycle(): a fixed
// per-step pipeline of phases, each fanned out across the network's
// thread group with a barrier between phases. Here the "phases" are a
// Solution's rows: partitions within a row have disjoint write-sets and
// run concurrently, but every row is a hard barrier before the next,
// per spec §5.
package orchestrate

import (
	"fmt"

	"github.com/emer/sparserun/compile"
	"github.com/emer/sparserun/feature"
	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/engerr"
	"github.com/emer/sparserun/ringbuf"
	"github.com/emer/sparserun/rlog"
	"github.com/emer/sparserun/rtstats"
	"github.com/emer/sparserun/solve"
	"github.com/emer/sparserun/threadpool"
)

// Config tunes the orchestrator's worker pool and instrumentation.
type Config struct {
	// Workers is the number of concurrent solver goroutines used to fan
	// out a row's partitions. Defaults to 4 if <= 0.
	Workers int
	// Stats, if non-nil, receives per-row and per-feature-group timing.
	Stats *rtstats.Report
	Log   *rlog.Logger
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

func (c Config) logger() *rlog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return rlog.Default
}

// Orchestrator evaluates a compiled Solution one sample at a time,
// maintaining the ring buffer of per-step neuron activations across
// calls.
type Orchestrator struct {
	net  *netmodel.Network
	sol  *compile.Solution
	ring *ringbuf.Buffer
	pool *threadpool.Group
	cfg  Config
}

// New builds an Orchestrator over sol, which must have been compiled
// from net. The two are retained, not copied; sol's topology must not
// change while the Orchestrator is in use (weight values may, via
// compile.SyncWeights between calls).
func New(net *netmodel.Network, sol *compile.Solution, cfg Config) *Orchestrator {
	return &Orchestrator{
		net:  net,
		sol:  sol,
		ring: ringbuf.New(int(net.MemoryLength), net.NeuronCount()),
		pool: threadpool.New(cfg.workers()),
		cfg:  cfg,
	}
}

// Close releases the orchestrator's worker pool.
func (o *Orchestrator) Close() { o.pool.Close() }

// Reset clears all retained activation history, as if no sample had
// ever been solved.
func (o *Orchestrator) Reset() { o.ring.Reset() }

// Solve advances one step: it steps the ring buffer, solves every row
// of the compiled solution in order (partitions within a row run
// concurrently across the worker pool, with a hard barrier before the
// next row), applies any declared feature groups to the resulting
// frame, and returns the network's output-layer values for this step.
func (o *Orchestrator) Solve(sample []float64) ([]float64, error) {
	if len(sample) != o.net.InputWidth {
		o.cfg.logger().Errorf("orchestrate: sample width %d does not match network input_width %d", len(sample), o.net.InputWidth)
		return nil, engerr.New(engerr.KindShapeMismatch,
			"sample width %d does not match network input_width %d", len(sample), o.net.InputWidth)
	}

	o.ring.Step()

	for i, row := range o.sol.Rows {
		o.solveRow(i, row, sample)
	}

	frame := o.ring.CurrentMut()
	for gi, fg := range o.net.FeatureGroups {
		if o.cfg.Stats != nil {
			ph := o.cfg.Stats.Phase(featurePhaseName(gi))
			ph.Start()
			feature.ApplyParallel(fg, frame, o.pool)
			ph.Stop()
		} else {
			feature.ApplyParallel(fg, frame, o.pool)
		}
	}

	out := make([]float64, o.net.OutputCount)
	copy(out, frame[o.net.OutputStart():])
	return out, nil
}

// SolveSequence runs samples through Solve in order, returning each
// step's output-layer values. It does not Reset beforehand: callers
// wanting a clean run call Reset first.
func (o *Orchestrator) SolveSequence(samples [][]float64) ([][]float64, error) {
	out := make([][]float64, len(samples))
	for i, s := range samples {
		res, err := o.Solve(s)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

// Prefill runs samples through Solve, discarding their outputs. Used to
// warm up recurrent/memory state (spike mixing, history references)
// before the sequence of actual interest begins.
func (o *Orchestrator) Prefill(samples [][]float64) error {
	for _, s := range samples {
		if _, err := o.Solve(s); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) solveRow(rowIdx int, row compile.Row, sample []float64) {
	parts := row.Partitions
	n := o.pool.N()

	var ph *rtstats.Phase
	if o.cfg.Stats != nil {
		ph = o.cfg.Stats.Phase(rowPhaseName(rowIdx))
		ph.Start()
	}
	o.pool.StartAndBlock(func(worker int) {
		for pi := worker; pi < len(parts); pi += n {
			solve.Solve(parts[pi], o.ring, sample)
		}
	})
	if ph != nil {
		ph.Stop()
	}
}

func rowPhaseName(rowIdx int) string { return fmt.Sprintf("solve.row%d", rowIdx) }
func featurePhaseName(gi int) string { return fmt.Sprintf("feature.group%d", gi) }
