// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package router

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/emer/sparserun/netmodel"
	"github.com/emer/sparserun/rlog"
	"github.com/emer/sparserun/synidx"
	"github.com/emer/sparserun/threadpool"
)

// Per-neuron byte-footprint estimate: a constant overhead plus a
// per-synapse-interval-entry charge, proportional to fan-in and
// weight-table references, per spec §4.3's byte-budget estimator.
const (
	neuronOverheadBytes = 48
	synapseEntryBytes   = 16
)

// EstimateBytes returns the router's estimated device-memory footprint
// of including neuron n in a partition.
func EstimateBytes(n *netmodel.Neuron) int64 {
	return neuronOverheadBytes + synapseEntryBytes*int64(n.InputCount()+n.WeightCount())
}

// Config tunes the router's worker pool and diagnostic thresholds. It
// is populated programmatically by the caller, never parsed from a
// file or flag — §6 excludes CLI/environment/on-disk configuration
// from the core.
type Config struct {
	// Workers is the number of concurrent collector goroutines used by
	// CollectSubset. Defaults to 4 if <= 0.
	Workers int
	// DeferWarnThreshold is the number of consecutive deferrals of the
	// same neuron after which the router logs a starvation warning.
	DeferWarnThreshold int
	Log                *rlog.Logger
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

func (c Config) deferWarnThreshold() uint32 {
	if c.DeferWarnThreshold <= 0 {
		return 16
	}
	return uint32(c.DeferWarnThreshold)
}

func (c Config) logger() *rlog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return rlog.Default
}

// inputRef resolves a flattened fan-in entry into its producer kind.
type inputRef struct {
	external bool  // input-tape reference
	history  bool  // same-step independent (Past > 0)
	producer int32 // valid neuron index when !external
}

// Router walks a Network's dependency graph and hands callers maximal
// independent subsets of ready neurons, per spec §4.3.
type Router struct {
	net    *netmodel.Network
	cfg    Config
	pool   *threadpool.Group
	ownsPl bool

	fanIn []uint32
	state []atomic.Uint32
	// deferUntil[n] is 0 when n has no pending deferral, or iter+1 when
	// n was deferred during pass iter: it is not reconsidered until a
	// later pass's iter is >= the stored value. Kept apart from state
	// so a deferral never clobbers a neuron's partially-advanced scan
	// progress.
	deferUntil []atomic.Uint32
	deferRuns  []atomic.Uint32
	flatInputs []*synidx.Iterator

	outputStart int
	outputCount int
	// outputsDone counts the number of leading output-layer neurons
	// (in positional order) confirmed processed, the router's
	// output_layer_cursor.
	outputsDone atomic.Uint32

	iteration atomic.Uint32

	mu        sync.Mutex
	subsetSet map[int]struct{}
	pending   []int
	bytesUsed atomic.Int64
}

// New builds a Router over net. net is retained, not copied; callers
// must not mutate its neuron topology while the Router is in use.
func New(net *netmodel.Network, cfg Config) *Router {
	r := &Router{
		net:         net,
		cfg:         cfg,
		pool:        threadpool.New(cfg.workers()),
		ownsPl:      true,
		outputStart: net.OutputStart(),
		outputCount: net.OutputCount,
		subsetSet:   make(map[int]struct{}),
	}
	n := len(net.Neurons)
	r.fanIn = make([]uint32, n)
	r.state = make([]atomic.Uint32, n)
	r.deferUntil = make([]atomic.Uint32, n)
	r.deferRuns = make([]atomic.Uint32, n)
	r.flatInputs = make([]*synidx.Iterator, n)
	for i := range net.Neurons {
		r.fanIn[i] = uint32(net.Neurons[i].InputCount())
		r.flatInputs[i] = synidx.NewIterator(net.Neurons[i].InputIndices)
	}
	return r
}

// Close releases the router's worker pool.
func (r *Router) Close() {
	if r.ownsPl {
		r.pool.Close()
	}
}

// Finished reports whether every output-layer neuron has been
// confirmed processed.
func (r *Router) Finished() bool {
	return int(r.outputsDone.Load()) >= r.outputCount
}

// classifyRef resolves flattened input position pos of neuron n.
func (r *Router) classifyRef(n, pos int) inputRef {
	iv, idx := r.flatInputs[n].AtWithInterval(pos)
	if idx < 0 {
		return inputRef{external: true}
	}
	if iv.Past > 0 {
		return inputRef{history: true}
	}
	return inputRef{producer: idx}
}

// ready reports whether the producer at flattened input position pos
// of neuron n is already available this step, under strict (only
// processed counts) or non-strict (processed or reserved counts)
// semantics. pushable reports whether visiting the blocking producer
// could make progress this iteration: a producer reserved under
// strict mode, or already deferred for this same iteration, will not
// change state again before the pass ends, so it is not worth
// descending into.
func (r *Router) ready(n, pos int, strict bool, iter uint32) (ok bool, producer int32, pushable bool) {
	ref := r.classifyRef(n, pos)
	if ref.external || ref.history {
		return true, 0, false
	}
	p := ref.producer
	if du := r.deferUntil[p].Load(); du != 0 && iter < du {
		// Deferred earlier this same pass (or a not-yet-reached future
		// one): will not change state again before this pass ends.
		return false, p, false
	}
	switch classify(r.state[p].Load(), r.fanIn[p]) {
	case phaseProcessed:
		return true, 0, false
	case phaseReserved:
		if !strict {
			return true, 0, false
		}
		return false, p, false
	default: // inProgress, solvable
		return false, p, true
	}
}

// scan advances neuron n's shared progress counter (state, while it
// reads below fanIn) as far as its already-ready inputs allow. Several
// workers may call scan concurrently on the same neuron if it is a
// common producer along more than one DFS path; the counter is a
// lock-free monotonic CAS loop, so each input position is confirmed
// ready exactly once regardless of how many workers race to check it.
// scan returns true and the blocking producer when a same-step
// prerequisite is not yet available; it returns false once state has
// reached fanIn (the neuron is solvable, by this worker or another).
func (r *Router) scan(n int, strict bool, iter uint32) (blocked bool, producer int32, pushable bool) {
	f := r.fanIn[n]
	for {
		s := r.state[n].Load()
		if s >= f {
			return false, 0, false
		}
		ok, prod, push := r.ready(n, int(s), strict, iter)
		if !ok {
			return true, prod, push
		}
		if r.state[n].CompareAndSwap(s, s+1) {
			continue
		}
		// Lost the race to another worker scanning the same neuron;
		// reload and recheck from its new progress value.
	}
}

// reserve attempts to move neuron n from solvable (state == F) to
// reserved (state == F+1), the sole CAS that admits a neuron into the
// shared subset.
func (r *Router) reserve(n int) bool {
	f := r.fanIn[n]
	return r.state[n].CompareAndSwap(f, f+1)
}

// deferNeuron marks neuron n as not worth reconsidering before a later
// pass. It never touches state, only deferUntil, so n's partially
// advanced scan progress (if any) survives intact until it is next
// visited.
func (r *Router) deferNeuron(n int, iter uint32) {
	r.deferUntil[n].Store(iter + 1)
	runs := r.deferRuns[n].Add(1)
	if runs == r.cfg.deferWarnThreshold() {
		r.cfg.logger().Warnf("router: neuron %d deferred %d consecutive iterations, possible starvation", n, runs)
	}
}

func (r *Router) addToSubset(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subsetSet[n]; ok {
		return
	}
	r.subsetSet[n] = struct{}{}
	r.pending = append(r.pending, n)
	r.bytesUsed.Add(EstimateBytes(&r.net.Neurons[n]))
}

// visit runs one worker's DFS starting at the given output-layer
// neuron, per spec §4.3's "collect_subset" algorithm. onStack tracks
// the neurons on the current path: a producer already on the path
// means descending into it would close a cycle, so the algorithm
// defers the current neuron and backtracks instead of growing the
// stack without bound. This is how scenario 6's structural-cycle
// detection falls out of ordinary traversal, rather than needing a
// dedicated cycle-finding pass.
func (r *Router) visit(start int, iter uint32, strict bool, budget int64) {
	stack := []int{start}
	onStack := map[int]bool{start: true}
	pop := func() int {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(onStack, top)
		return top
	}

	for len(stack) > 0 {
		if budget > 0 && r.bytesUsed.Load() >= budget {
			return
		}
		top := stack[len(stack)-1]

		// A neuron deferred during pass k only becomes eligible again in
		// a strictly later pass; the < comparison keeps a neuron
		// deferred earlier in this very pass from being re-pushed and
		// re-deferred in an unbounded loop within the same call.
		if du := r.deferUntil[top].Load(); du != 0 && iter < du {
			pop()
			continue
		}

		ph := classify(r.state[top].Load(), r.fanIn[top])
		if ph == phaseProcessed || ph == phaseReserved {
			pop()
			continue
		}

		blocked, producer, pushable := r.scan(top, strict, iter)
		if !blocked {
			if r.reserve(top) {
				r.addToSubset(top)
			}
			pop()
			continue
		}

		if !pushable || int(producer) == top || onStack[int(producer)] {
			r.deferNeuron(top, iter)
			pop()
			continue
		}
		stack = append(stack, int(producer))
		onStack[int(producer)] = true
	}
}

// CollectSubset runs one pass of the router across the output layer,
// using strict or non-strict readiness semantics, stopping once the
// accumulated estimated byte size has reached budgetBytes (0 means
// unbounded). The neuron whose estimate crosses the budget stays in the
// subset, so a subset can exceed budgetBytes. It returns the resulting Subset, which callers drain via
// First/ConfirmProcessed/ConfirmOmitted before calling CollectSubset
// again.
func (r *Router) CollectSubset(budgetBytes int64, strict bool) *Subset {
	iter := r.iteration.Load()
	start := r.outputsDone.Load()

	r.mu.Lock()
	r.pending = nil
	r.subsetSet = make(map[int]struct{})
	r.bytesUsed.Store(0)
	r.mu.Unlock()

	n := r.cfg.workers()
	r.pool.StartAndBlock(func(worker int) {
		for oi := int(start) + worker; oi < r.outputCount; oi += n {
			if budgetBytes > 0 && r.bytesUsed.Load() >= budgetBytes {
				return
			}
			r.visit(r.outputStart+oi, iter, strict, budgetBytes)
		}
	})
	if iter == ^uint32(0) {
		panic("router: iteration counter exhausted uint32 range")
	}
	r.iteration.Add(1)

	r.mu.Lock()
	drained := slices.Clone(r.pending)
	r.mu.Unlock()

	return &Subset{router: r, indices: drained}
}

// advanceOutputCursor bumps the output-layer cursor forward while the
// leading output neurons are confirmed processed.
func (r *Router) advanceOutputCursor() {
	for {
		cur := r.outputsDone.Load()
		if int(cur) >= r.outputCount {
			return
		}
		global := r.outputStart + int(cur)
		if classify(r.state[global].Load(), r.fanIn[global]) != phaseProcessed {
			return
		}
		if !r.outputsDone.CompareAndSwap(cur, cur+1) {
			continue
		}
	}
}
