// Copyright (c) 2024, The Sparserun Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sparserun is the overall module for the sparserun sparse neural
network compilation and execution engine. This top level has no
functional code of its own — everything is organized into the
following sub-packages:

  - synidx holds the synapse interval and iterator types every other
    package addresses fan-in, fan-out, and weight tables through.

  - ringbuf is the fixed-depth circular store of per-step neuron
    activation frames that gives recurrent and history-referencing
    neurons access to past state.

  - netmodel defines the declarative Network, Neuron, and FeatureGroup
    value types a caller builds before compiling.

  - router walks a Network's dependency graph concurrently, handing the
    compiler maximal independent subsets of neurons ready to be folded
    into a partition.

  - compile turns the router's stream of ready neurons into a
    two-dimensional matrix of memory-bounded partial solutions, each
    with its own local coordinate system.

  - solve evaluates one compiled partition for one step: gather,
    per-neuron weighted-sum/transfer/spike, scatter.

  - transfer holds the pure scalar transfer and spike-mixing functions
    a compiled neuron dispatches through.

  - feature applies declarative whole-layer post-activation transforms
    (softmax and friends) after a step's partitions have all solved.

  - threadpool is the reusable barrier-style worker pool the router,
    solver fan-out, and feature executor all share.

  - orchestrate drives a compiled Solution across a sequence of steps,
    maintaining the ring buffer and applying the row-barrier
    concurrency model between rows.

  - engerr defines the structured error taxonomy (Kind, Error)
    returned at the engine's fallible API boundaries: netmodel's
    Validate, compile's structural-cycle check, and orchestrate's
    shape check.

  - rtstats and rlog are the ambient instrumentation and logging
    packages: the router logs through rlog, and the orchestrator logs
    through rlog and records timing through rtstats.
*/
package sparserun
