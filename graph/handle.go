package graph

import "github.com/bmatthieu3/audio-graph/sample"

// Handle is a type-erased, exclusively-mutable, shareable reference to a
// Node whose concrete Processor type is not visible to the holder. It is
// how a node's "inputs" map stores heterogeneous children, and how the
// Graph registry stores every reachable node under one type.
//
// The interface is deliberately sealed (its method set includes unexported
// methods) so that the only way to obtain a Handle is through NewNode or
// Watch. Callers never need to implement Handle themselves.
type Handle[S sample.Value] interface {
	// Name returns the node's static identifier.
	Name() string

	// AddInput inserts child into this node's fan-in set, keyed by
	// child.Name(). A duplicate name replaces the previous handle in
	// place (same position in iteration order). Returns the receiver for
	// chaining, mirroring Node::add_input's builder style.
	AddInput(child Handle[S]) Handle[S]

	// StreamInto writes the next len(out) samples into out. base is the
	// absolute sample index of out[0]; it lets nested calls apply events
	// against one monotonic timeline instead of a per-pass-relative one.
	// When parallel is true, this node fans out across its own inputs
	// using one goroutine per input (see evaluator.go); it still computes
	// its own per-sample loop on the calling goroutine. A panic in a
	// fan-out worker is recovered at the worker and returned here as an
	// error so the top-level Graph.StreamInto can log it before
	// re-panicking.
	StreamInto(out []S, base uint64, parallel bool) error

	// Output returns the block most recently written by StreamInto. It is
	// only meaningful after a StreamInto call has returned.
	Output() []S

	snapshotInputs() []namedHandle[S]
	removeInput(name string) bool
	collectNodes(reg map[string]Handle[S])
	setGate(on bool)
	unwrap() any

	// nextSample computes exactly one sample at the given absolute index,
	// recursively pulling one sample from each input first. It is the
	// per-sample counterpart to StreamInto (see graph/iterator.go):
	// same event-draining and gating rules, no block buffer, no
	// parallel fan-in.
	nextSample(absolute uint64) S
}

// namedHandle pairs a child's registered name with its handle, preserving
// stable insertion order for deterministic fan-in iteration.
type namedHandle[S sample.Value] struct {
	name   string
	handle Handle[S]
}
