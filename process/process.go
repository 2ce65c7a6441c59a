// Package process defines the per-sample computation capability a graph
// node carries. Concrete implementations (oscillators, mixers, envelopes)
// live in package dsp; process only fixes the contract.
package process

import "github.com/bmatthieu3/audio-graph/sample"

// Processor computes one output sample from a node's gathered input
// vector. It may carry internal state (a phase accumulator, an envelope
// stage) that advances monotonically across calls, but ProcessNextValue
// itself must not block and must not retain the inputs slice past return.
//
// Implementations are expected to use a pointer receiver: the graph keeps
// exactly one instance of F per node and relies on mutation through it
// (both from ProcessNextValue and from UpdateParams event mutators) being
// visible on the next call.
type Processor[S sample.Value] interface {
	ProcessNextValue(inputs []S) S
}
