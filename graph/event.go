package graph

import (
	"time"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/process"
	"github.com/bmatthieu3/audio-graph/sample"
)

// Event is a scheduled per-sample mutation of a node's state or topology,
// targeted at an absolute sample index computed at construction time so
// that firing is rate-independent of when it happens to be registered or
// drained. F is the concrete Processor type of the node the event targets;
// NoteOn/NoteOff/AddInput don't actually touch F, but carrying it keeps
// every event for a given node in the same slice type.
type Event[S sample.Value, F process.Processor[S]] interface {
	// SampleIndex is the absolute sample this event is due at.
	SampleIndex() uint64

	applyTo(n *Node[S, F])
}

type updateParamsEvent[S sample.Value, F process.Processor[S]] struct {
	at     uint64
	mutate func(F)
}

// NewUpdateParams schedules mutate to run against the node's processor at
// the sample corresponding to at, measured from the graph's start (t=0).
// F is expected to be a pointer type (see process.Processor) so the
// mutation is visible on every subsequent ProcessNextValue call.
func NewUpdateParams[S sample.Value, F process.Processor[S]](mutate func(F), at time.Duration, rate clock.Rate) Event[S, F] {
	return &updateParamsEvent[S, F]{at: rate.FromDuration(at), mutate: mutate}
}

func (e *updateParamsEvent[S, F]) SampleIndex() uint64 { return e.at }
func (e *updateParamsEvent[S, F]) applyTo(n *Node[S, F]) {
	e.mutate(n.proc)
}

type noteOnEvent[S sample.Value, F process.Processor[S]] struct{ at uint64 }

// NewNoteOn schedules the node's gate open at the given time: starting at
// that exact sample, the node emits processor output instead of zero.
func NewNoteOn[S sample.Value, F process.Processor[S]](at time.Duration, rate clock.Rate) Event[S, F] {
	return &noteOnEvent[S, F]{at: rate.FromDuration(at)}
}

func (e *noteOnEvent[S, F]) SampleIndex() uint64  { return e.at }
func (e *noteOnEvent[S, F]) applyTo(n *Node[S, F]) { n.on = true }

type noteOffEvent[S sample.Value, F process.Processor[S]] struct{ at uint64 }

// NewNoteOff schedules the node's gate closed: starting at that exact
// sample, the node emits sample.Zero regardless of inputs or processor.
func NewNoteOff[S sample.Value, F process.Processor[S]](at time.Duration, rate clock.Rate) Event[S, F] {
	return &noteOffEvent[S, F]{at: rate.FromDuration(at)}
}

func (e *noteOffEvent[S, F]) SampleIndex() uint64   { return e.at }
func (e *noteOffEvent[S, F]) applyTo(n *Node[S, F]) { n.on = false }

type addInputEvent[S sample.Value, F process.Processor[S]] struct {
	at     uint64
	name   string
	handle Handle[S]
}

// NewAddInput schedules input to be spliced into the target node's fan-in
// set at the given time. The new input is silent (contributes nothing to
// the input vector) for the remainder of the pass it lands in — it has no
// produced block yet — and is fully active from the next pass onward.
// Driving it sample-by-sample to catch up mid-pass was considered and
// rejected as unnecessary complexity for a case this simple.
func NewAddInput[S sample.Value, F process.Processor[S]](input Handle[S], at time.Duration, rate clock.Rate) Event[S, F] {
	return &addInputEvent[S, F]{at: rate.FromDuration(at), name: input.Name(), handle: input}
}

func (e *addInputEvent[S, F]) SampleIndex() uint64 { return e.at }
func (e *addInputEvent[S, F]) applyTo(n *Node[S, F]) {
	n.spliceInput(e.name, e.handle)
}
