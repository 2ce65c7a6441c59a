package graph

import (
	"iter"

	"github.com/bmatthieu3/audio-graph/sample"
)

// nextSample computes one sample at the given absolute index: pull one
// sample from every input (recursively, each on the calling goroutine —
// this path never fans out), drain due events against the same absolute
// timeline StreamInto uses, then compute. This path bypasses block
// allocation and parallel fan-in, but not the event queue: events still
// apply per sample against the absolute cursor rather than being
// silently skipped.
func (h *nodeHandle[S, F]) nextSample(absolute uint64) S {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.node

	children := h.snapshotInputsLocked()
	input := make([]S, len(children))
	for i, c := range children {
		input[i] = c.handle.nextSample(absolute)
	}

	for len(n.events) > 0 && n.events[len(n.events)-1].ev.SampleIndex() <= absolute {
		ev := n.events[len(n.events)-1]
		n.events = n.events[:len(n.events)-1]
		ev.ev.applyTo(n)
	}

	if n.on {
		return n.proc.ProcessNextValue(input)
	}
	return sample.Zero[S]()
}

// Iterate returns a single-sample lazy sequence over the graph, advancing
// the same cursor StreamInto uses. Mixing Iterate and StreamInto calls
// against one Graph interleaves their cursor advances rather than keeping
// them on separate timelines — callers that need both should pick one
// driving mode per Graph instance.
func (g *Graph[S]) Iterate() iter.Seq[S] {
	return func(yield func(S) bool) {
		for {
			g.mu.Lock()
			absolute := g.cursor
			g.cursor++
			g.mu.Unlock()

			if !yield(g.root.nextSample(absolute)) {
				return
			}
		}
	}
}
