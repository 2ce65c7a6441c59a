package graph

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bmatthieu3/audio-graph/sample"
)

// StreamInto runs one pass of exactly len(out) samples for this node,
// gathering its fan-in (phase 1) and then computing sample by sample,
// draining due events immediately before the sample they gate (phase 2).
//
// base is the absolute sample index of out[0]. It is threaded unchanged
// down the whole recursive call tree for this pass, so every node in the
// graph compares its events against the same absolute timeline rather
// than a per-node-call-relative one — comparing against a pass-local
// index instead would make an event scheduled against absolute time fire
// at the wrong offset on every pass after the first.
//
// Locking an input's handle happens inside that input's own StreamInto, so
// mutexes are always taken parent before child, following the DAG's
// edges. In a parallel pass several children are locked at once, one per
// worker, but no worker ever waits on a lock held further up its own
// path — no path to deadlock through this call.
func (h *nodeHandle[S, F]) StreamInto(out []S, base uint64, parallel bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.node

	children := h.snapshotInputsLocked()

	gathered, err := gatherInputs(children, len(out), base, parallel)
	if err != nil {
		return err
	}

	input := make([]S, len(children))
	for idx := range out {
		for i, block := range gathered {
			input[i] = block[idx]
		}

		absolute := base + uint64(idx)
		for len(n.events) > 0 && n.events[len(n.events)-1].ev.SampleIndex() <= absolute {
			ev := n.events[len(n.events)-1]
			n.events = n.events[:len(n.events)-1]
			ev.ev.applyTo(n)
		}

		if n.on {
			out[idx] = n.proc.ProcessNextValue(input)
		} else {
			out[idx] = sample.Zero[S]()
		}
	}

	copy(n.out, out)
	return nil
}

// gatherInputs runs Phase 1 of the evaluator: producing one block per
// input. Sequential mode reuses a single scratch buffer and clones it per
// input, since the next input's StreamInto call would otherwise overwrite
// it before the sample loop reads it back. Parallel mode gives every
// input its own scratch buffer, so no clone is needed. Each worker stores
// its block at its input's index, so the gathered order is the same
// insertion order in both modes, whatever order the workers finish in.
// A node with a single input is always gathered sequentially, but the
// parallel flag is still passed down to it.
//
// A panic inside a worker goroutine is recovered there and converted into
// the error errgroup.Wait returns, rather than left to crash the process
// on a goroutine nobody can recover from the outside. The top-level
// Graph.StreamInto logs it at Error and re-panics, so the net effect at
// the caller is the same crash a sequential pass would have produced —
// just with a log line first.
func gatherInputs[S sample.Value](children []namedHandle[S], n int, base uint64, parallel bool) ([][]S, error) {
	if len(children) == 0 {
		return nil, nil
	}

	blocks := make([][]S, len(children))

	if parallel && len(children) > 1 {
		var g errgroup.Group
		for i, c := range children {
			i, c := i, c
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("graph: input %q panicked: %v", c.name, r)
					}
				}()
				scratch := make([]S, n)
				if serr := c.handle.StreamInto(scratch, base, true); serr != nil {
					return fmt.Errorf("input %q: %w", c.name, serr)
				}
				blocks[i] = scratch
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return blocks, nil
	}

	scratch := make([]S, n)
	for i, c := range children {
		if err := c.handle.StreamInto(scratch, base, parallel); err != nil {
			return nil, fmt.Errorf("input %q: %w", c.name, err)
		}
		cloned := make([]S, n)
		copy(cloned, scratch)
		blocks[i] = cloned
	}
	return blocks, nil
}
