package graph

import (
	"sort"
	"sync"

	"github.com/bmatthieu3/audio-graph/process"
	"github.com/bmatthieu3/audio-graph/sample"
)

// Node is a typed processing node: a Processor instance, a gate, a
// name-indexed fan-in set, a per-sample event queue, and the block most
// recently produced for it. F is the node's concrete Processor type; it is
// erased for anyone holding only a Handle[S].
type Node[S sample.Value, F process.Processor[S]] struct {
	name string
	proc F
	on   bool

	inputOrder []string
	inputs     map[string]Handle[S]

	// events is kept sorted by decreasing SampleIndex (reverse order), so
	// the last element is always the next one due — a stack, not a heap.
	// Ties at the same SampleIndex are broken by seq, descending, so that
	// the earliest-registered of a group of simultaneous events ends up
	// nearest the tail and is the first one popped.
	events   []scheduledEvent[S, F]
	eventSeq uint64

	out []S
}

// scheduledEvent pairs a registered Event with the order it was registered
// in, so equal-SampleIndex events can still be broken by insertion order
// once SampleIndex alone no longer distinguishes them.
type scheduledEvent[S sample.Value, F process.Processor[S]] struct {
	ev  Event[S, F]
	seq uint64
}

// nodeHandle is the Arc<Mutex<Node>> equivalent: a reference-counted (by
// Go's GC, since it's just a pointer shared through maps) mutual-exclusion
// wrapper. Every Handle method locks mu for the duration of the operation,
// so cross-goroutine access to a single node is always serialized, and a
// node's own state (inputs, events, out) can be read and written from the
// calling goroutine of any parent streaming it.
type nodeHandle[S sample.Value, F process.Processor[S]] struct {
	mu   sync.Mutex
	node *Node[S, F]
}

// NewNode creates a fresh node: gated on, no inputs, no events, its
// output block allocated to blockSize zeros. blockSize is the sample
// count every pass through this node's graph will use; it's fixed at
// node construction rather than chosen per pass.
func NewNode[S sample.Value, F process.Processor[S]](name string, proc F, blockSize int) Handle[S] {
	n := &Node[S, F]{
		name:   name,
		proc:   proc,
		on:     true,
		inputs: make(map[string]Handle[S]),
		out:    make([]S, blockSize),
	}
	return &nodeHandle[S, F]{node: n}
}

func (h *nodeHandle[S, F]) Name() string { return h.node.name }

func (h *nodeHandle[S, F]) AddInput(child Handle[S]) Handle[S] {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.node.addInputLocked(child.Name(), child)
	return h
}

func (n *Node[S, F]) addInputLocked(name string, child Handle[S]) {
	if _, exists := n.inputs[name]; !exists {
		n.inputOrder = append(n.inputOrder, name)
	}
	n.inputs[name] = child
}

// spliceInput is the AddInput event's effect: same as addInputLocked, but
// named for the structural-mutation-mid-pass call site in event.go.
func (n *Node[S, F]) spliceInput(name string, child Handle[S]) {
	n.addInputLocked(name, child)
}

func (h *nodeHandle[S, F]) Output() []S {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.node.out
}

func (h *nodeHandle[S, F]) setGate(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.node.on = on
}

func (h *nodeHandle[S, F]) snapshotInputs() []namedHandle[S] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotInputsLocked()
}

// snapshotInputsLocked is snapshotInputs without the locking, for callers
// that already hold h.mu (StreamInto, nextSample, collectNodes).
func (h *nodeHandle[S, F]) snapshotInputsLocked() []namedHandle[S] {
	out := make([]namedHandle[S], 0, len(h.node.inputOrder))
	for _, name := range h.node.inputOrder {
		out = append(out, namedHandle[S]{name: name, handle: h.node.inputs[name]})
	}
	return out
}

func (h *nodeHandle[S, F]) removeInput(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.node.inputs[name]; !ok {
		return false
	}
	delete(h.node.inputs, name)
	for i, n := range h.node.inputOrder {
		if n == name {
			h.node.inputOrder = append(h.node.inputOrder[:i], h.node.inputOrder[i+1:]...)
			break
		}
	}
	return true
}

func (h *nodeHandle[S, F]) collectNodes(reg map[string]Handle[S]) {
	h.mu.Lock()
	children := h.snapshotInputsLocked()
	h.mu.Unlock()

	for _, c := range children {
		reg[c.name] = c.handle
		c.handle.collectNodes(reg)
	}
}

func (h *nodeHandle[S, F]) unwrap() any { return h }

// registerEvent pushes ev onto the node's queue and re-sorts it so the
// queue stays ordered by decreasing sample index, with ties broken by
// decreasing seq so that the earliest-registered event of a tied group
// sits nearest the tail and is popped (and so applied) first.
func (h *nodeHandle[S, F]) registerEvent(ev Event[S, F]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seq := h.node.eventSeq
	h.node.eventSeq++
	h.node.events = append(h.node.events, scheduledEvent[S, F]{ev: ev, seq: seq})
	sort.SliceStable(h.node.events, func(i, j int) bool {
		a, b := h.node.events[i], h.node.events[j]
		if ai, bi := a.ev.SampleIndex(), b.ev.SampleIndex(); ai != bi {
			return ai > bi
		}
		return a.seq > b.seq
	})
}
