package graph

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/internal/logging"
	"github.com/bmatthieu3/audio-graph/process"
	"github.com/bmatthieu3/audio-graph/sample"
)

// Graph owns a rooted node tree, the sampling clock, and the monotonic
// cursor every node's events are scheduled against. It is the library's
// one stateful entry point: construct it once around a watched subtree,
// then drive it one block at a time with StreamInto.
type Graph[S sample.Value] struct {
	mu sync.Mutex

	root      Handle[S]
	rate      clock.Rate
	blockSize int
	cursor    uint64

	log *zap.Logger
}

// New constructs a Graph rooted at a "root"-named sentinel wrapping
// watched. logger may be nil, in which case logging is a no-op.
func New[S sample.Value](rate clock.Rate, blockSize int, watched Handle[S], logger *zap.Logger) *Graph[S] {
	return &Graph[S]{
		root:      Watch[S](watched, blockSize),
		rate:      rate,
		blockSize: blockSize,
		log:       logging.OrNop(logger),
	}
}

// SamplingRate returns the clock rate this graph's events are resolved
// against.
func (g *Graph[S]) SamplingRate() clock.Rate { return g.rate }

// BlockSize returns the fixed sample count every StreamInto call must
// supply a buffer of.
func (g *Graph[S]) BlockSize() int { return g.blockSize }

// Root returns the graph's root handle, for callers that need to read its
// Output() directly after a pass.
func (g *Graph[S]) Root() Handle[S] { return g.root }

// registry walks the tree reachable from root and returns every node
// keyed by name, including "root" itself. Callers must hold g.mu.
func (g *Graph[S]) registry() map[string]Handle[S] {
	reg := map[string]Handle[S]{"root": g.root}
	g.root.collectNodes(reg)
	return reg
}

// AddInputTo inserts input into the named parent's fan-in set immediately
// (not as a scheduled event — see graph.NewAddInput for the deferred
// form). Returns false, logged at Warn, if parent isn't registered.
func (g *Graph[S]) AddInputTo(parent string, input Handle[S]) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	h, ok := g.registry()[parent]
	if !ok {
		g.log.Warn("add-input target not found", zap.Error(fmt.Errorf("%w: %s", ErrUnknownNode, parent)))
		return false
	}
	h.AddInput(input)
	return true
}

// DeleteNode detaches the named node from every node that holds it as an
// input. A descendant that is also reachable through another surviving
// parent stays in the graph — this only severs the edges that point at
// name, it does not chase reachability afterward. Deleting "root" is
// rejected.
func (g *Graph[S]) DeleteNode(name string) bool {
	if name == "root" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	reg := g.registry()
	if _, ok := reg[name]; !ok {
		g.log.Warn("delete target not found", zap.Error(fmt.Errorf("%w: %s", ErrUnknownNode, name)))
		return false
	}

	removed := false
	for _, h := range reg {
		if h.removeInput(name) {
			removed = true
		}
	}
	return removed
}

// RegisterEvent schedules ev against the named node. It is a free
// function rather than a Graph method because it needs F, the node's
// concrete Processor type, to downcast the registry's erased Handle back
// to the one nodeHandle[S, F] that can accept an Event[S, F] — Go has no
// runtime trait-object-style dispatch, so the type parameter has to come
// from the caller, who already knows what kind of node they built.
// Returns false, logged at Warn, if name isn't registered or names a node
// whose concrete Processor type isn't F.
func RegisterEvent[S sample.Value, F process.Processor[S]](g *Graph[S], name string, ev Event[S, F]) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	h, ok := g.registry()[name]
	if !ok {
		g.log.Warn("register-event target not found", zap.Error(fmt.Errorf("%w: %s", ErrUnknownNode, name)))
		return false
	}
	nh, ok := h.unwrap().(*nodeHandle[S, F])
	if !ok {
		g.log.Warn("register-event type mismatch", zap.String("node", name))
		return false
	}
	nh.registerEvent(ev)
	return true
}

// Gate opens or closes the named node's output gate immediately (the
// non-scheduled counterpart to NewNoteOn/NewNoteOff).
func (g *Graph[S]) Gate(name string, on bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	h, ok := g.registry()[name]
	if !ok {
		g.log.Warn("gate target not found", zap.Error(fmt.Errorf("%w: %s", ErrUnknownNode, name)))
		return false
	}
	h.setGate(on)
	return true
}

// StreamInto advances the graph by exactly one block: out must have
// length BlockSize. It writes that many samples starting at the graph's
// current cursor, then advances the cursor by len(out) so the next call
// continues the same absolute timeline.
//
// A panic recovered from a parallel fan-out worker surfaces here as an
// error from the tree walk; it is logged at Error and then re-panicked,
// since a half-computed block has no well-defined output to hand back.
func (g *Graph[S]) StreamInto(out []S, parallel bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.root == nil {
		return ErrNoRoot
	}

	if len(out) != g.blockSize {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockSizeMismatch, len(out), g.blockSize)
	}

	base := g.cursor
	g.log.Debug("stream pass",
		zap.Uint64("base", base),
		zap.Int("n", len(out)),
		zap.Bool("parallel", parallel),
	)

	if err := g.root.StreamInto(out, base, parallel); err != nil {
		g.log.Error("pass failed", zap.Error(err))
		panic(err)
	}

	g.cursor += uint64(len(out))
	return nil
}
