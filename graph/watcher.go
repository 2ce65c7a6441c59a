package graph

import "github.com/bmatthieu3/audio-graph/sample"

// sentinel is the root node's processor: a single-input pass-through. It
// exists only so "root" has a concrete Processor like every other node —
// Graph.StreamInto always drives the tree from this one node down.
type sentinel[S sample.Value] struct{}

func (*sentinel[S]) ProcessNextValue(inputs []S) S {
	if len(inputs) == 0 {
		return sample.Zero[S]()
	}
	return inputs[0]
}

// Watch wraps node in a "root"-named sentinel, the fixed entry point every
// Graph evaluates from. "root" is always present in Graph's registry,
// including when the registry is otherwise empty.
func Watch[S sample.Value](node Handle[S], blockSize int) Handle[S] {
	root := NewNode[S, *sentinel[S]]("root", &sentinel[S]{}, blockSize)
	if node != nil {
		root.AddInput(node)
	}
	return root
}
