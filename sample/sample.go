// Package sample defines the numeric value type that flows through an
// audio graph: every node, block buffer, and Processor is generic over it.
package sample

// Value is the constraint a graph's sample type must satisfy: real,
// copyable, and safe to hand across goroutine boundaries (every type
// satisfying it already is, since Go floats have no pointer indirection).
type Value interface {
	~float32 | ~float64
}

// Zero returns the zero element of S.
func Zero[S Value]() S {
	var z S
	return z
}
