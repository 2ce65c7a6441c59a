package graph

import "errors"

// ErrBlockSizeMismatch is returned by Graph.StreamInto when the caller's
// output buffer length does not match the block size the graph was
// constructed with.
var ErrBlockSizeMismatch = errors.New("graph: output buffer length does not match block size")

// ErrNoRoot is returned by Graph.StreamInto when called against a Graph
// whose root was never set (a zero-value Graph rather than one built
// through New).
var ErrNoRoot = errors.New("graph: no root node set")

// ErrUnknownNode is wrapped into the warning logged by AddInputTo,
// DeleteNode, RegisterEvent, and Gate when the name they were given isn't
// in the registry.
var ErrUnknownNode = errors.New("graph: unknown node")
