package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bmatthieu3/audio-graph/dsp"
	"github.com/bmatthieu3/audio-graph/graph"
)

func TestIterateMatchesBlockMode(t *testing.T) {
	const n = 32

	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), n)
	g := graph.New[float32](rate, n, sw, nil)

	buf := make([]float32, n)
	if err := g.StreamInto(buf, false); err != nil {
		t.Fatalf("StreamInto: %v", err)
	}

	sw2 := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), n)
	g2 := graph.New[float32](rate, n, sw2, nil)

	i := 0
	for v := range g2.Iterate() {
		assert.InDeltaf(t, buf[i], v, 1e-6, "sample %d", i)
		i++
		if i == n {
			break
		}
	}
	assert.Equal(t, n, i)
}
