package graph_test

import (
	"testing"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/dsp"
	"github.com/bmatthieu3/audio-graph/graph"
)

// buildBenchGraph mirrors the three-oscillator-into-a-mixer shape the
// upstream crate's own criterion benchmark used to compare sequential and
// parallel fan-in.
func buildBenchGraph(blockSize int) *graph.Graph[float32] {
	sw1 := graph.NewNode[float32]("sw1", dsp.NewSineWave(0.1, 2500), blockSize)
	sw2 := graph.NewNode[float32]("sw2", dsp.NewSineWave(0.02, 9534), blockSize)
	sw3 := graph.NewNode[float32]("sw3", dsp.NewSineWave(0.01, 15534), blockSize)

	mixer := graph.NewNode[float32]("mixer", &dsp.Mixer{}, blockSize)
	mixer.AddInput(sw1)
	mixer.AddInput(sw2)
	mixer.AddInput(sw3)

	return graph.New[float32](clock.Rate(44100), blockSize, mixer, nil)
}

func BenchmarkMixerSequential(b *testing.B) {
	const blockSize = 44100
	g := buildBenchGraph(blockSize)
	buf := make([]float32, blockSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.StreamInto(buf, false)
	}
}

func BenchmarkMixerParallel(b *testing.B) {
	const blockSize = 44100
	g := buildBenchGraph(blockSize)
	buf := make([]float32, blockSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.StreamInto(buf, true)
	}
}
