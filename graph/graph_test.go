package graph_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/dsp"
	"github.com/bmatthieu3/audio-graph/graph"
)

const rate = clock.Rate(44100)

func TestSilentPass(t *testing.T) {
	g := graph.New[float32](rate, 256, nil, nil)
	buf := make([]float32, 256)
	require.NoError(t, g.StreamInto(buf, false))
	for i, v := range buf {
		assert.Equalf(t, float32(0), v, "sample %d", i)
	}
}

func TestSingleSineSource(t *testing.T) {
	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), 256)
	g := graph.New[float32](rate, 256, sw, nil)
	buf := make([]float32, 256)
	require.NoError(t, g.StreamInto(buf, false))

	want := float32(math.Sin(1.0/44100.0*2500)) * 0.1
	assert.InDelta(t, want, buf[0], 1e-5)
	for _, v := range buf {
		assert.LessOrEqual(t, math.Abs(float64(v)), 0.1+1e-6)
	}
}

func sineAt(step int, ampl, freq float32) float32 {
	return float32(math.Sin(float64(step)/44100.0*float64(freq))) * ampl
}

func TestMixerOfTwoSinesSequentialAndParallel(t *testing.T) {
	const n = 512

	build := func() (*graph.Graph[float32], graph.Handle[float32]) {
		sw1 := graph.NewNode[float32]("sw1", dsp.NewSineWave(0.1, 2500), n)
		sw2 := graph.NewNode[float32]("sw2", dsp.NewSineWave(0.1, 9534), n)
		mixer := graph.NewNode[float32]("mixer", &dsp.Mixer{}, n)
		mixer.AddInput(sw1)
		mixer.AddInput(sw2)
		g := graph.New[float32](rate, n, mixer, nil)
		return g, mixer
	}

	gSeq, _ := build()
	bufSeq := make([]float32, n)
	require.NoError(t, gSeq.StreamInto(bufSeq, false))

	gPar, _ := build()
	bufPar := make([]float32, n)
	require.NoError(t, gPar.StreamInto(bufPar, true))

	for i := 0; i < n; i++ {
		want := sineAt(i+1, 0.1, 2500) + sineAt(i+1, 0.1, 9534)
		assert.InDeltaf(t, want, bufSeq[i], 1e-5, "sequential sample %d", i)
		assert.InDeltaf(t, want, bufPar[i], 1e-5, "parallel sample %d", i)
	}
}

func TestSubtreeDeletion(t *testing.T) {
	const n = 64
	sw1 := graph.NewNode[float32]("sw1", dsp.NewSineWave(0.1, 2500), n)
	sw2 := graph.NewNode[float32]("sw2", dsp.NewSineWave(0.1, 9534), n)
	mixer := graph.NewNode[float32]("mixer", &dsp.Mixer{}, n)
	mixer.AddInput(sw1)
	mixer.AddInput(sw2)

	g := graph.New[float32](rate, n, mixer, nil)

	require.True(t, g.DeleteNode("mixer"))

	buf := make([]float32, n)
	require.NoError(t, g.StreamInto(buf, false))
	for _, v := range buf {
		assert.Equal(t, float32(0), v)
	}
}

func TestDeleteRootRejected(t *testing.T) {
	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), 32)
	g := graph.New[float32](rate, 32, sw, nil)
	assert.False(t, g.DeleteNode("root"))
}

func TestScheduledParameterChange(t *testing.T) {
	const block = 44100
	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), block)
	g := graph.New[float32](rate, block, sw, nil)

	freq := float32(2500)
	for k := 1; k <= 4; k++ {
		f := freq
		require.True(t, graph.RegisterEvent[float32, *dsp.SineWave](g, "sw",
			graph.NewUpdateParams[float32, *dsp.SineWave](func(s *dsp.SineWave) { s.Freq = f * 1.1 }, time.Duration(k)*time.Second, rate)))
		freq *= 1.1
	}

	full := make([]float32, 0, 5*block)
	buf := make([]float32, block)
	for pass := 0; pass < 5; pass++ {
		require.NoError(t, g.StreamInto(buf, false))
		full = append(full, buf...)
	}

	segmentFreq := func(idx uint64) float32 {
		f := float32(2500)
		for k := 1; k <= 4; k++ {
			if idx >= uint64(k)*44100 {
				f *= 1.1
			}
		}
		return f
	}

	for _, idx := range []uint64{0, 44099, 44100, 88199, 88200, 5 * 44100 - 1} {
		want := sineAt(int(idx)+1, 0.1, segmentFreq(idx))
		assert.InDeltaf(t, want, full[idx], 1e-4, "sample %d", idx)
	}
}

func TestNoteGating(t *testing.T) {
	const block = 44100
	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(1.0, 1200), block)
	g := graph.New[float32](rate, block, sw, nil)

	require.True(t, graph.RegisterEvent[float32, *dsp.SineWave](g, "sw",
		graph.NewNoteOff[float32, *dsp.SineWave](time.Second, rate)))
	require.True(t, graph.RegisterEvent[float32, *dsp.SineWave](g, "sw",
		graph.NewNoteOn[float32, *dsp.SineWave](2*time.Second, rate)))

	full := make([]float32, 0, 3*block)
	buf := make([]float32, block)
	for pass := 0; pass < 3; pass++ {
		require.NoError(t, g.StreamInto(buf, false))
		full = append(full, buf...)
	}

	for idx := 44100; idx < 88200; idx++ {
		assert.Equalf(t, float32(0), full[idx], "sample %d should be gated off", idx)
	}
	assert.NotEqual(t, float32(0), full[0])
	assert.NotEqual(t, float32(0), full[3*44100-1])
}

func TestAddInputEvent(t *testing.T) {
	const block = 64
	mixer := graph.NewNode[float32]("mixer", &dsp.Mixer{}, block)
	g := graph.New[float32](rate, block, mixer, nil)

	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), block)
	require.True(t, graph.RegisterEvent[float32, *dsp.Mixer](g, "mixer",
		graph.NewAddInput[float32, *dsp.Mixer](sw, 0, rate)))

	// Phase 1 of the pass the event lands in has already gathered fan-in
	// before the event fires, so the new input is silent for the rest of
	// that pass and only contributes starting next pass.
	buf := make([]float32, block)
	require.NoError(t, g.StreamInto(buf, false))
	for _, v := range buf {
		assert.Equal(t, float32(0), v)
	}

	// The sine was never driven during the first pass, so its own phase
	// counter starts at step 1 here, not at the graph's absolute index.
	require.NoError(t, g.StreamInto(buf, false))
	assert.Equal(t, sineAt(1, 0.1, 2500), buf[0])
}

func TestSimultaneousEventsApplyInInsertionOrder(t *testing.T) {
	const block = 64
	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), block)
	g := graph.New[float32](rate, block, sw, nil)

	var order []string
	require.True(t, graph.RegisterEvent[float32, *dsp.SineWave](g, "sw",
		graph.NewUpdateParams[float32, *dsp.SineWave](func(s *dsp.SineWave) {
			order = append(order, "first")
			s.Freq = 111
		}, 0, rate)))
	require.True(t, graph.RegisterEvent[float32, *dsp.SineWave](g, "sw",
		graph.NewUpdateParams[float32, *dsp.SineWave](func(s *dsp.SineWave) {
			order = append(order, "second")
			s.Freq = 222
		}, 0, rate)))

	buf := make([]float32, block)
	require.NoError(t, g.StreamInto(buf, false))

	// Both events are due at sample 0. The one registered first must be
	// applied first, so "second" (registered later) is the one that wins
	// the write to Freq.
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestWatcherEquivalence(t *testing.T) {
	const n = 128
	build := func() graph.Handle[float32] {
		return graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), n)
	}

	direct := build()
	bufDirect := make([]float32, n)
	require.NoError(t, direct.StreamInto(bufDirect, 0, false))

	watched := graph.Watch[float32](build(), n)
	bufWatched := make([]float32, n)
	require.NoError(t, watched.StreamInto(bufWatched, 0, false))

	assert.Equal(t, bufDirect, bufWatched)
}
