// Package dsp holds concrete process.Processor implementations: sources,
// combinators, and modulators that plug into a graph node.
package dsp

import "math"

// sineRate is the fixed step divisor SineWave's phase accumulator is
// built against — not the graph's sampling rate, just a constant fixing
// how fast phase advances per call.
const sineRate = 44100.0

// SineWave is a phase-accumulating sine oscillator. Ampl and Freq are
// exported so graph.NewUpdateParams mutators can reach them directly
// (e.g. func(s *SineWave) { s.Freq *= 1.1 }); step is the node's only
// private state, advancing once per ProcessNextValue call regardless of
// how many inputs it's given (it ignores its input vector entirely — it
// is a source, not a combinator).
type SineWave struct {
	Ampl float32
	Freq float32

	step uint64
}

// NewSineWave constructs an oscillator at the given amplitude and
// frequency, phase zeroed.
func NewSineWave(ampl, freq float32) *SineWave {
	return &SineWave{Ampl: ampl, Freq: freq}
}

func (s *SineWave) ProcessNextValue(_ []float32) float32 {
	s.step++
	phase := float64(s.step) / sineRate * float64(s.Freq)
	return float32(math.Sin(phase)) * s.Ampl
}
