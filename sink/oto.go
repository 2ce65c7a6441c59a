// Package sink adapts a graph.Graph to real output: real-time playback
// through ebiten/v2's audio backend, or a WAV file for offline rendering.
package sink

import (
	"encoding/binary"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"github.com/bmatthieu3/audio-graph/graph"
	"github.com/bmatthieu3/audio-graph/internal/logging"
)

// streamSource implements io.Reader by pulling one graph block at a time
// and converting it to 16-bit little-endian mono frames for an
// ebiten/v2/audio.Player. A graph has no ring buffer of its own —
// StreamInto computes samples on demand — so each Read just runs however
// many whole blocks are needed to satisfy the request.
type streamSource struct {
	g         *graph.Graph[float32]
	parallel  bool
	block     []float32
	log       *zap.Logger
	underruns int
}

func newStreamSource(g *graph.Graph[float32], parallel bool, logger *zap.Logger) *streamSource {
	return &streamSource{
		g:        g,
		parallel: parallel,
		block:    make([]float32, g.BlockSize()),
		log:      logging.OrNop(logger),
	}
}

func (s *streamSource) Read(p []byte) (int, error) {
	if len(p) < 2 {
		return 0, nil
	}

	framesWanted := len(p) / 2
	written := 0

	for written < framesWanted {
		if err := s.g.StreamInto(s.block, s.parallel); err != nil {
			s.underruns++
			s.log.Warn("stream pass failed, emitting silence", zap.Error(err))
			for i := 0; i < len(s.block) && written < framesWanted; i++ {
				binary.LittleEndian.PutUint16(p[written*2:], 0)
				written++
			}
			continue
		}

		for _, v := range s.block {
			if written >= framesWanted {
				break
			}
			binary.LittleEndian.PutUint16(p[written*2:], floatToPCM16(v))
			written++
		}
	}

	return written * 2, nil
}

func floatToPCM16(v float32) uint16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return uint16(int16(v * 32767))
}

// OtoSink drives a Graph into real-time audio output through
// ebiten/v2/audio (named for the oto library that package is itself
// built on).
type OtoSink struct {
	ctx    *audio.Context
	player *audio.Player
	source *streamSource
}

// NewOtoSink builds a player for g at sampleRate (the context's playback
// rate; it does not have to equal g.SamplingRate(), though mismatches
// will pitch-shift the output — same caveat as feeding any PCM source to
// an audio.Context built for a different rate). parallel selects whether
// each block is computed with fan-in parallelism. logger may be nil.
func NewOtoSink(g *graph.Graph[float32], sampleRate int, parallel bool, logger *zap.Logger) (*OtoSink, error) {
	ctx := audio.NewContext(sampleRate)
	src := newStreamSource(g, parallel, logger)
	player, err := ctx.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("sink: new player: %w", err)
	}
	return &OtoSink{ctx: ctx, player: player, source: src}, nil
}

// Play starts (or resumes) playback.
func (s *OtoSink) Play() { s.player.Play() }

// Close stops playback and releases the underlying player.
func (s *OtoSink) Close() error { return s.player.Close() }

// Underruns reports how many times a Graph.StreamInto call returned an
// error and silence was substituted for that block.
func (s *OtoSink) Underruns() int { return s.source.underruns }
