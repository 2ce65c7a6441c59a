package sink

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/dsp"
	"github.com/bmatthieu3/audio-graph/graph"
)

func TestFloatToPCM16Clips(t *testing.T) {
	assert.Equal(t, uint16(32767), floatToPCM16(2.0))
	assert.Equal(t, uint16(65536-32767), floatToPCM16(-2.0))
	assert.Equal(t, uint16(0), floatToPCM16(0))
}

func TestWriteWAVHeaderAndSize(t *testing.T) {
	const blockSize = 64
	const passes = 4

	sw := graph.NewNode[float32]("sw", dsp.NewSineWave(0.1, 2500), blockSize)
	g := graph.New[float32](clock.Rate(44100), blockSize, sw, nil)

	path := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, WriteWAV(path, g, passes, 44100, false, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	wantDataBytes := passes * blockSize * 2
	require.Equal(t, 44+wantDataBytes, len(data))

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(wantDataBytes), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22])) // PCM format tag
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
}
