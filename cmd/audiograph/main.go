// Command audiograph is a thin demonstration front end over the library
// packages: it builds a small fixed graph (a few sine sources into a
// mixer) and either renders it to a WAV file or plays it back live.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bmatthieu3/audio-graph/clock"
	"github.com/bmatthieu3/audio-graph/dsp"
	"github.com/bmatthieu3/audio-graph/graph"
	"github.com/bmatthieu3/audio-graph/internal/logging"
	"github.com/bmatthieu3/audio-graph/sink"
)

const defaultSampleRate = 44100

func buildDemoGraph(blockSize int, logger *zap.Logger) *graph.Graph[float32] {
	sw1 := graph.NewNode[float32]("sw1", dsp.NewSineWave(0.1, 2500), blockSize)
	sw2 := graph.NewNode[float32]("sw2", dsp.NewSineWave(0.02, 9534), blockSize)
	sw3 := graph.NewNode[float32]("sw3", dsp.NewSineWave(0.01, 15534), blockSize)

	mixer := graph.NewNode[float32]("mixer", &dsp.Mixer{}, blockSize)
	mixer.AddInput(sw1)
	mixer.AddInput(sw2)
	mixer.AddInput(sw3)

	return graph.New[float32](clock.Rate(defaultSampleRate), blockSize, mixer, logger)
}

func main() {
	var (
		trace     bool
		parallel  bool
		blockSize int
	)

	root := &cobra.Command{
		Use:   "audiograph",
		Short: "Build and drive a small demo audio DAG",
		Long: `audiograph wires a handful of sine oscillators into a mixer and streams
the result either to a WAV file or to live playback, to exercise the
graph/dsp/sink packages end to end.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if blockSize <= 0 {
				return fmt.Errorf("block-size must be > 0")
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&trace, "trace", false, "verbose development logging instead of production JSON logging")
	root.PersistentFlags().BoolVar(&parallel, "parallel", false, "evaluate fan-in concurrently per pass")
	root.PersistentFlags().IntVar(&blockSize, "block-size", 512, "samples per evaluator pass")

	renderCmd := &cobra.Command{
		Use:   "render [output.wav]",
		Short: "Render a fixed duration of the demo graph to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := cmd.Flags().GetDuration("duration")
			if err != nil {
				return err
			}
			logger := logging.New(trace)
			defer logger.Sync()

			g := buildDemoGraph(blockSize, logger)
			passes := int(clock.Rate(defaultSampleRate).FromDuration(duration)) / blockSize
			if passes <= 0 {
				passes = 1
			}
			return sink.WriteWAV(args[0], g, passes, defaultSampleRate, parallel, logger)
		},
	}
	renderCmd.Flags().Duration("duration", 5*time.Second, "length of audio to render")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play the demo graph live until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(trace)
			defer logger.Sync()

			g := buildDemoGraph(blockSize, logger)
			otoSink, err := sink.NewOtoSink(g, defaultSampleRate, parallel, logger)
			if err != nil {
				return err
			}
			defer otoSink.Close()
			otoSink.Play()

			select {}
		},
	}

	root.AddCommand(renderCmd, playCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
