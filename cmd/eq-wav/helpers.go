package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	equalizer "github.com/tphakala/go-audio-eq"
	"github.com/tphakala/go-audio-eq/internal/analysis"
	"github.com/tphakala/go-audio-eq/internal/audioio"
	"github.com/tphakala/go-audio-eq/internal/cli"
	"github.com/tphakala/go-audio-eq/internal/mathutil"
)

// outputBits picks the WAV bit depth for a source.
func outputBits(requested, source int) (int, error) {
	switch requested {
	case 0:
		return max(bitsPerSample16, min(source, bitsPerSample32)), nil
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return requested, nil
	default:
		return 0, fmt.Errorf("unsupported output bit depth %d (use 16, 24 or 32)", requested)
	}
}

// eqStats summarizes one file run.
type eqStats struct {
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	peakIn     float32
	peakOut    float32
}

func (s *eqStats) peakInDB() float64  { return peakDB(s.peakIn) }
func (s *eqStats) peakOutDB() float64 { return peakDB(s.peakOut) }

func peakDB(p float32) float64 {
	return float64(mathutil.GainToDB(p))
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, verbose: verbose}
}

// reportIfNeeded reports progress if a threshold was crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// equalizeFile streams c.Input through a fresh equalizer into c.Output.
func equalizeFile(c *CLI, params equalizer.Params) (stats *eqStats, err error) {
	input, err := audioio.Open(c.Input)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	bits, err := outputBits(c.Bits, input.BitDepth())
	if err != nil {
		return nil, err
	}

	eq, err := equalizer.New(c.Config(float64(input.SampleRate())))
	if err != nil {
		return nil, err
	}
	eq.SetParams(params)

	if c.Verbose {
		info := eq.Info()
		log.Printf("Input format: %d Hz, %d channels, %d-bit", input.SampleRate(), input.Channels(), input.BitDepth())
		log.Printf("Output format: %d-bit stereo WAV", bits)
		log.Printf("SIMD: %s, gain law: %s, fast trig: %v", info.SIMDType, info.GainLaw, info.FastTrig)
	}

	output, err := audioio.Create(c.Output, input.SampleRate(), bits)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on the success path (the WAV header is finalized there).
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &eqStats{
		sampleRate: input.SampleRate(),
		channels:   input.Channels(),
		bitDepth:   bits,
	}
	progress := newProgressTracker(input.Frames(), c.Verbose)

	left := make([]float32, blockFrames)
	right := make([]float32, blockFrames)

	for {
		n, err := input.ReadFrames(left, right)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		l, r := left[:n], right[:n]
		stats.peakIn = max(stats.peakIn, analysis.Peak(l), analysis.Peak(r))

		if err := eq.ProcessBlock(l, r); err != nil {
			return nil, fmt.Errorf("processing failed: %w", err)
		}
		stats.peakOut = max(stats.peakOut, analysis.Peak(l), analysis.Peak(r))

		if err := output.WriteFrames(l, r); err != nil {
			return nil, err
		}

		stats.frames += int64(n)
		progress.reportIfNeeded(stats.frames)
	}

	if c.Verbose {
		m := eq.Meters()
		log.Printf("Final meters: in %s, out %s", cli.FormatDB(peakDB(m.Input)), cli.FormatDB(peakDB(m.Output)))
	}

	return stats, nil
}
