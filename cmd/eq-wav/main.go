// Command eq-wav applies the five-band equalizer to an audio file and writes
// the result as a stereo WAV.
//
// Usage:
//
//	eq-wav input.wav output.wav --gains=0,0,6,0,0
//	eq-wav input.flac output.wav -g 3,0,0,-2,4 -q 0.7,1,1,1,0.7 --types=lowshelf,peak,peak,peak,highshelf
//	eq-wav input.mp3 output.wav --kind=interleaved --interleave=4 --oversampling=1
//
// Inputs may be WAV, FLAC or MP3; mono sources are duplicated to both channels.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tphakala/go-audio-eq/internal/cli"
)

// version is set via ldflags at build time.
var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	Input  string `arg:"" name:"input" help:"Input audio file (.wav, .flac, .mp3)" type:"existingfile"`
	Output string `arg:"" name:"output" help:"Output WAV file" type:"path"`

	cli.EQFlags `embed:""`

	Bits       int    `default:"0" help:"Output bit depth: 16, 24, 32, or 0 to follow the input"`
	Verbose    bool   `short:"v" help:"Verbose output"`
	CPUProfile string `name:"cpuprofile" type:"path" help:"Write CPU profile to file (for PGO)"`

	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	var c CLI
	kong.Parse(&c,
		kong.Name("eq-wav"),
		kong.Description("Five-band parametric equalizer for WAV, FLAC and MP3 files."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter()),
	)

	if err := run(&c); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(c *CLI) error {
	if c.CPUProfile != "" {
		f, err := os.Create(c.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	params, err := c.Params()
	if err != nil {
		return err
	}

	if c.Verbose {
		log.Printf("Input: %s", c.Input)
		log.Printf("Output: %s", c.Output)
		log.Printf("Kind: %s, topology: %s", c.Kind, c.Topology)
		for i, b := range params.Bands {
			log.Printf("Band %d: %s %.1f Hz, %+.1f dB, Q %.3f", i+1, b.Type, b.Frequency, b.Gain, b.Q)
		}
	}

	start := time.Now()
	stats, err := equalizeFile(c, params)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	duration := float64(stats.frames) / float64(stats.sampleRate)
	cli.PrintSummary(os.Stdout, fmt.Sprintf("Equalized %s -> %s", filepath.Base(c.Input), filepath.Base(c.Output)), []cli.Field{
		{Key: "Format", Value: fmt.Sprintf("%d Hz, %d ch in, %d-bit out", stats.sampleRate, stats.channels, stats.bitDepth)},
		{Key: "Frames", Value: fmt.Sprintf("%d", stats.frames)},
		{Key: "Peak in", Value: cli.FormatDB(stats.peakInDB())},
		{Key: "Peak out", Value: cli.FormatDB(stats.peakOutDB())},
		{Key: "Elapsed", Value: cli.FormatDuration(elapsed)},
		{Key: "Speed", Value: cli.FormatSpeed(duration / elapsed.Seconds())},
	})

	if stats.peakOut > 1 {
		cli.PrintWarning(fmt.Sprintf("output clipped (peak %s); lower --output-gain", cli.FormatDB(stats.peakOutDB())))
	}
	return nil
}
