// Command analyze-eq prints the coefficients and frequency response of an
// equalizer setting, both from the closed-form band responses and measured
// from the FFT of the equalizer's impulse response.
//
// Usage:
//
//	analyze-eq --gains=0,0,6,0,0
//	analyze-eq --rate=44100 -g 4,0,0,0,-3 --types=lowshelf,peak,peak,peak,highshelf
//	analyze-eq --kind=interleaved --interleave=3 --oversampling=1 -g 0,0,6
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	equalizer "github.com/tphakala/go-audio-eq"
	"github.com/tphakala/go-audio-eq/internal/analysis"
	"github.com/tphakala/go-audio-eq/internal/cli"
)

// version is set via ldflags at build time.
var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	Rate   float64 `default:"48000" help:"Sample rate in Hz"`
	FFT    int     `name:"fft" default:"8192" help:"FFT size for the measured response"`
	Points int     `default:"16" help:"Number of log-spaced probe frequencies"`

	cli.EQFlags `embed:""`

	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	var c CLI
	kong.Parse(&c,
		kong.Name("analyze-eq"),
		kong.Description("Inspect equalizer coefficients and frequency response."),
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
	params, err := c.Params()
	if err != nil {
		return err
	}

	config := c.Config(c.Rate)
	eq, err := equalizer.New(config)
	if err != nil {
		return err
	}
	eq.SetParams(params)

	resp, err := analysis.MeasureResponse(eq, c.Rate, c.FFT)
	if err != nil {
		return err
	}

	info := eq.Info()
	cli.PrintSection("Equalizer")
	cli.PrintInfo("Sample rate", cli.FormatHz(info.SampleRate))
	cli.PrintInfo("Kind", info.Kind)
	cli.PrintInfo("Topology", info.Topology)
	cli.PrintInfo("Gain law", info.GainLaw)
	cli.PrintInfo("Interleave", strconv.Itoa(info.Interleave))
	cli.PrintInfo("Oversampling", strconv.Itoa(info.Oversampling))
	cli.PrintInfo("Bypassed bands", strconv.Itoa(info.BypassedBands))
	cli.PrintInfo("SIMD", info.SIMDType)

	bands, err := designBands(params, config)
	if err != nil {
		return err
	}
	printBands(bands)

	exact := analyticExact(params, config)
	printResponse(bands, resp, params, config, c.Points, exact)

	peakHz, peakDB := resp.Peak()
	troughHz, troughDB := resp.Trough()
	cli.PrintSection("Extremes (measured)")
	cli.PrintInfo("Peak", fmt.Sprintf("%s at %s", cli.FormatDB(peakDB), cli.FormatHz(peakHz)))
	cli.PrintInfo("Trough", fmt.Sprintf("%s at %s", cli.FormatDB(troughDB), cli.FormatHz(troughHz)))
	cli.PrintInfo("Resolution", fmt.Sprintf("%.2f Hz per bin", resp.BinWidth()))

	if !exact {
		cli.PrintWarning("interleaving or oversampling is active; the analytic column shows a single pass")
	}
	return nil
}

func printBands(bands []bandDesign) {
	cli.PrintSection("Bands")
	for i, b := range bands {
		c := b.coeffs
		fmt.Printf("  %d: %-9s %10s  %s  Q %.3f\n",
			i+1, b.params.Type, cli.FormatHz(float64(b.params.Frequency)), cli.FormatDB(float64(b.params.Gain)), b.params.Q)
		fmt.Printf("     b = [%.*f, %.*f, %.*f]\n",
			coefficientPrecision, c.B0/c.A0, coefficientPrecision, c.B1/c.A0, coefficientPrecision, c.B2/c.A0)
		fmt.Printf("     a = [1, %.*f, %.*f]\n",
			coefficientPrecision, c.A1/c.A0, coefficientPrecision, c.A2/c.A0)
		if c.IsIdentity() {
			fmt.Println("     bypassed")
		}
	}
}

func printResponse(bands []bandDesign, resp *analysis.Response, p equalizer.Params, config *equalizer.Config, points int, exact bool) {
	cli.PrintSection("Response")
	fmt.Printf("  %12s  %12s  %12s  %8s\n", "Frequency", "Analytic", "Measured", "Delta")
	fmt.Printf("  %s\n", strings.Repeat("-", tableRule))

	hi := resp.SampleRate() / 2 * probeNyquistCap
	for _, f := range probeFrequencies(points, minProbeHz, hi) {
		a := analyticDB(p, bands, config.Topology, f, resp.SampleRate())
		m := resp.MagnitudeDB(f)
		delta := "-"
		if exact {
			delta = fmt.Sprintf("%+.3f", m-a)
		}
		fmt.Printf("  %12s  %12s  %12s  %8s\n", cli.FormatHz(f), cli.FormatDB(a), cli.FormatDB(m), delta)
	}
}
