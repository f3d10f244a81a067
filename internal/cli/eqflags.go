package cli

import (
	"fmt"

	equalizer "github.com/tphakala/go-audio-eq"
)

// EQFlags are the equalizer settings shared by the command-line tools.
// Embed it in a kong grammar with `embed:""`.
type EQFlags struct {
	Gains []float64 `short:"g" placeholder:"DB,..." help:"Band gains in dB, low band first (up to 5 values)"`
	Freqs []float64 `short:"f" placeholder:"HZ,..." help:"Band center frequencies in Hz (default 120,360,1200,5000,12000)"`
	Q     []float64 `short:"q" placeholder:"Q,..." help:"Band Q factors (default 0.707)"`
	Types []string  `short:"t" placeholder:"TYPE,..." help:"Band filter types: peak, lowshelf, highshelf, lowpass, highpass, bandpass, notch"`

	InputGain  float64 `name:"input-gain" default:"0" help:"Input gain in dB"`
	OutputGain float64 `name:"output-gain" default:"0" help:"Output gain in dB"`
	Mix        float64 `default:"1" help:"Dry/wet mix from 0 (dry) to 1 (wet)"`

	Kind         string `enum:"biquad,interleaved" default:"biquad" help:"Band filter implementation"`
	Topology     string `enum:"cascade,sum" default:"cascade" help:"Band combination: cascade (series) or sum (parallel average)"`
	Interleave   int    `default:"1" help:"Interleaved state slots per band (interleaved kind only)"`
	Oversampling int    `default:"0" help:"Extra filtering passes per sample (0-2)"`
	Cookbook     bool   `help:"Use the RBJ cookbook gain law instead of the legacy square-root law"`
	FastTrig     bool   `name:"fast-trig" help:"Compute coefficients from a 256-entry sine table"`
}

// DefaultEQFlags returns the values kong assigns when no flag is given.
func DefaultEQFlags() EQFlags {
	return EQFlags{
		Mix:        1,
		Kind:       equalizer.KindBiquad.String(),
		Topology:   equalizer.TopologyCascade.String(),
		Interleave: 1,
	}
}

// Params builds and validates the parameter snapshot. Bands without a
// value in a list keep their defaults.
func (f *EQFlags) Params() (equalizer.Params, error) {
	p := equalizer.DefaultParams()

	lists := []struct {
		name string
		n    int
	}{
		{"gains", len(f.Gains)},
		{"freqs", len(f.Freqs)},
		{"q", len(f.Q)},
		{"types", len(f.Types)},
	}
	for _, l := range lists {
		if l.n > equalizer.BandCount {
			return p, fmt.Errorf("--%s: got %d values, at most %d bands", l.name, l.n, equalizer.BandCount)
		}
	}

	for i, g := range f.Gains {
		p.Bands[i].Gain = float32(g)
	}
	for i, hz := range f.Freqs {
		p.Bands[i].Frequency = float32(hz)
	}
	for i, q := range f.Q {
		p.Bands[i].Q = float32(q)
	}
	for i, s := range f.Types {
		t, err := equalizer.ParseFilterType(s)
		if err != nil {
			return p, fmt.Errorf("--types: band %d: %w", i+1, err)
		}
		p.Bands[i].Type = t
	}

	p.InputGainDB = float32(f.InputGain)
	p.OutputGainDB = float32(f.OutputGain)
	p.Mix = float32(f.Mix)
	p.Oversampling = f.Oversampling
	p.Interleave = f.Interleave

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Config maps the flags onto an equalizer configuration.
func (f *EQFlags) Config(sampleRate float64) *equalizer.Config {
	config := &equalizer.Config{
		SampleRate: sampleRate,
		Kind:       equalizer.KindBiquad,
		Topology:   equalizer.TopologyCascade,
		FastTrig:   f.FastTrig,
		GainLaw:    equalizer.GainLawLegacy,
	}
	if f.Kind == equalizer.KindInterleaved.String() {
		config.Kind = equalizer.KindInterleaved
	}
	if f.Topology == equalizer.TopologySum.String() {
		config.Topology = equalizer.TopologySum
	}
	if f.Cookbook {
		config.GainLaw = equalizer.GainLawCookbook
	}
	return config
}
