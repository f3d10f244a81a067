package equalizer

import (
	"fmt"

	"github.com/tphakala/go-audio-eq/internal/mathutil"
	"github.com/tphakala/go-audio-eq/internal/pipeline"
)

// BandParams configures one band.
type BandParams struct {
	Type      FilterType
	Frequency float32 // Center or corner frequency in Hz
	Gain      float32 // dB; used by Peak and the shelves
	Q         float32
}

// Params is a complete parameter snapshot for an equalizer.
// Values are copied on SetParams, so callers may reuse a Params after passing it.
type Params struct {
	Bands [BandCount]BandParams

	// InputGainDB is applied before the bands, OutputGainDB after the mix.
	InputGainDB  float32
	OutputGainDB float32

	// Mix is the wet amount: 0 is fully dry, 1 is fully filtered.
	Mix float32

	// Oversampling is the number of extra passes each band makes over its
	// own output (0-2).
	Oversampling int

	// Interleave is the slot count for interleaved equalizers (1-10).
	// Ignored by the plain biquad kind.
	Interleave int
}

// DefaultParams returns a flat five-band setup: Peak bands at 120, 360,
// 1200, 5000 and 12000 Hz, 0 dB, Q 0.707, fully wet.
func DefaultParams() Params {
	var p Params
	for i := range p.Bands {
		p.Bands[i] = BandParams{
			Type:      Peak,
			Frequency: defaultFrequencies[i],
			Q:         DefaultQ,
		}
	}
	p.Mix = 1
	p.Interleave = 1
	return p
}

// Clamp returns p with every field forced into range for the given sample
// rate. Unknown band types become Peak. NaN values take the lower bound.
func (p Params) Clamp(sampleRate float64) Params {
	maxFreq := float32(MaxFrequency)
	if sampleRate > 0 {
		maxFreq = min(maxFreq, float32(sampleRate*nyquistFraction))
	}

	for i := range p.Bands {
		b := &p.Bands[i]
		if !b.Type.Valid() {
			b.Type = Peak
		}
		b.Frequency = mathutil.Clamp(b.Frequency, MinFrequency, maxFreq)
		b.Gain = mathutil.Clamp(b.Gain, MinGainDB, MaxGainDB)
		b.Q = mathutil.Clamp(b.Q, MinQ, MaxQ)
	}

	p.InputGainDB = mathutil.Clamp(p.InputGainDB, MinGainDB, MaxGainDB)
	p.OutputGainDB = mathutil.Clamp(p.OutputGainDB, MinGainDB, MaxGainDB)
	p.Mix = mathutil.Clamp(p.Mix, 0, 1)
	p.Oversampling = mathutil.Clamp(p.Oversampling, 0, MaxOversampling)
	p.Interleave = mathutil.Clamp(p.Interleave, 1, MaxInterleave)
	return p
}

// Validate reports the first out-of-range field.
func (p *Params) Validate() error {
	for i, b := range p.Bands {
		if !b.Type.Valid() {
			return fmt.Errorf("%w: band %d: unknown type %v", ErrInvalidParams, i, b.Type)
		}
		if err := checkRange(fmt.Sprintf("band %d frequency", i), b.Frequency, MinFrequency, MaxFrequency); err != nil {
			return err
		}
		if err := checkRange(fmt.Sprintf("band %d gain", i), b.Gain, MinGainDB, MaxGainDB); err != nil {
			return err
		}
		if err := checkRange(fmt.Sprintf("band %d Q", i), b.Q, MinQ, MaxQ); err != nil {
			return err
		}
	}

	if err := checkRange("input gain", p.InputGainDB, MinGainDB, MaxGainDB); err != nil {
		return err
	}
	if err := checkRange("output gain", p.OutputGainDB, MinGainDB, MaxGainDB); err != nil {
		return err
	}
	if err := checkRange("mix", p.Mix, 0, 1); err != nil {
		return err
	}

	if p.Oversampling < 0 || p.Oversampling > MaxOversampling {
		return fmt.Errorf("%w: oversampling must be 0-%d, got %d", ErrInvalidParams, MaxOversampling, p.Oversampling)
	}
	if p.Interleave < 1 || p.Interleave > MaxInterleave {
		return fmt.Errorf("%w: interleave must be 1-%d, got %d", ErrInvalidParams, MaxInterleave, p.Interleave)
	}

	return nil
}

func checkRange(name string, v, lo, hi float32) error {
	if !mathutil.IsFinite(float64(v)) || v < lo || v > hi {
		return fmt.Errorf("%w: %s must be in [%v, %v], got %v", ErrInvalidParams, name, lo, hi, v)
	}
	return nil
}

// bandSettings converts the band array to chain settings without allocating.
func (p *Params) bandSettings(dst *[BandCount]pipeline.BandSettings) {
	for i, b := range p.Bands {
		dst[i] = pipeline.BandSettings{
			Type:      b.Type,
			Frequency: b.Frequency,
			Gain:      b.Gain,
			Q:         b.Q,
		}
	}
}
