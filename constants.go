package equalizer

import (
	"github.com/tphakala/go-audio-eq/internal/filter"
	"github.com/tphakala/go-audio-eq/internal/mix"
	"github.com/tphakala/go-audio-eq/internal/pipeline"
)

// Channel constants
const (
	stereoChannels = 2 // Stereo channel count (used by interleave functions)
)

// BandCount is the number of bands in every equalizer.
const BandCount = 5

// Parameter ranges
const (
	MinFrequency = 1.0     // Hz
	MaxFrequency = 20000.0 // Hz
	MinGainDB    = -12.0
	MaxGainDB    = 12.0
	MinQ         = 0.01
	MaxQ         = 10.0

	// MaxOversampling is the largest number of extra passes per band.
	MaxOversampling = pipeline.MaxPasses

	// MaxInterleave is the largest slot count for interleaved bands.
	MaxInterleave = filter.MaxInterleave

	// nyquistFraction caps band frequencies just below half the sample rate.
	nyquistFraction = 0.49
)

// Defaults
const (
	DefaultQ = 0.707

	// DefaultMeterDecayMs is the release time used when Config.MeterDecayMs is zero.
	DefaultMeterDecayMs = mix.DefaultDecayMs
)

// Sample rate limits
const (
	maxSampleRate = 768000.0
)

// defaultFrequencies are the band centers of a fresh equalizer.
var defaultFrequencies = [BandCount]float32{120, 360, 1200, 5000, 12000}
