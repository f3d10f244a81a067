package equalizer

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-eq/internal/filter"
	"github.com/tphakala/go-audio-eq/internal/mathutil"
	"github.com/tphakala/go-audio-eq/internal/mix"
	"github.com/tphakala/go-audio-eq/internal/pipeline"
	"github.com/tphakala/go-audio-eq/internal/simdops"
)

// FilterType selects a band's frequency response.
type FilterType = filter.Type

// Coefficients are the raw biquad coefficients of one band.
type Coefficients = filter.Coefficients

// Filter types.
const (
	LowPass   = filter.LowPass
	HighPass  = filter.HighPass
	BandPass  = filter.BandPass
	Notch     = filter.Notch
	Peak      = filter.Peak
	LowShelf  = filter.LowShelf
	HighShelf = filter.HighShelf
)

// ParseFilterType parses a filter type name such as "peak", "LowShelf" or "hp".
func ParseFilterType(s string) (FilterType, error) {
	return filter.ParseType(s)
}

// Kind selects the filter implementation used by every band.
type Kind = pipeline.Kind

const (
	// KindBiquad runs one Direct Form I biquad per band.
	KindBiquad = pipeline.KindBiquad

	// KindInterleaved runs an interleaved biquad per band, rotating through
	// Params.Interleave state slots.
	KindInterleaved = pipeline.KindInterleaved
)

// Topology selects how bands are combined.
type Topology = pipeline.Topology

const (
	// TopologyCascade runs bands in series.
	TopologyCascade = pipeline.TopologyCascade

	// TopologySum runs bands in parallel on the same input and averages them.
	TopologySum = pipeline.TopologySum
)

// GainLaw selects how band gains map to the cookbook amplitude factor.
type GainLaw = filter.GainLaw

const (
	// GainLawLegacy uses A = sqrt(10^(dB/40)); a +6 dB Peak peaks near +3 dB.
	GainLawLegacy = filter.GainLawLegacy

	// GainLawCookbook uses A = 10^(dB/40); a +6 dB Peak peaks at +6 dB.
	GainLawCookbook = filter.GainLawCookbook
)

// Config holds equalizer configuration fixed at construction.
type Config struct {
	// SampleRate is the initial sample rate in Hz. It can be changed later
	// with SetSampleRate.
	SampleRate float64

	// Kind selects plain or interleaved biquads.
	Kind Kind

	// Topology selects cascade or sum.
	Topology Topology

	// FastTrig derives coefficients from a 256-entry sine table instead of
	// math.Sin/math.Cos. Worst-case error is filter.TrigTableMaxError.
	FastTrig bool

	// GainLaw selects the Peak and shelf gain mapping.
	GainLaw GainLaw

	// MeterDecayMs is the time for a meter to fall 12 dB.
	// Set to 0 to use DefaultMeterDecayMs.
	MeterDecayMs float64
}

// Common errors returned by the equalizer.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid equalizer configuration")

	// ErrInvalidParams indicates a parameter snapshot with out-of-range values.
	ErrInvalidParams = errors.New("invalid equalizer parameters")

	// ErrBufferMismatch indicates channel buffers of unequal length or an
	// interleaved buffer with an odd sample count.
	ErrBufferMismatch = errors.New("buffer length mismatch")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateRate(c.SampleRate); err != nil {
		return err
	}

	if c.Kind != KindBiquad && c.Kind != KindInterleaved {
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidConfig, c.Kind)
	}

	if c.Topology != TopologyCascade && c.Topology != TopologySum {
		return fmt.Errorf("%w: unknown topology %v", ErrInvalidConfig, c.Topology)
	}

	if c.GainLaw != GainLawLegacy && c.GainLaw != GainLawCookbook {
		return fmt.Errorf("%w: unknown gain law %v", ErrInvalidConfig, c.GainLaw)
	}

	if c.MeterDecayMs < 0 || !mathutil.IsFinite(c.MeterDecayMs) {
		return fmt.Errorf("%w: meter decay must be non-negative", ErrInvalidConfig)
	}

	return nil
}

func validateRate(sampleRate float64) error {
	if !(sampleRate > 0) || sampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate must be in (0, %v]", ErrInvalidConfig, maxSampleRate)
	}
	return nil
}

// Equalizer is a five-band stereo parametric equalizer.
//
// SetParams, SetBand, SetSampleRate, RequestReset, Params, Meters and
// Amplitudes are safe to call from any goroutine. The Process methods, Reset,
// Info and Coefficients must be called from a single processing goroutine.
type Equalizer struct {
	config  Config
	decayMs float64
	chain   *pipeline.Chain
	stage   *mix.Stage
	store   paramStore

	// Processing-goroutine state.
	applied     *Params
	appliedRate float64
	active      Params
	settings    [BandCount]pipeline.BandSettings
	scratchL    []float32
	scratchR    []float32
}

// New creates an equalizer with DefaultParams.
func New(config *Config) (*Equalizer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	decay := config.MeterDecayMs
	if decay == 0 {
		decay = DefaultMeterDecayMs
	}

	p := DefaultParams().Clamp(config.SampleRate)
	chain, err := buildChain(config, &p)
	if err != nil {
		return nil, err
	}

	e := &Equalizer{
		config:  *config,
		decayMs: decay,
		chain:   chain,
		stage:   mix.NewStage(config.SampleRate, decay),
	}
	e.store.setRate(config.SampleRate)
	e.store.publish(&p)
	e.begin()

	return e, nil
}

// SetParams publishes a new parameter snapshot. Values are clamped to
// their ranges for the current sample rate. The snapshot takes effect at
// the start of the next processed block.
func (e *Equalizer) SetParams(p Params) {
	c := p.Clamp(e.store.rate())
	e.store.publish(&c)
}

// SetBand replaces a single band in the current snapshot.
func (e *Equalizer) SetBand(index int, b BandParams) error {
	if index < 0 || index >= BandCount {
		return fmt.Errorf("%w: band index %d out of range [0, %d)", ErrInvalidParams, index, BandCount)
	}

	rate := e.store.rate()
	e.store.update(func(p *Params) {
		p.Bands[index] = b
		*p = p.Clamp(rate)
	})
	return nil
}

// Params returns a copy of the most recently published snapshot.
func (e *Equalizer) Params() Params {
	return *e.store.load()
}

// SetSampleRate changes the processing rate. Coefficients are recomputed
// and filter history is cleared at the start of the next block. Setting the
// current rate again changes nothing.
func (e *Equalizer) SetSampleRate(sampleRate float64) error {
	if err := validateRate(sampleRate); err != nil {
		return err
	}
	e.store.setRate(sampleRate)
	return nil
}

// SampleRate returns the most recently published sample rate.
func (e *Equalizer) SampleRate() float64 {
	return e.store.rate()
}

// RequestReset asks the processing goroutine to clear filter history and
// meters at the start of the next block.
func (e *Equalizer) RequestReset() {
	e.store.requestReset()
}

// Reset clears filter history and meters immediately.
func (e *Equalizer) Reset() {
	e.chain.Reset()
	e.stage.Reset()
}

// begin applies any pending snapshot, rate change or reset. It runs at the
// start of every block so changes are never observed mid-block.
func (e *Equalizer) begin() {
	rate := e.store.rate()
	p := e.store.load()
	if p != e.applied || rate != e.appliedRate {
		e.apply(p, rate)
	}

	if e.store.takeReset() {
		e.Reset()
	}
}

// apply installs a snapshot. A rate change clears history in the same step,
// so no block runs new coefficients over state from the old rate.
func (e *Equalizer) apply(p *Params, rate float64) {
	if rate != e.appliedRate {
		e.stage.SetSampleRate(rate, e.decayMs)
		e.Reset()
	}

	e.active = p.Clamp(rate)
	e.active.bandSettings(&e.settings)
	e.chain.Update(float32(rate), e.settings[:])
	e.chain.SetPasses(e.active.Oversampling)
	e.chain.SetInterleave(e.active.Interleave)
	e.stage.Set(e.active.InputGainDB, e.active.OutputGainDB, e.active.Mix)

	e.applied = p
	e.appliedRate = rate
}

// ProcessSample processes one stereo frame.
func (e *Equalizer) ProcessSample(l, r float32) (float32, float32) {
	e.begin()
	return e.stage.Process(e.chain, l, r)
}

// ProcessBlock processes planar stereo in place.
func (e *Equalizer) ProcessBlock(left, right []float32) error {
	if len(left) != len(right) {
		return fmt.Errorf("%w: left has %d samples, right has %d", ErrBufferMismatch, len(left), len(right))
	}

	e.begin()
	e.stage.ProcessBlock(e.chain, left, right)
	return nil
}

// ProcessInterleaved processes interleaved stereo (L R L R ...) in place.
// Scratch buffers are reused across calls and only grow.
func (e *Equalizer) ProcessInterleaved(buf []float32) error {
	if len(buf)%stereoChannels != 0 {
		return fmt.Errorf("%w: interleaved buffer has odd length %d", ErrBufferMismatch, len(buf))
	}

	n := len(buf) / stereoChannels
	if cap(e.scratchL) < n {
		e.scratchL = make([]float32, n)
		e.scratchR = make([]float32, n)
	}
	left, right := e.scratchL[:n], e.scratchR[:n]

	simdops.Deinterleave(left, right, buf)
	e.begin()
	e.stage.ProcessBlock(e.chain, left, right)
	simdops.Interleave(buf, left, right)
	return nil
}

// Meters holds smoothed peak levels (linear, 0 = silence).
type Meters struct {
	Input  float32
	Output float32
}

// Meters returns the current smoothed input and output levels.
func (e *Equalizer) Meters() Meters {
	return Meters{
		Input:  e.stage.InputMeter().Level(),
		Output: e.stage.OutputMeter().Level(),
	}
}

// Amplitudes returns |(l+r)/2| of the last frame, after input gain and
// after output gain respectively.
func (e *Equalizer) Amplitudes() (in, out float32) {
	return e.stage.Amplitudes()
}

// Coefficients returns the coefficients each band applied at the start of
// the last processed block. Bypassed bands report the identity section.
// Like Info, it must be called from the processing goroutine.
func (e *Equalizer) Coefficients() [BandCount]Coefficients {
	var out [BandCount]Coefficients
	for i := range out {
		out[i] = e.chain.Band(i).Coefficients()
	}
	return out
}

// Info returns information about the equalizer.
type Info struct {
	// Kind and Topology name the band implementation and combination mode.
	Kind     string
	Topology string

	// Bands is the band count; BypassedBands of them currently pass audio
	// through because their parameters are invalid at this sample rate.
	Bands         int
	BypassedBands int

	Interleave   int
	Oversampling int
	SampleRate   float64
	GainLaw      string
	FastTrig     bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// Info reports the applied configuration. Interleave is 1 for plain biquads.
func (e *Equalizer) Info() Info {
	interleave := 1
	if e.config.Kind == KindInterleaved {
		interleave = e.chain.Interleave()
	}

	return Info{
		Kind:          e.config.Kind.String(),
		Topology:      e.chain.Topology().String(),
		Bands:         e.chain.Len(),
		BypassedBands: e.chain.BypassedBands(),
		Interleave:    interleave,
		Oversampling:  e.chain.Passes(),
		SampleRate:    e.appliedRate,
		GainLaw:       e.config.GainLaw.String(),
		FastTrig:      e.config.FastTrig,
		SIMDType:      simdops.Info(),
	}
}
