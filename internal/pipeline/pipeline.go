// Package pipeline chains equalizer bands over a stereo frame.
// A Chain owns one filter per band and applies them per sample, either in
// series (cascade) or in parallel with the outputs averaged (sum).
package pipeline

import (
	"fmt"

	"github.com/tphakala/go-audio-eq/internal/filter"
)

// Band is a single stereo filter stage in the chain.
type Band interface {
	// Update sets the band parameters. Implementations recompute lazily.
	Update(sampleRate, freq, gainDB, q float32)

	// SetType changes the response; it takes effect on the next Update.
	SetType(t filter.Type)

	// ProcessSample filters one stereo frame.
	ProcessSample(l, r float32) (float32, float32)

	// Reset clears filter history.
	Reset()

	// Bypassed reports whether the band is passing audio through unchanged.
	Bypassed() bool

	// Coefficients returns the section in use; identity while bypassed.
	Coefficients() filter.Coefficients
}

// Rotator is implemented by bands with rotating state slots.
type Rotator interface {
	IncrementIndex()
	SetInterleave(n int)
}

// Kind identifies the filter implementation used for every band.
type Kind int

const (
	// KindBiquad uses one Direct Form I biquad per band.
	KindBiquad Kind = iota

	// KindInterleaved uses an interleaved biquad per band. Each filtering
	// pass advances to the next state slot.
	KindInterleaved
)

func (k Kind) String() string {
	switch k {
	case KindBiquad:
		return "biquad"
	case KindInterleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Topology identifies how band outputs are combined.
type Topology int

const (
	// TopologyCascade feeds each band's output into the next band.
	TopologyCascade Topology = iota

	// TopologySum runs every band on the chain input and averages the outputs.
	TopologySum
)

func (t Topology) String() string {
	switch t {
	case TopologyCascade:
		return "cascade"
	case TopologySum:
		return "sum"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// BandSettings are the per-band parameters supplied each block.
type BandSettings struct {
	Type      filter.Type
	Frequency float32 // Hz
	Gain      float32 // dB
	Q         float32
}

// Spec specifies parameters for building a chain.
type Spec struct {
	Kind       Kind
	Topology   Topology
	SampleRate float32
	Bands      []BandSettings
	Interleave int // Slots per band for KindInterleaved (1-10)
	Passes     int // Extra filtering passes per band (0-2)
	Solver     filter.Solver
}

// Chain applies a fixed, ordered set of bands to stereo frames.
//
// A Chain is not safe for concurrent use.
type Chain struct {
	bands      []Band
	rotators   []Rotator // rotators[i] is nil when bands[i] does not rotate
	topology   Topology
	passes     int
	interleave int
	sampleRate float32
}

// Build constructs a chain from spec.
func Build(spec Spec) (*Chain, error) {
	if len(spec.Bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrInvalidSpec)
	}
	if spec.Topology != TopologyCascade && spec.Topology != TopologySum {
		return nil, fmt.Errorf("%w: unknown topology %v", ErrInvalidSpec, spec.Topology)
	}

	c := &Chain{
		bands:      make([]Band, len(spec.Bands)),
		rotators:   make([]Rotator, len(spec.Bands)),
		topology:   spec.Topology,
		passes:     clampPasses(spec.Passes),
		interleave: filter.ClampInterleave(spec.Interleave),
		sampleRate: spec.SampleRate,
	}

	opt := filter.WithSolver(spec.Solver)
	for i, s := range spec.Bands {
		switch spec.Kind {
		case KindBiquad:
			c.bands[i] = filter.NewBiquad(spec.SampleRate, s.Frequency, s.Gain, s.Q, s.Type, opt)
		case KindInterleaved:
			f := filter.NewInterleavedBiquad(spec.SampleRate, s.Frequency, s.Gain, s.Q, s.Type, c.interleave, opt)
			c.bands[i] = f
			c.rotators[i] = f
		default:
			return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidSpec, spec.Kind)
		}
	}

	return c, nil
}

// Update pushes new settings into every band, in order. Extra settings
// beyond the band count are ignored; missing ones leave bands untouched.
func (c *Chain) Update(sampleRate float32, settings []BandSettings) {
	c.sampleRate = sampleRate
	for i, b := range c.bands {
		if i >= len(settings) {
			break
		}
		s := settings[i]
		b.SetType(s.Type)
		b.Update(sampleRate, s.Frequency, s.Gain, s.Q)
	}
}

// SetInterleave changes the slot count of rotating bands.
func (c *Chain) SetInterleave(n int) {
	c.interleave = filter.ClampInterleave(n)
	for _, r := range c.rotators {
		if r != nil {
			r.SetInterleave(c.interleave)
		}
	}
}

// SetPasses sets how many extra times each band re-filters its own output.
func (c *Chain) SetPasses(k int) {
	c.passes = clampPasses(k)
}

// SetTopology switches between cascade and sum.
func (c *Chain) SetTopology(t Topology) {
	if t == TopologySum {
		c.topology = TopologySum
		return
	}
	c.topology = TopologyCascade
}

// ProcessSample runs one stereo frame through the chain.
func (c *Chain) ProcessSample(l, r float32) (float32, float32) {
	if c.topology == TopologySum {
		return c.processSum(l, r)
	}
	for i := range c.bands {
		l, r = c.runBand(i, l, r)
	}
	return l, r
}

func (c *Chain) processSum(l, r float32) (float32, float32) {
	var sumL, sumR float32
	for i := range c.bands {
		bl, br := c.runBand(i, l, r)
		sumL += bl
		sumR += br
	}
	n := float32(len(c.bands))
	return sumL / n, sumR / n
}

// runBand filters a frame through band i, then re-filters the band's own
// output once per extra pass. Rotating bands advance after every pass.
func (c *Chain) runBand(i int, l, r float32) (float32, float32) {
	b, rot := c.bands[i], c.rotators[i]
	for range c.passes + 1 {
		l, r = b.ProcessSample(l, r)
		if rot != nil {
			rot.IncrementIndex()
		}
	}
	return l, r
}

// Reset clears the history of every band.
func (c *Chain) Reset() {
	for _, b := range c.bands {
		b.Reset()
	}
}

// Len returns the number of bands.
func (c *Chain) Len() int { return len(c.bands) }

// Band returns band i.
func (c *Chain) Band(i int) Band { return c.bands[i] }

// Passes returns the extra pass count.
func (c *Chain) Passes() int { return c.passes }

// Interleave returns the slot count applied to rotating bands.
func (c *Chain) Interleave() int { return c.interleave }

// Topology returns the current combination mode.
func (c *Chain) Topology() Topology { return c.topology }

// SampleRate returns the rate passed to the last Update.
func (c *Chain) SampleRate() float32 { return c.sampleRate }

// BypassedBands returns how many bands are currently in bypass.
func (c *Chain) BypassedBands() int {
	n := 0
	for _, b := range c.bands {
		if b.Bypassed() {
			n++
		}
	}
	return n
}

func clampPasses(k int) int {
	return max(0, min(k, MaxPasses))
}
