package filter

import "math"

// Channel indices into per-section stereo history.
const (
	left  = 0
	right = 1

	stereo = 2
)

// nyquistDivisor is the 2 in fs/2.
const nyquistDivisor = 2.0

// taps are coefficients pre-divided by A0 so the per-sample loop only multiplies.
type taps struct {
	b0, b1, b2, a1, a2 float32
}

func normalize(c Coefficients) taps {
	return taps{
		b0: c.B0 / c.A0,
		b1: c.B1 / c.A0,
		b2: c.B2 / c.A0,
		a1: c.A1 / c.A0,
		a2: c.A2 / c.A0,
	}
}

// history is one channel's Direct Form I delay line.
type history struct {
	x1, x2 float32
	y1, y2 float32
}

// step filters one sample and shifts the delay line.
func (h *history) step(t *taps, x float32) float32 {
	y := t.b0*x + t.b1*h.x1 + t.b2*h.x2 - t.a1*h.y1 - t.a2*h.y2
	h.x2, h.x1 = h.x1, x
	h.y2, h.y1 = h.y1, y
	return y
}

// stereoHistory holds independent left and right delay lines.
type stereoHistory [stereo]history

func (h *stereoHistory) step(t *taps, l, r float32) (float32, float32) {
	return h[left].step(t, l), h[right].step(t, r)
}

func (h *stereoHistory) silent() bool {
	return *h == stereoHistory{}
}

// settings is the parameter tuple that drives coefficient recomputation.
type settings struct {
	sampleRate float32
	freq       float32
	gainDB     float32
	q          float32
}

func (s settings) valid() bool {
	for _, v := range [...]float32{s.sampleRate, s.freq, s.gainDB, s.q} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return s.sampleRate > 0 && s.freq > 0 && s.q > 0 &&
		float64(s.freq) < float64(s.sampleRate)/nyquistDivisor
}

// Option configures a section at construction.
type Option func(*section)

// WithSolver replaces the default exact-trig, legacy-gain solver.
func WithSolver(s Solver) Option {
	return func(sec *section) {
		sec.solver = s
	}
}

// section is the coefficient state shared by Biquad and InterleavedBiquad.
type section struct {
	solver   Solver
	typ      Type
	params   settings
	coeffs   Coefficients
	taps     taps
	dirty    bool
	bypassed bool

	// recomputes counts coefficient derivations after construction.
	recomputes int
}

func newSection(p settings, t Type, opts []Option) section {
	s := section{typ: t, params: p}
	for _, opt := range opts {
		opt(&s)
	}
	s.compute()
	return s
}

// update recomputes coefficients only when something changed.
func (s *section) update(p settings) {
	if !s.dirty && p == s.params {
		return
	}
	s.params = p
	s.compute()
	s.recomputes++
}

func (s *section) setType(t Type) {
	if t != s.typ {
		s.typ = t
		s.dirty = true
	}
}

// compute derives coefficients, falling back to a transparent bypass when
// the parameters cannot yield a stable, finite section.
func (s *section) compute() {
	s.dirty = false

	if !s.typ.Valid() || !s.params.valid() {
		s.enterBypass()
		return
	}

	c := s.solver.Design(s.typ,
		float64(s.params.sampleRate), float64(s.params.freq),
		float64(s.params.gainDB), float64(s.params.q))
	if !c.Finite() {
		s.enterBypass()
		return
	}

	s.coeffs = c
	s.taps = normalize(c)
	s.bypassed = false
}

func (s *section) enterBypass() {
	s.coeffs = Identity()
	s.taps = normalize(s.coeffs)
	s.bypassed = true
}

// Biquad is a stereo second-order section in Direct Form I. Both channels
// share one coefficient set and keep separate history.
//
// A Biquad is not safe for concurrent use.
type Biquad struct {
	section
	hist stereoHistory
}

// NewBiquad creates a biquad with the given parameters. The values may be
// placeholders; the first Update that differs replaces them.
func NewBiquad(sampleRate, centerFreq, gainDB, q float32, t Type, opts ...Option) *Biquad {
	return &Biquad{
		section: newSection(settings{sampleRate, centerFreq, gainDB, q}, t, opts),
	}
}

// Update sets the filter parameters. Coefficients are recomputed only if
// one of the four values differs from the stored one, or if SetType changed
// the response since the last computation.
//
// Parameters outside 0 < centerFreq < sampleRate/2, q > 0 put the filter in
// bypass: it passes audio through unchanged until a valid Update arrives.
func (b *Biquad) Update(sampleRate, centerFreq, gainDB, q float32) {
	b.update(settings{sampleRate, centerFreq, gainDB, q})
}

// SetType changes the response. It takes effect on the next Update.
func (b *Biquad) SetType(t Type) {
	b.setType(t)
}

// ProcessSample filters one stereo frame.
func (b *Biquad) ProcessSample(l, r float32) (float32, float32) {
	return b.hist.step(&b.taps, l, r)
}

// Reset clears the filter history.
func (b *Biquad) Reset() {
	b.hist = stereoHistory{}
}

// Type returns the configured response.
func (b *Biquad) Type() Type { return b.typ }

// Coefficients returns the raw coefficients in use.
func (b *Biquad) Coefficients() Coefficients { return b.coeffs }

// Bypassed reports whether the last parameters were rejected.
func (b *Biquad) Bypassed() bool { return b.bypassed }

// Silent reports whether all history is zero.
func (b *Biquad) Silent() bool { return b.hist.silent() }
