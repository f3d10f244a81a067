// Package mix wraps a stereo filter with gain staging, dry/wet blending and
// level metering.
package mix

import (
	"github.com/tphakala/go-audio-eq/internal/mathutil"
	"github.com/tphakala/go-audio-eq/internal/simdops"
)

// Filter is anything that transforms one stereo frame.
type Filter interface {
	ProcessSample(l, r float32) (float32, float32)
}

// Stage applies input gain, the filter, the dry/wet blend and output gain,
// in that order, and meters the signal before and after.
//
// A Stage is not safe for concurrent use; its meters are.
type Stage struct {
	inGain  float32
	outGain float32
	wet     float32

	in  *Meter
	out *Meter
}

// NewStage returns a unity-gain, fully wet stage.
func NewStage(sampleRate, decayMs float64) *Stage {
	return &Stage{
		inGain:  1,
		outGain: 1,
		wet:     1,
		in:      NewMeter(sampleRate, decayMs),
		out:     NewMeter(sampleRate, decayMs),
	}
}

// Set updates the gains in dB and the wet amount. Wet is clamped to [0, 1].
func (s *Stage) Set(inputDB, outputDB, wet float32) {
	s.inGain = mathutil.DBToGain(inputDB)
	s.outGain = mathutil.DBToGain(outputDB)
	s.wet = mathutil.Clamp(wet, 0, 1)
}

// SetSampleRate retunes both meters.
func (s *Stage) SetSampleRate(sampleRate, decayMs float64) {
	s.in.SetDecay(sampleRate, decayMs)
	s.out.SetDecay(sampleRate, decayMs)
}

// Process runs one frame through the stage.
func (s *Stage) Process(f Filter, l, r float32) (float32, float32) {
	l *= s.inGain
	r *= s.inGain
	s.in.Observe(amplitude(l, r))

	l, r = s.blend(f, l, r)
	l *= s.outGain
	r *= s.outGain
	s.out.Observe(amplitude(l, r))
	return l, r
}

// ProcessBlock runs equal-length channel buffers through the stage in place.
// Gains are applied to the whole block at once.
func (s *Stage) ProcessBlock(f Filter, left, right []float32) {
	simdops.ApplyGain(left, s.inGain)
	simdops.ApplyGain(right, s.inGain)

	for i := range left {
		l, r := left[i], right[i]
		s.in.Observe(amplitude(l, r))
		left[i], right[i] = s.blend(f, l, r)
	}

	simdops.ApplyGain(left, s.outGain)
	simdops.ApplyGain(right, s.outGain)
	for i := range left {
		s.out.Observe(amplitude(left[i], right[i]))
	}
}

func (s *Stage) blend(f Filter, l, r float32) (float32, float32) {
	fl, fr := f.ProcessSample(l, r)
	dry := 1 - s.wet
	return dry*l + s.wet*fl, dry*r + s.wet*fr
}

// InputMeter returns the pre-filter meter.
func (s *Stage) InputMeter() *Meter { return s.in }

// OutputMeter returns the post-output-gain meter.
func (s *Stage) OutputMeter() *Meter { return s.out }

// Amplitudes returns the raw input and output amplitudes of the last frame.
func (s *Stage) Amplitudes() (in, out float32) {
	return s.in.Amplitude(), s.out.Amplitude()
}

// Reset silences both meters.
func (s *Stage) Reset() {
	s.in.Reset()
	s.out.Reset()
}

// amplitude is the absolute mid-channel value.
func amplitude(l, r float32) float32 {
	m := (l + r) / 2
	if m < 0 {
		return -m
	}
	return m
}
