package equalizer

import (
	"github.com/tphakala/go-audio-eq/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000
)

// NewFiveBand creates a cascade of five plain biquads at the given rate.
func NewFiveBand(sampleRate float64) (*Equalizer, error) {
	return New(&Config{
		SampleRate: sampleRate,
		Kind:       KindBiquad,
		Topology:   TopologyCascade,
	})
}

// NewInterleaved creates a cascade of five interleaved biquads with the
// given slot count.
func NewInterleaved(sampleRate float64, depth int) (*Equalizer, error) {
	e, err := New(&Config{
		SampleRate: sampleRate,
		Kind:       KindInterleaved,
		Topology:   TopologyCascade,
	})
	if err != nil {
		return nil, err
	}

	p := e.Params()
	p.Interleave = depth
	e.SetParams(p)
	return e, nil
}

// EqualizeStereo is a convenience function for one-shot stereo equalization.
// The inputs are not modified.
func EqualizeStereo(left, right []float32, sampleRate float64, params Params) (leftOut, rightOut []float32, err error) {
	e, err := NewFiveBand(sampleRate)
	if err != nil {
		return nil, nil, err
	}
	e.SetParams(params)

	leftOut = append([]float32(nil), left...)
	rightOut = append([]float32(nil), right...)
	if err := e.ProcessBlock(leftOut, rightOut); err != nil {
		return nil, nil, err
	}

	return leftOut, rightOut, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float32) []float32 {
	n := min(len(left), len(right))
	result := make([]float32, n*stereoChannels)
	simdops.Interleave(result, left[:n], right[:n])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float32) (left, right []float32) {
	n := len(interleaved) / stereoChannels
	left = make([]float32, n)
	right = make([]float32, n)
	simdops.Deinterleave(left, right, interleaved[:n*stereoChannels])
	return left, right
}
