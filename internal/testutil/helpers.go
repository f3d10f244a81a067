// Package testutil provides reusable test helpers for equalizer tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-6
	SampleTolerance  = 1e-5
	DBTolerance      = 0.01
)

// Float is the set of sample types helpers accept.
type Float interface {
	float32 | float64
}

// Sine generates n samples of a sine wave at freq Hz.
func Sine(n int, freq, sampleRate, amplitude float64) []float32 {
	out := make([]float32, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(w*float64(i)))
	}
	return out
}

// Impulse returns a unit impulse of length n.
func Impulse(n int) []float32 {
	out := make([]float32, n)
	if n > 0 {
		out[0] = 1
	}
	return out
}

// RMS returns the root-mean-square level of s.
func RMS[F Float](s []F) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

// RatioDB returns 20·log10(out/in) of two RMS levels.
func RatioDB[F Float](out, in []F) float64 {
	return 20 * math.Log10(RMS(out)/RMS(in))
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertSilent verifies that every element is exactly zero.
func AssertSilent[F Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "signal not silent", "s[%d]=%g", i, float64(v))
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F Float](t *testing.T, s []F, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if f < minVal || f > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, f, minVal, maxVal)
		}
	}
	return true
}

// AssertSlicesInDelta verifies element-wise closeness of two equal-length slices.
func AssertSlicesInDelta[F Float](t *testing.T, expected, actual []F, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, float64(expected[i]), float64(actual[i]), tolerance,
			"mismatch at i=%d", i) {
			return false
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
