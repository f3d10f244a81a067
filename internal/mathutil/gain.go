// Package mathutil provides level and range helpers shared by the equalizer stages.
package mathutil

import (
	"cmp"
	"math"
)

// DBToGain converts decibels to a linear amplitude factor.
// Values at or below MinusInfinityDB map to 0.
func DBToGain(db float32) float32 {
	if db <= MinusInfinityDB {
		return 0
	}
	return float32(math.Pow(decibelBase, float64(db)/amplitudeDBFactor))
}

// GainToDB converts a linear amplitude factor to decibels.
// Non-positive gains map to MinusInfinityDB.
func GainToDB(gain float32) float32 {
	if gain <= 0 {
		return MinusInfinityDB
	}
	return max(float32(amplitudeDBFactor*math.Log10(float64(gain))), MinusInfinityDB)
}

// DecayWeight returns the per-sample smoothing weight for a peak meter that
// falls by 12 dB (a factor of 0.25) over decayMs milliseconds of silence.
//
//	w = 0.25^(1 / (sampleRate·decayMs/1000))
//
// Non-positive inputs yield 0, which makes the meter follow its input
// without smoothing.
func DecayWeight(sampleRate, decayMs float64) float32 {
	samples := sampleRate * decayMs / msPerSecond
	if samples <= 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
		return 0
	}
	return float32(math.Pow(meterDecayTarget, 1/samples))
}

// Clamp limits v to [lo, hi]. A NaN v returns lo.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if cmp.Compare(v, lo) < 0 {
		return lo
	}
	if cmp.Compare(v, hi) > 0 {
		return hi
	}
	return v
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
