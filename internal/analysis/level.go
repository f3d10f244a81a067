package analysis

import (
	"math"

	"github.com/tphakala/go-audio-eq/internal/mathutil"
	"github.com/tphakala/go-audio-eq/internal/simdops"
)

// RMS returns the root mean square of s, or 0 when empty.
func RMS(s []float32) float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Sqrt(float64(simdops.Energy(s)) / float64(len(s)))
}

// RMSDB returns RMS(s) in dBFS.
func RMSDB(s []float32) float64 {
	return toDB(RMS(s))
}

// GainDB returns the RMS level of out relative to in.
func GainDB(out, in []float32) float64 {
	ref := RMS(in)
	if ref == 0 {
		return mathutil.MinusInfinityDB
	}
	return toDB(RMS(out) / ref)
}

// Peak returns the largest absolute sample value.
func Peak(s []float32) float32 {
	var p float32
	for _, v := range s {
		p = max(p, float32(math.Abs(float64(v))))
	}
	return p
}
