package main

import (
	"math"
	"math/cmplx"

	equalizer "github.com/tphakala/go-audio-eq"
	"github.com/tphakala/go-audio-eq/internal/mathutil"
)

// bandDesign is one band's clamped parameters and the coefficients the
// equalizer derives from them.
type bandDesign struct {
	params equalizer.BandParams
	coeffs equalizer.Coefficients
}

// designBands returns the bands an equalizer built from config applies for
// p. Coefficients come from the equalizer itself, so bypass and solver
// selection match processing exactly.
func designBands(p equalizer.Params, config *equalizer.Config) ([]bandDesign, error) {
	eq, err := equalizer.New(config)
	if err != nil {
		return nil, err
	}
	eq.SetParams(p)
	eq.ProcessSample(0, 0)

	applied := eq.Params()
	coeffs := eq.Coefficients()
	out := make([]bandDesign, equalizer.BandCount)
	for i := range out {
		out[i] = bandDesign{params: applied.Bands[i], coeffs: coeffs[i]}
	}
	return out, nil
}

// chainResponse returns the single-pass band response at freq: the product
// of the band responses for a cascade, their mean for a sum.
func chainResponse(bands []bandDesign, topology equalizer.Topology, freq, sampleRate float64) complex128 {
	var h complex128
	switch topology {
	case equalizer.TopologySum:
		for _, b := range bands {
			h += b.coeffs.Response(freq, sampleRate)
		}
		h /= complex(float64(len(bands)), 0)
	default:
		h = 1
		for _, b := range bands {
			h *= b.coeffs.Response(freq, sampleRate)
		}
	}
	return h
}

// analyticDB returns the whole equalizer's response at freq in dB, with the
// dry/wet blend and both gain stages applied around the bands.
func analyticDB(p equalizer.Params, bands []bandDesign, topology equalizer.Topology, freq, sampleRate float64) float64 {
	wet := float64(mathutil.Clamp(p.Mix, 0, 1))
	h := complex(1-wet, 0) + complex(wet, 0)*chainResponse(bands, topology, freq, sampleRate)

	m := cmplx.Abs(h)
	if m <= 0 {
		return mathutil.MinusInfinityDB
	}
	db := 20*math.Log10(m) + float64(p.InputGainDB+p.OutputGainDB)
	return max(db, mathutil.MinusInfinityDB)
}

// analyticExact reports whether analyticDB describes the configured chain.
// Extra passes and interleaved slot rotation change the response.
func analyticExact(p equalizer.Params, config *equalizer.Config) bool {
	if p.Oversampling > 0 {
		return false
	}
	return config.Kind == equalizer.KindBiquad || p.Interleave <= 1
}

// probeFrequencies returns n log-spaced frequencies from lo to hi inclusive.
func probeFrequencies(n int, lo, hi float64) []float64 {
	if n <= 0 || !(hi > lo) || !(lo > 0) {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}

	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	out[n-1] = hi
	return out
}
