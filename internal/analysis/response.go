// Package analysis measures the behaviour of stereo processors: impulse
// responses, FFT magnitude responses and signal levels.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-eq/internal/mathutil"
)

// minFFTSize is the smallest transform that yields a usable spectrum.
const minFFTSize = 16

// ErrInvalidSize indicates an FFT size or sample rate that cannot be measured.
var ErrInvalidSize = errors.New("invalid measurement size")

// Processor filters one stereo frame.
type Processor interface {
	ProcessSample(l, r float32) (float32, float32)
}

// ImpulseResponse feeds a unit impulse to both channels of p and returns
// n samples of the left output.
func ImpulseResponse(p Processor, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		var x float32
		if i == 0 {
			x = 1
		}
		out[i], _ = p.ProcessSample(x, x)
	}
	return out
}

// Response is a sampled magnitude response.
type Response struct {
	sampleRate float64
	binHz      float64
	magnitudes []float64 // linear, one per bin from DC to Nyquist
}

// MeasureResponse captures fftSize samples of p's impulse response and
// returns its magnitude spectrum. The processor's state is advanced.
func MeasureResponse(p Processor, sampleRate float64, fftSize int) (*Response, error) {
	if fftSize < minFFTSize {
		return nil, fmt.Errorf("%w: fft size %d below %d", ErrInvalidSize, fftSize, minFFTSize)
	}
	if !(sampleRate > 0) || !mathutil.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidSize, sampleRate)
	}

	ir := ImpulseResponse(p, fftSize)
	seq := make([]float64, fftSize)
	for i, v := range ir {
		seq[i] = float64(v)
	}

	fft := fourier.NewFFT(fftSize)
	coeffs := fft.Coefficients(nil, seq)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}

	return &Response{
		sampleRate: sampleRate,
		binHz:      fft.Freq(1) * sampleRate,
		magnitudes: mags,
	}, nil
}

// SampleRate returns the rate the response was measured at.
func (r *Response) SampleRate() float64 { return r.sampleRate }

// BinWidth returns the spacing between bins in Hz.
func (r *Response) BinWidth() float64 { return r.binHz }

// Len returns the number of bins.
func (r *Response) Len() int { return len(r.magnitudes) }

// Frequency returns the center frequency of bin i in Hz.
func (r *Response) Frequency(i int) float64 { return float64(i) * r.binHz }

// Magnitude returns the linear magnitude at freq, interpolated between bins.
// Frequencies outside [0, Nyquist] are clamped.
func (r *Response) Magnitude(freq float64) float64 {
	pos := mathutil.Clamp(freq/r.binHz, 0, float64(len(r.magnitudes)-1))
	i := int(pos)
	if i >= len(r.magnitudes)-1 {
		return r.magnitudes[len(r.magnitudes)-1]
	}
	frac := pos - float64(i)
	return r.magnitudes[i]*(1-frac) + r.magnitudes[i+1]*frac
}

// MagnitudeDB returns Magnitude(freq) in dB.
func (r *Response) MagnitudeDB(freq float64) float64 {
	return toDB(r.Magnitude(freq))
}

// Peak returns the frequency and level of the loudest bin.
func (r *Response) Peak() (freq, db float64) {
	i := floats.MaxIdx(r.magnitudes)
	return r.Frequency(i), toDB(r.magnitudes[i])
}

// Trough returns the frequency and level of the quietest bin.
func (r *Response) Trough() (freq, db float64) {
	i := floats.MinIdx(r.magnitudes)
	return r.Frequency(i), toDB(r.magnitudes[i])
}

// MagnitudesDB returns every bin in dB.
func (r *Response) MagnitudesDB() []float64 {
	out := make([]float64, len(r.magnitudes))
	for i, m := range r.magnitudes {
		out[i] = toDB(m)
	}
	return out
}

func toDB(m float64) float64 {
	if m <= 0 {
		return mathutil.MinusInfinityDB
	}
	return max(20*math.Log10(m), mathutil.MinusInfinityDB)
}
