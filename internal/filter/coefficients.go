// Package filter implements the second-order IIR sections used by the
// equalizer: coefficient design from the RBJ Audio EQ Cookbook, a stereo
// Direct Form I biquad, and a variant with rotating state slots.
package filter

import (
	"fmt"
	"math"
)

// GainLaw selects how the amplitude factor A is derived from a gain in dB
// for the Peak and shelf responses.
type GainLaw int

const (
	// GainLawLegacy uses A = sqrt(10^(dB/40)). A Peak section set to +6 dB
	// therefore peaks at roughly +3 dB. This matches the equalizer presets
	// this package was tuned with and is the default.
	GainLawLegacy GainLaw = iota

	// GainLawCookbook uses A = 10^(dB/40) as published in the cookbook, so
	// the requested gain is reached at the center frequency.
	GainLawCookbook
)

func (l GainLaw) String() string {
	switch l {
	case GainLawLegacy:
		return "legacy"
	case GainLawCookbook:
		return "cookbook"
	default:
		return fmt.Sprintf("GainLaw(%d)", int(l))
	}
}

const (
	// gainExponentDivisor is the 40 in 10^(dB/40).
	gainExponentDivisor = 40.0

	// qDivisor is the 2 in alpha = sin(ω)/(2Q).
	qDivisor = 2.0
)

// Coefficients holds the six raw biquad coefficients before normalization by A0.
type Coefficients struct {
	B0, B1, B2 float32
	A0, A1, A2 float32
}

// Identity returns the pass-through section: y[n] = x[n].
func Identity() Coefficients {
	return Coefficients{B0: 1, A0: 1}
}

// IsIdentity reports whether c passes its input through unchanged.
func (c Coefficients) IsIdentity() bool {
	return c == Identity()
}

// Finite reports whether every coefficient is finite and A0 is non-zero.
func (c Coefficients) Finite() bool {
	for _, v := range [...]float32{c.B0, c.B1, c.B2, c.A0, c.A1, c.A2} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return c.A0 != 0
}

// Solver derives coefficients. The zero value uses exact trigonometry and
// the legacy gain law.
type Solver struct {
	Trig TrigMode
	Law  GainLaw
}

// Omega returns the normalized angular frequency 2π·f/fs.
func Omega(sampleRate, freq float64) float64 {
	return twoPi * freq / sampleRate
}

// Alpha returns sin(ω)/(2Q), evaluated with the solver's trig mode.
func (s Solver) Alpha(omega, q float64) float64 {
	sin, _ := sincos(s.Trig, omega)
	return sin / (qDivisor * q)
}

// Design computes coefficients directly from musical parameters.
// It does no range checking: callers must keep 0 < freq < sampleRate/2 and q > 0.
func (s Solver) Design(t Type, sampleRate, freq, gainDB, q float64) Coefficients {
	omega := Omega(sampleRate, freq)
	return s.Solve(t, omega, s.Alpha(omega, q), gainDB)
}

// Solve maps (type, ω, alpha, gain) to cookbook coefficients.
// Arithmetic is carried out in float64 and rounded once on return.
func (s Solver) Solve(t Type, omega, alpha, gainDB float64) Coefficients {
	sinW, cosW := sincos(s.Trig, omega)

	var b0, b1, b2, a0, a1, a2 float64
	switch t {
	case LowPass:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha

	case HighPass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha

	case BandPass:
		b0 = sinW / 2
		b1 = 0
		b2 = -sinW / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha

	case Notch:
		b0 = 1
		b1 = -2 * cosW
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha

	case Peak:
		amp := s.amplitude(gainDB)
		b0 = 1 + alpha*amp
		b1 = -2 * cosW
		b2 = 1 - alpha*amp
		a0 = 1 + alpha/amp
		a1 = -2 * cosW
		a2 = 1 - alpha/amp

	case LowShelf:
		amp := s.amplitude(gainDB)
		k := 2 * math.Sqrt(amp) * alpha
		b0 = amp * ((amp + 1) - (amp-1)*cosW + k)
		b1 = 2 * amp * ((amp - 1) - (amp+1)*cosW)
		b2 = amp * ((amp + 1) - (amp-1)*cosW - k)
		a0 = (amp + 1) + (amp-1)*cosW + k
		a1 = -2 * ((amp - 1) + (amp+1)*cosW)
		a2 = (amp + 1) + (amp-1)*cosW - k

	case HighShelf:
		amp := s.amplitude(gainDB)
		k := 2 * math.Sqrt(amp) * alpha
		b0 = amp * ((amp + 1) + (amp-1)*cosW + k)
		b1 = -2 * amp * ((amp - 1) + (amp+1)*cosW)
		b2 = amp * ((amp + 1) + (amp-1)*cosW - k)
		a0 = (amp + 1) - (amp-1)*cosW + k
		a1 = 2 * ((amp - 1) - (amp+1)*cosW)
		a2 = (amp + 1) - (amp-1)*cosW - k

	default:
		return Identity()
	}

	return Coefficients{
		B0: float32(b0), B1: float32(b1), B2: float32(b2),
		A0: float32(a0), A1: float32(a1), A2: float32(a2),
	}
}

func (s Solver) amplitude(gainDB float64) float64 {
	amp := math.Pow(10, gainDB/gainExponentDivisor)
	if s.Law == GainLawLegacy {
		return math.Sqrt(amp)
	}
	return amp
}

// Solve is the default solver: exact trig, legacy gain law.
func Solve(t Type, omega, alpha, gainDB float64) Coefficients {
	return Solver{}.Solve(t, omega, alpha, gainDB)
}
