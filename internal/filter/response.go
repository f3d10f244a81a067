package filter

import (
	"math"
	"math/cmplx"
)

// Response evaluates the complex transfer function H(e^jω) at freq.
func (c Coefficients) Response(freq, sampleRate float64) complex128 {
	w := Omega(sampleRate, freq)
	z1 := cmplx.Exp(complex(0, -w))
	z2 := cmplx.Exp(complex(0, -2*w))

	num := complex(float64(c.B0), 0) + complex(float64(c.B1), 0)*z1 + complex(float64(c.B2), 0)*z2
	den := complex(float64(c.A0), 0) + complex(float64(c.A1), 0)*z1 + complex(float64(c.A2), 0)*z2
	return num / den
}

// MagnitudeSquared returns |H(f)|² in closed form, without complex exponentials.
func (c Coefficients) MagnitudeSquared(freq, sampleRate float64) float64 {
	t := normalize(c)
	b0, b1, b2 := float64(t.b0), float64(t.b1), float64(t.b2)
	a1, a2 := float64(t.a1), float64(t.a2)
	cw := 2 * math.Cos(Omega(sampleRate, freq))

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// MagnitudeDB returns 10·log10(|H(f)|²).
func (c Coefficients) MagnitudeDB(freq, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freq, sampleRate))
}

// DCGain returns H(1) = ΣB / ΣA, the response at 0 Hz.
func (c Coefficients) DCGain() float64 {
	return float64(c.B0+c.B1+c.B2) / float64(c.A0+c.A1+c.A2)
}
