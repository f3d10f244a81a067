package simdops

// ApplyGain scales buf in place. Unity gain is a no-op.
func ApplyGain[F Float](buf []F, gain F) {
	if gain == 1 || len(buf) == 0 {
		return
	}
	For[F]().Scale(buf, buf, gain)
}

// Energy returns Σ buf[i]².
func Energy[F Float](buf []F) F {
	if len(buf) == 0 {
		return 0
	}
	return For[F]().DotProductUnsafe(buf, buf)
}

// Interleave writes a and b into dst as L R L R ...
// dst must hold 2·len(a) elements and a, b must have equal length.
func Interleave[F Float](dst, a, b []F) {
	if len(a) == 0 {
		return
	}
	For[F]().Interleave2(dst[:2*len(a)], a, b[:len(a)])
}

// Deinterleave splits src (L R L R ...) into a and b.
// a and b must each hold len(src)/2 elements.
func Deinterleave[F Float](a, b, src []F) {
	n := len(src) / 2
	a, b = a[:n], b[:n]
	for i := range n {
		a[i] = src[2*i]
		b[i] = src[2*i+1]
	}
}
