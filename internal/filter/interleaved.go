package filter

// MaxInterleave is the largest supported number of rotating state slots.
const MaxInterleave = 10

// ClampInterleave limits n to [1, MaxInterleave].
func ClampInterleave(n int) int {
	return max(1, min(n, MaxInterleave))
}

// InterleavedBiquad is a stereo biquad with several independent history
// slots. All slots share one coefficient set. ProcessSample uses the active
// slot and IncrementIndex rotates to the next one, so repeated passes over
// the same frame each see a different delay line.
//
// Slots live in a fixed array: changing the depth never allocates.
type InterleavedBiquad struct {
	section
	slots [MaxInterleave]stereoHistory
	depth int
	index int
}

// NewInterleavedBiquad creates an interleaved biquad. depth is clamped to
// [1, MaxInterleave].
func NewInterleavedBiquad(sampleRate, centerFreq, gainDB, q float32, t Type, depth int, opts ...Option) *InterleavedBiquad {
	return &InterleavedBiquad{
		section: newSection(settings{sampleRate, centerFreq, gainDB, q}, t, opts),
		depth:   ClampInterleave(depth),
	}
}

// SetInterleave changes the number of active slots, clamped to
// [1, MaxInterleave]. Newly exposed slots start silent. If the active index
// falls outside the new range it is reset to 0.
func (f *InterleavedBiquad) SetInterleave(n int) {
	n = ClampInterleave(n)
	for i := f.depth; i < n; i++ {
		f.slots[i] = stereoHistory{}
	}
	f.depth = n
	if f.index >= f.depth {
		f.index = 0
	}
}

// SetType changes the response. It takes effect on the next Update.
func (f *InterleavedBiquad) SetType(t Type) {
	f.setType(t)
}

// Update follows the same lazy contract as Biquad.Update. The single
// coefficient set serves every slot.
func (f *InterleavedBiquad) Update(sampleRate, centerFreq, gainDB, q float32) {
	f.update(settings{sampleRate, centerFreq, gainDB, q})
}

// ProcessSample filters one stereo frame through the active slot.
func (f *InterleavedBiquad) ProcessSample(l, r float32) (float32, float32) {
	return f.slots[f.index].step(&f.taps, l, r)
}

// IncrementIndex advances the active slot, wrapping at the interleave depth.
func (f *InterleavedBiquad) IncrementIndex() {
	f.index++
	if f.index >= f.depth {
		f.index = 0
	}
}

// Reset clears every slot and rewinds the active index.
func (f *InterleavedBiquad) Reset() {
	f.slots = [MaxInterleave]stereoHistory{}
	f.index = 0
}

// Index returns the active slot.
func (f *InterleavedBiquad) Index() int { return f.index }

// Interleave returns the number of active slots.
func (f *InterleavedBiquad) Interleave() int { return f.depth }

// Type returns the configured response.
func (f *InterleavedBiquad) Type() Type { return f.typ }

// Coefficients returns the raw coefficients shared by all slots.
func (f *InterleavedBiquad) Coefficients() Coefficients { return f.coeffs }

// Bypassed reports whether the last parameters were rejected.
func (f *InterleavedBiquad) Bypassed() bool { return f.bypassed }

// Silent reports whether every active slot's history is zero.
func (f *InterleavedBiquad) Silent() bool {
	for i := range f.depth {
		if !f.slots[i].silent() {
			return false
		}
	}
	return true
}
