package filter

// Export internal state for testing.
// This file uses the _test.go suffix so it's only included in test builds.

// RecomputeCount returns how many times Update derived new coefficients.
func (b *Biquad) RecomputeCount() int { return b.recomputes }

// RecomputeCount returns how many times Update derived new coefficients.
func (f *InterleavedBiquad) RecomputeCount() int { return f.recomputes }

// ExportedTableIndex wraps tableIndex for testing.
func ExportedTableIndex(x float64) int { return tableIndex(x) }

// ExportedSinCos wraps sincos for testing.
func ExportedSinCos(mode TrigMode, x float64) (float64, float64) { return sincos(mode, x) }

// SlotSilent reports whether slot i holds zero history.
func (f *InterleavedBiquad) SlotSilent(i int) bool { return f.slots[i].silent() }
