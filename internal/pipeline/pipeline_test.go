package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-eq/internal/filter"
	"github.com/tphakala/go-audio-eq/internal/testutil"
)

const (
	sampleRate float32 = 48000

	// Rounding error in a 0 dB section recirculates through its poles, so a
	// flat chain is only transparent to about 1e-4.
	flatTolerance = 1e-4
)

func threeBands() []BandSettings {
	return []BandSettings{
		{Type: filter.LowShelf, Frequency: 200, Gain: 4, Q: 0.707},
		{Type: filter.Peak, Frequency: 1000, Gain: -6, Q: 1.4},
		{Type: filter.HighShelf, Frequency: 8000, Gain: 3, Q: 0.707},
	}
}

func mustBuild(t *testing.T, spec Spec) *Chain {
	t.Helper()
	c, err := Build(spec)
	require.NoError(t, err)
	return c
}

// TestBuild_Errors verifies invalid specs are rejected.
func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"no bands", Spec{SampleRate: sampleRate}},
		{"unknown kind", Spec{Kind: Kind(9), SampleRate: sampleRate, Bands: threeBands()}},
		{"unknown topology", Spec{Topology: Topology(5), SampleRate: sampleRate, Bands: threeBands()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(tt.spec)
			require.ErrorIs(t, err, ErrInvalidSpec)
			assert.Nil(t, c)
		})
	}
}

// TestBuild_Clamps verifies passes and interleave are clamped at construction.
func TestBuild_Clamps(t *testing.T) {
	c := mustBuild(t, Spec{
		Kind:       KindInterleaved,
		SampleRate: sampleRate,
		Bands:      threeBands(),
		Interleave: 40,
		Passes:     7,
	})
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, MaxPasses, c.Passes())
	assert.Equal(t, filter.MaxInterleave, c.Interleave())

	c.SetPasses(-1)
	assert.Zero(t, c.Passes())
	c.SetInterleave(0)
	assert.Equal(t, 1, c.Interleave())
	for i := range c.Len() {
		band, ok := c.Band(i).(*filter.InterleavedBiquad)
		require.True(t, ok)
		assert.Equal(t, 1, band.Interleave())
	}
}

// TestChain_FlatIsTransparent verifies 0 dB peaks leave the signal unchanged.
func TestChain_FlatIsTransparent(t *testing.T) {
	flat := []BandSettings{
		{Type: filter.Peak, Frequency: 120, Q: 0.707},
		{Type: filter.Peak, Frequency: 1200, Q: 0.707},
		{Type: filter.Peak, Frequency: 12000, Q: 0.707},
	}

	for _, topo := range []Topology{TopologyCascade, TopologySum} {
		t.Run(topo.String(), func(t *testing.T) {
			c := mustBuild(t, Spec{Topology: topo, SampleRate: sampleRate, Bands: flat})
			in := testutil.Sine(2048, 440, float64(sampleRate), 0.5)
			out := make([]float32, len(in))
			for i, x := range in {
				out[i], _ = c.ProcessSample(x, x)
			}
			testutil.AssertSlicesInDelta(t, in, out, flatTolerance)
		})
	}
}

// TestChain_CascadeMatchesSerialBiquads verifies band order and chaining.
func TestChain_CascadeMatchesSerialBiquads(t *testing.T) {
	bands := threeBands()
	c := mustBuild(t, Spec{SampleRate: sampleRate, Bands: bands})

	refs := make([]*filter.Biquad, len(bands))
	for i, b := range bands {
		refs[i] = filter.NewBiquad(sampleRate, b.Frequency, b.Gain, b.Q, b.Type)
	}

	in := testutil.Sine(1024, 1000, float64(sampleRate), 0.8)
	for i, x := range in {
		gotL, gotR := c.ProcessSample(x, -x)
		l, r := x, -x
		for _, ref := range refs {
			l, r = ref.ProcessSample(l, r)
		}
		require.InDelta(t, l, gotL, testutil.DefaultTolerance, "sample %d", i)
		require.InDelta(t, r, gotR, testutil.DefaultTolerance, "sample %d", i)
	}
}

// TestChain_SumAveragesBands verifies every band sees the chain input.
func TestChain_SumAveragesBands(t *testing.T) {
	bands := threeBands()
	c := mustBuild(t, Spec{Topology: TopologySum, SampleRate: sampleRate, Bands: bands})
	assert.Equal(t, TopologySum, c.Topology())

	refs := make([]*filter.Biquad, len(bands))
	for i, b := range bands {
		refs[i] = filter.NewBiquad(sampleRate, b.Frequency, b.Gain, b.Q, b.Type)
	}

	in := testutil.Sine(1024, 3000, float64(sampleRate), 0.8)
	for i, x := range in {
		got, _ := c.ProcessSample(x, x)
		var sum float32
		for _, ref := range refs {
			y, _ := ref.ProcessSample(x, x)
			sum += y
		}
		require.InDelta(t, sum/float32(len(refs)), got, testutil.DefaultTolerance, "sample %d", i)
	}
}

// TestChain_PassesRefilterOutput verifies each extra pass re-filters the band output.
func TestChain_PassesRefilterOutput(t *testing.T) {
	band := BandSettings{Type: filter.Peak, Frequency: 2000, Gain: 6, Q: 2}

	for passes := range MaxPasses + 1 {
		c := mustBuild(t, Spec{SampleRate: sampleRate, Bands: []BandSettings{band}, Passes: passes})
		ref := filter.NewBiquad(sampleRate, band.Frequency, band.Gain, band.Q, band.Type)

		for i, x := range testutil.Impulse(256) {
			got, _ := c.ProcessSample(x, x)
			y := x
			for range passes + 1 {
				y, _ = ref.ProcessSample(y, y)
			}
			require.InDelta(t, y, got, testutil.DefaultTolerance, "passes %d sample %d", passes, i)
		}
	}
}

// TestChain_InterleavedRotatesPerPass verifies slot advancement for every pass.
func TestChain_InterleavedRotatesPerPass(t *testing.T) {
	tests := []struct {
		depth, passes int
		wantIndex     int // after one frame
	}{
		{depth: 1, passes: 0, wantIndex: 0},
		{depth: 3, passes: 0, wantIndex: 1},
		{depth: 3, passes: 2, wantIndex: 0},
		{depth: 5, passes: 1, wantIndex: 2},
	}

	for _, tt := range tests {
		c := mustBuild(t, Spec{
			Kind:       KindInterleaved,
			SampleRate: sampleRate,
			Bands:      threeBands(),
			Interleave: tt.depth,
			Passes:     tt.passes,
		})
		c.ProcessSample(0.25, 0.25)

		for i := range c.Len() {
			band, ok := c.Band(i).(*filter.InterleavedBiquad)
			require.True(t, ok)
			assert.Equal(t, tt.wantIndex, band.Index(), "depth %d passes %d band %d", tt.depth, tt.passes, i)
		}
	}
}

// TestChain_UpdateAppliesTypeAndParams verifies settings reach every band.
func TestChain_UpdateAppliesTypeAndParams(t *testing.T) {
	c := mustBuild(t, Spec{SampleRate: sampleRate, Bands: threeBands()})
	require.Zero(t, c.BypassedBands())

	next := threeBands()
	next[0].Type = filter.HighPass
	next[2].Frequency = 30000 // above Nyquist at 48 kHz
	c.Update(sampleRate, next)

	first, ok := c.Band(0).(*filter.Biquad)
	require.True(t, ok)
	assert.Equal(t, filter.HighPass, first.Type())
	assert.Equal(t, 1, c.BypassedBands())

	c.Update(96000, next)
	assert.InDelta(t, 96000, c.SampleRate(), 0)
	assert.Zero(t, c.BypassedBands())
}

// TestChain_UpdateShortSettings verifies missing settings leave bands untouched.
func TestChain_UpdateShortSettings(t *testing.T) {
	c := mustBuild(t, Spec{SampleRate: sampleRate, Bands: threeBands()})
	before := c.Band(2).(*filter.Biquad).Coefficients()

	c.Update(sampleRate, []BandSettings{{Type: filter.Notch, Frequency: 500, Q: 4}})

	assert.Equal(t, filter.Notch, c.Band(0).(*filter.Biquad).Type())
	assert.Equal(t, before, c.Band(2).(*filter.Biquad).Coefficients())
}

// TestChain_Reset verifies history is cleared for every band.
func TestChain_Reset(t *testing.T) {
	for _, kind := range []Kind{KindBiquad, KindInterleaved} {
		t.Run(kind.String(), func(t *testing.T) {
			c := mustBuild(t, Spec{Kind: kind, SampleRate: sampleRate, Bands: threeBands(), Interleave: 4})
			for _, x := range testutil.Sine(512, 440, float64(sampleRate), 1) {
				c.ProcessSample(x, x)
			}

			c.Reset()
			for range 64 {
				l, r := c.ProcessSample(0, 0)
				require.Zero(t, l)
				require.Zero(t, r)
			}
		})
	}
}

// TestSetTopology_UnknownFallsBackToCascade verifies unknown values are not kept.
func TestSetTopology_UnknownFallsBackToCascade(t *testing.T) {
	c := mustBuild(t, Spec{Topology: TopologySum, SampleRate: sampleRate, Bands: threeBands()})
	c.SetTopology(Topology(42))
	assert.Equal(t, TopologyCascade, c.Topology())
	assert.Equal(t, "Topology(42)", Topology(42).String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func BenchmarkChain_FiveBandCascade(b *testing.B) {
	bands := append(threeBands(),
		BandSettings{Type: filter.Peak, Frequency: 5000, Gain: 2, Q: 1},
		BandSettings{Type: filter.Peak, Frequency: 12000, Gain: -2, Q: 1},
	)
	c, err := Build(Spec{SampleRate: sampleRate, Bands: bands})
	require.NoError(b, err)
	in := testutil.Sine(4096, 440, float64(sampleRate), 0.5)

	for b.Loop() {
		for _, x := range in {
			c.ProcessSample(x, x)
		}
	}
}
