package equalizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-eq/internal/filter"
	"github.com/tphakala/go-audio-eq/internal/testutil"
)

const (
	testRate = 48000.0

	toneSamples   = 48000
	settleSamples = 4800

	// gainTolerance bounds measured band gain against the analytic value.
	gainTolerance = 0.1
)

func newTestEQ(t *testing.T, config Config) *Equalizer {
	t.Helper()
	e, err := New(&config)
	require.NoError(t, err)
	return e
}

// boostedMiddle returns default params with band 2 (1200 Hz) at +12 dB.
func boostedMiddle() Params {
	p := DefaultParams()
	p.Bands[2].Gain = 12
	return p
}

// measureDB runs a tone through e and returns the output/input RMS ratio in dB.
func measureDB(t *testing.T, e *Equalizer, freq float64) float64 {
	t.Helper()
	in := testutil.Sine(toneSamples, freq, testRate, 0.5)
	left := append([]float32(nil), in...)
	right := append([]float32(nil), in...)
	require.NoError(t, e.ProcessBlock(left, right))
	testutil.AssertNoNaNOrInf(t, left)
	return testutil.RatioDB(left[settleSamples:], in[settleSamples:])
}

// TestConfig_Validate covers configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid defaults", Config{SampleRate: testRate}, false},
		{"valid interleaved sum", Config{SampleRate: RateHiRes96, Kind: KindInterleaved, Topology: TopologySum}, false},
		{"valid cookbook fast trig", Config{SampleRate: RateCD, GainLaw: GainLawCookbook, FastTrig: true, MeterDecayMs: 300}, false},
		{"zero rate", Config{}, true},
		{"negative rate", Config{SampleRate: -44100}, true},
		{"rate too high", Config{SampleRate: 1e6}, true},
		{"unknown kind", Config{SampleRate: testRate, Kind: Kind(3)}, true},
		{"unknown topology", Config{SampleRate: testRate, Topology: Topology(3)}, true},
		{"unknown gain law", Config{SampleRate: testRate, GainLaw: GainLaw(3)}, true},
		{"negative decay", Config{SampleRate: testRate, MeterDecayMs: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

// TestNew_NilConfig verifies a nil config is rejected.
func TestNew_NilConfig(t *testing.T) {
	e, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, e)
}

// TestEqualizer_DefaultsAreFlat verifies a fresh equalizer barely touches the signal.
func TestEqualizer_DefaultsAreFlat(t *testing.T) {
	for _, kind := range []Kind{KindBiquad, KindInterleaved} {
		t.Run(kind.String(), func(t *testing.T) {
			e := newTestEQ(t, Config{SampleRate: testRate, Kind: kind})
			for _, freq := range []float64{100, 1000, 10000} {
				assert.InDelta(t, 0.0, measureDB(t, e, freq), 0.01, "%v Hz", freq)
			}
		})
	}
}

// TestEqualizer_Topology verifies cascade reaches the band gain while sum
// averages the boosted band with four flat ones.
func TestEqualizer_Topology(t *testing.T) {
	tests := []struct {
		topology Topology
		wantDB   float64
	}{
		// Legacy law: +12 dB requested peaks at +6 dB.
		{TopologyCascade, 6.0},
		// (4·1 + 2) / 5 = 1.2
		{TopologySum, 1.58},
	}

	for _, tt := range tests {
		t.Run(tt.topology.String(), func(t *testing.T) {
			e := newTestEQ(t, Config{SampleRate: testRate, Topology: tt.topology})
			e.SetParams(boostedMiddle())
			assert.InDelta(t, tt.wantDB, measureDB(t, e, 1200), gainTolerance)
		})
	}
}

// TestEqualizer_CookbookGainLaw verifies the cookbook law reaches the requested gain.
func TestEqualizer_CookbookGainLaw(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate, GainLaw: GainLawCookbook})
	e.SetParams(boostedMiddle())
	assert.InDelta(t, 12.0, measureDB(t, e, 1200), gainTolerance)
}

// TestEqualizer_InterleavedPassesCompound verifies that with one slot per
// pass, each extra pass applies the band response again.
func TestEqualizer_InterleavedPassesCompound(t *testing.T) {
	for passes := range MaxOversampling + 1 {
		e := newTestEQ(t, Config{SampleRate: testRate, Kind: KindInterleaved})
		p := boostedMiddle()
		p.Oversampling = passes
		p.Interleave = passes + 1
		e.SetParams(p)

		want := 6.0 * float64(passes+1)
		assert.InDelta(t, want, measureDB(t, e, 1200), gainTolerance, "passes %d", passes)
	}
}

// TestEqualizer_BiquadPassesShareHistory verifies plain biquads re-filter
// through one delay line, which is not a cascade.
func TestEqualizer_BiquadPassesShareHistory(t *testing.T) {
	single := newTestEQ(t, Config{SampleRate: testRate})
	single.SetParams(boostedMiddle())
	base := measureDB(t, single, 1200)

	e := newTestEQ(t, Config{SampleRate: testRate})
	p := boostedMiddle()
	p.Oversampling = 2
	e.SetParams(p)
	got := measureDB(t, e, 1200)

	assert.Greater(t, base-got, 1.0)
	assert.Equal(t, 2, e.Info().Oversampling)
}

// TestEqualizer_WetExtremes verifies wet 0 is the dry signal and wet 1 is the filtered signal.
func TestEqualizer_WetExtremes(t *testing.T) {
	in := testutil.Sine(4096, 1200, testRate, 0.5)

	t.Run("dry", func(t *testing.T) {
		e := newTestEQ(t, Config{SampleRate: testRate})
		p := boostedMiddle()
		p.Mix = 0
		e.SetParams(p)

		left := append([]float32(nil), in...)
		right := append([]float32(nil), in...)
		require.NoError(t, e.ProcessBlock(left, right))
		assert.Equal(t, in, left)
		assert.Equal(t, in, right)
	})

	t.Run("wet", func(t *testing.T) {
		e := newTestEQ(t, Config{SampleRate: testRate})
		p := boostedMiddle()
		e.SetParams(p)

		refs := make([]*filter.Biquad, BandCount)
		for i, b := range p.Bands {
			refs[i] = filter.NewBiquad(testRate, b.Frequency, b.Gain, b.Q, b.Type)
		}

		for i, x := range in {
			gotL, gotR := e.ProcessSample(x, x)
			l, r := x, x
			for _, ref := range refs {
				l, r = ref.ProcessSample(l, r)
			}
			require.InDelta(t, l, gotL, testutil.DefaultTolerance, "sample %d", i)
			require.InDelta(t, r, gotR, testutil.DefaultTolerance, "sample %d", i)
		}
	})
}

// TestEqualizer_GainStaging verifies input and output gain with a flat band set.
func TestEqualizer_GainStaging(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	p := DefaultParams()
	p.InputGainDB = 6
	p.OutputGainDB = -12
	e.SetParams(p)

	assert.InDelta(t, -6.0, measureDB(t, e, 1000), 0.02)

	in, out := e.Amplitudes()
	assert.Greater(t, in, out)
}

// TestEqualizer_SnapshotAppliesAtBlockStart verifies published params are
// picked up by the next block, not the current one.
func TestEqualizer_SnapshotAppliesAtBlockStart(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	assert.InDelta(t, 0.0, measureDB(t, e, 1200), 0.01)

	e.SetParams(boostedMiddle())
	assert.Equal(t, float32(12), e.Params().Bands[2].Gain)
	assert.InDelta(t, 6.0, measureDB(t, e, 1200), gainTolerance)
}

// TestEqualizer_SetParamsClamps verifies the published snapshot is clamped.
func TestEqualizer_SetParamsClamps(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: RateCD})
	p := DefaultParams()
	p.Bands[4].Frequency = 30000
	p.Bands[0].Gain = 40
	p.Mix = 3
	e.SetParams(p)

	got := e.Params()
	assert.InDelta(t, RateCD*nyquistFraction, got.Bands[4].Frequency, 0.01)
	assert.Equal(t, float32(MaxGainDB), got.Bands[0].Gain)
	assert.Equal(t, float32(1), got.Mix)
}

// TestEqualizer_SetBand verifies single-band updates and index checks.
func TestEqualizer_SetBand(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})

	require.NoError(t, e.SetBand(1, BandParams{Type: HighShelf, Frequency: 4000, Gain: 50, Q: 0.5}))
	got := e.Params().Bands[1]
	assert.Equal(t, HighShelf, got.Type)
	assert.Equal(t, float32(MaxGainDB), got.Gain)
	assert.Equal(t, DefaultParams().Bands[0], e.Params().Bands[0])

	require.ErrorIs(t, e.SetBand(-1, BandParams{}), ErrInvalidParams)
	require.ErrorIs(t, e.SetBand(BandCount, BandParams{}), ErrInvalidParams)
}

// TestEqualizer_ConcurrentSetParams verifies writers never disturb processing.
func TestEqualizer_ConcurrentSetParams(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate, Kind: KindInterleaved})
	block := testutil.Sine(512, 440, testRate, 0.5)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				p := DefaultParams()
				p.Bands[w].Gain = float32(i%25 - 12)
				p.Interleave = 1 + i%MaxInterleave
				p.Oversampling = i % (MaxOversampling + 1)
				e.SetParams(p)
				_ = e.SetBand(4, BandParams{Type: Peak, Frequency: 8000, Gain: float32(i % 12), Q: 1})
				_ = e.Meters()
			}
		}()
	}

	buf := make([]float32, 2*len(block))
	for range 200 {
		fillStereo(buf, block)
		require.NoError(t, e.ProcessInterleaved(buf))
		testutil.AssertNoNaNOrInf(t, buf)
	}
	wg.Wait()

	require.NoError(t, e.ProcessInterleaved(buf))
	info := e.Info()
	assert.Equal(t, e.Params().Interleave, info.Interleave)
}

// fillStereo writes mono into both channels of dst.
func fillStereo(dst, mono []float32) {
	copy(dst, InterleaveToStereo(mono, mono))
}

// TestEqualizer_RequestReset verifies a pending reset clears history before the next block.
func TestEqualizer_RequestReset(t *testing.T) {
	loud := testutil.Sine(2048, 120, testRate, 1)

	run := func(reset bool) []float32 {
		e := newTestEQ(t, Config{SampleRate: testRate})
		p := DefaultParams()
		p.Bands[0].Gain = 12
		e.SetParams(p)
		require.NoError(t, e.ProcessBlock(append([]float32(nil), loud...), append([]float32(nil), loud...)))

		if reset {
			e.RequestReset()
		}
		left, right := make([]float32, 256), make([]float32, 256)
		require.NoError(t, e.ProcessBlock(left, right))
		return left
	}

	tail := run(false)
	assert.NotZero(t, testutil.RMS(tail))

	testutil.AssertSilent(t, run(true))
}

// TestEqualizer_SetSampleRate verifies rate validation and re-clamping.
func TestEqualizer_SetSampleRate(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	require.ErrorIs(t, e.SetSampleRate(0), ErrInvalidConfig)

	require.NoError(t, e.SetSampleRate(RateCD/2))
	assert.InDelta(t, RateCD/2, e.SampleRate(), 0)

	// The 12 kHz band is above Nyquist at 22.05 kHz and gets pulled below it.
	require.NoError(t, e.ProcessBlock(make([]float32, 64), make([]float32, 64)))
	info := e.Info()
	assert.InDelta(t, RateCD/2, info.SampleRate, 0)
	assert.Zero(t, info.BypassedBands)
}

// TestEqualizer_RateChangeClearsHistory verifies the block that first runs
// at a new rate starts from silent history and meters, including when the
// rate lands without a separate reset request.
func TestEqualizer_RateChangeClearsHistory(t *testing.T) {
	tests := []struct {
		name   string
		change func(*testing.T, *Equalizer)
	}{
		{"SetSampleRate", func(t *testing.T, e *Equalizer) { require.NoError(t, e.SetSampleRate(RateCD)) }},
		{"rate published alone", func(_ *testing.T, e *Equalizer) { e.store.setRate(RateCD) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEQ(t, Config{SampleRate: testRate})
			e.SetParams(boostedMiddle())

			loud := testutil.Sine(settleSamples, 1200, testRate, 0.9)
			require.NoError(t, e.ProcessBlock(loud, append([]float32(nil), loud...)))

			tt.change(t, e)
			assert.False(t, e.store.takeReset(), "rate change needs no reset request")

			left := make([]float32, 256)
			right := make([]float32, 256)
			require.NoError(t, e.ProcessBlock(left, right))
			testutil.AssertSilent(t, left)
			testutil.AssertSilent(t, right)
			assert.Zero(t, e.Meters().Output)
			assert.InDelta(t, RateCD, e.Info().SampleRate, 0)
		})
	}
}

// TestEqualizer_SameRateKeepsHistory verifies re-setting the current rate
// leaves in-flight state alone.
func TestEqualizer_SameRateKeepsHistory(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	e.SetParams(boostedMiddle())

	loud := testutil.Sine(settleSamples, 1200, testRate, 0.9)
	require.NoError(t, e.ProcessBlock(loud, append([]float32(nil), loud...)))
	require.NoError(t, e.SetSampleRate(testRate))

	left := make([]float32, 256)
	right := make([]float32, 256)
	require.NoError(t, e.ProcessBlock(left, right))
	assert.NotZero(t, testutil.RMS(left))
}

// TestEqualizer_BufferErrors verifies mismatched buffers are rejected.
func TestEqualizer_BufferErrors(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	require.ErrorIs(t, e.ProcessBlock(make([]float32, 4), make([]float32, 5)), ErrBufferMismatch)
	require.ErrorIs(t, e.ProcessInterleaved(make([]float32, 7)), ErrBufferMismatch)
	require.NoError(t, e.ProcessInterleaved(nil))
}

// TestEqualizer_InterleavedMatchesPlanar verifies both block layouts agree.
func TestEqualizer_InterleavedMatchesPlanar(t *testing.T) {
	left := testutil.Sine(1000, 300, testRate, 0.4)
	right := testutil.Sine(1000, 7000, testRate, 0.4)

	planar := newTestEQ(t, Config{SampleRate: testRate})
	planar.SetParams(boostedMiddle())
	inter := newTestEQ(t, Config{SampleRate: testRate})
	inter.SetParams(boostedMiddle())

	buf := InterleaveToStereo(left, right)
	l := append([]float32(nil), left...)
	r := append([]float32(nil), right...)

	// Uneven block sizes exercise scratch growth.
	require.NoError(t, inter.ProcessInterleaved(buf[:200]))
	require.NoError(t, inter.ProcessInterleaved(buf[200:]))
	require.NoError(t, planar.ProcessBlock(l, r))

	gotL, gotR := DeinterleaveFromStereo(buf)
	testutil.AssertSlicesInDelta(t, l, gotL, testutil.DefaultTolerance)
	testutil.AssertSlicesInDelta(t, r, gotR, testutil.DefaultTolerance)
}

// TestEqualizer_Meters verifies meters rise with signal and decay in silence.
func TestEqualizer_Meters(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate, MeterDecayMs: 50})
	assert.Zero(t, e.Meters().Input)

	require.NoError(t, e.ProcessBlock(testutil.Sine(4800, 1000, testRate, 0.8), testutil.Sine(4800, 1000, testRate, 0.8)))
	peak := e.Meters()
	assert.Greater(t, peak.Input, float32(0.5))
	assert.Greater(t, peak.Output, float32(0.5))

	require.NoError(t, e.ProcessBlock(make([]float32, 2400), make([]float32, 2400)))
	after := e.Meters()
	assert.Less(t, after.Output, peak.Output/2)
}

// TestEqualizer_FastTrigCloseToExact verifies the table solver stays within a fraction of a dB.
func TestEqualizer_FastTrigCloseToExact(t *testing.T) {
	exact := newTestEQ(t, Config{SampleRate: testRate})
	fast := newTestEQ(t, Config{SampleRate: testRate, FastTrig: true})
	exact.SetParams(boostedMiddle())
	fast.SetParams(boostedMiddle())

	assert.InDelta(t, measureDB(t, exact, 1200), measureDB(t, fast, 1200), 0.5)
	assert.True(t, fast.Info().FastTrig)
}

// TestEqualizer_Info verifies reported configuration.
func TestEqualizer_Info(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate, Kind: KindInterleaved, Topology: TopologySum})
	info := e.Info()
	assert.Equal(t, "interleaved", info.Kind)
	assert.Equal(t, "sum", info.Topology)
	assert.Equal(t, BandCount, info.Bands)
	assert.Equal(t, 1, info.Interleave)
	assert.Equal(t, "legacy", info.GainLaw)
	assert.InDelta(t, testRate, info.SampleRate, 0)
}

// TestEqualizer_InfoInterleave verifies only interleaved equalizers report
// a slot count.
func TestEqualizer_InfoInterleave(t *testing.T) {
	p := DefaultParams()
	p.Interleave = 7

	for _, tt := range []struct {
		kind Kind
		want int
	}{
		{KindBiquad, 1},
		{KindInterleaved, 7},
	} {
		e := newTestEQ(t, Config{SampleRate: testRate, Kind: tt.kind})
		e.SetParams(p)
		e.ProcessSample(0, 0)
		assert.Equal(t, tt.want, e.Info().Interleave, "kind %s", tt.kind)
	}
}

// TestEqualizer_Coefficients verifies the applied sections are reported per
// band and follow parameter changes at the next block.
func TestEqualizer_Coefficients(t *testing.T) {
	e := newTestEQ(t, Config{SampleRate: testRate})
	flat := e.Coefficients()

	e.SetParams(boostedMiddle())
	assert.Equal(t, flat, e.Coefficients(), "applied at block start only")

	e.ProcessSample(0, 0)
	got := e.Coefficients()
	assert.Equal(t, flat[0], got[0])
	assert.NotEqual(t, flat[2], got[2])
	assert.InDelta(t, 6.02, got[2].MagnitudeDB(1200, testRate), 0.05)
}

func BenchmarkEqualizer_ProcessInterleaved(b *testing.B) {
	e, err := NewFiveBand(testRate)
	require.NoError(b, err)
	e.SetParams(boostedMiddle())
	buf := InterleaveToStereo(testutil.Sine(1024, 440, testRate, 0.5), testutil.Sine(1024, 440, testRate, 0.5))

	b.ReportAllocs()
	for b.Loop() {
		_ = e.ProcessInterleaved(buf)
	}
}
