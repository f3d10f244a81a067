// Package equalizer provides a five-band stereo parametric equalizer in pure Go.
//
// Each band is a second-order IIR section designed from the RBJ Audio EQ
// Cookbook. Seven responses are available: low-pass, high-pass, band-pass,
// notch, peak, low shelf and high shelf.
//
// # Features
//
//   - Five bands with independent type, frequency, gain and Q
//   - Plain Direct Form I biquads or interleaved biquads with up to ten
//     rotating state slots per band
//   - Cascade (series) or sum (parallel, averaged) band topology
//   - Up to two extra filtering passes per band
//   - Input gain, dry/wet mix, output gain and peak meters
//   - Lazy coefficient recomputation: unchanged parameters cost a comparison
//   - Lock-free parameter hand-off between control and audio goroutines
//   - SIMD-accelerated gain staging and interleaving via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot processing:
//
//	p := equalizer.DefaultParams()
//	p.Bands[2].Gain = 6
//	left, right, err := equalizer.EqualizeStereo(left, right, 48000, p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming with a reusable equalizer:
//
//	eq, err := equalizer.New(&equalizer.Config{
//	    SampleRate: 48000,
//	    Kind:       equalizer.KindBiquad,
//	    Topology:   equalizer.TopologyCascade,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for block := range audioBlocks {
//	    if err := eq.ProcessInterleaved(block); err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(block)
//	}
//
// # Signal Flow
//
// Every stereo frame passes through:
//
//	Input gain -> Bands -> Dry/wet mix -> Output gain
//
// With [TopologyCascade] each band filters the previous band's output. With
// [TopologySum] every band filters the same input and the results are
// averaged. Params.Oversampling re-runs each band over its own output.
//
// # Gain Law
//
// [GainLawLegacy], the default, derives the cookbook amplitude factor as
// sqrt(10^(dB/40)), so a Peak band set to +6 dB reaches about +3 dB at its
// center. [GainLawCookbook] uses 10^(dB/40) and reaches the requested gain.
//
// # Invalid Parameters
//
// A band whose parameters are out of range for the sample rate (frequency
// at or above Nyquist, non-positive Q, non-finite values) is bypassed with
// identity coefficients rather than producing NaN. SetParams clamps values
// into range, so bypass only occurs for filters driven directly.
//
// # Thread Safety
//
// [Equalizer.SetParams], [Equalizer.SetBand], [Equalizer.SetSampleRate] and
// [Equalizer.RequestReset] may be called from any goroutine. Changes are
// picked up atomically at the start of the next processed block. Processing
// methods must be called from a single goroutine. [Equalizer.Meters] and
// [Equalizer.Amplitudes] are safe to read concurrently with processing.
package equalizer
