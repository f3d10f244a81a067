package mathutil

// Level conversion constants
const (
	decibelBase       = 10.0   // Base of the decibel logarithm
	amplitudeDBFactor = 20.0   // 20·log10 for amplitude ratios
	msPerSecond       = 1000.0 // Milliseconds per second

	// MinusInfinityDB is the floor used for silence.
	MinusInfinityDB = -100.0

	// meterDecayTarget is the level reached after one decay period (-12 dB).
	meterDecayTarget = 0.25
)
