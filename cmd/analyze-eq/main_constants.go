package main

const (
	// Probe grid for the response table.
	minProbeHz      = 20.0
	probeNyquistCap = 0.95 // highest probe as a fraction of Nyquist

	// Display
	coefficientPrecision = 8
	tableRule            = 50
)
