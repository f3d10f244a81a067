package main

// Processing
const (
	// Frames per ProcessBlock call; also the decode and encode chunk size.
	blockFrames = 8192

	// Progress is logged every N percent in verbose mode.
	progressInterval = 10
	percentScale     = 100
)

// Output formats
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
)
