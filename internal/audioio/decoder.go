// Package audioio reads WAV, FLAC and MP3 files as planar stereo float32
// frames and writes stereo PCM WAV files.
package audioio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a file type or sample format that cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder streams audio as planar stereo frames. Mono sources are
// duplicated to both channels; channels beyond the second are dropped.
type Decoder interface {
	// ReadFrames fills up to min(len(left), len(right)) frames and returns
	// how many were read. It returns 0, io.EOF once the stream is exhausted.
	ReadFrames(left, right []float32) (int, error)

	// SampleRate returns the source sample rate in Hz.
	SampleRate() int

	// Channels returns the source channel count.
	Channels() int

	// BitDepth returns the source sample resolution.
	BitDepth() int

	// Frames returns the stream length in frames, or 0 when unknown.
	Frames() int64

	// Close releases the underlying file.
	Close() error
}

// Open picks a decoder from the file extension.
func Open(path string) (Decoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return openWAV(path)
	case ".flac":
		return openFLAC(path)
	case ".mp3":
		return openMP3(path)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// spread copies frame i of an interleaved source into left/right.
func spread(left, right []float32, i int, first, second float32, channels int) {
	left[i] = first
	if channels == 1 {
		right[i] = first
		return
	}
	right[i] = second
}
