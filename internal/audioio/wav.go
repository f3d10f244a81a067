package audioio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	stereoChannels      = 2
)

type wavDecoder struct {
	file     *os.File
	decoder  *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	bitDepth int
	scale    float32
}

func openWAV(path string) (*wavDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: invalid WAV file: %s", ErrUnsupportedFormat, path)
	}
	if d.WavAudioFormat != wavFormatPCM && d.WavAudioFormat != wavFormatExtensible {
		_ = f.Close()
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	bitDepth := int(d.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	return &wavDecoder{
		file:     f,
		decoder:  d,
		buf:      &audio.IntBuffer{Format: d.Format()},
		channels: int(d.NumChans),
		bitDepth: bitDepth,
		scale:    1 / float32(audio.IntMaxSignedValue(bitDepth)),
	}, nil
}

func (w *wavDecoder) ReadFrames(left, right []float32) (int, error) {
	frames := min(len(left), len(right))
	if frames == 0 {
		return 0, nil
	}

	want := frames * w.channels
	if cap(w.buf.Data) < want {
		w.buf.Data = make([]int, want)
	}
	w.buf.Data = w.buf.Data[:want]

	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}

	// PCMBuffer counts interleaved samples; a trailing partial frame is dropped.
	n /= w.channels
	if n == 0 {
		return 0, io.EOF
	}

	data := w.buf.Data
	for i := range n {
		base := i * w.channels
		var second float32
		if w.channels > 1 {
			second = float32(data[base+1]) * w.scale
		}
		spread(left, right, i, float32(data[base])*w.scale, second, w.channels)
	}
	return n, nil
}

func (w *wavDecoder) SampleRate() int { return int(w.decoder.SampleRate) }
func (w *wavDecoder) Channels() int   { return w.channels }
func (w *wavDecoder) BitDepth() int   { return w.bitDepth }

func (w *wavDecoder) Frames() int64 {
	return int64(w.decoder.PCMSize) / int64(w.channels*w.bitDepth/8)
}

func (w *wavDecoder) Close() error { return w.file.Close() }

// Writer encodes planar stereo frames to a PCM WAV file.
type Writer struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
	scale   float64
	frames  int64
}

// Create opens path for writing a stereo WAV at the given rate and bit depth
// (16, 24 or 32).
func Create(path string, sampleRate, bitDepth int) (*Writer, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV output", ErrUnsupportedFormat, bitDepth)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, bitDepth, stereoChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: stereoChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		scale: float64(audio.IntMaxSignedValue(bitDepth)),
	}, nil
}

// WriteFrames clips samples to [-1, 1] and appends min(len(left), len(right)) frames.
func (w *Writer) WriteFrames(left, right []float32) error {
	frames := min(len(left), len(right))
	if frames == 0 {
		return nil
	}

	want := frames * stereoChannels
	if cap(w.buf.Data) < want {
		w.buf.Data = make([]int, want)
	}
	w.buf.Data = w.buf.Data[:want]

	for i := range frames {
		w.buf.Data[2*i] = w.quantize(left[i])
		w.buf.Data[2*i+1] = w.quantize(right[i])
	}

	if err := w.encoder.Write(w.buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	w.frames += int64(frames)
	return nil
}

func (w *Writer) quantize(v float32) int {
	s := float64(v)
	if math.IsNaN(s) {
		return 0
	}
	return int(math.Round(max(-1, min(1, s)) * w.scale))
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// Close finalizes the WAV header and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return w.file.Close()
}
