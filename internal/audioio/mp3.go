package audioio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

const (
	mp3BitDepth      = 16
	mp3BytesPerFrame = 4 // go-mp3 always emits 16-bit stereo
	mp3Scale         = 1.0 / 32768
)

type mp3Decoder struct {
	file    *os.File
	decoder *mp3.Decoder
	buf     []byte
}

func openMP3(path string) (*mp3Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	d, err := mp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: failed to create MP3 decoder: %v", ErrUnsupportedFormat, err)
	}

	return &mp3Decoder{file: f, decoder: d}, nil
}

func (d *mp3Decoder) ReadFrames(left, right []float32) (int, error) {
	frames := min(len(left), len(right))
	if frames == 0 {
		return 0, nil
	}

	want := frames * mp3BytesPerFrame
	if cap(d.buf) < want {
		d.buf = make([]byte, want)
	}
	d.buf = d.buf[:want]

	m, err := io.ReadFull(d.decoder, d.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("failed to read MP3 data: %w", err)
	}

	n := m / mp3BytesPerFrame
	if n == 0 {
		return 0, io.EOF
	}
	for i := range n {
		b := d.buf[i*mp3BytesPerFrame:]
		left[i] = float32(int16(binary.LittleEndian.Uint16(b))) * mp3Scale
		right[i] = float32(int16(binary.LittleEndian.Uint16(b[2:]))) * mp3Scale
	}
	return n, nil
}

func (d *mp3Decoder) SampleRate() int { return d.decoder.SampleRate() }
func (d *mp3Decoder) Channels() int   { return stereoChannels }
func (d *mp3Decoder) BitDepth() int   { return mp3BitDepth }

func (d *mp3Decoder) Frames() int64 {
	if n := d.decoder.Length(); n > 0 {
		return n / mp3BytesPerFrame
	}
	return 0
}

func (d *mp3Decoder) Close() error { return d.file.Close() }
