package audioio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

type flacDecoder struct {
	file     *os.File
	stream   *flac.Stream
	frame    *frame.Frame
	pos      int // next sample within frame
	channels int
	bitDepth int
}

func openFLAC(path string) (*flacDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: failed to create FLAC decoder: %v", ErrUnsupportedFormat, err)
	}

	return &flacDecoder{
		file:     f,
		stream:   stream,
		channels: int(stream.Info.NChannels),
		bitDepth: int(stream.Info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) ReadFrames(left, right []float32) (int, error) {
	frames := min(len(left), len(right))
	n := 0
	for n < frames {
		if d.frame == nil || d.pos >= len(d.frame.Subframes[0].Samples) {
			fr, err := d.stream.ParseNext()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return n, fmt.Errorf("failed to parse FLAC frame: %w", err)
			}
			d.frame, d.pos = fr, 0
		}

		sub := d.frame.Subframes
		scale := 1 / float32(int64(1)<<(d.frame.BitsPerSample-1))
		avail := min(len(sub[0].Samples)-d.pos, frames-n)
		for i := range avail {
			first := float32(sub[0].Samples[d.pos+i]) * scale
			var second float32
			if len(sub) > 1 {
				second = float32(sub[1].Samples[d.pos+i]) * scale
			}
			spread(left, right, n+i, first, second, len(sub))
		}
		d.pos += avail
		n += avail
	}

	if n == 0 && frames > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (d *flacDecoder) SampleRate() int { return int(d.stream.Info.SampleRate) }
func (d *flacDecoder) Channels() int   { return d.channels }
func (d *flacDecoder) BitDepth() int   { return d.bitDepth }
func (d *flacDecoder) Frames() int64   { return int64(d.stream.Info.NSamples) }

func (d *flacDecoder) Close() error {
	_ = d.stream.Close()
	return d.file.Close()
}
