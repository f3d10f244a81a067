package mix

import (
	"math"
	"sync/atomic"

	"github.com/tphakala/go-audio-eq/internal/mathutil"
)

// DefaultDecayMs is the time for a released meter to fall 12 dB.
const DefaultDecayMs = 100.0

// Meter is a peak follower with instant attack and exponential release.
//
// Observe must be called from a single goroutine. Level, LevelDB and
// Amplitude may be called from any goroutine.
type Meter struct {
	level  atomic.Uint32 // float32 bits
	raw    atomic.Uint32 // float32 bits of the last observed amplitude
	weight float32
}

// NewMeter returns a meter tuned for the given rate and decay time.
func NewMeter(sampleRate, decayMs float64) *Meter {
	m := &Meter{}
	m.SetDecay(sampleRate, decayMs)
	return m
}

// SetDecay retunes the release weight. A zero decay follows the input exactly.
func (m *Meter) SetDecay(sampleRate, decayMs float64) {
	m.weight = mathutil.DecayWeight(sampleRate, decayMs)
}

// Observe feeds one amplitude into the meter.
func (m *Meter) Observe(amp float32) {
	m.raw.Store(math.Float32bits(amp))

	cur := m.Level()
	next := amp
	if amp <= cur {
		next = cur*m.weight + amp*(1-m.weight)
	}
	m.level.Store(math.Float32bits(next))
}

// Level returns the smoothed linear level.
func (m *Meter) Level() float32 {
	return math.Float32frombits(m.level.Load())
}

// LevelDB returns the smoothed level in dBFS.
func (m *Meter) LevelDB() float32 {
	return mathutil.GainToDB(m.Level())
}

// Amplitude returns the last observed raw amplitude.
func (m *Meter) Amplitude() float32 {
	return math.Float32frombits(m.raw.Load())
}

// Reset drops the meter to silence.
func (m *Meter) Reset() {
	m.level.Store(0)
	m.raw.Store(0)
}
