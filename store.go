package equalizer

import (
	"math"
	"sync/atomic"
)

// paramStore publishes parameter snapshots from control goroutines to the
// processing goroutine. Writers never block; the reader picks up the most
// recent snapshot at the start of each block.
type paramStore struct {
	params     atomic.Pointer[Params]
	sampleRate atomic.Uint64 // float64 bits
	reset      atomic.Bool
}

func (s *paramStore) publish(p *Params) {
	s.params.Store(p)
}

// update applies fn to a copy of the current snapshot and publishes the
// result, retrying if another writer got there first.
func (s *paramStore) update(fn func(*Params)) {
	for {
		old := s.params.Load()
		next := *old
		fn(&next)
		if s.params.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (s *paramStore) load() *Params {
	return s.params.Load()
}

func (s *paramStore) setRate(sampleRate float64) {
	s.sampleRate.Store(math.Float64bits(sampleRate))
}

func (s *paramStore) rate() float64 {
	return math.Float64frombits(s.sampleRate.Load())
}

func (s *paramStore) requestReset() {
	s.reset.Store(true)
}

// takeReset reports and clears a pending reset request.
func (s *paramStore) takeReset() bool {
	return s.reset.Swap(false)
}
