package tracks

import (
	"sync/atomic"

	"github.com/aimaster-dev/healthBridge/internal/core"
)

type slotState int32

const (
	slotLive slotState = iota
	slotMuted
	slotClosed
)

// slot holds one open local track. published is guarded by Set.mu.
type slot struct {
	track     core.LocalTrack
	published bool
	state     atomic.Int32 // zero by default (slotLive)
}

func newSlot(track core.LocalTrack) *slot {
	s := &slot{track: track}
	if !track.Enabled() {
		s.markMuted()
	}
	return s
}

func (s *slot) getState() slotState {
	return slotState(s.state.Load())
}

func (s *slot) markLive() {
	s.state.Store(int32(slotLive))
}

func (s *slot) markMuted() {
	s.state.Store(int32(slotMuted))
}

// markClosed reports whether this call performed the transition.
func (s *slot) markClosed() bool {
	for {
		cur := s.state.Load()
		if slotState(cur) == slotClosed {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(slotClosed)) {
			return true
		}
	}
}
