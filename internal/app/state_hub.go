package app

import (
	"encoding/json"
	"sync"

	"github.com/aimaster-dev/healthBridge/internal/domain"
)

// Snapshot is what observers of a call see.
type Snapshot struct {
	State        domain.ConnectionState
	Channel      string
	Self         domain.ParticipantID
	Local        domain.LocalMediaState
	Participants []domain.Participant
	LastError    error
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var lastErr string
	if s.LastError != nil {
		lastErr = s.LastError.Error()
	}
	participants := s.Participants
	if participants == nil {
		participants = []domain.Participant{}
	}
	return json.Marshal(struct {
		State        domain.ConnectionState `json:"state"`
		Channel      string                 `json:"channel,omitempty"`
		Self         domain.ParticipantID   `json:"self,omitempty"`
		Local        domain.LocalMediaState `json:"local"`
		Participants []domain.Participant   `json:"participants"`
		LastError    string                 `json:"last_error,omitempty"`
	}{s.State, s.Channel, s.Self, s.Local, participants, lastErr})
}

// StateHub fans snapshots out to subscribers. Delivery is latest-wins: a
// slow subscriber skips intermediate snapshots instead of blocking Publish.
type StateHub struct {
	mu   sync.Mutex
	last Snapshot
	subs map[uint64]chan Snapshot
	next uint64
}

func NewStateHub() *StateHub {
	return &StateHub{subs: make(map[uint64]chan Snapshot)}
}

func (h *StateHub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = s
	for _, ch := range h.subs {
		offer(ch, s)
	}
}

// Subscribe returns a channel primed with the current snapshot and a func
// that ends the subscription and closes the channel.
func (h *StateHub) Subscribe() (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Snapshot, 1)
	ch <- h.last
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *StateHub) Last() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// offer replaces a pending snapshot with s. Callers hold h.mu, so nothing
// else sends on ch concurrently.
func offer(ch chan Snapshot, s Snapshot) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- s
}
