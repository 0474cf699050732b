package watch

import (
	"log/slog"
	"sync"
)

const subscriberQueueSize = 64

// Hub fans auth events out to WebSocket subscribers. Publish never blocks:
// a subscriber that cannot keep up loses events rather than stalling the
// login path.
type Hub struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub constructs an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{log: log, subs: make(map[chan Event]struct{})}
}

// Publish delivers ev to all current subscribers, dropping on full queues.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn("watch.publish.drop", "kind", ev.Kind)
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel plus an
// unsubscribe func. The channel is closed on unsubscribe.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberQueueSize)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
