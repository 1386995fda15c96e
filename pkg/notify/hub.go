// Package notify implements a small in-process signal hub. Components that
// mutate shared storage fire a topic after writing; components that derive
// state subscribe and recompute. Signals carry no payload, so a missed or
// duplicated signal is always safe: listeners re-read the source of truth.
package notify

import "sync"

// Hub fans out named signals to registered listeners. The zero value is not
// usable; construct with NewHub.
type Hub struct {
	mu        sync.Mutex
	seq       int
	listeners map[string]map[int]func()
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[string]map[int]func())}
}

// Subscribe registers fn for topic and returns its unsubscribe function.
// Unsubscribing twice is a no-op.
func (h *Hub) Subscribe(topic string, fn func()) func() {
	h.mu.Lock()
	h.seq++
	id := h.seq
	if h.listeners[topic] == nil {
		h.listeners[topic] = make(map[int]func())
	}
	h.listeners[topic][id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners[topic], id)
		h.mu.Unlock()
	}
}

// Notify invokes every listener registered for topic. Listeners run on the
// caller's goroutine, so a mutation and the reactions it triggers form one
// synchronous sequence, like dispatching a DOM event.
func (h *Hub) Notify(topic string) {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.listeners[topic]))
	for _, fn := range h.listeners[topic] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount reports the number of active listeners on topic.
func (h *Hub) ListenerCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[topic])
}
