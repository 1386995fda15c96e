package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. A single Memory value shared by several
// handles behaves like one origin shared by several browser tabs: a write
// through any handle is immediately visible to all and fans out one change
// event per active watcher.
type Memory struct {
	mu       sync.Mutex
	data     map[string]string
	watchSeq int
	watchers map[int]chan Event
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		watchers: make(map[int]chan Event),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.notifyLocked(key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	if _, ok := m.data[key]; ok {
		delete(m.data, key)
		m.notifyLocked(key)
	}
	m.mu.Unlock()
	return nil
}

// notifyLocked drops the event for watchers whose buffer is full; they will
// catch up on their next read, which is all the contract promises.
func (m *Memory) notifyLocked(key string) {
	for _, ch := range m.watchers {
		select {
		case ch <- Event{Key: key}:
		default:
		}
	}
}

func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)

	m.mu.Lock()
	m.watchSeq++
	id := m.watchSeq
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
