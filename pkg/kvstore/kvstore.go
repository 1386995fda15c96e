// Package kvstore provides the durable key-value storage shared by every
// terminal process on a host. It mirrors browser origin storage: synchronous
// string reads/writes plus a change side-channel that carries only the key
// name, never the value. Readers must re-derive state from storage.
package kvstore

import "context"

// Event signals that the value stored at Key changed. It carries no payload.
type Event struct {
	Key string
}

// Store is the durable storage contract consumed by the terminal layer.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set durably writes value before returning, so that concurrent readers
	// observe it no later than the matching change event.
	Set(ctx context.Context, key, value string) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
	// Watch delivers change events until ctx is canceled. Delivery is
	// best-effort: slow consumers may miss events and must treat every
	// event as "read storage again".
	Watch(ctx context.Context) (<-chan Event, error)
}
