package kvstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "pos-cart", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, "pos-cart")
	if err != nil || !ok || v != `[]` {
		t.Fatalf("get after set: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := store.Delete(ctx, "pos-cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "pos-cart"); ok {
		t.Fatalf("expected key gone after delete")
	}
}

func TestMemoryWatchSeesWritesFromOtherHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemory()
	events, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := store.Set(ctx, "store-cart", `[{"id":"p1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Key != "store-cart" {
			t.Fatalf("expected event for store-cart, got %q", ev.Key)
		}
	case <-time.After(time.Second):
		t.Fatalf("no change event delivered")
	}

	// The event carries only the key; the value must come from storage.
	v, ok, _ := store.Get(ctx, "store-cart")
	if !ok || v != `[{"id":"p1"}]` {
		t.Fatalf("re-read after event: v=%q ok=%v", v, ok)
	}
}

func TestMemoryWatchClosedOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemory()
	events, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	cancel()

	select {
	case _, open := <-events:
		if open {
			t.Fatalf("expected channel closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after cancel")
	}

	// Writes after the watcher is gone must not block or panic.
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set after cancel: %v", err)
	}
}

func TestMemoryDeleteOfMissingKeyEmitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemory()
	events, _ := store.Watch(ctx)

	if err := store.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %q for missing key", ev.Key)
	case <-time.After(50 * time.Millisecond):
	}
}
