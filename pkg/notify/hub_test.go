package notify

import "testing"

func TestNotifyReachesAllListeners(t *testing.T) {
	hub := NewHub()
	var a, b int
	hub.Subscribe("cart-changed", func() { a++ })
	hub.Subscribe("cart-changed", func() { b++ })

	hub.Notify("cart-changed")
	hub.Notify("cart-changed")

	if a != 2 || b != 2 {
		t.Fatalf("expected both listeners called twice, got a=%d b=%d", a, b)
	}
}

func TestNotifyIsScopedToTopic(t *testing.T) {
	hub := NewHub()
	var calls int
	hub.Subscribe("stock-changed", func() { calls++ })

	hub.Notify("cart-changed")

	if calls != 0 {
		t.Fatalf("listener fired for unrelated topic")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	var calls int
	cancel := hub.Subscribe("cart-changed", func() { calls++ })

	hub.Notify("cart-changed")
	cancel()
	cancel() // second call must be harmless
	hub.Notify("cart-changed")

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
	if n := hub.ListenerCount("cart-changed"); n != 0 {
		t.Fatalf("expected zero listeners after unsubscribe, got %d", n)
	}
}

func TestNotifyWithNoListenersIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Notify("nobody-home")
}
