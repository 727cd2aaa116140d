package events

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var got any
	calls := 0
	bus.Subscribe(TopicCartUpdated, func(payload any) {
		got = payload
		calls++
	})

	bus.Publish(TopicCartUpdated, "payload")
	if calls != 1 || got != "payload" {
		t.Fatalf("after publish: calls=%d got=%v", calls, got)
	}

	bus.Publish(TopicAuthStateChanged, "other")
	if calls != 1 {
		t.Fatalf("subscriber fired for unrelated topic, calls=%d", calls)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(TopicAuthStateChanged, func(any) { calls++ })

	bus.Publish(TopicAuthStateChanged, nil)
	unsub()
	bus.Publish(TopicAuthStateChanged, nil)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
