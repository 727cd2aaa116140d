// Package events carries state-change notifications between the engine
// packages and whoever renders them (HTTP handlers, the websocket feed,
// tests). Subscriptions return an unsubscribe handle so listener lifetime
// is owned by the subscriber.
package events

import "sync"

// Topics published by the engine.
const (
	TopicAuthStateChanged = "auth_state_changed"
	TopicCartUpdated      = "cart_updated"
)

// Handler receives the topic's payload. Payloads are authoritative
// snapshots, never diffs.
type Handler func(payload any)

type Bus struct {
	mu   sync.Mutex
	subs map[string]map[int]Handler
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]Handler)}
}

// Subscribe registers h for a topic and returns its unsubscribe handle.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.subs[topic][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers payload to every subscriber of topic, synchronously,
// on the caller's goroutine.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(payload)
	}
}
