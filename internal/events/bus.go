package events

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

const (
	TopicSignedIn           = "session.signed_in"
	TopicSignedOut          = "session.signed_out"
	TopicCartChanged        = "cart.changed"
	TopicOrderPlaced        = "order.placed"
	TopicOrderStatusChanged = "order.status_changed"
)

// Event is a state change other components may observe.
type Event struct {
	Topic   string      `json:"topic"`
	Key     string      `json:"key"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Handler receives published events. Handlers run on the publisher's goroutine.
type Handler func(ctx context.Context, e Event)

// Publisher is the narrow interface services depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus fans events out to subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	nextID int
	logger *log.Logger
}

type subscription struct {
	id      int
	handler Handler
}

func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Bus{subs: make(map[string][]subscription), logger: logger}
}

// Subscribe registers h for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[e.Topic]))
	copy(subs, b.subs[e.Topic])
	b.mu.RUnlock()

	for _, s := range subs {
		b.dispatch(ctx, s.handler, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("events: handler panic topic=%s key=%s panic=%v", e.Topic, e.Key, r)
		}
	}()
	h(ctx, e)
}

// Discard drops every event. Services fall back to it when no bus is wired.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) {}
