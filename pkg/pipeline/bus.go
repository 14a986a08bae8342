// Package pipeline carries progress events from the narration stages to
// whoever is watching (CLI output, tests).
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"
)

// EventType identifies an event.
type EventType string

const (
	EventBlockStarted   EventType = "block_started"
	EventBlockCompleted EventType = "block_completed"
	EventBlockFailed    EventType = "block_failed"
	EventBlockRetrying  EventType = "block_retrying"
	EventBatchCompleted EventType = "batch_completed"
	EventError          EventType = "error"
)

// Event is one bus message. Payload type depends on Type.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   interface{}
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, payload interface{}) Event {
	return Event{Type: t, Timestamp: time.Now(), Payload: payload}
}

// Bus fans events out to subscribed channels.
type Bus interface {
	Subscribe(t EventType, ch chan<- Event)
	Unsubscribe(t EventType, ch chan<- Event)
	Publish(evt Event) bool
	Start(ctx context.Context) error
	Stop()
}

// EventBus delivers without blocking: a subscriber whose channel is full
// misses the event. Events published while the bus is not running are
// dropped.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan<- Event

	runMu  sync.Mutex
	runCtx context.Context
	cancel context.CancelFunc
}

var _ Bus = (*EventBus)(nil)

// NewEventBus creates a bus with no subscribers.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[EventType][]chan<- Event)}
}

// Subscribe registers ch for events of type t.
func (b *EventBus) Subscribe(t EventType, ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[t] = append(b.subscribers[t], ch)
}

// Unsubscribe removes ch from events of type t.
func (b *EventBus) Unsubscribe(t EventType, ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[t]
	for i, c := range subs {
		if c == ch {
			b.subscribers[t] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[t]) == 0 {
		delete(b.subscribers, t)
	}
}

// Publish hands evt to every subscriber of its type. It reports whether the
// bus is running, at least one subscriber exists and none was skipped.
func (b *EventBus) Publish(evt Event) bool {
	if !b.Running() {
		return false
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	b.mu.RLock()
	subs := b.subscribers[evt.Type]
	b.mu.RUnlock()

	delivered := len(subs) > 0
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			delivered = false
			log.Printf("[EventBus] subscriber full, dropped %s event", evt.Type)
		}
	}
	return delivered
}

// Start ties the bus to ctx. Calling Start on a running bus is a no-op.
func (b *EventBus) Start(ctx context.Context) error {
	b.runMu.Lock()
	defer b.runMu.Unlock()

	if b.runCtx != nil && b.runCtx.Err() == nil {
		return nil
	}
	b.runCtx, b.cancel = context.WithCancel(ctx)
	return nil
}

// Stop detaches the bus from its context. Subscriptions survive a restart.
func (b *EventBus) Stop() {
	b.runMu.Lock()
	defer b.runMu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	b.runCtx, b.cancel = nil, nil
}

// Running reports whether the bus was started and neither stopped nor
// cancelled since.
func (b *EventBus) Running() bool {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	return b.runCtx != nil && b.runCtx.Err() == nil
}
