package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedBus(t *testing.T) *EventBus {
	t.Helper()
	bus := NewEventBus()
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(bus.Stop)
	return bus
}

func TestEventBusBasicPublishSubscribe(t *testing.T) {
	bus := startedBus(t)
	ch := make(chan Event, 1)

	bus.Subscribe(EventError, ch)

	evt := Event{
		Type:      EventError,
		Timestamp: time.Now(),
		Payload:   "test error",
	}
	assert.True(t, bus.Publish(evt))

	received := <-ch
	assert.Equal(t, EventError, received.Type)
	assert.Equal(t, "test error", received.Payload)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := startedBus(t)
	ch := make(chan Event, 1)

	bus.Subscribe(EventBlockFailed, ch)
	bus.Unsubscribe(EventBlockFailed, ch)

	assert.False(t, bus.Publish(NewEvent(EventBlockFailed, "block 1")))

	select {
	case <-ch:
		t.Error("Should not receive event after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventBusUnsubscribeKeepsOthers(t *testing.T) {
	bus := startedBus(t)
	ch1 := make(chan Event, 1)
	ch2 := make(chan Event, 1)
	ch3 := make(chan Event, 1)

	bus.Subscribe(EventBlockStarted, ch1)
	bus.Subscribe(EventBlockStarted, ch2)
	bus.Subscribe(EventBlockStarted, ch3)
	bus.Unsubscribe(EventBlockStarted, ch2)

	assert.True(t, bus.Publish(NewEvent(EventBlockStarted, nil)))
	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 0)
	assert.Len(t, ch3, 1)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := startedBus(t)
	ch1 := make(chan Event, 1)
	ch2 := make(chan Event, 1)

	bus.Subscribe(EventBlockCompleted, ch1)
	bus.Subscribe(EventBlockCompleted, ch2)

	bus.Publish(NewEvent(EventBlockCompleted, "block 2"))

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			assert.Equal(t, EventBlockCompleted, received.Type)
			assert.False(t, received.Timestamp.IsZero())
		case <-time.After(100 * time.Millisecond):
			t.Error("Timeout waiting for event")
		}
	}
}

func TestEventBusFillsTimestamp(t *testing.T) {
	bus := startedBus(t)
	ch := make(chan Event, 1)
	bus.Subscribe(EventBatchCompleted, ch)

	bus.Publish(Event{Type: EventBatchCompleted})
	assert.False(t, (<-ch).Timestamp.IsZero())
}

func TestEventBusAsyncOperation(t *testing.T) {
	bus := startedBus(t)
	ch := make(chan Event, 1)

	bus.Subscribe(EventBatchCompleted, ch)

	go bus.Publish(NewEvent(EventBatchCompleted, "done"))

	select {
	case received := <-ch:
		assert.Equal(t, EventBatchCompleted, received.Type)
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for event")
	}
}

func TestEventBusChannelBlocking(t *testing.T) {
	bus := startedBus(t)
	ch := make(chan Event, 1)

	bus.Subscribe(EventBlockRetrying, ch)

	assert.True(t, bus.Publish(NewEvent(EventBlockRetrying, "first event")), "First event should be delivered")

	var wg sync.WaitGroup
	var secondDelivered bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		secondDelivered = bus.Publish(NewEvent(EventBlockRetrying, "second event"))
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		assert.False(t, secondDelivered, "Second event should be dropped when channel is full")
	case <-time.After(100 * time.Millisecond):
		t.Error("Publish operation blocked when channel was full")
	}
}

func TestEventBusStartStop(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Start(ctx), "Second start should not fail")
	assert.True(t, bus.Running())

	bus.Stop()
	bus.Stop()
	assert.False(t, bus.Running())

	require.NoError(t, bus.Start(ctx), "Start after stop failed")
	assert.True(t, bus.Running())
}

func TestEventBusParentCancel(t *testing.T) {
	bus := NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, bus.Start(ctx))
	cancel()
	assert.False(t, bus.Running())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.Running())
}

func TestEventBusDropsWhileStopped(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 1)
	bus.Subscribe(EventBlockCompleted, ch)

	assert.False(t, bus.Publish(NewEvent(EventBlockCompleted, "before start")))
	assert.Len(t, ch, 0)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Publish(NewEvent(EventBlockCompleted, "running")))
	assert.Equal(t, "running", (<-ch).Payload)

	cancel()
	assert.False(t, bus.Publish(NewEvent(EventBlockCompleted, "after cancel")))

	require.NoError(t, bus.Start(context.Background()))
	bus.Stop()
	assert.False(t, bus.Publish(NewEvent(EventBlockCompleted, "after stop")))
	assert.Len(t, ch, 0)
}
