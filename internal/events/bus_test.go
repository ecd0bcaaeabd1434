package events

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewEventBus[ProductEvent]()
	a := bus.Subscribe()
	b := bus.Subscribe()
	require.Equal(t, 2, bus.Len())

	bus.Publish(ProductEvent{Type: ProductCreated, ProductID: "p1"})

	assert.Equal(t, "p1", (<-a).ProductID)
	assert.Equal(t, "p1", (<-b).ProductID)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	var dropped atomic.Int32
	bus := NewBufferedEventBus[int](2)
	bus.OnDrop = func(Subscriber[int], int) { dropped.Add(1) }

	sub := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}

	assert.Equal(t, int32(3), dropped.Load())
	assert.Equal(t, 0, <-sub)
	assert.Equal(t, 1, <-sub)
}

func TestSendTargetsOneSubscriber(t *testing.T) {
	bus := NewEventBus[int]()
	a := bus.Subscribe()
	b := bus.Subscribe()

	assert.True(t, bus.Send(a, 7))
	assert.Len(t, a, 1)
	assert.Len(t, b, 0)
}

func TestUnsubscribeClosesOnce(t *testing.T) {
	bus := NewEventBus[int]()
	sub := bus.Subscribe()

	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)
	assert.Equal(t, 0, bus.Len())
	assert.False(t, bus.Send(sub, 1))

	// publishing after unsubscribe must not panic on the closed channel
	bus.Publish(1)
}
