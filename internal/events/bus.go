package events

import "sync"

// Event is a generic type placeholder for any event type
type Event any

// DefaultBuffer is the per-subscriber channel capacity
const DefaultBuffer = 100

// Subscriber is a channel that transports events of type T
type Subscriber[T Event] chan T

// EventBus fans events out to buffered subscriber channels. Publish never
// blocks: an event that does not fit a subscriber's buffer is dropped for
// that subscriber and reported to OnDrop.
type EventBus[T Event] struct {
	subscribers map[Subscriber[T]]struct{}
	mutex       sync.RWMutex
	buffer      int

	// OnDrop, when set, is called for every event a full subscriber missed
	OnDrop func(sub Subscriber[T], event T)
}

func NewEventBus[T Event]() *EventBus[T] {
	return NewBufferedEventBus[T](DefaultBuffer)
}

// NewBufferedEventBus creates a bus whose subscribers buffer up to size events
func NewBufferedEventBus[T Event](size int) *EventBus[T] {
	if size < 1 {
		size = 1
	}
	return &EventBus[T]{
		subscribers: make(map[Subscriber[T]]struct{}),
		buffer:      size,
	}
}

func (bus *EventBus[T]) Subscribe() Subscriber[T] {
	ch := make(Subscriber[T], bus.buffer)
	bus.mutex.Lock()
	bus.subscribers[ch] = struct{}{}
	bus.mutex.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it. Calling it twice is a no-op.
func (bus *EventBus[T]) Unsubscribe(ch Subscriber[T]) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if _, ok := bus.subscribers[ch]; !ok {
		return
	}
	delete(bus.subscribers, ch)
	close(ch)
}

// Publish broadcasts an event of type T to all registered subscribers
func (bus *EventBus[T]) Publish(event T) {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	for subscriber := range bus.subscribers {
		bus.deliver(subscriber, event)
	}
}

// Send delivers an event to a single subscriber. It reports false when the
// subscriber is gone or its buffer is full.
func (bus *EventBus[T]) Send(ch Subscriber[T], event T) bool {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	if _, ok := bus.subscribers[ch]; !ok {
		return false
	}
	return bus.deliver(ch, event)
}

// Len returns the number of active subscribers
func (bus *EventBus[T]) Len() int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	return len(bus.subscribers)
}

// deliver must be called with the read lock held so Unsubscribe cannot
// close the channel mid-send
func (bus *EventBus[T]) deliver(ch Subscriber[T], event T) bool {
	select {
	case ch <- event:
		return true
	default:
		if bus.OnDrop != nil {
			bus.OnDrop(ch, event)
		}
		return false
	}
}
