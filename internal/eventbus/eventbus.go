// Package eventbus decouples request handlers from the telemetry consumers:
// handlers publish, the app-level consumers forward to metrics sinks and the
// vehicle repository without blocking the request path.
package eventbus

import (
	"sync"

	"github.com/fleetsense/autocare/core/metrics"
)

// OdometerEvent is a mileage reading received from a vehicle.
type OdometerEvent struct {
	VehicleID  string
	OdometerKm int
}

// Buses groups the event streams of the service.
type Buses struct {
	Predictions *Bus[metrics.PredictionEvent]
	Odometer    *Bus[OdometerEvent]
}

// New creates the service buses.
func New() *Buses {
	return &Buses{
		Predictions: NewBus[metrics.PredictionEvent](),
		Odometer:    NewBus[OdometerEvent](),
	}
}

// Close closes all buses.
func (b *Buses) Close() {
	b.Predictions.Close()
	b.Odometer.Close()
}

// Bus is a type-safe publish/subscribe bus for events of type T.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []chan T
	closed bool
}

// NewBus creates a new Bus.
func NewBus[T any]() *Bus[T] { return &Bus[T]{} }

// Publish sends the event to all subscribers. Delivery is non-blocking: a
// slow subscriber drops events instead of stalling the publisher.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, 8)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
