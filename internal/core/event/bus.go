package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during a tick's update
// pass collect in the back buffer; Drain swaps them to the front and delivers
// them. Handlers may emit more events, which are delivered by the same Drain.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	order    []reflect.Type
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, seen := b.back[t]; !seen {
		b.order = append(b.order, t)
	}
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Pending reports whether any event waits in the back buffer.
func (b *Bus) Pending() bool {
	for _, evs := range b.back {
		if len(evs) > 0 {
			return true
		}
	}
	return false
}

// SwapBuffers rotates back→front and clears the new back buffer. It returns
// the event types in first-emitted order.
func (b *Bus) SwapBuffers() []reflect.Type {
	b.front, b.back = b.back, b.front
	clear(b.back)
	order := b.order
	b.order = nil
	return order
}

// DispatchAll delivers all front-buffer events to their subscribed handlers,
// type by type in the given order.
func (b *Bus) DispatchAll(order []reflect.Type) {
	for _, t := range order {
		handlers := b.handlers[t]
		for _, ev := range b.front[t] {
			for _, h := range handlers {
				callHandler(h, ev)
			}
		}
	}
	clear(b.front)
}

// Drain swaps and dispatches until no handler emits anything new. Delivery
// order is deterministic: rounds in sequence, types by first emission.
func (b *Bus) Drain() {
	for b.Pending() {
		b.DispatchAll(b.SwapBuffers())
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
