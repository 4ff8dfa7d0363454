package assignment

import (
	"sort"
	"sync"

	"creative-assigner/domain/model"
)

// Listener receives engine events.
type Listener func(model.Event)

// EventBus is the in-process pub/sub the view and the wizard listen on.
type EventBus struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]Listener
}

func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a function that removes it.
func (b *EventBus) Subscribe(l Listener) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers events synchronously, in subscription order, outside the bus lock.
func (b *EventBus) Publish(events ...model.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	ls := make([]Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, evt := range events {
		for _, l := range ls {
			l(evt)
		}
	}
}
