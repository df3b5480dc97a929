// Package events fans out record list changes to live page connections.
package events

import (
	"sync"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/sirupsen/logrus"
)

// Hub broadcasts app.RecordsUpdated to all subscribers.
// Publishing never blocks: a subscriber with a full buffer misses the event.
type Hub struct {
	bufferSize int
	l          logrus.FieldLogger

	m    sync.Mutex
	subs map[int]chan app.RecordsUpdated
	next int
}

var _ app.Notifier = &Hub{}

// NewHub creates new Hub instance. bufferSize is the per-subscriber queue length.
func NewHub(bufferSize int, l logrus.FieldLogger) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		bufferSize: bufferSize,
		l:          l,
		subs:       make(map[int]chan app.RecordsUpdated),
	}
}

// Subscribe registers new subscriber.
// Returned func unsubscribes and closes the channel, it's safe to call it more than once.
func (h *Hub) Subscribe() (<-chan app.RecordsUpdated, func()) {
	h.m.Lock()
	defer h.m.Unlock()

	id := h.next
	h.next++
	ch := make(chan app.RecordsUpdated, h.bufferSize)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.m.Lock()
			defer h.m.Unlock()

			delete(h.subs, id)
			close(ch)
		})
	}
}

// Publish sends event to every subscriber.
func (h *Hub) Publish(event app.RecordsUpdated) {
	h.m.Lock()
	defer h.m.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.l.Warnf("subscriber %d is not keeping up, event dropped", id)
		}
	}
}

// Subscribers returns number of active subscribers.
func (h *Hub) Subscribers() int {
	h.m.Lock()
	defer h.m.Unlock()

	return len(h.subs)
}
