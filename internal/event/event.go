// Package event is the in-process publish/subscribe bus a front end
// uses to observe the engine without polling. Delivery is synchronous
// and in publish order; the engine is single-threaded, so subscribers
// run on the publishing goroutine.
package event

import (
	"sync"
	"time"

	"github.com/draftsmith/draftsmith/internal/log"
)

// Topic names an event stream.
type Topic string

// Engine topics.
const (
	TopicEntityAdded      Topic = "entity.added"
	TopicEntityUpdated    Topic = "entity.updated"
	TopicEntityDeleted    Topic = "entity.deleted"
	TopicSelectionChanged Topic = "selection.changed"
	TopicCommandStarted   Topic = "command.started"
	TopicCommandFinished  Topic = "command.finished"
	TopicCommandCanceled  Topic = "command.cancelled"
	TopicHistoryChanged   Topic = "history.changed"
	TopicLayerChanged     Topic = "layer.changed"
	TopicBlockExported    Topic = "block.exported"
	TopicWarning          Topic = "warning"
)

// Event is one published notification.
type Event struct {
	Topic Topic
	Time  time.Time
	Data  any
}

// Handler receives events for the topics it subscribed to.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	topic Topic
	id    uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to per-topic subscribers. A subscriber panic
// is recovered and logged; it never unwinds into the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic][]subscriber
	nextID uint64
	logger *log.Logger
}

// NewBus returns an empty bus.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Null
	}
	return &Bus{
		subs:   make(map[Topic][]subscriber),
		nextID: 1,
		logger: logger.WithComponent("event"),
	}
}

// Subscribe registers a handler for one topic.
func (b *Bus) Subscribe(topic Topic, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, handler: h})
	return Subscription{topic: topic, id: id}
}

// Unsubscribe removes a subscription. Unknown subscriptions are
// ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every subscriber of its topic, in
// subscription order, before returning.
func (b *Bus) Publish(topic Topic, data any) {
	b.mu.Lock()
	list := append([]subscriber(nil), b.subs[topic]...)
	b.mu.Unlock()

	ev := Event{Topic: topic, Time: time.Now(), Data: data}
	for _, s := range list {
		b.deliver(s, ev)
	}
}

func (b *Bus) deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panic on %s: %v", ev.Topic, r)
		}
	}()
	s.handler(ev)
}
