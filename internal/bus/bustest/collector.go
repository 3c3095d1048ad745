// Package bustest provides an update publisher that records what it is given.
package bustest

import (
	"context"
	"sync"

	"github.com/Rrens/ai-debate/internal/domain"
)

// Collector records every published event, optionally forwarding it
type Collector struct {
	next domain.EventPublisher

	mu     sync.Mutex
	events []domain.TurnEvent
	topics []string
}

// NewCollector creates a collector. next may be nil.
func NewCollector(next domain.EventPublisher) *Collector {
	return &Collector{next: next}
}

// Publish records the event and passes it to the next publisher
func (c *Collector) Publish(ctx context.Context, topic string, event domain.TurnEvent) error {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.topics = append(c.topics, topic)
	c.mu.Unlock()

	if c.next != nil {
		return c.next.Publish(ctx, topic, event)
	}
	return nil
}

// Events returns a copy of the recorded events in publish order
func (c *Collector) Events() []domain.TurnEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.TurnEvent, len(c.events))
	copy(out, c.events)
	return out
}

// EventsFor returns the events published on topic
func (c *Collector) EventsFor(topic string) []domain.TurnEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.TurnEvent
	for i, t := range c.topics {
		if t == topic {
			out = append(out, c.events[i])
		}
	}
	return out
}

// Topics returns the topic of every recorded event in publish order
func (c *Collector) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.topics))
	copy(out, c.topics)
	return out
}
