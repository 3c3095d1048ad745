// Package bus carries debate turn events from the orchestrator to the
// clients watching a session.
package bus

import (
	"context"
	"sync"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/rs/zerolog/log"
)

const topicPrefix = "ai-debate-updates:"

// Topic returns the update channel name of a session
func Topic(sessionID string) string {
	return topicPrefix + sessionID
}

// DefaultBufferSize is used when NewMemory gets a non-positive size
const DefaultBufferSize = 32

type subscriber struct {
	ch   chan domain.TurnEvent
	once sync.Once
}

// Offer sends event on ch without blocking. A turn event is dropped when
// ch is full; a terminal event evicts the oldest queued events instead so
// every stream still ends with it. It reports whether an event was lost.
// ch must have a single sender.
func Offer(ch chan domain.TurnEvent, event domain.TurnEvent) (dropped bool) {
	for {
		select {
		case ch <- event:
			return dropped
		default:
		}
		if !event.IsCompleted {
			return true
		}
		select {
		case <-ch:
			dropped = true
		default:
		}
	}
}

// Memory is an in-process fan-out bus.
// Turn events are dropped for subscribers whose buffer is full.
type Memory struct {
	mu         sync.RWMutex
	topics     map[string]map[*subscriber]struct{}
	bufferSize int
}

// NewMemory creates an in-process bus
func NewMemory(bufferSize int) *Memory {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Memory{
		topics:     make(map[string]map[*subscriber]struct{}),
		bufferSize: bufferSize,
	}
}

// Publish delivers event to every current subscriber of topic
func (m *Memory) Publish(ctx context.Context, topic string, event domain.TurnEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.topics[topic] {
		if Offer(sub.ch, event) {
			log.Warn().Str("topic", topic).Msg("dropping debate update for slow subscriber")
		}
	}
	return nil
}

// Subscribe registers a subscriber on topic. The subscription ends when
// the returned cancel func is called or ctx is done.
func (m *Memory) Subscribe(ctx context.Context, topic string) (<-chan domain.TurnEvent, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan domain.TurnEvent, m.bufferSize)}

	m.mu.Lock()
	subs, ok := m.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		m.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	m.mu.Unlock()

	stop := make(chan struct{})
	cancel := func() {
		sub.once.Do(func() {
			m.mu.Lock()
			delete(m.topics[topic], sub)
			if len(m.topics[topic]) == 0 {
				delete(m.topics, topic)
			}
			m.mu.Unlock()
			close(sub.ch)
			close(stop)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-stop:
		}
	}()

	return sub.ch, cancel, nil
}
