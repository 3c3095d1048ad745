package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/ai-debate/internal/bus"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/rs/zerolog/log"
)

// Bus fans debate updates out through Redis pub/sub so every server
// replica can serve any session's watchers
type Bus struct {
	client     *Client
	bufferSize int
}

// NewBus creates a Redis-backed update channel
func NewBus(client *Client, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 32
	}
	return &Bus{client: client, bufferSize: bufferSize}
}

// Publish sends event as JSON on topic
func (b *Bus) Publish(ctx context.Context, topic string, event domain.TurnEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal debate update: %w", err)
	}
	if err := b.client.rdb.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish debate update: %w", err)
	}
	return nil
}

// Subscribe listens on topic until cancel is called or ctx is done
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan domain.TurnEvent, func(), error) {
	sub := b.client.rdb.Subscribe(ctx, topic)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan domain.TurnEvent, b.bufferSize)
	messages := sub.Channel()

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.TurnEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn().Err(err).Str("topic", topic).Msg("skipping malformed debate update")
					continue
				}
				if bus.Offer(out, event) {
					log.Warn().Str("topic", topic).Msg("dropping debate update for slow subscriber")
				}
			}
		}
	}()

	return out, cancel, nil
}
