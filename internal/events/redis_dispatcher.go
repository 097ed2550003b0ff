package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisDispatcher runs local handlers, then publishes the event as JSON on a
// Redis channel for out-of-process consumers.
type RedisDispatcher struct {
	client  *redis.Client
	channel string
	local   Dispatcher
}

// NewRedisDispatcher wraps local with Redis fan-out on channel.
func NewRedisDispatcher(client *redis.Client, channel string, local Dispatcher) *RedisDispatcher {
	if local == nil {
		local = NewInMemoryDispatcher()
	}
	return &RedisDispatcher{client: client, channel: channel, local: local}
}

// Publish delivers locally and to Redis. Both are attempted; errors are joined.
func (d *RedisDispatcher) Publish(ctx context.Context, event Event) error {
	localErr := d.local.Publish(ctx, event)

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Join(localErr, fmt.Errorf("encode event: %w", err))
	}
	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		return errors.Join(localErr, fmt.Errorf("publish %s: %w", event.Type, err))
	}
	return localErr
}

// Subscribe registers a local handler.
func (d *RedisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}

// Channel returns the Redis channel events are published on.
func (d *RedisDispatcher) Channel() string {
	return d.channel
}
