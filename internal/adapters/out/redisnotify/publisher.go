// Package redisnotify publishes order events over Redis PUBLISH.
package redisnotify

import (
	"context"
	"errors"
	"fmt"

	"orderlifecycle/internal/adapters/out/notify"
	"orderlifecycle/internal/core/domain/model/kernel"

	"github.com/go-redis/redis/v8"
)

type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher implements ports.NotificationChannel. Delivery is fire-and-forget:
// subscribers that are not listening miss the event.
type Publisher struct {
	client publishClient
}

func NewPublisher(client publishClient) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("redis publisher: client is required")
	}
	return &Publisher{client: client}, nil
}

// Dial parses redisURL and checks the server answers.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

func (p *Publisher) Publish(ctx context.Context, orderID kernel.UUID, event string, payload any) error {
	data, err := notify.Encode(event, payload)
	if err != nil {
		return err
	}

	if err = p.client.Publish(ctx, notify.Topic(orderID), data).Err(); err != nil {
		return fmt.Errorf("publish %s to redis: %w", event, err)
	}
	return nil
}
