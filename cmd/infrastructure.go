package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"orderlifecycle/internal/adapters/out/notify"
	"orderlifecycle/internal/adapters/out/pubsubnotify"
	"orderlifecycle/internal/adapters/out/redisnotify"
	"orderlifecycle/internal/adapters/out/stripepay"
	"orderlifecycle/internal/core/ports"

	"cloud.google.com/go/pubsub"
)

// NewNotificationChannel connects the configured notification backend. The
// returned close function releases its client.
func NewNotificationChannel(ctx context.Context, cfg Config, logger *slog.Logger) (ports.NotificationChannel, func(), error) {
	switch cfg.NotifyBackend {
	case NotifyRedis:
		rdb, err := redisnotify.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		publisher, err := redisnotify.NewPublisher(rdb)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return publisher, func() { _ = rdb.Close() }, nil

	case NotifyPubSub:
		client, err := pubsub.NewClient(ctx, cfg.PubSubProject)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
		}
		publisher, err := pubsubnotify.NewPublisher(client.Topic(cfg.PubSubTopic))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return publisher, func() {
			publisher.Stop()
			_ = client.Close()
		}, nil

	default:
		return notify.NewLogPublisher(logger), func() {}, nil
	}
}

// NewPaymentGateway returns the Stripe gateway, or nil when no API key is configured.
func NewPaymentGateway(cfg Config) (ports.PaymentGateway, error) {
	if cfg.StripeAPIKey == "" {
		return nil, nil
	}
	gateway, err := stripepay.NewGateway(cfg.StripeAPIKey, nil)
	if err != nil {
		return nil, err
	}
	return gateway, nil
}
