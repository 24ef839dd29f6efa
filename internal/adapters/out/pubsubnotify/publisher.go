// Package pubsubnotify publishes order events to a Google Cloud Pub/Sub topic.
package pubsubnotify

import (
	"context"
	"errors"
	"fmt"

	"orderlifecycle/internal/adapters/out/notify"
	"orderlifecycle/internal/core/domain/model/kernel"

	"cloud.google.com/go/pubsub"
)

// Publisher implements ports.NotificationChannel on a single topic. Messages carry
// the per-order topic name as their ordering key, so events of one order are
// delivered in publish order.
type Publisher struct {
	topic *pubsub.Topic
}

func NewPublisher(topic *pubsub.Topic) (*Publisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub publisher: topic is required")
	}
	topic.EnableMessageOrdering = true
	return &Publisher{topic: topic}, nil
}

func (p *Publisher) Publish(ctx context.Context, orderID kernel.UUID, event string, payload any) error {
	data, err := notify.Encode(event, payload)
	if err != nil {
		return err
	}

	key := notify.Topic(orderID)
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:        data,
		OrderingKey: key,
		Attributes: map[string]string{
			"event":   event,
			"orderId": orderID.String(),
		},
	})

	if _, err = result.Get(ctx); err != nil {
		p.topic.ResumePublish(key)
		return fmt.Errorf("publish %s to pubsub: %w", event, err)
	}
	return nil
}

// Stop flushes pending messages.
func (p *Publisher) Stop() {
	p.topic.Stop()
}
