package notify

import (
	"context"
	"log/slog"

	"orderlifecycle/internal/core/domain/model/kernel"
)

// LogPublisher writes events to the log instead of a broker. It is the
// channel used when no notification backend is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, orderID kernel.UUID, event string, payload any) error {
	data, err := Encode(event, payload)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "order event", "topic", Topic(orderID), "event", event, "payload", string(data))
	return nil
}
