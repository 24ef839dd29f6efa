package commands

import (
	"context"
	"errors"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
)

// ActivationMessage is the status_change text sent when a scheduled order becomes pending.
const ActivationMessage = "Your scheduled order is now being processed"

// OrderNotifier publishes order events to the order's topic. It returns publish errors
// so the post-commit runner can log them; nothing it does affects the stored state.
type OrderNotifier struct {
	channel ports.NotificationChannel
	clock   kernel.Clock
}

func NewOrderNotifier(channel ports.NotificationChannel, clock kernel.Clock) *OrderNotifier {
	return &OrderNotifier{channel: channel, clock: clock}
}

// Created publishes order_created with the snapshot.
func (n *OrderNotifier) Created(ctx context.Context, o *order.Order) error {
	return n.channel.Publish(ctx, o.ID(), ports.EventOrderCreated, o.Snapshot())
}

// StatusChanged publishes status_change with message, or the status' default message when empty.
func (n *OrderNotifier) StatusChanged(ctx context.Context, o *order.Order, message string) error {
	if message == "" {
		message = o.Status().Message()
	}
	return n.channel.Publish(ctx, o.ID(), ports.EventStatusChange, ports.StatusChange{
		OrderID:   o.ID().String(),
		Status:    o.Status(),
		Message:   message,
		Timestamp: n.clock.Now(),
	})
}

// StatusChangedByID publishes status_change for an order that could not be loaded,
// using the status' default message.
func (n *OrderNotifier) StatusChangedByID(ctx context.Context, id kernel.UUID, status order.Status) error {
	return n.channel.Publish(ctx, id, ports.EventStatusChange, ports.StatusChange{
		OrderID:   id.String(),
		Status:    status,
		Message:   status.Message(),
		Timestamp: n.clock.Now(),
	})
}

// Updated publishes the order_update + status_change pair shared by the scheduler,
// manual status updates and cancellation. Both are attempted even if the first fails.
func (n *OrderNotifier) Updated(ctx context.Context, o *order.Order, message string) error {
	return errors.Join(
		n.channel.Publish(ctx, o.ID(), ports.EventOrderUpdate, o.Snapshot()),
		n.StatusChanged(ctx, o, message),
	)
}
