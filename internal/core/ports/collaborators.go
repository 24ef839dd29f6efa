package ports

import (
	"context"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
)

// PaymentResult is the gateway's verdict on a payment reference.
type PaymentResult struct {
	Succeeded bool
	Status    string
}

// PaymentGateway confirms card payments before an immediate order is persisted.
type PaymentGateway interface {
	Confirm(ctx context.Context, reference string) (PaymentResult, error)
}

// Discount is the result of a successful coupon evaluation.
type Discount struct {
	Amount   kernel.Money
	CouponID string
}

// DiscountEvaluator validates a coupon code against an order subtotal.
// Rejections are returned as errors; callers treat them as "no discount".
type DiscountEvaluator interface {
	Validate(ctx context.Context, code string, userID kernel.UUID, subtotal kernel.Money, restaurantID string) (Discount, error)
}

// LoyaltyLedger records points earned by orders.
type LoyaltyLedger interface {
	AddPoints(ctx context.Context, userID kernel.UUID, points int64, reason string, orderID kernel.UUID) error
}

// Notification event names published on an order's topic.
const (
	EventOrderUpdate  = "order_update"
	EventOrderCreated = "order_created"
	EventStatusChange = "status_change"
)

// StatusChange is the payload of a status_change event.
type StatusChange struct {
	OrderID   string       `json:"orderId"`
	Status    order.Status `json:"status"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

// NotificationChannel publishes order events at most once, without acknowledgment.
type NotificationChannel interface {
	Publish(ctx context.Context, orderID kernel.UUID, event string, payload any) error
}

// ReferralHook completes a pending referral when the referred user places their first order.
type ReferralHook interface {
	CompleteFirstOrder(ctx context.Context, userID, orderID kernel.UUID) error
}

// CancellationReport is the record support tooling receives for each cancellation.
type CancellationReport struct {
	OrderID        kernel.UUID
	UserID         kernel.UUID
	PreviousStatus order.Status
	Reason         string
	Total          kernel.Money
	Fee            *kernel.Money
	Penalty        kernel.Money
	CancelledAt    time.Time
}

// SupportReporter stores cancellation reports.
type SupportReporter interface {
	ReportCancellation(ctx context.Context, report CancellationReport) error
}
