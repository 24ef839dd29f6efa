package ports

import (
	"context"

	"orderlifecycle/internal/core/domain/model/kernel"
)

// UserRepository exposes the per-user penalty balance.
// Each method is a single atomic read-modify-write against one user row.
type UserRepository interface {
	// ConsumePendingPenalty returns the current balance and zeroes it.
	// A user without a row has a zero balance.
	ConsumePendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error)

	// AccruePendingPenalty adds amount to the balance, creating the row if needed.
	AccruePendingPenalty(ctx context.Context, userID kernel.UUID, amount kernel.Money) error

	// GetPendingPenalty reads the balance without changing it.
	GetPendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error)
}
