// Package ports defines the contracts between the order lifecycle core and its
// storage and external collaborators. Adapters under internal/adapters implement them.
package ports

import (
	"context"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are never deleted; every write after Add is a version-checked Update.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write succeeds only if the stored version still equals aggregate.Version();
	// otherwise it returns errs.VersionConflictError. On success the aggregate's
	// version is bumped.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no order matches.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindInFlight returns up to limit orders whose status is one of
	// order.InFlightStatuses(), oldest createdAt first. Rows that cannot be restored
	// are reported in Unreadable and do not count against limit.
	FindInFlight(ctx context.Context, limit int) (OrderBatch, error)

	// FindDueScheduled returns every scheduled order whose scheduledFor is at or before now.
	//
	// Example:
	//   due, err := repo.FindDueScheduled(ctx, clock.Now())
	//   if err != nil {
	//       return fmt.Errorf("failed to load due orders: %w", err)
	//   }
	FindDueScheduled(ctx context.Context, now time.Time) (OrderBatch, error)

	// AbandonScheduled cancels a stored scheduled order without restoring it, for rows
	// too damaged to load. It does nothing when the row is missing or no longer scheduled.
	AbandonScheduled(ctx context.Context, id kernel.UUID, reason string, at time.Time) error
}

// UnreadableOrder is a stored order row that failed to restore into an aggregate.
type UnreadableOrder struct {
	ID  kernel.UUID
	Err error
}

// OrderBatch is the result of a background scan.
type OrderBatch struct {
	Orders     []*order.Order
	Unreadable []UnreadableOrder
}
