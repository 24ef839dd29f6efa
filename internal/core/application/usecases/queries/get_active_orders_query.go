package queries

import (
	"errors"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists a user's orders that are not yet delivered or cancelled,
// including scheduled ones, newest first.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(userID)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for userID's active orders.
func NewGetActiveOrdersQuery(userID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	return GetActiveOrdersQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) UserID() kernel.UUID {
	return q.userID
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse is the summary row of one active order.
type GetActiveOrdersQueryResponse struct {
	ID           kernel.UUID
	RestaurantID string
	Status       order.Status
	Total        kernel.Money
	IsScheduled  bool
	ScheduledFor *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
