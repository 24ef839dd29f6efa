package queries

import (
	"context"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads order summaries straight from the orders table.
type GetActiveOrdersQueryHandler struct {
	db func() *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates the handler. db is asked for the
// current handle on every call.
func NewGetActiveOrdersQueryHandler(db func() *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the user's non-terminal orders, newest first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db().WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id,
			status,
			total,
			is_scheduled,
			scheduled_for,
			created_at,
			updated_at
		FROM orders
		WHERE user_id = ? AND status NOT IN ?
		ORDER BY created_at DESC
	`, query.UserID().Bytes(), []string{order.Delivered.String(), order.Cancelled.String()}).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp         GetActiveOrdersQueryResponse
			id           uuid.UUID
			status       string
			total        int64
			scheduledFor *time.Time
		)

		err = rows.Scan(
			&id,
			&resp.RestaurantID,
			&status,
			&total,
			&resp.IsScheduled,
			&scheduledFor,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		resp.Status, err = order.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		resp.Total = kernel.Money(total)
		resp.ScheduledFor = scheduledFor
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
