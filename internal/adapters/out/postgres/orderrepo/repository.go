package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes every column of the aggregate if the stored version still equals
// aggregate.Version(), then bumps the aggregate's version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	expected := dto.Version
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionConflictError("order", aggregate.ID().String(), expected)
	}

	aggregate.BumpVersion()
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindInFlight retrieves up to limit orders the status scheduler may advance, oldest first.
// Unreadable rows are skipped and the scan continues past them until limit orders are
// collected or the table is exhausted.
func (r *GormOrderRepository) FindInFlight(ctx context.Context, limit int) (ports.OrderBatch, error) {
	if limit <= 0 {
		return ports.OrderBatch{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var batch ports.OrderBatch
	for offset := 0; len(batch.Orders) < limit; offset += limit {
		var dtos []OrderDTO
		err := r.db.WithContext(ctx).
			Where("status IN ?", statusStrings(order.InFlightStatuses())).
			Order("created_at ASC").
			Order("id ASC").
			Offset(offset).
			Limit(limit).
			Find(&dtos).Error
		if err != nil {
			return ports.OrderBatch{}, err
		}

		for _, dto := range dtos {
			if len(batch.Orders) == limit {
				break
			}
			collect(&batch, dto)
		}
		if len(dtos) < limit {
			break
		}
	}

	return batch, nil
}

// FindDueScheduled retrieves every scheduled order whose activation time has passed.
func (r *GormOrderRepository) FindDueScheduled(ctx context.Context, now time.Time) (ports.OrderBatch, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("is_scheduled = ? AND status = ? AND scheduled_for <= ?", true, order.Scheduled.String(), now.UTC()).
		Order("scheduled_for ASC").
		Find(&dtos).Error
	if err != nil {
		return ports.OrderBatch{}, err
	}

	var batch ports.OrderBatch
	for _, dto := range dtos {
		collect(&batch, dto)
	}
	return batch, nil
}

// AbandonScheduled cancels a scheduled row in place. No fee is recorded.
func (r *GormOrderRepository) AbandonScheduled(ctx context.Context, id kernel.UUID, reason string, at time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}

	at = at.UTC()
	return r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), order.Scheduled.String()).
		Updates(map[string]any{
			"status":              order.Cancelled.String(),
			"cancellation_reason": reason,
			"cancelled_at":        at,
			"updated_at":          at,
			"version":             gorm.Expr("version + 1"),
		}).Error
}

func collect(batch *ports.OrderBatch, dto OrderDTO) {
	o, err := toDomain(dto)
	if err != nil {
		id, _ := kernel.UUIDFromBytes(dto.ID[:])
		batch.Unreadable = append(batch.Unreadable, ports.UnreadableOrder{ID: id, Err: err})
		return
	}
	batch.Orders = append(batch.Orders, o)
}

func statusStrings(statuses []order.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
