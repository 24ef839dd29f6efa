// Package userrepo stores the per-user pending penalty balance.
package userrepo

import (
	"context"
	"errors"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserDTO is the slice of the users table this service owns.
type UserDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PendingPenalty int64     `gorm:"not null"`
	UpdatedAt      time.Time
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// ConsumePendingPenalty locks the user row, returns its balance and zeroes it.
// It must run inside the transaction that inserts the order.
func (r *GormUserRepository) ConsumePendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	if err := userID.Validate(); err != nil {
		return 0, err
	}

	var dto UserDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", userID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if dto.PendingPenalty == 0 {
		return 0, nil
	}

	err = r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ?", dto.ID).
		Update("pending_penalty", 0).Error
	if err != nil {
		return 0, err
	}
	return kernel.Money(dto.PendingPenalty), nil
}

// AccruePendingPenalty adds amount with a single upsert so concurrent cancellations
// never lose an increment.
func (r *GormUserRepository) AccruePendingPenalty(ctx context.Context, userID kernel.UUID, amount kernel.Money) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	dto := UserDTO{ID: userID.Bytes(), PendingPenalty: amount.Minor()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"pending_penalty": gorm.Expr("users.pending_penalty + EXCLUDED.pending_penalty"),
				"updated_at":      gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(&dto).Error
}

// GetPendingPenalty reads the balance; an unknown user owes nothing.
func (r *GormUserRepository) GetPendingPenalty(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	if err := userID.Validate(); err != nil {
		return 0, err
	}

	var dto UserDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", userID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if dto.PendingPenalty < 0 {
		return 0, errs.NewValueIsOutOfRangeError("pendingPenalty", dto.PendingPenalty, 0, "unbounded")
	}
	return kernel.Money(dto.PendingPenalty), nil
}
