// Package referralrepo completes pending referrals when the referred user places an order.
package referralrepo

import (
	"context"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ReferralDTO links a referrer to the user they invited.
type ReferralDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferrerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	ReferredUserID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Status         string     `gorm:"not null"`
	OrderID        *uuid.UUID `gorm:"type:uuid"`
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

// TableName specifies the database table name for referrals.
func (ReferralDTO) TableName() string {
	return "referrals"
}

// GormReferralHook implements ports.ReferralHook.
type GormReferralHook struct {
	db    func() *gorm.DB
	clock kernel.Clock
}

func NewGormReferralHook(db func() *gorm.DB, clock kernel.Clock) *GormReferralHook {
	return &GormReferralHook{db: db, clock: clock}
}

// CompleteFirstOrder marks the user's pending referral as completed by orderID.
// Users without a pending referral are a no-op.
func (h *GormReferralHook) CompleteFirstOrder(ctx context.Context, userID, orderID kernel.UUID) error {
	completedAt := h.clock.Now()
	oid := orderID.Bytes()
	return h.db().WithContext(ctx).
		Model(&ReferralDTO{}).
		Where("referred_user_id = ? AND status = ?", userID.Bytes(), StatusPending).
		Updates(map[string]any{
			"status":       StatusCompleted,
			"order_id":     &oid,
			"completed_at": completedAt,
		}).Error
}
