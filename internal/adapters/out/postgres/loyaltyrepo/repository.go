// Package loyaltyrepo is the loyalty ledger: one row per award, unique per order and reason.
package loyaltyrepo

import (
	"context"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyEntryDTO is one ledger row.
type LoyaltyEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	OrderID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_loyalty_order_reason;not null"`
	Reason    string    `gorm:"uniqueIndex:idx_loyalty_order_reason;not null"`
	Points    int64     `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for ledger entries.
func (LoyaltyEntryDTO) TableName() string {
	return "loyalty_entries"
}

// GormLoyaltyLedger implements ports.LoyaltyLedger.
type GormLoyaltyLedger struct {
	db func() *gorm.DB
}

func NewGormLoyaltyLedger(db func() *gorm.DB) *GormLoyaltyLedger {
	return &GormLoyaltyLedger{db: db}
}

// AddPoints records an award. A second award for the same order and reason is ignored.
func (l *GormLoyaltyLedger) AddPoints(ctx context.Context, userID kernel.UUID, points int64, reason string, orderID kernel.UUID) error {
	if points <= 0 {
		return errs.NewValueIsOutOfRangeError("points", points, 1, "unbounded")
	}

	entry := LoyaltyEntryDTO{
		ID:      kernel.NewUUID().Bytes(),
		UserID:  userID.Bytes(),
		OrderID: orderID.Bytes(),
		Reason:  reason,
		Points:  points,
	}
	return l.db().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// Balance sums a user's points.
func (l *GormLoyaltyLedger) Balance(ctx context.Context, userID kernel.UUID) (int64, error) {
	var total int64
	err := l.db().WithContext(ctx).
		Model(&LoyaltyEntryDTO{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID.Bytes()).
		Scan(&total).Error
	return total, err
}
