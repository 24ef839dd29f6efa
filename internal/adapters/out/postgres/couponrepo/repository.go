// Package couponrepo evaluates coupon codes stored in the coupons table.
package couponrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coupon kinds.
const (
	KindPercent = "percent"
	KindFixed   = "fixed"
)

// CouponDTO represents a coupon row. Value is basis points for percent coupons
// and minor units for fixed ones. An empty RestaurantID applies everywhere.
type CouponDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code         string    `gorm:"uniqueIndex;not null"`
	Kind         string    `gorm:"not null"`
	Value        int64     `gorm:"not null"`
	MinSubtotal  int64     `gorm:"not null"`
	RestaurantID string
	Active       bool `gorm:"not null"`
	StartsAt     *time.Time
	EndsAt       *time.Time
	CreatedAt    time.Time
}

// TableName specifies the database table name for coupons.
func (CouponDTO) TableName() string {
	return "coupons"
}

// GormCouponEvaluator implements ports.DiscountEvaluator.
type GormCouponEvaluator struct {
	db    func() *gorm.DB
	clock kernel.Clock
}

func NewGormCouponEvaluator(db func() *gorm.DB, clock kernel.Clock) *GormCouponEvaluator {
	return &GormCouponEvaluator{db: db, clock: clock}
}

// Validate looks the code up case-insensitively and computes the discount for subtotal.
// The caller clamps the amount to the subtotal.
func (e *GormCouponEvaluator) Validate(
	ctx context.Context,
	code string,
	_ kernel.UUID,
	subtotal kernel.Money,
	restaurantID string,
) (ports.Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ports.Discount{}, errs.NewValueIsRequiredError("couponCode")
	}

	var dto CouponDTO
	if err := e.db().WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Discount{}, errs.NewObjectNotFoundError("coupon", code)
		}
		return ports.Discount{}, err
	}

	if err := e.check(dto, subtotal, restaurantID); err != nil {
		return ports.Discount{}, err
	}

	var amount kernel.Money
	switch dto.Kind {
	case KindPercent:
		amount = subtotal.Percent(float64(dto.Value) / 10000)
	case KindFixed:
		amount = kernel.Money(dto.Value)
	default:
		return ports.Discount{}, errs.NewValueIsInvalidErrorWithCause("couponKind", fmt.Errorf("unknown kind %q", dto.Kind))
	}

	return ports.Discount{Amount: amount.Min(subtotal), CouponID: dto.ID.String()}, nil
}

func (e *GormCouponEvaluator) check(dto CouponDTO, subtotal kernel.Money, restaurantID string) error {
	now := e.clock.Now()
	switch {
	case !dto.Active:
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New("coupon is inactive"))
	case dto.StartsAt != nil && now.Before(*dto.StartsAt):
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New("coupon is not active yet"))
	case dto.EndsAt != nil && now.After(*dto.EndsAt):
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New("coupon has expired"))
	case dto.RestaurantID != "" && !strings.EqualFold(dto.RestaurantID, restaurantID):
		return errs.NewValueIsInvalidErrorWithCause("couponCode", errors.New("coupon does not apply to this restaurant"))
	case subtotal.Minor() < dto.MinSubtotal:
		return errs.NewValueIsOutOfRangeError("subtotal", subtotal.Minor(), dto.MinSubtotal, "unbounded")
	}
	return nil
}
