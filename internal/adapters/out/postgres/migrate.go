package postgres

import (
	"context"

	"orderlifecycle/internal/adapters/out/postgres/catalogrepo"
	"orderlifecycle/internal/adapters/out/postgres/couponrepo"
	"orderlifecycle/internal/adapters/out/postgres/loyaltyrepo"
	"orderlifecycle/internal/adapters/out/postgres/orderrepo"
	"orderlifecycle/internal/adapters/out/postgres/referralrepo"
	"orderlifecycle/internal/adapters/out/postgres/reportrepo"
	"orderlifecycle/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&userrepo.UserDTO{},
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.ProductDTO{},
		&couponrepo.CouponDTO{},
		&loyaltyrepo.LoyaltyEntryDTO{},
		&referralrepo.ReferralDTO{},
		&reportrepo.CancellationReportDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
