package ports

import (
	"context"

	"orderlifecycle/internal/core/domain/model/catalog"
)

// CatalogRepository reads and idempotently creates restaurants and products.
type CatalogRepository interface {
	// GetRestaurant returns errs.ObjectNotFoundError for an unknown id.
	GetRestaurant(ctx context.Context, id string) (catalog.Restaurant, error)

	// EnsureRestaurant inserts r unless a record with the same id exists, and returns the stored record.
	EnsureRestaurant(ctx context.Context, r catalog.Restaurant) (catalog.Restaurant, error)

	// GetProduct returns errs.ObjectNotFoundError for an unknown id.
	GetProduct(ctx context.Context, id string) (catalog.Product, error)

	// EnsureProduct inserts p unless a record with the same id exists, and returns the stored record.
	EnsureProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
}
