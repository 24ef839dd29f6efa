package catalogrepo

import (
	"context"
	"errors"
	"strings"

	"orderlifecycle/internal/core/domain/model/catalog"
	"orderlifecycle/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository implements ports.CatalogRepository using GORM.
// The Ensure methods are insert-if-absent and safe to repeat.
type GormCatalogRepository struct {
	db func() *gorm.DB
}

// NewGormCatalogRepository creates a catalog repository. db is asked for the
// current handle on every call.
func NewGormCatalogRepository(db func() *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetRestaurant(ctx context.Context, id string) (catalog.Restaurant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Restaurant{}, errs.NewValueIsRequiredError("restaurantId")
	}

	var dto RestaurantDTO
	if err := r.db().WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Restaurant{}, errs.NewObjectNotFoundError("restaurant", id)
		}
		return catalog.Restaurant{}, err
	}
	return restaurantToDomain(dto), nil
}

func (r *GormCatalogRepository) EnsureRestaurant(ctx context.Context, restaurant catalog.Restaurant) (catalog.Restaurant, error) {
	dto := restaurantFromDomain(restaurant)
	err := r.db().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return catalog.Restaurant{}, err
	}
	return r.GetRestaurant(ctx, restaurant.ID)
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Product{}, errs.NewValueIsRequiredError("productId")
	}

	var dto ProductDTO
	if err := r.db().WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Product{}, errs.NewObjectNotFoundError("product", id)
		}
		return catalog.Product{}, err
	}
	return productToDomain(dto), nil
}

func (r *GormCatalogRepository) EnsureProduct(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	dto := productFromDomain(product)
	err := r.db().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return catalog.Product{}, err
	}
	return r.GetProduct(ctx, product.ID)
}
