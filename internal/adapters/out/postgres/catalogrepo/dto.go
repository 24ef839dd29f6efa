// Package catalogrepo stores restaurants and products, including the synthetic
// marketplace records created on demand.
package catalogrepo

import (
	"time"

	"orderlifecycle/internal/core/domain/model/catalog"
	"orderlifecycle/internal/core/domain/model/kernel"
)

// RestaurantDTO represents a restaurant row.
type RestaurantDTO struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	IsSynthetic bool   `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName specifies the database table name for restaurants.
func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// ProductDTO represents a product row. Price is in minor units.
type ProductDTO struct {
	ID           string `gorm:"primaryKey"`
	RestaurantID string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Price        int64  `gorm:"not null"`
	IsSynthetic  bool   `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

func restaurantFromDomain(r catalog.Restaurant) RestaurantDTO {
	return RestaurantDTO{ID: r.ID, Name: r.Name, IsSynthetic: r.IsSynthetic}
}

func restaurantToDomain(dto RestaurantDTO) catalog.Restaurant {
	return catalog.Restaurant{ID: dto.ID, Name: dto.Name, IsSynthetic: dto.IsSynthetic}
}

func productFromDomain(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		RestaurantID: p.RestaurantID,
		Name:         p.Name,
		Price:        p.Price.Minor(),
		IsSynthetic:  p.IsSynthetic,
	}
}

func productToDomain(dto ProductDTO) catalog.Product {
	return catalog.Product{
		ID:           dto.ID,
		RestaurantID: dto.RestaurantID,
		Name:         dto.Name,
		Price:        kernel.Money(dto.Price),
		IsSynthetic:  dto.IsSynthetic,
	}
}
