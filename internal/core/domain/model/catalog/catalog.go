// Package catalog holds the restaurant and product records an order is priced against.
package catalog

import (
	"errors"
	"strings"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"
)

// MarketplaceRestaurantID is the pseudo-restaurant that accepts products not yet in the catalog.
const MarketplaceRestaurantID = "marketplace"

// Restaurant is a seller orders are placed against.
type Restaurant struct {
	ID          string
	Name        string
	IsSynthetic bool
}

// NewMarketplaceRestaurant builds the synthetic record created on first marketplace use.
func NewMarketplaceRestaurant() Restaurant {
	return Restaurant{ID: MarketplaceRestaurantID, Name: "Marketplace", IsSynthetic: true}
}

// IsMarketplace reports whether restaurantID targets the marketplace pseudo-restaurant.
func IsMarketplace(restaurantID string) bool {
	return strings.EqualFold(strings.TrimSpace(restaurantID), MarketplaceRestaurantID)
}

// Product is a priced catalog entry.
type Product struct {
	ID           string
	RestaurantID string
	Name         string
	Price        kernel.Money
	IsSynthetic  bool
}

// NewSyntheticProduct builds a marketplace product from client-supplied data.
func NewSyntheticProduct(id, name string, price kernel.Money) (Product, error) {
	var errList []error
	if strings.TrimSpace(id) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productId"))
	}
	if err := price.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Product{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = id
	}
	return Product{
		ID:           strings.TrimSpace(id),
		RestaurantID: MarketplaceRestaurantID,
		Name:         strings.TrimSpace(name),
		Price:        price,
		IsSynthetic:  true,
	}, nil
}
