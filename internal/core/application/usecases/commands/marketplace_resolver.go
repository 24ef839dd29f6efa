package commands

import (
	"context"
	"errors"
	"fmt"

	"orderlifecycle/internal/core/domain/model/catalog"
	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"
)

// MarketplaceResolver is the ensure-exists step run before the transactional write,
// shared by immediate creation and scheduled activation. It is idempotent: running it
// twice for the same request creates nothing new.
//
// Example:
//
//	resolver := NewMarketplaceResolver(catalogRepo)
//	restaurant, err := resolver.ResolveRestaurant(ctx, "marketplace")
//	items, err := resolver.ResolveItems(ctx, restaurant.ID, requested, true)
type MarketplaceResolver struct {
	catalog ports.CatalogRepository
}

func NewMarketplaceResolver(catalogRepo ports.CatalogRepository) *MarketplaceResolver {
	return &MarketplaceResolver{catalog: catalogRepo}
}

// ResolveRestaurant returns the target restaurant, creating the synthetic marketplace
// record on first use. Any other unknown restaurant is errs.ObjectNotFoundError.
func (r *MarketplaceResolver) ResolveRestaurant(ctx context.Context, restaurantID string) (catalog.Restaurant, error) {
	if catalog.IsMarketplace(restaurantID) {
		return r.catalog.EnsureRestaurant(ctx, catalog.NewMarketplaceRestaurant())
	}
	return r.catalog.GetRestaurant(ctx, restaurantID)
}

// ResolveItems prices requested items against the catalog. Known products use the
// catalog name and price. Unknown products on the marketplace take the client-supplied
// price and, when synthesize is set, are written to the catalog. Unknown products on a
// regular restaurant are errs.ObjectNotFoundError.
func (r *MarketplaceResolver) ResolveItems(
	ctx context.Context,
	restaurantID string,
	requested []order.RequestedItem,
	synthesize bool,
) ([]order.LineItem, error) {
	if len(requested) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	marketplace := catalog.IsMarketplace(restaurantID)
	items := make([]order.LineItem, 0, len(requested))
	for _, req := range requested {
		product, err := r.resolveProduct(ctx, restaurantID, marketplace, req, synthesize)
		if err != nil {
			return nil, err
		}

		item, err := order.NewLineItem(product.ID, product.Name, req.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *MarketplaceResolver) resolveProduct(
	ctx context.Context,
	restaurantID string,
	marketplace bool,
	req order.RequestedItem,
	synthesize bool,
) (catalog.Product, error) {
	product, err := r.catalog.GetProduct(ctx, req.ProductID)
	if err == nil {
		if !marketplace && product.RestaurantID != restaurantID {
			return catalog.Product{}, errs.NewValueIsInvalidErrorWithCause("productId",
				fmt.Errorf("product %s does not belong to restaurant %s", req.ProductID, restaurantID))
		}
		return product, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) || !marketplace {
		return catalog.Product{}, err
	}

	synthetic, err := catalog.NewSyntheticProduct(req.ProductID, req.Name, kernel.Money(req.UnitPrice))
	if err != nil {
		return catalog.Product{}, err
	}
	if !synthesize {
		return synthetic, nil
	}
	return r.catalog.EnsureProduct(ctx, synthetic)
}
