package services

import (
	"errors"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"
)

const (
	// DefaultDeliveryFee is the flat fee added to every order, in minor units.
	DefaultDeliveryFee kernel.Money = 299

	// DefaultTaxRate is applied to the subtotal.
	DefaultTaxRate = 0.08
)

// PriceCalculator computes the monetary snapshot of a new order.
//
// Business rules:
//   - subtotal is the sum of unitPrice × quantity over the items
//   - tax is subtotal × taxRate, rounded to the nearest minor unit
//   - the discount never exceeds the subtotal
//   - total = subtotal + deliveryFee + tax + tip − discount (+ penalty for immediate orders)
//
// Example usage:
//
//	calc, _ := services.NewPriceCalculator(services.DefaultDeliveryFee, services.DefaultTaxRate)
//	pricing := calc.Quote(items, tip, discount)
//	pricing = calc.WithPenalty(pricing, pendingPenalty)
type PriceCalculator struct {
	deliveryFee kernel.Money
	taxRate     float64
}

// NewPriceCalculator validates the fee and rate.
func NewPriceCalculator(deliveryFee kernel.Money, taxRate float64) (PriceCalculator, error) {
	var errList []error
	if err := deliveryFee.Validate(); err != nil {
		errList = append(errList, err)
	}
	if taxRate < 0 || taxRate > 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("taxRate", taxRate, 0, 1))
	}
	if err := errors.Join(errList...); err != nil {
		return PriceCalculator{}, err
	}

	return PriceCalculator{deliveryFee: deliveryFee, taxRate: taxRate}, nil
}

func (c PriceCalculator) DeliveryFee() kernel.Money {
	return c.deliveryFee
}

func (c PriceCalculator) TaxRate() float64 {
	return c.taxRate
}

// Quote prices items without any penalty.
func (c PriceCalculator) Quote(items []order.LineItem, tip, discount kernel.Money) order.Pricing {
	subtotal := order.Subtotal(items)
	discount = discount.Min(subtotal)
	if discount < 0 {
		discount = kernel.Zero
	}
	if tip < 0 {
		tip = kernel.Zero
	}

	p := order.Pricing{
		Subtotal:    subtotal,
		DeliveryFee: c.deliveryFee,
		Tax:         subtotal.Percent(c.taxRate),
		Tip:         tip,
		Discount:    discount,
	}
	p.Total = p.Subtotal.Add(p.DeliveryFee).Add(p.Tax).Add(p.Tip).Sub(p.Discount)
	return p
}

// WithPenalty folds a consumed penalty balance into the total.
func (c PriceCalculator) WithPenalty(p order.Pricing, penalty kernel.Money) order.Pricing {
	if penalty <= 0 {
		return p
	}
	p.Penalty = p.Penalty.Add(penalty)
	p.Total = p.Total.Add(penalty)
	return p
}
