package order

import (
	"errors"
	"strings"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"
)

// LineItem is one priced product on a materialized order.
type LineItem struct {
	productID string
	name      string
	quantity  int
	unitPrice kernel.Money
}

// NewLineItem validates and builds a line item.
func NewLineItem(productID, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	var errList []error
	if strings.TrimSpace(productID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productId"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded"))
	}
	if err := unitPrice.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		productID: strings.TrimSpace(productID),
		name:      strings.TrimSpace(name),
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

func (i LineItem) ProductID() string {
	return i.productID
}

func (i LineItem) Name() string {
	return i.name
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Total is unitPrice × quantity.
func (i LineItem) Total() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}

// Subtotal sums the totals of items.
func Subtotal(items []LineItem) kernel.Money {
	var sum kernel.Money
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}
