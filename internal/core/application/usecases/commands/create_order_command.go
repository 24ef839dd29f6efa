package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"
	"orderlifecycle/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one line item is required")
)

// CreateOrderRequest is the client's order as received by an inbound adapter.
// Amounts are minor units. A nil ScheduledFor places an immediate order.
type CreateOrderRequest struct {
	RestaurantID     string
	Items            []order.RequestedItem
	DeliveryAddress  string
	PaymentMethod    order.PaymentMethod
	PaymentReference string
	CouponCode       string
	Tip              int64
	ScheduledFor     *time.Time
}

// CreateOrderCommand represents a request to place an immediate or scheduled order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(userID, CreateOrderRequest{
//	    RestaurantID:  "marketplace",
//	    Items:         []order.RequestedItem{{ProductID: "sku-1", Quantity: 2, UnitPrice: 1250}},
//	    PaymentMethod: order.PaymentCash,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID           kernel.UUID
	restaurantID     string
	items            []order.RequestedItem
	deliveryAddress  string
	paymentMethod    order.PaymentMethod
	paymentReference string
	couponCode       string
	tip              kernel.Money
	scheduledFor     *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. The scheduling window depends
// on the current time and is checked by the handler.
func NewCreateOrderCommand(userID kernel.UUID, req CreateOrderRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard:            guard.NewConstructorGuard(),
		deliveryAddress:  strings.TrimSpace(req.DeliveryAddress),
		paymentReference: strings.TrimSpace(req.PaymentReference),
		couponCode:       strings.TrimSpace(req.CouponCode),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setRestaurantID(req.RestaurantID),
		cmd.setItems(req.Items),
		cmd.setPaymentMethod(req.PaymentMethod),
		cmd.setTip(req.Tip),
		cmd.setScheduledFor(req.ScheduledFor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) RestaurantID() string {
	return c.restaurantID
}

// Items returns a copy of the requested items.
func (c CreateOrderCommand) Items() []order.RequestedItem {
	return append([]order.RequestedItem(nil), c.items...)
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) PaymentReference() string {
	return c.paymentReference
}

func (c CreateOrderCommand) CouponCode() string {
	return c.couponCode
}

func (c CreateOrderCommand) Tip() kernel.Money {
	return c.tip
}

// ScheduledFor returns the activation time, nil for an immediate order.
func (c CreateOrderCommand) ScheduledFor() *time.Time {
	return c.scheduledFor
}

// IsScheduled reports whether the order is deferred.
func (c CreateOrderCommand) IsScheduled() bool {
	return c.scheduledFor != nil
}

// RequiresPaymentConfirmation is true for immediate card orders carrying a reference.
func (c CreateOrderCommand) RequiresPaymentConfirmation() bool {
	return !c.IsScheduled() && c.paymentMethod == order.PaymentCard && c.paymentReference != ""
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID string) error {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return errs.NewValueIsRequiredError("restaurantId")
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.RequestedItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	var errList []error
	for idx, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", idx)))
		}
		if item.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", idx), item.Quantity, 1, "unbounded"))
		}
		if item.UnitPrice < 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].unitPrice", idx), item.UnitPrice, 0, "unbounded"))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.items = append([]order.RequestedItem(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setTip(tip int64) error {
	amount, err := kernel.NewMoney(tip)
	if err != nil {
		return errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}

	c.tip = amount
	return nil
}

func (c *CreateOrderCommand) setScheduledFor(scheduledFor *time.Time) error {
	if scheduledFor == nil {
		return nil
	}
	if scheduledFor.IsZero() {
		return errs.NewValueIsRequiredError("scheduledFor")
	}

	at := scheduledFor.UTC()
	c.scheduledFor = &at
	return nil
}
