package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/domain/services"
	"orderlifecycle/internal/core/ports"
)

// ErrPaymentNotConfirmed is returned when the gateway does not confirm a card payment.
var ErrPaymentNotConfirmed = errors.New("payment not confirmed")

// CreateOrderCommandHandler places immediate and scheduled orders.
//
// Immediate orders: catalog resolution (synthesizing marketplace products), pricing,
// card confirmation, then one transaction that consumes the user's pending penalty
// and inserts the order. Loyalty points, notifications and referral completion run
// afterwards as post-commit hooks.
//
// Scheduled orders: the same resolution and pricing without synthesis, no penalty,
// no payment confirmation and no hooks. Those happen at activation.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, resolver, calc, coupons, payments, effects, clock, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	resolver   *MarketplaceResolver
	calculator services.PriceCalculator
	discounts  ports.DiscountEvaluator
	payments   ports.PaymentGateway
	effects    SideEffects
	clock      kernel.Clock
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// discounts may be nil when coupons are disabled.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	resolver *MarketplaceResolver,
	calculator services.PriceCalculator,
	discounts ports.DiscountEvaluator,
	payments ports.PaymentGateway,
	effects SideEffects,
	clock kernel.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		calculator: calculator,
		discounts:  discounts,
		payments:   payments,
		effects:    effects,
		clock:      clock,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle validates, prices and persists the order, returning the stored aggregate.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if cmd.IsScheduled() {
		if err := order.ValidateScheduledFor(*cmd.ScheduledFor(), now); err != nil {
			return nil, err
		}
	}

	restaurant, err := h.resolver.ResolveRestaurant(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}

	items, err := h.resolver.ResolveItems(ctx, restaurant.ID, cmd.Items(), !cmd.IsScheduled())
	if err != nil {
		return nil, err
	}

	discount := h.evaluateCoupon(ctx, cmd, restaurant.ID, order.Subtotal(items))
	pricing := h.calculator.Quote(items, cmd.Tip(), discount.Amount)

	if cmd.RequiresPaymentConfirmation() {
		if err = h.confirmPayment(ctx, cmd.PaymentReference()); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if !cmd.IsScheduled() {
		penalty, consumeErr := uow.UserRepository().ConsumePendingPenalty(ctx, cmd.UserID())
		if consumeErr != nil {
			return nil, consumeErr
		}
		pricing = h.calculator.WithPenalty(pricing, penalty)
	}

	draft := order.Draft{
		ID:               kernel.NewUUID(),
		UserID:           cmd.UserID(),
		RestaurantID:     restaurant.ID,
		DeliveryAddress:  cmd.DeliveryAddress(),
		PaymentMethod:    cmd.PaymentMethod(),
		PaymentReference: cmd.PaymentReference(),
		CouponID:         discount.CouponID,
		Pricing:          pricing,
		CreatedAt:        now,
	}

	var o *order.Order
	if cmd.IsScheduled() {
		o, err = order.NewScheduledOrder(draft, *cmd.ScheduledFor(), order.ScheduledPayload{
			Items:            cmd.Items(),
			DeliveryAddress:  cmd.DeliveryAddress(),
			PaymentMethod:    cmd.PaymentMethod(),
			PaymentReference: cmd.PaymentReference(),
		})
	} else {
		o, err = order.NewImmediateOrder(draft, items)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if !o.IsScheduled() {
		h.effects.placed(o).Run(ctx, h.logger, o)
	}

	return o, nil
}

// evaluateCoupon never fails the order: any rejection means no discount.
func (h *CreateOrderCommandHandler) evaluateCoupon(
	ctx context.Context,
	cmd CreateOrderCommand,
	restaurantID string,
	subtotal kernel.Money,
) ports.Discount {
	if cmd.CouponCode() == "" || h.discounts == nil {
		return ports.Discount{}
	}

	discount, err := h.discounts.Validate(ctx, cmd.CouponCode(), cmd.UserID(), subtotal, restaurantID)
	if err != nil {
		h.logger.InfoContext(ctx, "coupon not applied",
			"user_id", cmd.UserID().String(),
			"coupon", cmd.CouponCode(),
			"error", err)
		return ports.Discount{}
	}
	return discount
}

func (h *CreateOrderCommandHandler) confirmPayment(ctx context.Context, reference string) error {
	return confirmPayment(ctx, h.payments, reference)
}

func confirmPayment(ctx context.Context, payments ports.PaymentGateway, reference string) error {
	if payments == nil {
		return fmt.Errorf("%w: no payment gateway configured", ErrPaymentNotConfirmed)
	}

	result, err := payments.Confirm(ctx, reference)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPaymentNotConfirmed, err)
	}
	if !result.Succeeded {
		return fmt.Errorf("%w: payment %s is %s", ErrPaymentNotConfirmed, reference, result.Status)
	}
	return nil
}
