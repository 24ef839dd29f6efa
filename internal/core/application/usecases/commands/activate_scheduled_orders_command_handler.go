package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"
)

// ActivationFailedReasonPrefix starts the cancellation reason of an abandoned scheduled order.
const ActivationFailedReasonPrefix = "scheduled activation failed"

// ActivateScheduledOrdersCommandHandler materializes due scheduled orders.
//
// For each due order the payload items are resolved exactly as immediate creation
// does (synthesizing marketplace products), a card payment reference is confirmed,
// and the order flips to pending with its items in one version-checked update.
//
// A scheduled order that fails to materialize is cancelled, without fee or penalty,
// and never retried. Transient storage errors are the exception: they abort the tick
// with the order still scheduled, because the record was not at fault.
type ActivateScheduledOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	resolver   *MarketplaceResolver
	payments   ports.PaymentGateway
	effects    SideEffects
	transient  ports.TransientErrorClassifier
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewActivateScheduledOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	resolver *MarketplaceResolver,
	payments ports.PaymentGateway,
	effects SideEffects,
	transient ports.TransientErrorClassifier,
	clock kernel.Clock,
	logger *slog.Logger,
) ActivateScheduledOrdersCommandHandler {
	return ActivateScheduledOrdersCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		payments:   payments,
		effects:    effects,
		transient:  transient,
		clock:      clock,
		logger:     logger.With("component", "activate_scheduled_orders"),
	}
}

// Handle processes every due order.
func (h *ActivateScheduledOrdersCommandHandler) Handle(ctx context.Context, cmd ActivateScheduledOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	due, err := h.uowFactory.Create().OrderRepository().FindDueScheduled(ctx, now)
	if err != nil {
		return err
	}

	for _, bad := range due.Unreadable {
		h.logger.ErrorContext(ctx, "scheduled order is unreadable",
			"order_id", bad.ID.String(),
			"error", bad.Err)
		if err = h.abandonUnreadable(ctx, bad, now); err != nil {
			if isTransient(h.transient, err) {
				return err
			}
			h.logger.ErrorContext(ctx, "failed to cancel scheduled order",
				"order_id", bad.ID.String(),
				"error", err)
		}
	}

	for _, o := range due.Orders {
		if !o.IsDue(now) {
			continue
		}

		err = h.activate(ctx, o, now)
		if err == nil {
			h.logger.InfoContext(ctx, "scheduled order activated", "order_id", o.ID().String())
			h.effects.activated(o).Run(ctx, h.logger, o)
			continue
		}

		if isTransient(h.transient, err) {
			return err
		}
		if errors.Is(err, errs.ErrVersionConflict) {
			h.logger.InfoContext(ctx, "scheduled order changed concurrently, skipped", "order_id", o.ID().String())
			continue
		}

		h.logger.ErrorContext(ctx, "scheduled order could not be materialized",
			"order_id", o.ID().String(),
			"error", err)
		if err = h.abandon(ctx, o.ID(), err, now); err != nil {
			if isTransient(h.transient, err) {
				return err
			}
			h.logger.ErrorContext(ctx, "failed to cancel scheduled order",
				"order_id", o.ID().String(),
				"error", err)
		}
	}

	return nil
}

func (h *ActivateScheduledOrdersCommandHandler) activate(ctx context.Context, o *order.Order, now time.Time) error {
	payload := o.Payload()
	if payload == nil {
		return errs.NewValueIsRequiredError("scheduledPayload")
	}

	restaurant, err := h.resolver.ResolveRestaurant(ctx, o.RestaurantID())
	if err != nil {
		return err
	}

	items, err := h.resolver.ResolveItems(ctx, restaurant.ID, payload.Items, true)
	if err != nil {
		return err
	}

	if payload.PaymentMethod == order.PaymentCard && payload.PaymentReference != "" {
		if err = confirmPayment(ctx, h.payments, payload.PaymentReference); err != nil {
			return err
		}
	}

	if err = o.Activate(items, now); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// abandon reloads the order and cancels it if it is still scheduled. The penalty
// returned by Cancel is discarded: the customer did not cancel.
func (h *ActivateScheduledOrdersCommandHandler) abandon(ctx context.Context, id kernel.UUID, cause error, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status() != order.Scheduled {
		return nil
	}

	if _, err = o.Cancel(fmt.Sprintf("%s: %v", ActivationFailedReasonPrefix, cause), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	PostCommitHooks{h.effects.publishStatusChange(o, "")}.Run(ctx, h.logger, o)
	return nil
}

// abandonUnreadable cancels a row that could not be loaded. Only the order id is
// known, so subscribers get a bare status_change.
func (h *ActivateScheduledOrdersCommandHandler) abandonUnreadable(ctx context.Context, bad ports.UnreadableOrder, now time.Time) error {
	reason := fmt.Sprintf("%s: %v", ActivationFailedReasonPrefix, bad.Err)
	if err := h.uowFactory.Create().OrderRepository().AbandonScheduled(ctx, bad.ID, reason, now); err != nil {
		return err
	}

	if h.effects.Notifier == nil {
		return nil
	}
	if err := h.effects.Notifier.StatusChangedByID(ctx, bad.ID, order.Cancelled); err != nil {
		h.logger.WarnContext(ctx, "post-commit hook failed",
			"hook", "publish_status_change",
			"order_id", bad.ID.String(),
			"error", err)
	}
	return nil
}
