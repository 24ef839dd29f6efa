package commands

import (
	"context"
	"log/slog"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies a manual transition and publishes the same
// order_update + status_change pair as the status scheduler.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	effects SideEffects,
	clock kernel.Clock,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		logger:     logger.With("component", "update_order_status"),
	}
}

// Handle returns errs.ForbiddenError for a foreign order, order.ErrTransitionNotAllowed
// for anything other than the next forward edge or cancellation, and
// errs.VersionConflictError when the scheduler wrote the order first.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(cmd.UserID()) {
		return nil, errs.NewForbiddenError("order", cmd.UserID().String())
	}

	if err = o.OverrideStatus(cmd.Status(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	PostCommitHooks{h.effects.publishUpdate(o, "")}.Run(ctx, h.logger, o)
	return o, nil
}
