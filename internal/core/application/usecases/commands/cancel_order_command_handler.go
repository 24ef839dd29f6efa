package commands

import (
	"context"
	"log/slog"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order on behalf of its owner.
// The order update and the penalty accrual commit in one transaction; the
// notification pair and the support report follow as post-commit hooks.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	effects    SideEffects
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	effects SideEffects,
	clock kernel.Clock,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
		logger:     logger.With("component", "cancel_order"),
	}
}

// Handle rejects foreign, delivered and already cancelled orders. On success the
// order carries cancelledAt, the reason and (from on_the_way only) the fee, and the
// owner's pending penalty has grown by five percent of the total.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	previous := o.Status()
	outcome, err := o.Cancel(cmd.Reason(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if !outcome.Penalty.IsZero() {
		if err = uow.UserRepository().AccruePendingPenalty(ctx, o.UserID(), outcome.Penalty); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	PostCommitHooks{
		h.effects.publishUpdate(o, ""),
		h.effects.reportCancellation(ports.CancellationReport{
			OrderID:        o.ID(),
			UserID:         o.UserID(),
			PreviousStatus: previous,
			Reason:         o.CancellationReason(),
			Total:          o.Total(),
			Fee:            outcome.Fee,
			Penalty:        outcome.Penalty,
			CancelledAt:    *o.CancelledAt(),
		}),
	}.Run(ctx, h.logger, o)

	return o, nil
}
