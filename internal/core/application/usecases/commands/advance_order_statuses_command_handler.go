package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/domain/services"
	"orderlifecycle/internal/core/ports"
	"orderlifecycle/internal/pkg/errs"
)

// AdvanceOrderStatusesCommandHandler runs one tick of the time-driven status walk.
//
// Each tick loads a bounded batch of in-flight orders, oldest first, and moves every
// order whose dwell threshold is met exactly one edge forward. Each order is written
// in its own version-checked transaction, so a concurrent cancellation or manual
// update wins and the order is skipped. Transient storage errors abort the tick and
// are returned; any other per-order failure is logged and the batch continues.
type AdvanceOrderStatusesCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.TransitionPolicy
	effects    SideEffects
	transient  ports.TransientErrorClassifier
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewAdvanceOrderStatusesCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.TransitionPolicy,
	effects SideEffects,
	transient ports.TransientErrorClassifier,
	clock kernel.Clock,
	logger *slog.Logger,
) AdvanceOrderStatusesCommandHandler {
	return AdvanceOrderStatusesCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		effects:    effects,
		transient:  transient,
		clock:      clock,
		logger:     logger.With("component", "advance_order_statuses"),
	}
}

// Handle processes one batch.
func (h *AdvanceOrderStatusesCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	batch, err := h.uowFactory.Create().OrderRepository().FindInFlight(ctx, cmd.BatchSize())
	if err != nil {
		return err
	}

	for _, bad := range batch.Unreadable {
		h.logger.ErrorContext(ctx, "in-flight order is unreadable, skipped",
			"order_id", bad.ID.String(),
			"error", bad.Err)
	}

	for _, o := range batch.Orders {
		if !h.policy.ShouldAdvance(o, now) {
			continue
		}

		from := o.Status()
		if err = h.advance(ctx, o, now); err != nil {
			if isTransient(h.transient, err) {
				return err
			}
			h.logFailure(ctx, o, from, err)
			continue
		}

		h.logger.DebugContext(ctx, "order advanced",
			"order_id", o.ID().String(),
			"from", from.String(),
			"to", o.Status().String())
		PostCommitHooks{h.effects.publishUpdate(o, "")}.Run(ctx, h.logger, o)
	}

	return nil
}

func (h *AdvanceOrderStatusesCommandHandler) advance(ctx context.Context, o *order.Order, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := o.Advance(now); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *AdvanceOrderStatusesCommandHandler) logFailure(ctx context.Context, o *order.Order, from order.Status, err error) {
	if errors.Is(err, errs.ErrVersionConflict) {
		h.logger.InfoContext(ctx, "order changed concurrently, skipped",
			"order_id", o.ID().String(),
			"status", from.String())
		return
	}
	h.logger.ErrorContext(ctx, "failed to advance order",
		"order_id", o.ID().String(),
		"status", from.String(),
		"error", err)
}

func isTransient(classifier ports.TransientErrorClassifier, err error) bool {
	return classifier != nil && classifier.IsTransient(err)
}
