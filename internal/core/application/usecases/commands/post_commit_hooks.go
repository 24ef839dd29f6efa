package commands

import (
	"context"
	"log/slog"

	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/core/ports"
)

// LoyaltyReasonOrderPlaced is the ledger reason recorded for points earned by an order.
const LoyaltyReasonOrderPlaced = "order_placed"

// PostCommitHook is a best-effort side effect run after the primary write committed.
type PostCommitHook struct {
	Name string
	Run  func(ctx context.Context) error
}

// PostCommitHooks run in order. A failing hook is logged and the next one still runs.
type PostCommitHooks []PostCommitHook

// Run executes every hook against o.
func (hooks PostCommitHooks) Run(ctx context.Context, logger *slog.Logger, o *order.Order) {
	for _, hook := range hooks {
		if hook.Run == nil {
			continue
		}
		if err := hook.Run(ctx); err != nil {
			logger.WarnContext(ctx, "post-commit hook failed",
				"hook", hook.Name,
				"order_id", o.ID().String(),
				"error", err)
		}
	}
}

// SideEffects groups the soft collaborators. A nil collaborator turns its hooks into no-ops.
type SideEffects struct {
	Loyalty   ports.LoyaltyLedger
	Referrals ports.ReferralHook
	Notifier  *OrderNotifier
	Support   ports.SupportReporter
}

func (s SideEffects) awardPoints(o *order.Order) PostCommitHook {
	return PostCommitHook{Name: "loyalty_points", Run: func(ctx context.Context) error {
		points := o.Total().WholeUnits()
		if s.Loyalty == nil || points <= 0 {
			return nil
		}
		return s.Loyalty.AddPoints(ctx, o.UserID(), points, LoyaltyReasonOrderPlaced, o.ID())
	}}
}

func (s SideEffects) completeReferral(o *order.Order) PostCommitHook {
	return PostCommitHook{Name: "referral_completion", Run: func(ctx context.Context) error {
		if s.Referrals == nil {
			return nil
		}
		return s.Referrals.CompleteFirstOrder(ctx, o.UserID(), o.ID())
	}}
}

func (s SideEffects) publishCreated(o *order.Order) PostCommitHook {
	return PostCommitHook{Name: "publish_created", Run: func(ctx context.Context) error {
		if s.Notifier == nil {
			return nil
		}
		return s.Notifier.Created(ctx, o)
	}}
}

func (s SideEffects) publishStatusChange(o *order.Order, message string) PostCommitHook {
	return PostCommitHook{Name: "publish_status_change", Run: func(ctx context.Context) error {
		if s.Notifier == nil {
			return nil
		}
		return s.Notifier.StatusChanged(ctx, o, message)
	}}
}

func (s SideEffects) publishUpdate(o *order.Order, message string) PostCommitHook {
	return PostCommitHook{Name: "publish_update", Run: func(ctx context.Context) error {
		if s.Notifier == nil {
			return nil
		}
		return s.Notifier.Updated(ctx, o, message)
	}}
}

func (s SideEffects) reportCancellation(report ports.CancellationReport) PostCommitHook {
	return PostCommitHook{Name: "support_report", Run: func(ctx context.Context) error {
		if s.Support == nil {
			return nil
		}
		return s.Support.ReportCancellation(ctx, report)
	}}
}

// placed is the hook list of an immediate order after creation.
func (s SideEffects) placed(o *order.Order) PostCommitHooks {
	return PostCommitHooks{
		s.awardPoints(o),
		s.publishCreated(o),
		s.completeReferral(o),
		s.publishStatusChange(o, ""),
	}
}

// activated is the hook list of a scheduled order that became pending.
func (s SideEffects) activated(o *order.Order) PostCommitHooks {
	return PostCommitHooks{
		s.awardPoints(o),
		s.publishUpdate(o, ActivationMessage),
		s.completeReferral(o),
	}
}
