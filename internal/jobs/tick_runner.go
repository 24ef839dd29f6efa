package jobs

import (
	"context"
	"errors"
	"log/slog"

	"orderlifecycle/internal/core/ports"
)

// Reconnector replaces a broken storage handle with a fresh one.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// TickRunner runs one tick and absorbs its error. A transient storage error
// triggers a reconnect so the next tick starts on a healthy handle.
type TickRunner struct {
	reconnector Reconnector
	classifier  ports.TransientErrorClassifier
	logger      *slog.Logger
}

func NewTickRunner(reconnector Reconnector, classifier ports.TransientErrorClassifier, logger *slog.Logger) TickRunner {
	return TickRunner{
		reconnector: reconnector,
		classifier:  classifier,
		logger:      logger,
	}
}

// Run executes tick. It never returns an error: a failed tick is logged and
// the next one is left to the schedule.
func (r TickRunner) Run(ctx context.Context, name string, tick func(ctx context.Context) error) {
	err := tick(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	if r.classifier == nil || !r.classifier.IsTransient(err) {
		r.logger.ErrorContext(ctx, "tick failed", "job", name, "error", err)
		return
	}

	r.logger.WarnContext(ctx, "transient storage error, reconnecting", "job", name, "error", err)
	if r.reconnector == nil {
		return
	}
	if reconnectErr := r.reconnector.Reconnect(ctx); reconnectErr != nil {
		r.logger.ErrorContext(ctx, "reconnect failed", "job", name, "error", reconnectErr)
	}
}
