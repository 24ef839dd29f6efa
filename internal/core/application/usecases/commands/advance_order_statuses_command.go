package commands

import (
	"errors"

	"orderlifecycle/internal/pkg/errs"
	"orderlifecycle/internal/pkg/guard"
)

// DefaultStatusBatchSize bounds how many in-flight orders one tick looks at.
const DefaultStatusBatchSize = 10

var ErrAdvanceOrderStatusesCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusesCommand must be created via NewAdvanceOrderStatusesCommand constructor",
)

// AdvanceOrderStatusesCommand is one tick of the status scheduler.
//
// Example:
//
//	cmd, _ := NewAdvanceOrderStatusesCommand(10)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    logger.Error("status tick failed", "error", err)
//	}
type AdvanceOrderStatusesCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewAdvanceOrderStatusesCommand(batchSize int) (AdvanceOrderStatusesCommand, error) {
	if batchSize <= 0 {
		return AdvanceOrderStatusesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	return AdvanceOrderStatusesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderStatusesCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusesCommandIsNotConstructed)
}

func (c AdvanceOrderStatusesCommand) BatchSize() int {
	return c.batchSize
}
