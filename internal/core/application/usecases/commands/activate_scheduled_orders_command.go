package commands

import (
	"errors"

	"orderlifecycle/internal/pkg/guard"
)

var ErrActivateScheduledOrdersCommandIsNotConstructed = errors.New(
	"ActivateScheduledOrdersCommand must be created via NewActivateScheduledOrdersCommand constructor",
)

// ActivateScheduledOrdersCommand is one tick of the deferred order executor.
// It processes every scheduled order that is due at the handler's current time.
type ActivateScheduledOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewActivateScheduledOrdersCommand() ActivateScheduledOrdersCommand {
	return ActivateScheduledOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ActivateScheduledOrdersCommand) Validate() error {
	return c.guard.Validate(ErrActivateScheduledOrdersCommandIsNotConstructed)
}
