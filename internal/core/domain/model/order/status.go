package order

import (
	"fmt"

	"orderlifecycle/internal/pkg/errs"
)

// Status is the fulfillment state of an order.
//
// State transitions:
//
//	scheduled ──> pending ──> confirmed ──> preparing ──> ready ──> on_the_way ──> delivered
//	    │            │            │             │           │           │
//	    └────────────┴────────────┴─────────────┴───────────┴───────────┴──> cancelled
type Status string

const (
	Pending   Status = "pending"
	Confirmed Status = "confirmed"
	Preparing Status = "preparing"
	Ready     Status = "ready"
	OnTheWay  Status = "on_the_way"
	Delivered Status = "delivered"
	Cancelled Status = "cancelled"
	Scheduled Status = "scheduled"
)

// forwardEdges is the only table the time-driven walk may follow.
func forwardEdges() map[Status]Status {
	return map[Status]Status{
		Pending:   Confirmed,
		Confirmed: Preparing,
		Preparing: Ready,
		Ready:     OnTheWay,
		OnTheWay:  Delivered,
	}
}

func statusMessages() map[Status]string {
	return map[Status]string{
		Pending:   "Your order has been placed and is waiting for the restaurant",
		Confirmed: "The restaurant has confirmed your order",
		Preparing: "Your order is being prepared",
		Ready:     "Your order is ready for pickup by the courier",
		OnTheWay:  "Your order is on the way",
		Delivered: "Your order has been delivered",
		Cancelled: "Your order has been cancelled",
		Scheduled: "Your order is scheduled",
	}
}

// InFlightStatuses lists the states the status scheduler advances, in walk order.
func InFlightStatuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, OnTheWay}
}

// ParseStatus converts an external string into a validated Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate rejects strings that are not one of the eight known states.
func (s Status) Validate() error {
	if _, ok := statusMessages()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsInFlight reports whether the status scheduler owns s.
func (s Status) IsInFlight() bool {
	_, ok := forwardEdges()[s]
	return ok
}

// Next returns the single forward successor of s.
func (s Status) Next() (Status, error) {
	next, ok := forwardEdges()[s]
	if !ok {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s has no forward transition", s),
		)
	}
	return next, nil
}

// ValidateCancel checks that s is not terminal.
func (s Status) ValidateCancel() error {
	if s.IsTerminal() {
		return fmt.Errorf("%w: order is already %s", ErrOrderCannotBeCancelled, s)
	}
	return nil
}

// Message is the human-readable text sent with status_change events.
func (s Status) Message() string {
	if msg, ok := statusMessages()[s]; ok {
		return msg
	}
	return "Your order status has changed"
}
