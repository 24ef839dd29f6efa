package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/pkg/errs"
)

const (
	// CancellationFeeRate is the share of the total recorded as a debt when an order
	// is cancelled while on the way.
	CancellationFeeRate = 0.20

	// PenaltyRate is the share of the total added to the user's pending penalty on
	// every cancellation.
	PenaltyRate = 0.05

	// MaxScheduleAhead bounds how far in the future a deferred order may be placed.
	MaxScheduleAhead = 30 * 24 * time.Hour
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// one of the constructors or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewImmediateOrder, NewScheduledOrder or RestoreOrder")

	// ErrOrderCannotBeCancelled is returned when cancelling a delivered or cancelled order.
	ErrOrderCannotBeCancelled = errors.New("order cannot be cancelled")

	// ErrOrderIsNotScheduled is returned when activating an order that is not waiting in scheduled.
	ErrOrderIsNotScheduled = errors.New("order is not scheduled")

	// ErrTransitionNotAllowed is returned for a manual status change outside the edge table.
	ErrTransitionNotAllowed = errors.New("status transition is not allowed")
)

// Pricing is the monetary snapshot taken once at creation.
type Pricing struct {
	Subtotal    kernel.Money
	DeliveryFee kernel.Money
	Tax         kernel.Money
	Tip         kernel.Money
	Discount    kernel.Money
	Penalty     kernel.Money
	Total       kernel.Money
}

// Validate checks the fields are non-negative and add up to Total.
func (p Pricing) Validate() error {
	for name, amount := range map[string]kernel.Money{
		"subtotal": p.Subtotal, "deliveryFee": p.DeliveryFee, "tax": p.Tax,
		"tip": p.Tip, "discount": p.Discount, "penalty": p.Penalty, "total": p.Total,
	} {
		if amount < 0 {
			return errs.NewValueIsOutOfRangeError(name, amount.Minor(), 0, "unbounded")
		}
	}

	expected := p.Subtotal.Add(p.DeliveryFee).Add(p.Tax).Add(p.Tip).Sub(p.Discount).Add(p.Penalty)
	if expected != p.Total {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s does not match computed %s", p.Total, expected))
	}
	return nil
}

// Draft carries the creation-time attributes shared by immediate and scheduled orders.
type Draft struct {
	ID               kernel.UUID
	UserID           kernel.UUID
	RestaurantID     string
	DeliveryAddress  string
	PaymentMethod    PaymentMethod
	PaymentReference string
	CouponID         string
	Pricing          Pricing
	CreatedAt        time.Time
}

func (d Draft) validate() error {
	var errList []error
	if err := d.ID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := d.UserID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(d.RestaurantID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("restaurantId"))
	}
	if err := d.PaymentMethod.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := d.Pricing.Validate(); err != nil {
		errList = append(errList, err)
	}
	if d.CreatedAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("createdAt"))
	}
	return errors.Join(errList...)
}

// Cancellation is the financial outcome of a cancellation.
type Cancellation struct {
	// Fee is recorded on the order when it was on the way; nil otherwise.
	Fee *kernel.Money
	// Penalty is the amount to accrue onto the user's pending penalty.
	Penalty kernel.Money
}

// Order is the aggregate root of the lifecycle engine.
//
// Order follows these invariants:
//   - status moves only along the forward edge table or to cancelled
//   - items are set once: at creation for immediate orders, at activation for scheduled ones
//   - pricing is computed once at creation
//   - scheduledFor and payload are present iff the order was placed as scheduled
type Order struct {
	id               kernel.UUID
	userID           kernel.UUID
	restaurantID     string
	items            []LineItem
	status           Status
	pricing          Pricing
	deliveryAddress  string
	paymentMethod    PaymentMethod
	paymentReference string
	couponID         string

	isScheduled  bool
	scheduledFor *time.Time
	payload      *ScheduledPayload

	cancellationReason string
	cancellationFee    *kernel.Money
	cancelledAt        *time.Time

	createdAt time.Time
	updatedAt time.Time
	version   int64

	isConstructed bool
}

// NewImmediateOrder creates an order that enters the forward walk at pending.
//
// Example:
//
//	o, err := order.NewImmediateOrder(order.Draft{
//	    ID:            kernel.NewUUID(),
//	    UserID:        userID,
//	    RestaurantID:  restaurantID,
//	    PaymentMethod: order.PaymentCash,
//	    Pricing:       pricing,
//	    CreatedAt:     clock.Now(),
//	}, items)
func NewImmediateOrder(draft Draft, items []LineItem) (*Order, error) {
	var errList []error
	if err := draft.validate(); err != nil {
		errList = append(errList, err)
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	o := newFromDraft(draft)
	o.status = Pending
	o.items = append([]LineItem(nil), items...)
	return o, nil
}

// NewScheduledOrder creates a deferred order held in scheduled until scheduledFor.
// scheduledFor must be strictly after the creation time and at most MaxScheduleAhead later.
func NewScheduledOrder(draft Draft, scheduledFor time.Time, payload ScheduledPayload) (*Order, error) {
	var errList []error
	if err := draft.validate(); err != nil {
		errList = append(errList, err)
	}
	if err := ValidateScheduledFor(scheduledFor, draft.CreatedAt); err != nil {
		errList = append(errList, err)
	}
	if err := payload.Validate(); err != nil {
		errList = append(errList, err)
	}
	if !draft.Pricing.Penalty.IsZero() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("penalty",
			errors.New("penalties are applied to immediate orders only")))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	o := newFromDraft(draft)
	o.status = Scheduled
	o.isScheduled = true
	at := scheduledFor.UTC()
	o.scheduledFor = &at
	p := payload
	o.payload = &p
	return o, nil
}

// ValidateScheduledFor checks now < scheduledFor <= now+MaxScheduleAhead.
func ValidateScheduledFor(scheduledFor, now time.Time) error {
	if scheduledFor.IsZero() {
		return errs.NewValueIsRequiredError("scheduledFor")
	}
	latest := now.Add(MaxScheduleAhead)
	if !scheduledFor.After(now) || scheduledFor.After(latest) {
		return errs.NewValueIsOutOfRangeError("scheduledFor",
			scheduledFor.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339), latest.UTC().Format(time.RFC3339))
	}
	return nil
}

func newFromDraft(draft Draft) *Order {
	created := draft.CreatedAt.UTC()
	return &Order{
		id:               draft.ID,
		userID:           draft.UserID,
		restaurantID:     strings.TrimSpace(draft.RestaurantID),
		pricing:          draft.Pricing,
		deliveryAddress:  strings.TrimSpace(draft.DeliveryAddress),
		paymentMethod:    draft.PaymentMethod,
		paymentReference: strings.TrimSpace(draft.PaymentReference),
		couponID:         draft.CouponID,
		createdAt:        created,
		updatedAt:        created,
		version:          1,
		isConstructed:    true,
	}
}

// RestoreState is the full persisted state of an order.
type RestoreState struct {
	ID                 kernel.UUID
	UserID             kernel.UUID
	RestaurantID       string
	Items              []LineItem
	Status             Status
	Pricing            Pricing
	DeliveryAddress    string
	PaymentMethod      PaymentMethod
	PaymentReference   string
	CouponID           string
	IsScheduled        bool
	ScheduledFor       *time.Time
	Payload            *ScheduledPayload
	CancellationReason string
	CancellationFee    *kernel.Money
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
}

// RestoreOrder rebuilds an order from persistence, re-checking its invariants.
func RestoreOrder(s RestoreState) (*Order, error) {
	var errList []error
	if err := s.ID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := s.UserID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := s.Status.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := s.Pricing.Validate(); err != nil {
		errList = append(errList, err)
	}
	if s.IsScheduled && (s.ScheduledFor == nil || s.Payload == nil) {
		errList = append(errList, errs.NewValueIsRequiredError("scheduledFor and scheduledPayload"))
	}
	if s.Status == Scheduled && !s.IsScheduled {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			errors.New("scheduled status requires a scheduled order")))
	}
	if s.Status != Scheduled && s.Status != Cancelled && len(s.Items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Order{
		id:                 s.ID,
		userID:             s.UserID,
		restaurantID:       s.RestaurantID,
		items:              append([]LineItem(nil), s.Items...),
		status:             s.Status,
		pricing:            s.Pricing,
		deliveryAddress:    s.DeliveryAddress,
		paymentMethod:      s.PaymentMethod,
		paymentReference:   s.PaymentReference,
		couponID:           s.CouponID,
		isScheduled:        s.IsScheduled,
		scheduledFor:       s.ScheduledFor,
		payload:            s.Payload,
		cancellationReason: s.CancellationReason,
		cancellationFee:    s.CancellationFee,
		cancelledAt:        s.CancelledAt,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		version:            s.Version,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) UserID() kernel.UUID          { return o.userID }
func (o *Order) RestaurantID() string         { return o.restaurantID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) Pricing() Pricing             { return o.pricing }
func (o *Order) Total() kernel.Money          { return o.pricing.Total }
func (o *Order) DeliveryAddress() string      { return o.deliveryAddress }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) PaymentReference() string     { return o.paymentReference }
func (o *Order) CouponID() string             { return o.couponID }
func (o *Order) IsScheduled() bool            { return o.isScheduled }
func (o *Order) CancellationReason() string   { return o.cancellationReason }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) Version() int64               { return o.version }

// Items returns a copy of the materialized line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// ScheduledFor returns the activation time of a scheduled order, nil otherwise.
func (o *Order) ScheduledFor() *time.Time {
	return o.scheduledFor
}

// Payload returns the deferred snapshot of a scheduled order, nil otherwise.
func (o *Order) Payload() *ScheduledPayload {
	return o.payload
}

// CancellationFee returns the recorded fee; nil unless cancelled while on the way.
func (o *Order) CancellationFee() *kernel.Money {
	return o.cancellationFee
}

func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.userID.IsEqual(userID)
}

// IsDue reports whether a scheduled order has reached its activation time.
func (o *Order) IsDue(now time.Time) bool {
	return o.status == Scheduled && o.scheduledFor != nil && !o.scheduledFor.After(now)
}

// DwellReference is the instant the current state was entered: createdAt for an
// immediate order still pending, updatedAt for everything else (an activated
// scheduled order starts its pending dwell at activation).
func (o *Order) DwellReference() time.Time {
	if o.status == Pending && !o.isScheduled {
		return o.createdAt
	}
	return o.updatedAt
}

// Advance moves the order exactly one edge forward and refreshes updatedAt.
func (o *Order) Advance(now time.Time) (Status, error) {
	next, err := o.status.Next()
	if err != nil {
		return "", err
	}

	o.status = next
	o.updatedAt = now.UTC()
	return next, nil
}

// Activate materializes a scheduled order: items are set and the status becomes pending.
func (o *Order) Activate(items []LineItem, now time.Time) error {
	if o.status != Scheduled {
		return fmt.Errorf("%w: status is %s", ErrOrderIsNotScheduled, o.status)
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	if len(o.items) != 0 {
		return errs.NewValueIsInvalidErrorWithCause("items", errors.New("items are already set"))
	}

	o.items = append([]LineItem(nil), items...)
	o.status = Pending
	o.updatedAt = now.UTC()
	return nil
}

// Cancel moves a non-terminal order to cancelled. The returned Cancellation holds
// the fee recorded on the order (on_the_way only) and the penalty to accrue onto
// the user.
func (o *Order) Cancel(reason string, now time.Time) (Cancellation, error) {
	if err := o.status.ValidateCancel(); err != nil {
		return Cancellation{}, err
	}

	var outcome Cancellation
	if o.status == OnTheWay {
		fee := o.pricing.Total.Percent(CancellationFeeRate)
		outcome.Fee = &fee
	}
	outcome.Penalty = o.pricing.Total.Percent(PenaltyRate)

	at := now.UTC()
	o.status = Cancelled
	o.cancellationReason = strings.TrimSpace(reason)
	o.cancellationFee = outcome.Fee
	o.cancelledAt = &at
	o.updatedAt = at
	return outcome, nil
}

// OverrideStatus applies a manual transition. Only the next forward edge or
// cancellation (without fee) is accepted from a non-terminal, non-scheduled state.
func (o *Order) OverrideStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() || o.status == Scheduled {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, o.status, target)
	}

	at := now.UTC()
	if target == Cancelled {
		o.status = Cancelled
		o.cancellationReason = "status updated manually"
		o.cancelledAt = &at
		o.updatedAt = at
		return nil
	}

	next, err := o.status.Next()
	if err != nil || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, o.status, target)
	}
	o.status = next
	o.updatedAt = at
	return nil
}

// BumpVersion is called by repositories after a successful versioned write.
func (o *Order) BumpVersion() {
	o.version++
}
