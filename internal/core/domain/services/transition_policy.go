package services

import (
	"errors"
	"fmt"
	"time"

	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"
)

// DwellThresholds maps each in-flight status to the minimum time an order stays
// in it before the scheduler moves it one edge forward.
type DwellThresholds map[order.Status]time.Duration

// DevelopmentDwellThresholds is the fast table used outside production.
func DevelopmentDwellThresholds() DwellThresholds {
	return DwellThresholds{
		order.Pending:   30 * time.Second,
		order.Confirmed: 30 * time.Second,
		order.Preparing: time.Minute,
		order.Ready:     30 * time.Second,
		order.OnTheWay:  time.Minute,
	}
}

// ProductionDwellThresholds is the slow table.
func ProductionDwellThresholds() DwellThresholds {
	return DwellThresholds{
		order.Pending:   2 * time.Minute,
		order.Confirmed: 5 * time.Minute,
		order.Preparing: 15 * time.Minute,
		order.Ready:     5 * time.Minute,
		order.OnTheWay:  20 * time.Minute,
	}
}

// Validate requires a positive duration for every in-flight status and nothing else.
func (t DwellThresholds) Validate() error {
	var errList []error
	for _, status := range order.InFlightStatuses() {
		d, ok := t[status]
		if !ok {
			errList = append(errList, errs.NewValueIsRequiredError("dwell threshold for "+status.String()))
			continue
		}
		if d <= 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError("dwell threshold for "+status.String(), d, "1ns", "unbounded"))
		}
	}
	for status := range t {
		if !status.IsInFlight() {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("dwell thresholds",
				fmt.Errorf("%s is not advanced by the scheduler", status)))
		}
	}
	return errors.Join(errList...)
}

// With returns a copy of t with the given overrides applied.
func (t DwellThresholds) With(overrides DwellThresholds) DwellThresholds {
	merged := make(DwellThresholds, len(t))
	for status, d := range t {
		merged[status] = d
	}
	for status, d := range overrides {
		merged[status] = d
	}
	return merged
}

// TransitionPolicy decides whether an in-flight order has dwelled long enough in
// its current status.
//
// Example usage:
//
//	policy, _ := services.NewTransitionPolicy(services.ProductionDwellThresholds())
//	if policy.ShouldAdvance(o, clock.Now()) {
//	    _, err = o.Advance(clock.Now())
//	}
type TransitionPolicy struct {
	thresholds DwellThresholds
}

func NewTransitionPolicy(thresholds DwellThresholds) (TransitionPolicy, error) {
	if err := thresholds.Validate(); err != nil {
		return TransitionPolicy{}, err
	}
	return TransitionPolicy{thresholds: thresholds.With(nil)}, nil
}

// Threshold returns the dwell time configured for status.
func (p TransitionPolicy) Threshold(status order.Status) (time.Duration, bool) {
	d, ok := p.thresholds[status]
	return d, ok
}

// ShouldAdvance reports whether now - o.DwellReference() meets the threshold of
// o's status. Terminal, scheduled and unconstructed orders never advance.
func (p TransitionPolicy) ShouldAdvance(o *order.Order, now time.Time) bool {
	if o.Validate() != nil {
		return false
	}
	threshold, ok := p.thresholds[o.Status()]
	if !ok {
		return false
	}
	return now.Sub(o.DwellReference()) >= threshold
}
