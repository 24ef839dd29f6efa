package kernel

import (
	"fmt"
	"math"

	"orderlifecycle/internal/pkg/errs"
)

// Money is an amount in minor currency units (cents). Order amounts are never
// negative; arithmetic helpers keep that invariant by clamping at zero where a
// subtraction could underflow.
type Money int64

// Zero is the empty amount.
const Zero Money = 0

// NewMoney validates a minor-unit amount.
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Zero, errs.NewValueIsOutOfRangeError("amount", minor, 0, math.MaxInt64)
	}
	return Money(minor), nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m) / 100
}

// WholeUnits returns the amount truncated to whole major units.
func (m Money) WholeUnits() int64 {
	return int64(m) / 100
}

func (m Money) Add(other Money) Money {
	return m + other
}

// Sub subtracts other, never going below zero.
func (m Money) Sub(other Money) Money {
	if other >= m {
		return Zero
	}
	return m - other
}

// Times multiplies by an item quantity.
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

// Percent returns rate×m rounded to the nearest minor unit (half away from zero).
// A rate of 0.2 yields twenty percent.
func (m Money) Percent(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) Validate() error {
	if m < 0 {
		return errs.NewValueIsOutOfRangeError("amount", int64(m), 0, math.MaxInt64)
	}
	return nil
}

// String renders the amount with two decimals, e.g. "10.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}
