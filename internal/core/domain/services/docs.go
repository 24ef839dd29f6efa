// Package services provides the domain rules of the order lifecycle that do not
// belong to the Order aggregate itself.
//
// The package includes:
//   - PriceCalculator: computes subtotal, tax, discount and total at creation
//   - TransitionPolicy: decides from DwellThresholds when an in-flight order moves one edge forward
//
// Both services are pure; time is passed in by the caller.
package services
