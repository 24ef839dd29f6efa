// Package order provides the Order aggregate of the order lifecycle engine.
//
// The package includes:
//   - Order: the aggregate root holding identity, priced line items, schedule and cancellation data
//   - Status: the fulfillment state machine with its fixed forward edge table
//   - LineItem and ScheduledPayload: the materialized and deferred forms of an order's contents
//   - Snapshot: the normalized JSON view published to subscribers
//
// Key business rules:
//   - pending -> confirmed -> preparing -> ready -> on_the_way -> delivered, one edge at a time
//   - cancelled is reachable from any non-terminal state, only by explicit cancellation
//   - scheduled orders carry a payload and become pending when activated
//   - monetary fields are computed once at creation and never recomputed
package order
