// Package kernel provides the shared value objects of the order lifecycle domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Money: an amount in minor currency units with percentage helpers
//   - Clock: the time source injected into every time-dependent rule
//
// Value objects are immutable and safe for concurrent use. Zero values of UUID are
// invalid and rejected by Validate.
package kernel
