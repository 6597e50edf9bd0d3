package rental

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyConfirmed = errors.New("order already confirmed")
)

// ValidationError rejects malformed input at the boundary: negative
// quantities, inverted ranges, missing or inactive products.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg) }

// StateConflictError rejects an operation the order's current status does not
// allow, e.g. returning an order that was never picked up.
type StateConflictError struct {
	OrderID string
	Status  Status
	Op      string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Op, e.OrderID, e.Status)
}

// CapacityError carries the shortfall that rejected a confirm, so callers can
// render a precise message. Never retried: it is a business rejection, not a
// transient fault.
type CapacityError struct {
	ProductID string
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
