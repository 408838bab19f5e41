package model

import "errors"

// Domain failure taxonomy. Handlers map these to HTTP status codes; the
// repositories and usecases wrap them with the quantities/batches involved.
var (
	// ErrInsufficientStock: a policy-driven movement asked for more than the
	// total available across eligible batches. Nothing is committed.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientQuantity: a single batch decrement would drive its
	// remaining quantity below zero.
	ErrInsufficientQuantity = errors.New("insufficient batch quantity")

	// ErrAllocationMismatch: sum of allocation quantities does not equal the
	// declared movement total.
	ErrAllocationMismatch = errors.New("allocation total does not match movement quantity")

	// ErrIrreversibleDeletion: reversing a movement would drive a batch
	// negative because of interleaved later activity.
	ErrIrreversibleDeletion = errors.New("movement cannot be reversed without driving a batch negative")

	// ErrInvalidAlertTransition: acknowledge/resolve attempted from a state
	// that disallows it.
	ErrInvalidAlertTransition = errors.New("invalid alert status transition")

	ErrNotFound = errors.New("not found")
)
