// Package apperr defines the domain error taxonomy shared by the workflow
// services. Handlers map these to HTTP statuses with errors.Is; services wrap
// them with context via fmt.Errorf("%w: ...").
package apperr

import "errors"

var (
	// ErrValidation marks malformed input: missing/invalid id, non-positive
	// quantity, empty line set, approval exceeding request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced item/place/document that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation attempted outside its legal status.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientStock marks a guarded counter update whose precondition
	// did not hold at apply time (not enough available/reserved stock).
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrOverDelivery marks a receiving delivery beyond the approved remainder.
	ErrOverDelivery = errors.New("delivery exceeds approved quantity")

	// ErrOverIssue marks a distribution beyond the approved remainder.
	ErrOverIssue = errors.New("issue exceeds approved quantity")

	// ErrPersistence marks a store-level failure, including a guarded update
	// that lost a race. Callers resubmit; nothing here is retried blindly.
	ErrPersistence = errors.New("persistence failure")
)
