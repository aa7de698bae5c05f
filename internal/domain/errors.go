package domain

import "errors"

// Sentinel errors for the money-moving workflows. Services wrap these with
// fmt.Errorf("%w: ...") so callers match with errors.Is and the transport
// layer can map them to status codes.
var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor lacks authorization for the
	// target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when an operation is not valid for the
	// entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the
	// campaign's available balance, at creation or approval time.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExternalFailure is returned when the payment gateway reports a
	// failed charge. The recurring engine treats it as retryable.
	ErrExternalFailure = errors.New("external service failure")
)
