package payment

import "errors"

var (
	// -- Validation & Input --
	ErrCustomerRequired = errors.New("customer id is required")
	ErrUnknownMethod    = errors.New("unknown payment method")
	ErrShippingRequired = errors.New("shipping details are required")

	// -- Session State --
	ErrSessionNotFound    = errors.New("payment session not found")
	ErrSessionExpired     = errors.New("payment session expired")
	ErrDeadlineNotReached = errors.New("payment deadline not reached")
	ErrInvalidTransition  = errors.New("invalid payment session transition")
	ErrUnknownEvent       = errors.New("unknown payment session event")
)
