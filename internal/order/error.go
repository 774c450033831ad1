package order

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrCustomerRequired = errors.New("customer id is required")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("order item not found")
	ErrOrderExists   = errors.New("order already exists")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
