package cart

import "errors"

var (
	// -- Validation & Input --
	ErrProductRequired  = errors.New("product id is required")
	ErrCustomerRequired = errors.New("customer id is required")

	// -- Resource State --
	ErrLineNotFound = errors.New("cart line not found")
)
