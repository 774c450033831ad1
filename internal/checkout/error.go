package checkout

import "errors"

var (
	ErrCustomerRequired = errors.New("customer id is required")
	ErrInvalidShipping  = errors.New("invalid shipping info")
	ErrSnapshotNotFound = errors.New("checkout snapshot not found")
)
