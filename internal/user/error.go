package user

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidHint     = errors.New("invalid customer hint")
)
