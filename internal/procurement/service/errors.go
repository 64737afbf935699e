package service

import "errors"

var (
	// ErrInvalidState means the entity exists but its current status forbids
	// the requested transition.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrUnauthorized means the presented quotation access token does not
	// match.
	ErrUnauthorized = errors.New("invalid access token")
)
