package service

import "errors"

// ErrInvalidState means the order exists but its status forbids the
// requested transition.
var ErrInvalidState = errors.New("operation not allowed in current state")
