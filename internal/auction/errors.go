package auction

import "errors"

// Error kinds for rejected operations. A rejected operation never
// changes game state. Callers match with errors.Is and map the kind to
// a transport-level code.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
)
