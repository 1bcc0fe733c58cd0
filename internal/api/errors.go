package api

import "errors"

// Transport-agnostic failure kinds. Services wrap these with %w so handlers
// can map them to status codes without parsing messages.
var (
	ErrBadRequest      = errors.New("invalid request")
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("operation not allowed")
	ErrInternal        = errors.New("internal error")
)
