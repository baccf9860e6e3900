package service

import "errors"

// Sentinel errors for the whole service layer. Handlers map these onto HTTP
// statuses; the wrapped message is the only diagnostic surfaced to clients.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)
