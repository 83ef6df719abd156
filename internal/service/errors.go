package service

import "errors"

// Sentinel errors surfaced by the core, mapped to HTTP status codes in
// internal/api/handlers via errors.Is.
var (
	ErrNotFound      = errors.New("service: tournament not found")
	ErrUnauthorized  = errors.New("service: admin required")
	ErrInvalidCode   = errors.New("service: wrong report code")
	ErrInvalidInput  = errors.New("service: invalid input")
	ErrTied          = errors.New("service: match tied")
	ErrMatchNotFound = errors.New("service: match not found")
)
