package service

import "errors"

var (
	// ErrValidation marks a malformed toggle request, rejected before any
	// side effect.
	ErrValidation = errors.New("invalid stock update request")
	// ErrNotFound marks a target absent from the system of record; no cache
	// or publish side effects are attempted.
	ErrNotFound = errors.New("target not found")
)
