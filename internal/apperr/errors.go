// Package apperr defines the sentinel errors shared by the store, service and
// command layers.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
