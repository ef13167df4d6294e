// Package apperr defines sentinel errors mapped to status codes and tool errors at the edges.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
