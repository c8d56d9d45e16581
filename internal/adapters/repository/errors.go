package repository

import "errors"

// Sentinel kinds for banner store errors.
var (
	ErrNotFound   = errors.New("banner not found")
	ErrValidation = errors.New("invalid banner input")
)
