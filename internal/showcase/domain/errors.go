package domain

import "errors"

var (
	// ErrNotFound means the requested slug is absent from the store.
	ErrNotFound = errors.New("project not found")

	// ErrValidation means the submission payload failed boundary validation.
	ErrValidation = errors.New("invalid submission")
)
