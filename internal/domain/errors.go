package domain

import "errors"

var (
	// ErrInvalidURL is returned when a raw URL cannot be parsed into
	// a usable address even after normalization.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNotFound is returned when an update targets a link ID that
	// does not exist for the owner.
	ErrNotFound = errors.New("link not found")
)
