package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidGrade is returned when a grade token is not one of
	// again, hard, good or easy.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrInvalidDateKey is returned when a calendar date key cannot be parsed.
	ErrInvalidDateKey = errors.New("invalid date key")
)
