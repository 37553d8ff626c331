package model

import "errors"

var (
	// ErrInvalidPlatform is returned when a platform name is not recognized.
	ErrInvalidPlatform = errors.New("model: invalid platform")

	// ErrInvalidSeverity is returned when a severity name is not recognized.
	ErrInvalidSeverity = errors.New("model: invalid severity")
)
