package model

import "errors"

// Validation errors, rejected before any persistence call is attempted
var (
	ErrEmptyTitle          = errors.New("title must not be empty")
	ErrNonPositiveDuration = errors.New("planned duration must be greater than zero")
	ErrNegativeActual      = errors.New("actual duration must not be negative")
	ErrEmptyPresetName     = errors.New("preset name must not be empty")
)

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
