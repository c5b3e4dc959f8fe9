package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrInvalidCounts  = errors.New("invalid counts")
	ErrInvalidPValue  = errors.New("invalid p-value")
	ErrFamilyMismatch = errors.New("family shape mismatch")

	// ErrUnanalyzable marks a family whose bias-corrected estimate is still degenerate.
	ErrUnanalyzable = errors.New("family is unanalyzable")
)

// NewCountError reports a contract violation on a single count field
func NewCountError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidCounts, field, reason)
}

// NewPValueError reports a p-value outside [0, 1]
func NewPValueError(index int, value float64) error {
	return fmt.Errorf("%w: position %d has value %v", ErrInvalidPValue, index, value)
}

// NewUnanalyzableError names the family and the category that forced escalation
func NewUnanalyzableError(family FamilyKey, category CategoryKey) error {
	return fmt.Errorf("%w: %s (category %s stays degenerate after +1 adjustment)", ErrUnanalyzable, family, category)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCounts) ||
		errors.Is(err, ErrInvalidPValue) ||
		errors.Is(err, ErrFamilyMismatch)
}

func IsUnanalyzable(err error) bool {
	return errors.Is(err, ErrUnanalyzable)
}
