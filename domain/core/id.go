package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one batch invocation.
	RunID ID
	// FamilyKey identifies a comparison family, e.g. one proteome.
	FamilyKey ID
	// CategoryKey identifies a category inside a family, e.g. an LCD class.
	CategoryKey ID
)

func (id RunID) String() string       { return ID(id).String() }
func (id FamilyKey) String() string   { return ID(id).String() }
func (id CategoryKey) String() string { return ID(id).String() }

// IsEmpty reports whether the run id is unset
func (id RunID) IsEmpty() bool { return ID(id).IsEmpty() }

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseFamilyKey parses a string into FamilyKey
func ParseFamilyKey(s string) (FamilyKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("family key cannot be empty")
	}
	return FamilyKey(s), nil
}

// ParseCategoryKey parses a string into CategoryKey
func ParseCategoryKey(s string) (CategoryKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("category key cannot be empty")
	}
	return CategoryKey(s), nil
}
