// Package uid wraps UUID generation and validation for request correlation.
package uid

import "github.com/google/uuid"

// New generates a new random UUID string.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether id parses as a UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
