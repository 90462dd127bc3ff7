// Package idgen provides the UUID implementation of the IDGenerator port.
package idgen

import "github.com/google/uuid"

// UUIDGenerator produces random version-4 UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUIDGenerator.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// Generate returns a new collision-resistant identifier in canonical
// 36-character form.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
