// Package model holds the immutable record types. Every constructor
// validates, so any instance in memory is guaranteed valid.
package model

import (
	"strings"
	"time"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// Item is a simple named record under optimistic concurrency control.
// Instances are immutable; mutation produces a new validated instance.
type Item struct {
	id        string
	name      string
	createdAt time.Time
	version   int
}

// ItemPrimitives is the persisted representation of an Item.
type ItemPrimitives struct {
	ID        string `json:"itemId"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Version   int    `json:"version"`
}

// NewItem creates a validated Item. Version starts at 0 for new records.
func NewItem(id, name string, createdAt time.Time, version int) (Item, error) {
	if id == "" {
		return Item{}, pkgerrors.NewValidationErrorForField("id", "Item must have an id")
	}
	if strings.TrimSpace(name) == "" {
		return Item{}, pkgerrors.NewValidationErrorForField("name", "Item must have a non-empty name")
	}
	if createdAt.IsZero() {
		return Item{}, pkgerrors.NewValidationErrorForField("createdAt", "Item createdAt must be a valid date")
	}
	if version < 0 {
		return Item{}, pkgerrors.NewValidationErrorForField("version", "Item version must be a non-negative integer")
	}

	return Item{
		id:        id,
		name:      name,
		createdAt: createdAt,
		version:   version,
	}, nil
}

// RestoreItem rehydrates an Item from its persisted representation through
// the same validation as NewItem.
func RestoreItem(p ItemPrimitives) (Item, error) {
	createdAt, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return Item{}, pkgerrors.NewValidationErrorForField("createdAt", "Item createdAt must be a valid date").WithCause(err)
	}
	return NewItem(p.ID, p.Name, createdAt, p.Version)
}

// Rename returns a new Item with the name replaced and everything else,
// version included, carried over unchanged. The version is advanced by the
// store as part of the conditional update, not here.
func (i Item) Rename(name string) (Item, error) {
	return NewItem(i.id, name, i.createdAt, i.version)
}

// ID returns the item's immutable identifier.
func (i Item) ID() string { return i.id }

// Name returns the item's name.
func (i Item) Name() string { return i.name }

// CreatedAt returns the creation timestamp.
func (i Item) CreatedAt() time.Time { return i.createdAt }

// Version returns the optimistic-concurrency version counter.
func (i Item) Version() int { return i.version }

// Primitives returns the persisted representation.
func (i Item) Primitives() ItemPrimitives {
	return ItemPrimitives{
		ID:        i.id,
		Name:      i.name,
		CreatedAt: i.createdAt.Format(time.RFC3339),
		Version:   i.version,
	}
}
