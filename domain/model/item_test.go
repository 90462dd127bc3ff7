package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

func TestNewItem(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	item, err := NewItem("item-1", "Widget", createdAt, 0)
	require.NoError(t, err)

	assert.Equal(t, "item-1", item.ID())
	assert.Equal(t, "Widget", item.Name())
	assert.Equal(t, createdAt, item.CreatedAt())
	assert.Equal(t, 0, item.Version())
}

func TestNewItemValidation(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        string
		itemName  string
		createdAt time.Time
		version   int
		field     string
	}{
		{"empty id", "", "Widget", createdAt, 0, "id"},
		{"empty name", "item-1", "", createdAt, 0, "name"},
		{"blank name", "item-1", "   ", createdAt, 0, "name"},
		{"zero createdAt", "item-1", "Widget", time.Time{}, 0, "createdAt"},
		{"negative version", "item-1", "Widget", createdAt, -1, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.id, tt.itemName, tt.createdAt, tt.version)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Equal(t, tt.field, pkgerrors.AsDomainError(err).Details["field"])
		})
	}
}

func TestItemRename(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	item, err := NewItem("item-1", "Widget", createdAt, 2)
	require.NoError(t, err)

	renamed, err := item.Rename("Gadget")
	require.NoError(t, err)

	assert.Equal(t, "Gadget", renamed.Name())
	assert.Equal(t, item.ID(), renamed.ID())
	assert.Equal(t, item.CreatedAt(), renamed.CreatedAt())
	assert.Equal(t, item.Version(), renamed.Version())

	// The original is untouched.
	assert.Equal(t, "Widget", item.Name())

	_, err = item.Rename("")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRestoreItemRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	item, err := NewItem("item-1", "Widget", createdAt, 3)
	require.NoError(t, err)

	restored, err := RestoreItem(item.Primitives())
	require.NoError(t, err)

	assert.Equal(t, item, restored)
}

func TestRestoreItemInvalidTimestamp(t *testing.T) {
	_, err := RestoreItem(ItemPrimitives{ID: "item-1", Name: "Widget", CreatedAt: "yesterday", Version: 0})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
