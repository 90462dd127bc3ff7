package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "item-" + strconv.Itoa(g.next)
}

// memItemRepo is an in-memory ItemRepository with the same version check
// the real store performs on update.
type memItemRepo struct {
	mu    sync.Mutex
	items map[string]model.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]model.Item)}
}

func (r *memItemRepo) Save(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID()] = item
	return nil
}

func (r *memItemRepo) FindByID(_ context.Context, id string) (model.Item, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	return item, ok, nil
}

func (r *memItemRepo) Update(_ context.Context, item model.Item) (model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[item.ID()]
	if !ok || current.Version() != item.Version() {
		return model.Item{}, pkgerrors.NewVersionMismatchError()
	}
	updated, err := model.RestoreItem(model.ItemPrimitives{
		ID:        item.ID(),
		Name:      item.Name(),
		CreatedAt: item.CreatedAt().Format(time.RFC3339),
		Version:   item.Version() + 1,
	})
	if err != nil {
		return model.Item{}, err
	}
	r.items[item.ID()] = updated
	return updated, nil
}

func (r *memItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) List(_ context.Context, params ports.ListParams) (ports.ListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if params.Cursor != "" {
		for i, id := range ids {
			if id == params.Cursor {
				start = i + 1
				break
			}
		}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	result := ports.ListResult{Items: []model.Item{}}
	for i := start; i < len(ids) && len(result.Items) < limit; i++ {
		result.Items = append(result.Items, r.items[ids[i]])
	}
	if n := start + len(result.Items); n < len(ids) && n > 0 {
		result.NextCursor = ids[n-1]
	}
	return result, nil
}

func newItemService(repo *memItemRepo) *ItemService {
	clock := fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewItemService(repo, repo, &seqIDGenerator{}, clock, zap.NewNop())
}

func TestCreateItem(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	item, err := svc.CreateItem(context.Background(), "first item")
	require.NoError(t, err)

	assert.Equal(t, "item-1", item.ID())
	assert.Equal(t, "first item", item.Name())
	assert.Equal(t, 0, item.Version())
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), item.CreatedAt())

	stored, found, err := repo.FindByID(context.Background(), "item-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, stored)
}

func TestCreateItemRejectsBlankName(t *testing.T) {
	svc := newItemService(newMemItemRepo())

	_, err := svc.CreateItem(context.Background(), "   ")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGetItemByID(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	created, err := svc.CreateItem(context.Background(), "first item")
	require.NoError(t, err)

	got, err := svc.GetItemByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.GetItemByID(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "Item with id missing not found")
}

func TestUpdateItem(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	created, err := svc.CreateItem(context.Background(), "first item")
	require.NoError(t, err)

	updated, err := svc.UpdateItem(context.Background(), created.ID(), "renamed")
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name())
	assert.Equal(t, 1, updated.Version())
	assert.Equal(t, created.CreatedAt(), updated.CreatedAt())
}

func TestUpdateItemNotFound(t *testing.T) {
	svc := newItemService(newMemItemRepo())

	_, err := svc.UpdateItem(context.Background(), "missing", "renamed")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdateItemConflict(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	created, err := svc.CreateItem(context.Background(), "first item")
	require.NoError(t, err)

	stale, err := created.Rename("stale write")
	require.NoError(t, err)

	// A concurrent writer bumps the version before our update lands.
	_, err = repo.Update(context.Background(), created)
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), stale)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestDeleteItem(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	created, err := svc.CreateItem(context.Background(), "first item")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), created.ID()))

	_, found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing item is a no-op.
	assert.NoError(t, svc.DeleteItem(context.Background(), "missing"))
}

func TestListItems(t *testing.T) {
	repo := newMemItemRepo()
	svc := newItemService(repo)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateItem(context.Background(), "item")
		require.NoError(t, err)
	}

	var collected []string
	cursor := ""
	for {
		page, err := svc.ListItems(context.Background(), ports.ListParams{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, item := range page.Items {
			collected = append(collected, item.ID())
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Equal(t, []string{"item-1", "item-2", "item-3", "item-4", "item-5"}, collected)
}
