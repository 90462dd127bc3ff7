// Package services holds the application services orchestrating the domain
// model and the repository ports.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// ItemService exposes the item use cases.
type ItemService struct {
	repo   ports.ItemRepository
	lister ports.PaginatedItemRepository
	idGen  ports.IDGenerator
	clock  ports.Clock
	logger *zap.Logger
}

// NewItemService creates an ItemService.
func NewItemService(
	repo ports.ItemRepository,
	lister ports.PaginatedItemRepository,
	idGen ports.IDGenerator,
	clock ports.Clock,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		repo:   repo,
		lister: lister,
		idGen:  idGen,
		clock:  clock,
		logger: logger,
	}
}

// CreateItem creates and persists a new item with a generated id, the
// current instant as creation stamp and version 0.
func (s *ItemService) CreateItem(ctx context.Context, name string) (model.Item, error) {
	item, err := model.NewItem(s.idGen.Generate(), name, s.clock.Now(), 0)
	if err != nil {
		return model.Item{}, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return model.Item{}, err
	}

	s.logger.Info("Item created", zap.String("itemId", item.ID()))
	return item, nil
}

// GetItemByID retrieves an item that must exist. A repository miss becomes
// an ENTITY_NOT_FOUND error here, at the service level.
func (s *ItemService) GetItemByID(ctx context.Context, id string) (model.Item, error) {
	item, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if !found {
		return model.Item{}, pkgerrors.NewNotFoundError("Item", id)
	}
	return item, nil
}

// UpdateItem renames an item through the optimistic-concurrency path: read
// the current record, rebuild it with the new name, and let the store verify
// that the version has not moved underneath us.
func (s *ItemService) UpdateItem(ctx context.Context, id, name string) (model.Item, error) {
	existing, err := s.GetItemByID(ctx, id)
	if err != nil {
		return model.Item{}, err
	}

	renamed, err := existing.Rename(name)
	if err != nil {
		return model.Item{}, err
	}

	return s.repo.Update(ctx, renamed)
}

// DeleteItem removes an item by key, unconditionally.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListItems returns one page of items.
func (s *ItemService) ListItems(ctx context.Context, params ports.ListParams) (ports.ListResult, error) {
	return s.lister.List(ctx, params)
}
