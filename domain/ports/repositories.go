// Package ports defines the contracts between the domain and its
// collaborators. Implementations live under infrastructure; the domain and
// application layers depend only on these interfaces.
package ports

import (
	"context"
	"time"

	"github.com/MozartLino/claims-service/domain/model"
)

// ListParams are the inputs for cursor-based listing. A zero Limit selects
// the repository default; an empty Cursor starts from the beginning.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of items. An empty NextCursor means the caller has
// reached the end of the dataset.
type ListResult struct {
	Items      []model.Item
	NextCursor string
}

// ItemRepository persists items.
//
// FindByID reports a miss as found=false, never as an error. Update requires
// the stored version to match the version carried by item and advances it by
// exactly one; any precondition failure surfaces as a CONFLICT domain error.
type ItemRepository interface {
	Save(ctx context.Context, item model.Item) error
	FindByID(ctx context.Context, id string) (model.Item, bool, error)
	Update(ctx context.Context, item model.Item) (model.Item, error)
	Delete(ctx context.Context, id string) error
}

// PaginatedItemRepository lists items page by page. Decoding a cursor
// produced by a prior List resumes exactly where that page ended, with no
// duplicates or gaps while the underlying dataset is stable.
type PaginatedItemRepository interface {
	List(ctx context.Context, params ListParams) (ListResult, error)
}

// ClaimQueryFilters select claims for one member within an inclusive
// service-date range.
type ClaimQueryFilters struct {
	MemberID  string
	StartDate time.Time
	EndDate   time.Time
}

// ClaimsRepository persists claims.
//
// Save is create-only: writing an id that already exists fails with a
// VALIDATION_ERROR, never a conflict. FindByMemberAndDateRange queries the
// member/service-date index and returns claims in descending service-date
// order.
type ClaimsRepository interface {
	Save(ctx context.Context, claim model.Claim) error
	FindByID(ctx context.Context, id string) (model.Claim, bool, error)
	FindByMemberAndDateRange(ctx context.Context, filters ClaimQueryFilters) ([]model.Claim, error)
}
