// Package handlers holds the HTTP handlers. Each handler depends on a
// narrow service interface declared here, so tests can supply fakes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	"github.com/MozartLino/claims-service/pkg/common"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
	"github.com/MozartLino/claims-service/pkg/utils"
)

const maxItemBodyBytes = 1 << 20

// ItemService is the slice of the item application service this handler needs.
type ItemService interface {
	CreateItem(ctx context.Context, name string) (model.Item, error)
	GetItemByID(ctx context.Context, id string) (model.Item, error)
	UpdateItem(ctx context.Context, id, name string) (model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, params ports.ListParams) (ports.ListResult, error)
}

// ItemHandler handles the /items endpoints.
type ItemHandler struct {
	service ItemService
	logger  *zap.Logger
}

// NewItemHandler creates an item handler.
func NewItemHandler(service ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{service: service, logger: logger}
}

// CreateItemRequest is the body of POST /items.
type CreateItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateItemRequest is the body of PUT /items/{itemID}.
type UpdateItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListItemsResponse is the payload of GET /items.
type ListItemsResponse struct {
	Items      []model.ItemPrimitives `json:"items"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.CreateItem(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, item.Primitives())
}

// GetItem handles GET /items/{itemID}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItemByID(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, item.Primitives())
}

// UpdateItem handles PUT /items/{itemID}.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, item.Primitives())
}

// DeleteItem handles DELETE /items/{itemID}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListItems handles GET /items. Query params: limit, cursor.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	params := ports.ListParams{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.respondError(w, pkgerrors.NewValidationErrorForField("limit", "limit must be a non-negative integer"))
			return
		}
		params.Limit = limit
	}

	result, err := h.service.ListItems(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}

	payload := ListItemsResponse{Items: make([]model.ItemPrimitives, 0, len(result.Items)), NextCursor: result.NextCursor}
	for _, item := range result.Items {
		payload.Items = append(payload.Items, item.Primitives())
	}

	common.RespondJSON(w, http.StatusOK, payload)
}

// decode reads, parses and validates a JSON body, responding on failure.
func (h *ItemHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxItemBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, pkgerrors.NewValidationError("Invalid request body").WithCause(err))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		h.respondError(w, err)
		return false
	}
	return true
}

func (h *ItemHandler) respondError(w http.ResponseWriter, err error) {
	if kind := pkgerrors.KindOf(err); kind == pkgerrors.KindInfra || kind == pkgerrors.KindUnknown {
		h.logger.Error("Item request failed", zap.Error(err))
	}
	common.RespondDomainError(w, err)
}
