package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/application/services"
	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	"github.com/MozartLino/claims-service/pkg/common"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
	"github.com/MozartLino/claims-service/pkg/utils"
)

const maxBatchBodyBytes = 10 << 20

// ClaimsService is the slice of the claims application service this
// handler needs.
type ClaimsService interface {
	ProcessClaims(ctx context.Context, content []byte) (services.ProcessClaimsResult, error)
	GetClaimByID(ctx context.Context, id string) (model.Claim, error)
	QueryClaims(ctx context.Context, filters ports.ClaimQueryFilters) (services.QueryClaimsResult, error)
}

// ClaimsHandler handles the /claims endpoints.
type ClaimsHandler struct {
	service ClaimsService
	logger  *zap.Logger
}

// NewClaimsHandler creates a claims handler.
func NewClaimsHandler(service ClaimsService, logger *zap.Logger) *ClaimsHandler {
	return &ClaimsHandler{service: service, logger: logger}
}

// QueryClaimsResponse is the payload of GET /claims. TotalAmount is in
// cents; TotalAmountFormatted renders it in dollars.
type QueryClaimsResponse struct {
	Claims               []model.ClaimPrimitives `json:"claims"`
	TotalAmount          int                     `json:"totalAmount"`
	TotalAmountFormatted string                  `json:"totalAmountFormatted"`
}

func formatAmount(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// IngestClaims handles POST /claims/ingest. The body is the raw CSV
// document; a multi-status summary always comes back with 200 as long as
// the file itself was readable.
func (h *ClaimsHandler) IngestClaims(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchBodyBytes)
	content, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, pkgerrors.NewValidationError("Unable to read request body").WithCause(err))
		return
	}

	result, err := h.service.ProcessClaims(r.Context(), content)
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetClaim handles GET /claims/{claimID}.
func (h *ClaimsHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.service.GetClaimByID(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, claim.Primitives())
}

// QueryClaims handles GET /claims. Query params: memberId, startDate,
// endDate. Dates accept RFC3339 timestamps or plain calendar dates.
func (h *ClaimsHandler) QueryClaims(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := ports.ClaimQueryFilters{MemberID: query.Get("memberId")}

	if raw := query.Get("startDate"); raw != "" {
		start, err := utils.ParseDate(raw)
		if err != nil {
			h.respondError(w, pkgerrors.NewValidationErrorForField("startDate", "Invalid date format"))
			return
		}
		filters.StartDate = start
	}
	if raw := query.Get("endDate"); raw != "" {
		end, err := utils.ParseDate(raw)
		if err != nil {
			h.respondError(w, pkgerrors.NewValidationErrorForField("endDate", "Invalid date format"))
			return
		}
		filters.EndDate = end
	}

	result, err := h.service.QueryClaims(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}

	payload := QueryClaimsResponse{
		Claims:               make([]model.ClaimPrimitives, 0, len(result.Claims)),
		TotalAmount:          result.TotalAmount,
		TotalAmountFormatted: formatAmount(result.TotalAmount),
	}
	for _, claim := range result.Claims {
		payload.Claims = append(payload.Claims, claim.Primitives())
	}

	common.RespondJSON(w, http.StatusOK, payload)
}

func (h *ClaimsHandler) respondError(w http.ResponseWriter, err error) {
	if kind := pkgerrors.KindOf(err); kind == pkgerrors.KindInfra || kind == pkgerrors.KindUnknown {
		h.logger.Error("Claims request failed", zap.Error(err))
	}
	common.RespondDomainError(w, err)
}
