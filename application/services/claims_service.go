package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// RecordError describes one failed row of an ingestion batch. Row numbers
// are 1-based and count data rows only, never the header.
type RecordError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ProcessClaimsResult summarizes a batch ingestion. Errors preserve the
// original row order of the input file.
type ProcessClaimsResult struct {
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Errors       []RecordError `json:"errors"`
}

// QueryClaimsResult carries one member's claims over a date range, newest
// first, along with the summed amount in cents.
type QueryClaimsResult struct {
	Claims      []model.Claim
	TotalAmount int
}

// ClaimsService exposes the claim use cases, including CSV batch ingestion.
type ClaimsService struct {
	repo   ports.ClaimsRepository
	clock  ports.Clock
	logger *zap.Logger
}

// NewClaimsService creates a ClaimsService.
func NewClaimsService(repo ports.ClaimsRepository, clock ports.Clock, logger *zap.Logger) *ClaimsService {
	return &ClaimsService{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// ProcessClaims ingests a CSV document of claims. Every data row is parsed,
// validated and persisted independently, so one bad row never blocks the
// rest of the batch. The returned summary reports per-row failures by their
// position in the file.
func (s *ClaimsService) ProcessClaims(ctx context.Context, content []byte) (ProcessClaimsResult, error) {
	rows, err := parseCSV(content)
	if err != nil {
		return ProcessClaimsResult{}, err
	}

	results := make([]*RecordError, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row model.ClaimRow) {
			defer wg.Done()
			if err := s.ingestRow(ctx, row); err != nil {
				results[i] = &RecordError{Row: i + 1, Message: rowErrorMessage(err)}
			}
		}(i, row)
	}
	wg.Wait()

	summary := ProcessClaimsResult{Errors: []RecordError{}}
	for _, r := range results {
		if r == nil {
			summary.SuccessCount++
			continue
		}
		summary.ErrorCount++
		summary.Errors = append(summary.Errors, *r)
	}

	s.logger.Info("Claims batch processed",
		zap.Int("successCount", summary.SuccessCount),
		zap.Int("errorCount", summary.ErrorCount),
	)
	return summary, nil
}

func (s *ClaimsService) ingestRow(ctx context.Context, row model.ClaimRow) error {
	claim, err := model.ClaimFromRow(row, s.clock.Now())
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, claim)
}

// GetClaimByID retrieves a claim that must exist.
func (s *ClaimsService) GetClaimByID(ctx context.Context, id string) (model.Claim, error) {
	claim, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Claim{}, err
	}
	if !found {
		return model.Claim{}, pkgerrors.NewNotFoundError("Claim", id)
	}
	return claim, nil
}

// QueryClaims returns one member's claims whose service date falls inside
// the inclusive range, ordered newest first, plus the summed total amount.
func (s *ClaimsService) QueryClaims(ctx context.Context, filters ports.ClaimQueryFilters) (QueryClaimsResult, error) {
	if err := validateFilters(filters); err != nil {
		return QueryClaimsResult{}, err
	}

	claims, err := s.repo.FindByMemberAndDateRange(ctx, filters)
	if err != nil {
		return QueryClaimsResult{}, err
	}

	// The index already returns descending order, but the contract is owned
	// here, not by whatever store backs the repository.
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].ServiceDate().After(claims[j].ServiceDate())
	})

	total := 0
	for _, c := range claims {
		total += c.TotalAmount()
	}

	return QueryClaimsResult{Claims: claims, TotalAmount: total}, nil
}

func validateFilters(filters ports.ClaimQueryFilters) error {
	if strings.TrimSpace(filters.MemberID) == "" {
		return pkgerrors.NewValidationErrorForField("memberId", "Missing memberId")
	}
	if filters.StartDate.IsZero() || filters.EndDate.IsZero() {
		return pkgerrors.NewValidationError("Both startDate and endDate are required")
	}
	if filters.StartDate.After(filters.EndDate) {
		return pkgerrors.NewValidationError("startDate must be before or equal to endDate")
	}
	return nil
}

// parseCSV reads a header-driven CSV document into one ClaimRow per data
// row. Blank lines are skipped and every field is trimmed.
func parseCSV(content []byte) ([]model.ClaimRow, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, pkgerrors.NewValidationError("CSV content is empty")
	}
	if err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("Malformed CSV header: %v", err))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []model.ClaimRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("Malformed CSV row: %v", err))
		}
		if isBlankRow(record) {
			continue
		}

		row := make(model.ClaimRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBlankRow(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// rowErrorMessage keeps domain error messages intact and downgrades
// anything else so that store internals never leak into the batch report.
func rowErrorMessage(err error) string {
	if domainErr := pkgerrors.AsDomainError(err); domainErr != nil {
		return domainErr.Message
	}
	return "Unexpected error"
}
