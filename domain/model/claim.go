package model

import (
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// Claim is an insurance claim record. Claims are create-only: once
// constructed and persisted they are never mutated.
type Claim struct {
	id             string
	memberID       string
	provider       string
	serviceDate    time.Time
	totalAmount    int
	diagnosisCodes []string
}

// ClaimProps are the typed construction inputs for a Claim.
type ClaimProps struct {
	ID             string
	MemberID       string
	Provider       string
	ServiceDate    time.Time
	TotalAmount    int
	DiagnosisCodes []string
}

// ClaimRow is one raw delimited-text row, keyed by header column name.
type ClaimRow map[string]string

// ClaimPrimitives is the persisted representation of a Claim. TotalAmount is
// in currency minor units.
type ClaimPrimitives struct {
	ID             string   `json:"claimId"`
	MemberID       string   `json:"memberId"`
	Provider       string   `json:"provider"`
	ServiceDate    string   `json:"serviceDate"`
	TotalAmount    int      `json:"totalAmount"`
	DiagnosisCodes []string `json:"diagnosisCodes,omitempty"`
}

// NewClaim creates a validated Claim. now is the processing instant used to
// reject future-dated service dates.
func NewClaim(props ClaimProps, now time.Time) (Claim, error) {
	if props.ID == "" {
		return Claim{}, pkgerrors.NewValidationErrorForField("claimId", "Missing claimId")
	}
	if props.MemberID == "" {
		return Claim{}, pkgerrors.NewValidationErrorForField("memberId", "Missing memberId")
	}
	if props.Provider == "" {
		return Claim{}, pkgerrors.NewValidationErrorForField("provider", "Missing provider")
	}
	if props.ServiceDate.IsZero() {
		return Claim{}, pkgerrors.NewValidationErrorForField("serviceDate", "Missing serviceDate")
	}
	if props.ServiceDate.After(now) {
		return Claim{}, pkgerrors.NewValidationErrorForField("serviceDate", "serviceDate cannot be in the future")
	}
	if props.TotalAmount < 0 {
		return Claim{}, pkgerrors.NewValidationErrorForField("totalAmount", "Invalid totalAmount (must be a non-negative integer)")
	}

	return Claim{
		id:             props.ID,
		memberID:       props.MemberID,
		provider:       props.Provider,
		serviceDate:    props.ServiceDate,
		totalAmount:    props.TotalAmount,
		diagnosisCodes: props.DiagnosisCodes,
	}, nil
}

// ClaimFromRow parses a raw text row into typed fields and delegates to
// NewClaim. Parse failures surface as the same field-tagged validation
// errors the typed constructor raises.
func ClaimFromRow(row ClaimRow, now time.Time) (Claim, error) {
	var serviceDate time.Time
	if raw := row["serviceDate"]; raw != "" {
		parsed, err := parseServiceDate(raw)
		if err != nil {
			return Claim{}, pkgerrors.NewValidationErrorForField("serviceDate", "Invalid date format").WithCause(err)
		}
		serviceDate = parsed
	}

	rawAmount := row["totalAmount"]
	if rawAmount == "" {
		return Claim{}, pkgerrors.NewValidationErrorForField("totalAmount", "Missing totalAmount")
	}
	totalAmount, err := strconv.Atoi(rawAmount)
	if err != nil {
		return Claim{}, pkgerrors.NewValidationErrorForField("totalAmount", "Invalid totalAmount (must be a non-negative integer)").WithCause(err)
	}

	var diagnosisCodes []string
	if raw := row["diagnosisCodes"]; raw != "" {
		diagnosisCodes = strings.Split(raw, ";")
	}

	return NewClaim(ClaimProps{
		ID:             row["claimId"],
		MemberID:       row["memberId"],
		Provider:       row["provider"],
		ServiceDate:    serviceDate,
		TotalAmount:    totalAmount,
		DiagnosisCodes: diagnosisCodes,
	}, now)
}

// RestoreClaim rehydrates a Claim from its persisted representation. The
// future-date check is skipped: the record was valid when written and the
// clock has only moved forward since.
func RestoreClaim(p ClaimPrimitives) (Claim, error) {
	serviceDate, err := parseServiceDate(p.ServiceDate)
	if err != nil {
		return Claim{}, pkgerrors.NewValidationErrorForField("serviceDate", "Invalid date format").WithCause(err)
	}
	return NewClaim(ClaimProps{
		ID:             p.ID,
		MemberID:       p.MemberID,
		Provider:       p.Provider,
		ServiceDate:    serviceDate,
		TotalAmount:    p.TotalAmount,
		DiagnosisCodes: p.DiagnosisCodes,
	}, serviceDate)
}

// parseServiceDate accepts RFC3339 timestamps and plain calendar dates.
func parseServiceDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// ID returns the claim's identifier.
func (c Claim) ID() string { return c.id }

// MemberID returns the owning member's identifier.
func (c Claim) MemberID() string { return c.memberID }

// Provider returns the provider name.
func (c Claim) Provider() string { return c.provider }

// ServiceDate returns the date of service.
func (c Claim) ServiceDate() time.Time { return c.serviceDate }

// TotalAmount returns the claim amount in currency minor units.
func (c Claim) TotalAmount() int { return c.totalAmount }

// DiagnosisCodes returns the ordered diagnosis codes, or nil.
func (c Claim) DiagnosisCodes() []string {
	if c.diagnosisCodes == nil {
		return nil
	}
	codes := make([]string, len(c.diagnosisCodes))
	copy(codes, c.diagnosisCodes)
	return codes
}

// Primitives returns the persisted representation.
func (c Claim) Primitives() ClaimPrimitives {
	return ClaimPrimitives{
		ID:             c.id,
		MemberID:       c.memberID,
		Provider:       c.provider,
		ServiceDate:    c.serviceDate.Format(time.RFC3339),
		TotalAmount:    c.totalAmount,
		DiagnosisCodes: c.DiagnosisCodes(),
	}
}
