// Package common holds the HTTP response envelope shared by all handlers.
package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries the normalized error payload.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a success envelope with the given payload.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error envelope.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondErrorWithDetails(w, status, code, message, nil)
}

// RespondErrorWithDetails sends an error envelope with field-level details.
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondDomainError translates a domain error into the envelope, mapping
// its kind onto an HTTP status. Errors that carry no kind are treated as
// unknown so that internals never leak to the client.
func RespondDomainError(w http.ResponseWriter, err error) {
	domainErr := pkgerrors.AsDomainError(err)
	if domainErr == nil {
		RespondError(w, http.StatusInternalServerError, string(pkgerrors.KindUnknown), "Unexpected error")
		return
	}

	RespondErrorWithDetails(w, StatusForKind(domainErr.Kind), string(domainErr.Kind), domainErr.Message, domainErr.Details)
}

// StatusForKind maps an error kind onto its HTTP status code.
func StatusForKind(kind pkgerrors.Kind) int {
	switch kind {
	case pkgerrors.KindValidation:
		return http.StatusBadRequest
	case pkgerrors.KindNotFound:
		return http.StatusNotFound
	case pkgerrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
