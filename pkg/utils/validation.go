// Package utils holds small helpers shared across the interface layer.
package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

var validate = validator.New()

// ValidateStruct validates a struct against its validation tags. Failures
// come back as a single validation error whose details carry one message
// per offending field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	domainErr := pkgerrors.NewValidationError("")
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		message := formatFieldError(field, e)
		messages = append(messages, message)
		domainErr = domainErr.WithDetail(field, message)
	}
	domainErr.Message = strings.Join(messages, "; ")
	return domainErr
}

func formatFieldError(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
