package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// translateError is the single boundary mapping DynamoDB failures to domain
// error kinds. A conditional-check failure means different things per
// operation (duplicate id on create, lost race on update), so each caller
// supplies its own mapping for that one case; everything else is uniform.
func translateError(err error, table string, onConditionFailed func() *pkgerrors.DomainError) error {
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return onConditionFailed().WithCause(err)
	}

	var throughputExceeded *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughputExceeded) {
		return pkgerrors.NewInfraError("Throttled", table, err)
	}

	var resourceNotFound *types.ResourceNotFoundException
	if errors.As(err, &resourceNotFound) {
		return pkgerrors.NewInfraError("Resource not found", table, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "RequestLimitExceeded":
			return pkgerrors.NewInfraError("Throttled", table, err)
		case "AccessDeniedException":
			return pkgerrors.NewInfraError("Access denied", table, err)
		}
	}

	return pkgerrors.NewInfraError("Operation failure", table, err)
}
