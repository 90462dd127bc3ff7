package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// claimRecord is the DynamoDB item shape for a Claim. memberId and
// serviceDate are also the partition and sort key of the secondary index.
type claimRecord struct {
	ClaimID        string   `dynamodbav:"claimId"`
	MemberID       string   `dynamodbav:"memberId"`
	Provider       string   `dynamodbav:"provider"`
	ServiceDate    string   `dynamodbav:"serviceDate"`
	TotalAmount    int      `dynamodbav:"totalAmount"`
	DiagnosisCodes []string `dynamodbav:"diagnosisCodes,omitempty"`
}

// ClaimsRepository implements ports.ClaimsRepository against a claims table
// with a member/service-date secondary index.
type ClaimsRepository struct {
	client    Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewClaimsRepository creates a ClaimsRepository.
func NewClaimsRepository(client Client, tableName, indexName string, logger *zap.Logger) *ClaimsRepository {
	return &ClaimsRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Save persists a claim with a create-only precondition. A second save with
// the same id deterministically fails with a validation error — a duplicate
// source record is bad input, not a concurrency conflict.
func (r *ClaimsRepository) Save(ctx context.Context, claim model.Claim) error {
	record := recordFromClaim(claim)

	r.logger.Info("Saving claim to DynamoDB",
		zap.String("claimId", record.ClaimID),
		zap.String("memberId", record.MemberID),
	)

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return r.translate(err)
	}

	condition := expression.AttributeNotExists(expression.Name("claimId"))
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return r.translate(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

// FindByID retrieves a claim by key. A miss is reported as found=false.
func (r *ClaimsRepository) FindByID(ctx context.Context, id string) (model.Claim, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"claimId": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return model.Claim{}, false, r.translate(err)
	}
	if len(out.Item) == 0 {
		return model.Claim{}, false, nil
	}

	claim, err := claimFromAttributes(out.Item)
	if err != nil {
		return model.Claim{}, false, err
	}
	return claim, true, nil
}

// FindByMemberAndDateRange queries the secondary index for one member's
// claims within an inclusive service-date window, newest first.
func (r *ClaimsRepository) FindByMemberAndDateRange(ctx context.Context, filters ports.ClaimQueryFilters) ([]model.Claim, error) {
	keyCondition := expression.Key("memberId").Equal(expression.Value(filters.MemberID)).
		And(expression.Key("serviceDate").Between(
			expression.Value(filters.StartDate.Format(time.RFC3339)),
			expression.Value(filters.EndDate.Format(time.RFC3339)),
		))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, r.translate(err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, r.translate(err)
	}

	claims := make([]model.Claim, 0, len(out.Items))
	for _, raw := range out.Items {
		claim, err := claimFromAttributes(raw)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

func (r *ClaimsRepository) translate(err error) error {
	r.logger.Error("DynamoDB operation failed",
		zap.String("table", r.tableName),
		zap.Error(err),
	)
	return translateError(err, r.tableName, func() *pkgerrors.DomainError {
		return pkgerrors.NewValidationErrorForField("id", "A claim with the given ID already exists.")
	})
}

func recordFromClaim(claim model.Claim) claimRecord {
	p := claim.Primitives()
	return claimRecord{
		ClaimID:        p.ID,
		MemberID:       p.MemberID,
		Provider:       p.Provider,
		ServiceDate:    p.ServiceDate,
		TotalAmount:    p.TotalAmount,
		DiagnosisCodes: p.DiagnosisCodes,
	}
}

func claimFromAttributes(attrs map[string]types.AttributeValue) (model.Claim, error) {
	var record claimRecord
	if err := attributevalue.UnmarshalMap(attrs, &record); err != nil {
		return model.Claim{}, pkgerrors.NewUnknownError("failed to unmarshal claim record", err)
	}
	return model.RestoreClaim(model.ClaimPrimitives{
		ID:             record.ClaimID,
		MemberID:       record.MemberID,
		Provider:       record.Provider,
		ServiceDate:    record.ServiceDate,
		TotalAmount:    record.TotalAmount,
		DiagnosisCodes: record.DiagnosisCodes,
	})
}
