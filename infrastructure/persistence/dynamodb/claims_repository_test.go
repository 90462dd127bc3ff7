package dynamodb

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/domain/model"
	"github.com/MozartLino/claims-service/domain/ports"
	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

func testClaim(t *testing.T, id string, serviceDate time.Time) model.Claim {
	t.Helper()
	claim, err := model.NewClaim(model.ClaimProps{
		ID:          id,
		MemberID:    "member-1",
		Provider:    "Acme Health",
		ServiceDate: serviceDate,
		TotalAmount: 1500,
	}, serviceDate.Add(24*time.Hour))
	require.NoError(t, err)
	return claim
}

func claimAttributes(claim model.Claim) map[string]types.AttributeValue {
	p := claim.Primitives()
	return map[string]types.AttributeValue{
		"claimId":     &types.AttributeValueMemberS{Value: p.ID},
		"memberId":    &types.AttributeValueMemberS{Value: p.MemberID},
		"provider":    &types.AttributeValueMemberS{Value: p.Provider},
		"serviceDate": &types.AttributeValueMemberS{Value: p.ServiceDate},
		"totalAmount": &types.AttributeValueMemberN{Value: strconv.Itoa(p.TotalAmount)},
	}
}

func TestClaimsRepositorySaveIsConditional(t *testing.T) {
	var captured *dynamodb.PutItemInput
	client := &stubClient{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			captured = in
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	repo := NewClaimsRepository(client, "claimsTable", "claimsByMemberAndDate", zap.NewNop())

	claim := testClaim(t, "claim-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(context.Background(), claim))

	require.NotNil(t, captured)
	require.NotNil(t, captured.ConditionExpression)
	assert.Contains(t, *captured.ConditionExpression, "attribute_not_exists")
	assert.Contains(t, captured.ExpressionAttributeNames, "#0")
	assert.Equal(t, "claimId", captured.ExpressionAttributeNames["#0"])
}

func TestClaimsRepositorySaveDuplicate(t *testing.T) {
	client := &stubClient{
		putItem: func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	repo := NewClaimsRepository(client, "claimsTable", "claimsByMemberAndDate", zap.NewNop())

	claim := testClaim(t, "claim-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	err := repo.Save(context.Background(), claim)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err), "duplicate id must be a validation error, not a conflict")
	assert.Equal(t, "A claim with the given ID already exists.", pkgerrors.AsDomainError(err).Message)
}

func TestClaimsRepositorySaveThrottled(t *testing.T) {
	client := &stubClient{
		putItem: func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			return nil, &types.ProvisionedThroughputExceededException{}
		},
	}
	repo := NewClaimsRepository(client, "claimsTable", "claimsByMemberAndDate", zap.NewNop())

	claim := testClaim(t, "claim-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	err := repo.Save(context.Background(), claim)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsInfra(err))
	assert.Equal(t, "Throttled", pkgerrors.AsDomainError(err).Message)
}

func TestClaimsRepositoryFindByID(t *testing.T) {
	stored := testClaim(t, "claim-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	client := &stubClient{
		getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			if in.Key["claimId"].(*types.AttributeValueMemberS).Value != "claim-1" {
				return &dynamodb.GetItemOutput{}, nil
			}
			return &dynamodb.GetItemOutput{Item: claimAttributes(stored)}, nil
		},
	}
	repo := NewClaimsRepository(client, "claimsTable", "claimsByMemberAndDate", zap.NewNop())

	claim, found, err := repo.FindByID(context.Background(), "claim-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "claim-1", claim.ID())
	assert.Equal(t, 1500, claim.TotalAmount())

	_, found, err = repo.FindByID(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClaimsRepositoryFindByMemberAndDateRange(t *testing.T) {
	older := testClaim(t, "claim-old", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	newer := testClaim(t, "claim-new", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	var captured *dynamodb.QueryInput
	client := &stubClient{
		query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			captured = in
			// Descending, as requested via ScanIndexForward=false.
			return &dynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{
					claimAttributes(newer),
					claimAttributes(older),
				},
			}, nil
		},
	}
	repo := NewClaimsRepository(client, "claimsTable", "claimsByMemberAndDate", zap.NewNop())

	claims, err := repo.FindByMemberAndDateRange(context.Background(), ports.ClaimQueryFilters{
		MemberID:  "member-1",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, claims, 2)
	assert.Equal(t, "claim-new", claims[0].ID())
	assert.Equal(t, "claim-old", claims[1].ID())

	require.NotNil(t, captured)
	assert.Equal(t, "claimsByMemberAndDate", *captured.IndexName)
	require.NotNil(t, captured.ScanIndexForward)
	assert.False(t, *captured.ScanIndexForward)
	assert.Contains(t, *captured.KeyConditionExpression, "BETWEEN")
}
