package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	pkgerrors "github.com/MozartLino/claims-service/pkg/errors"
)

// lastEvaluatedKey is the typed form of the Scan resume key. The raw
// AttributeValue map does not survive a JSON round trip, so the cursor
// carries this struct instead.
type lastEvaluatedKey struct {
	ItemID string `json:"itemId"`
}

// encodeCursor turns DynamoDB's LastEvaluatedKey into an opaque wire token.
// An empty key encodes to the empty cursor, meaning no further pages.
func encodeCursor(key map[string]types.AttributeValue) string {
	if len(key) == 0 {
		return ""
	}

	lek := lastEvaluatedKey{}
	if v, ok := key["itemId"].(*types.AttributeValueMemberS); ok {
		lek.ItemID = v.Value
	}
	if lek.ItemID == "" {
		return ""
	}

	data, err := json.Marshal(lek)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor reverses encodeCursor into the store's ExclusiveStartKey
// shape. An empty cursor decodes to nil (start from the beginning); a
// malformed one is a validation error, not an infra failure.
func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, pkgerrors.NewValidationErrorForField("cursor", "Invalid cursor").WithCause(err)
	}

	var lek lastEvaluatedKey
	if err := json.Unmarshal(data, &lek); err != nil {
		return nil, pkgerrors.NewValidationErrorForField("cursor", "Invalid cursor").WithCause(err)
	}
	if lek.ItemID == "" {
		return nil, pkgerrors.NewValidationErrorForField("cursor", "Invalid cursor")
	}

	return map[string]types.AttributeValue{
		"itemId": &types.AttributeValueMemberS{Value: lek.ItemID},
	}, nil
}
