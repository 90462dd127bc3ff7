package dynamodb

import (
	"context"

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

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// itemRecord is the DynamoDB item shape for an Item.
type itemRecord struct {
	ItemID    string `dynamodbav:"itemId"`
	Name      string `dynamodbav:"name"`
	CreatedAt string `dynamodbav:"createdAt"`
	Version   int    `dynamodbav:"version"`
}

// ItemRepository implements ports.ItemRepository and
// ports.PaginatedItemRepository against a single-key items table.
type ItemRepository struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

// NewItemRepository creates an ItemRepository.
func NewItemRepository(client Client, tableName string, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists an item unconditionally. Saving an existing id overwrites
// it; optimistic concurrency applies to Update only.
func (r *ItemRepository) Save(ctx context.Context, item model.Item) error {
	record := recordFromItem(item)

	r.logger.Info("Saving item to DynamoDB",
		zap.String("itemId", record.ItemID),
		zap.Int("version", record.Version),
	)

	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return r.translate(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

// FindByID retrieves an item by key. A miss is reported as found=false.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (model.Item, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(id),
	})
	if err != nil {
		return model.Item{}, false, r.translate(err)
	}
	if len(out.Item) == 0 {
		return model.Item{}, false, nil
	}

	item, err := itemFromAttributes(out.Item)
	if err != nil {
		return model.Item{}, false, err
	}
	return item, true, nil
}

// Update performs the optimistic write: the record must exist and its stored
// version must equal the version carried by item. The store advances the
// version by one as part of the same write. Either precondition failing is a
// single CONFLICT; missing and stale are deliberately indistinguishable.
func (r *ItemRepository) Update(ctx context.Context, item model.Item) (model.Item, error) {
	r.logger.Info("Updating item in DynamoDB",
		zap.String("itemId", item.ID()),
		zap.Int("expectedVersion", item.Version()),
	)

	update := expression.
		Set(expression.Name("name"), expression.Value(item.Name())).
		Add(expression.Name("version"), expression.Value(1))
	condition := expression.AttributeExists(expression.Name("itemId")).
		And(expression.Name("version").Equal(expression.Value(item.Version())))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return model.Item{}, r.translate(err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       itemKey(item.ID()),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return model.Item{}, r.translate(err)
	}

	return itemFromAttributes(out.Attributes)
}

// Delete removes an item by key, unconditionally. Deleting a missing key is
// not an error.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	r.logger.Info("Deleting item from DynamoDB", zap.String("itemId", id))

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(id),
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

// List scans one page of items. The returned cursor resumes exactly where
// this page ended; an empty cursor means the end of the dataset.
func (r *ItemRepository) List(ctx context.Context, params ports.ListParams) (ports.ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	startKey, err := decodeCursor(params.Cursor)
	if err != nil {
		return ports.ListResult{}, err
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(r.tableName),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return ports.ListResult{}, r.translate(err)
	}

	items := make([]model.Item, 0, len(out.Items))
	for _, raw := range out.Items {
		item, err := itemFromAttributes(raw)
		if err != nil {
			return ports.ListResult{}, err
		}
		items = append(items, item)
	}

	return ports.ListResult{
		Items:      items,
		NextCursor: encodeCursor(out.LastEvaluatedKey),
	}, nil
}

func (r *ItemRepository) translate(err error) error {
	r.logger.Error("DynamoDB operation failed",
		zap.String("table", r.tableName),
		zap.Error(err),
	)
	return translateError(err, r.tableName, pkgerrors.NewVersionMismatchError)
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"itemId": &types.AttributeValueMemberS{Value: id},
	}
}

func recordFromItem(item model.Item) itemRecord {
	p := item.Primitives()
	return itemRecord{
		ItemID:    p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		Version:   p.Version,
	}
}

func itemFromAttributes(attrs map[string]types.AttributeValue) (model.Item, error) {
	var record itemRecord
	if err := attributevalue.UnmarshalMap(attrs, &record); err != nil {
		return model.Item{}, pkgerrors.NewUnknownError("failed to unmarshal item record", err)
	}
	return model.RestoreItem(model.ItemPrimitives{
		ID:        record.ItemID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		Version:   record.Version,
	})
}
