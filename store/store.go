package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client the Store uses. The
// client is injected rather than held in package state so tests can swap
// in a double (see store/storetest).
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store translates typed entity operations into single-table DynamoDB
// operations.
type Store struct {
	client DynamoDBAPI
	config Config
}

// New creates a new Store instance.
func New(client DynamoDBAPI, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// timeLayout is RFC 3339 with milliseconds. Fixed width, so timestamps sort
// lexicographically in GSI1SK/GSI2SK.
const timeLayout = "2006-01-02T15:04:05.000Z"

func stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Conditional expressions used on writes. The storetest fake recognizes
// these exact strings.
const (
	condCreate  = "attribute_not_exists(PK)"
	condVersion = "version = :expected"
)

// record is the stored item shape: key attributes, index attributes, the
// envelope fields, and the full entity payload under "data". entityType,
// domain and the timestamps are carried redundantly at the envelope level
// as well as inside data.
type record[T any] struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"entityType"`
	Domain     string `dynamodbav:"domain"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt"`
	Version    int64  `dynamodbav:"version"`
	Data       T      `dynamodbav:"data"`
}

// entityRecord assembles the item for one entity. Version is set by the
// write path (putNew, putVersioned).
func entityRecord[T any](domain, entityType, id, createdAt, updatedAt string, data T) record[T] {
	return record[T]{
		PK:         EntityPK(domain, entityType, id),
		SK:         SKMeta,
		GSI1PK:     TypePK(domain, entityType),
		GSI1SK:     createdAt,
		GSI2PK:     DomainPK(domain),
		GSI2SK:     DomainSK(entityType, createdAt),
		EntityType: entityType,
		Domain:     domain,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Data:       data,
	}
}

// putNew writes a brand-new item, failing if the key already exists.
func putNew[T any](ctx context.Context, s *Store, rec record[T]) error {
	rec.Version = 1
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", rec.EntityType, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.TableName),
		Item:                item,
		ConditionExpression: aws.String(condCreate),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.EntityType, err)
	}
	return nil
}

// putVersioned replaces an item read at expectedVersion, failing with
// ErrConcurrentModification if the stored version moved in the meantime.
func putVersioned[T any](ctx context.Context, s *Store, rec record[T], expectedVersion int64) error {
	rec.Version = expectedVersion + 1
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", rec.EntityType, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.TableName),
		Item:                item,
		ConditionExpression: aws.String(condVersion),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{
				Value: strconv.FormatInt(expectedVersion, 10),
			},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("put %s: %w", rec.EntityType, err)
	}
	return nil
}

// getRecord point-reads one entity's META item. Returns (nil, nil) when the
// item does not exist.
func getRecord[T any](ctx context.Context, s *Store, domain, entityType, id string) (*record[T], error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       metaKey(domain, entityType, id),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", entityType, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec record[T]
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", entityType, err)
	}
	return &rec, nil
}

// listRecords queries GSI1 for every entity of one type in a domain,
// ordered by createdAt ascending. The full result set is returned; the
// store exposes no pagination surface.
func listRecords[T any](ctx context.Context, s *Store, domain, entityType string) ([]record[T], error) {
	keyCond := expression.Key(AttrGSI1PK).Equal(expression.Value(TypePK(domain, entityType)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recs []record[T]
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(s.config.GSI1Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", entityType, err)
		}
		for _, raw := range page.Items {
			var rec record[T]
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", entityType, err)
			}
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

// deleteRecord removes an entity's META item. No existence check; deleting
// a missing item is a no-op. References to the entity elsewhere (sprint
// taskIds, other tasks' linkedTasks) are not cleaned up.
func deleteRecord(ctx context.Context, s *Store, domain, entityType, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       metaKey(domain, entityType, id),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", entityType, err)
	}
	return nil
}

func metaKey(domain, entityType, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: EntityPK(domain, entityType, id)},
		AttrSK: &types.AttributeValueMemberS{Value: SKMeta},
	}
}
