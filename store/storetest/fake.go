// Package storetest provides an in-memory double of the DynamoDB API
// subset the store uses, for unit tests that need the full store behavior
// without a real table.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client is an in-memory table keyed by (PK, SK). It understands exactly
// the call shapes the store makes: point get/put/delete, single-equality
// key-condition queries against the GSI1/GSI2 indexes, and the store's two
// conditional expressions (attribute_not_exists(PK) on create, a version
// equality check on replace).
type Client struct {
	mu    sync.Mutex
	items map[string]storedItem
	seq   int
}

type storedItem struct {
	attrs map[string]types.AttributeValue
	seq   int
}

// New returns an empty in-memory client.
func New() *Client {
	return &Client{items: make(map[string]storedItem)}
}

// Len reports the number of stored items.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Client) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	stored, ok := c.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyAttrs(stored.attrs)}, nil
}

func (c *Client) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, err := itemKey(params.Item)
	if err != nil {
		return nil, err
	}
	existing, exists := c.items[key]

	if params.ConditionExpression != nil {
		switch *params.ConditionExpression {
		case "attribute_not_exists(PK)":
			if exists {
				return nil, conditionFailed()
			}
		case "version = :expected":
			if !exists {
				return nil, conditionFailed()
			}
			expected, ok := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
			if !ok {
				return nil, fmt.Errorf("storetest: missing :expected value")
			}
			current, ok := existing.attrs["version"].(*types.AttributeValueMemberN)
			if !ok || current.Value != expected.Value {
				return nil, conditionFailed()
			}
		default:
			return nil, fmt.Errorf("storetest: unsupported condition %q", *params.ConditionExpression)
		}
	}

	seq := c.seq
	if exists {
		seq = existing.seq
	} else {
		c.seq++
	}
	c.items[key] = storedItem{attrs: copyAttrs(params.Item), seq: seq}
	return &dynamodb.PutItemOutput{}, nil
}

func (c *Client) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	delete(c.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *Client) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sortAttr := "SK"
	if params.IndexName != nil {
		switch *params.IndexName {
		case "GSI1":
			sortAttr = "GSI1SK"
		case "GSI2":
			sortAttr = "GSI2SK"
		default:
			return nil, fmt.Errorf("storetest: unknown index %q", *params.IndexName)
		}
	}

	attr, want, err := parseKeyCondition(params)
	if err != nil {
		return nil, err
	}

	var matched []storedItem
	for _, stored := range c.items {
		v, ok := stored.attrs[attr].(*types.AttributeValueMemberS)
		if ok && v.Value == want {
			matched = append(matched, stored)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a := stringAttr(matched[i].attrs, sortAttr)
		b := stringAttr(matched[j].attrs, sortAttr)
		if a != b {
			return a < b
		}
		return matched[i].seq < matched[j].seq
	})

	out := &dynamodb.QueryOutput{Count: int32(len(matched))}
	for _, stored := range matched {
		out.Items = append(out.Items, copyAttrs(stored.attrs))
	}
	return out, nil
}

// parseKeyCondition handles the single-equality conditions produced by the
// expression builder ("#0 = :0") and resolves the placeholders.
func parseKeyCondition(params *dynamodb.QueryInput) (attr, value string, err error) {
	if params.KeyConditionExpression == nil {
		return "", "", fmt.Errorf("storetest: missing key condition")
	}
	parts := strings.Split(*params.KeyConditionExpression, " = ")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("storetest: unsupported key condition %q", *params.KeyConditionExpression)
	}

	attr = parts[0]
	if strings.HasPrefix(attr, "#") {
		resolved, ok := params.ExpressionAttributeNames[attr]
		if !ok {
			return "", "", fmt.Errorf("storetest: unresolved name %q", attr)
		}
		attr = resolved
	}

	raw, ok := params.ExpressionAttributeValues[parts[1]]
	if !ok {
		return "", "", fmt.Errorf("storetest: unresolved value %q", parts[1])
	}
	s, ok := raw.(*types.AttributeValueMemberS)
	if !ok {
		return "", "", fmt.Errorf("storetest: non-string key value %q", parts[1])
	}
	return attr, s.Value, nil
}

func itemKey(attrs map[string]types.AttributeValue) (string, error) {
	pk, ok := attrs["PK"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("storetest: item has no string PK")
	}
	sk, ok := attrs["SK"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("storetest: item has no string SK")
	}
	return pk.Value + "\x1f" + sk.Value, nil
}

func stringAttr(attrs map[string]types.AttributeValue, name string) string {
	if v, ok := attrs[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func copyAttrs(attrs map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{
		Message: aws.String("The conditional request failed"),
	}
}
