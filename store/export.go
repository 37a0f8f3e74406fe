package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ListAll returns every entity of the domain in one pass, grouped by type.
// It queries GSI2, whose sort key clusters a domain's items by entity type
// and then creation time, so each group comes back in creation order.
func (s *Store) ListAll(ctx context.Context, domain string) (*DomainExport, error) {
	keyCond := expression.Key(AttrGSI2PK).Equal(expression.Value(DomainPK(domain)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	export := &DomainExport{
		Tasks:   []Task{},
		Tickets: []Ticket{},
		Users:   []UserProfile{},
		Sprints: []Sprint{},
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(s.config.GSI2Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query domain: %w", err)
		}
		for _, raw := range page.Items {
			var header struct {
				EntityType string `dynamodbav:"entityType"`
			}
			if err := attributevalue.UnmarshalMap(raw, &header); err != nil {
				return nil, fmt.Errorf("unmarshal envelope: %w", err)
			}

			switch header.EntityType {
			case EntityTask:
				var rec record[Task]
				if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
					return nil, fmt.Errorf("unmarshal %s: %w", EntityTask, err)
				}
				export.Tasks = append(export.Tasks, rec.Data)
			case EntityTicket:
				var rec record[Ticket]
				if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
					return nil, fmt.Errorf("unmarshal %s: %w", EntityTicket, err)
				}
				export.Tickets = append(export.Tickets, normalizeTicket(rec.Data))
			case EntityUser:
				var rec record[UserProfile]
				if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
					return nil, fmt.Errorf("unmarshal %s: %w", EntityUser, err)
				}
				export.Users = append(export.Users, rec.Data)
			case EntitySprint:
				var rec record[Sprint]
				if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
					return nil, fmt.Errorf("unmarshal %s: %w", EntitySprint, err)
				}
				export.Sprints = append(export.Sprints, rec.Data)
			}
		}
	}

	return export, nil
}
