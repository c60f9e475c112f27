// Package dynamo implements store.RecordStore on Amazon DynamoDB. Records are
// converted with the attributevalue package and every filter or update goes
// through the expression builder, so attribute names are always aliased.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
)

// API is the subset of *dynamodb.Client used by the store.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	ListTables(ctx context.Context, in *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

var newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) API {
	return dynamodb.NewFromConfig(cfg, optFns...)
}

type Store struct {
	client API
}

func New(client API) *Store {
	return &Store{client: client}
}

// NewFromConfig builds a client from an aws.Config. A non-empty endpoint
// points the client at DynamoDB Local or another compatible service.
func NewFromConfig(cfg aws.Config, endpoint string) *Store {
	client := newDynamoClientFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client)
}

func keyOf(c store.Collection, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{c.Key: &types.AttributeValueMemberS{Value: id}}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("dynamodb %s: %w: %v", op, common.ErrorStoreUnavailable, err)
}

func (s *Store) GetByID(ctx context.Context, c store.Collection, id string, out any) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.Name),
		Key:            keyOf(c, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return unavailable("get", err)
	}
	if len(res.Item) == 0 {
		return common.ErrorNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return unavailable("decode", err)
	}
	return nil
}

// filterExpression turns a predicate into a DynamoDB condition. ok is false
// for an empty predicate.
func filterExpression(p store.Predicate) (cond expression.ConditionBuilder, ok bool, err error) {
	for i, c := range p.Conditions() {
		if c.Op != store.OpEqual {
			return cond, false, fmt.Errorf("unsupported operator %s", c.Op)
		}
		eq := expression.Name(c.Field).Equal(expression.Value(c.Value))
		if i == 0 {
			cond = eq
		} else {
			cond = cond.And(eq)
		}
		ok = true
	}
	return cond, ok, nil
}

// Scan reads the whole table following LastEvaluatedKey, applying the
// predicate as a filter expression.
func (s *Store) Scan(ctx context.Context, c store.Collection, p store.Predicate, out any) error {
	in := &dynamodb.ScanInput{TableName: aws.String(c.Name)}

	cond, ok, err := filterExpression(p)
	if err != nil {
		return unavailable("scan", err)
	}
	if ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return unavailable("scan", err)
		}
		in.FilterExpression = expr.Filter()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	items := make([]map[string]types.AttributeValue, 0)
	for {
		res, err := s.client.Scan(ctx, in)
		if err != nil {
			return unavailable("scan", err)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = res.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return unavailable("decode", err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, c store.Collection, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return unavailable("encode", err)
	}
	if _, ok := av[c.Key]; !ok {
		return unavailable("put", fmt.Errorf("item has no %q", c.Key))
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.Name),
		Item:      av,
	})
	if err != nil {
		return unavailable("put", err)
	}
	return nil
}

// Update sets the given attributes on an existing item. The write is
// conditional on the key existing, so a missing item is common.ErrorNotFound
// instead of an implicit insert.
func (s *Store) Update(ctx context.Context, c store.Collection, id string, set []store.Assignment) error {
	if len(set) == 0 {
		return nil
	}

	var upd expression.UpdateBuilder
	for i, a := range set {
		if i == 0 {
			upd = expression.Set(expression.Name(a.Field), expression.Value(a.Value))
		} else {
			upd = upd.Set(expression.Name(a.Field), expression.Value(a.Value))
		}
	}

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name(c.Key))).
		Build()
	if err != nil {
		return unavailable("update", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.Name),
		Key:                       keyOf(c, id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrorNotFound
		}
		return unavailable("update", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
