package dynamo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type rec struct {
	ID       string `dynamodbav:"id"`
	City     string `dynamodbav:"city"`
	Age      int    `dynamodbav:"age"`
	Approved bool   `dynamodbav:"approved"`
}

var people = store.Collection{Name: "people", Key: "id"}

type fakeAPI struct {
	API

	getIn  *dynamodb.GetItemInput
	getOut *dynamodb.GetItemOutput
	getErr error

	putIn  *dynamodb.PutItemInput
	putErr error

	scanIns  []*dynamodb.ScanInput
	scanOuts []*dynamodb.ScanOutput
	scanErr  error

	updIn  *dynamodb.UpdateItemInput
	updErr error

	listErr error
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getIn = in
	return f.getOut, f.getErr
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putIn = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeAPI) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	cp := *in
	f.scanIns = append(f.scanIns, &cp)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := f.scanOuts[0]
	f.scanOuts = f.scanOuts[1:]
	return out, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updIn = in
	return &dynamodb.UpdateItemOutput{}, f.updErr
}

func (f *fakeAPI) ListTables(context.Context, *dynamodb.ListTablesInput, ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return &dynamodb.ListTablesOutput{}, f.listErr
}

func item(t *testing.T, r rec) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(r)
	require.NoError(t, err)
	return av
}

func TestGetByID_Found(t *testing.T) {
	f := &fakeAPI{getOut: &dynamodb.GetItemOutput{Item: item(t, rec{ID: "1", City: "london", Age: 30})}}
	s := New(f)

	var got rec
	require.NoError(t, s.GetByID(context.Background(), people, "1", &got))
	assert.Equal(t, rec{ID: "1", City: "london", Age: 30}, got)

	assert.Equal(t, "people", aws.ToString(f.getIn.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "1"}, f.getIn.Key["id"])
	assert.True(t, aws.ToBool(f.getIn.ConsistentRead))
}

func TestGetByID_NotFound(t *testing.T) {
	s := New(&fakeAPI{getOut: &dynamodb.GetItemOutput{}})

	var got rec
	err := s.GetByID(context.Background(), people, "1", &got)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestGetByID_Error(t *testing.T) {
	s := New(&fakeAPI{getErr: errBoom{}})

	var got rec
	err := s.GetByID(context.Background(), people, "1", &got)
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
	assert.Contains(t, err.Error(), "boom")
}

func TestScan_BuildsAliasedFilterAndPaginates(t *testing.T) {
	f := &fakeAPI{scanOuts: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{item(t, rec{ID: "1", City: "london", Approved: true})},
			LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "1"}},
		},
		{
			Items: []map[string]types.AttributeValue{item(t, rec{ID: "2", City: "london", Approved: true})},
		},
	}}
	s := New(f)

	var out []rec
	err := s.Scan(context.Background(), people, store.Where("approved", true).And("city", "london"), &out)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "2", out[1].ID)

	require.Len(t, f.scanIns, 2)
	first := f.scanIns[0]
	assert.Nil(t, first.ExclusiveStartKey)
	assert.NotNil(t, f.scanIns[1].ExclusiveStartKey)

	filter := aws.ToString(first.FilterExpression)
	assert.Contains(t, filter, "AND")
	assert.NotContains(t, filter, "approved", "attribute names must be aliased")
	assert.NotContains(t, filter, "london", "values must be bound")

	names := make([]string, 0, len(first.ExpressionAttributeNames))
	for alias, name := range first.ExpressionAttributeNames {
		assert.True(t, strings.HasPrefix(alias, "#"))
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"approved", "city"}, names)

	var values []any
	for _, v := range first.ExpressionAttributeValues {
		switch tv := v.(type) {
		case *types.AttributeValueMemberS:
			values = append(values, tv.Value)
		case *types.AttributeValueMemberBOOL:
			values = append(values, tv.Value)
		}
	}
	assert.ElementsMatch(t, []any{true, "london"}, values)
}

func TestScan_EmptyPredicateHasNoFilter(t *testing.T) {
	f := &fakeAPI{scanOuts: []*dynamodb.ScanOutput{{}}}
	s := New(f)

	var out []rec
	require.NoError(t, s.Scan(context.Background(), people, store.Predicate{}, &out))
	assert.Empty(t, out)
	assert.Nil(t, f.scanIns[0].FilterExpression)
	assert.Empty(t, f.scanIns[0].ExpressionAttributeNames)
}

func TestScan_Error(t *testing.T) {
	s := New(&fakeAPI{scanErr: errBoom{}})

	var out []rec
	err := s.Scan(context.Background(), people, store.Where("city", "x"), &out)
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
}

func TestPut(t *testing.T) {
	f := &fakeAPI{}
	s := New(f)

	require.NoError(t, s.Put(context.Background(), people, rec{ID: "9", City: "oslo", Age: 41}))
	assert.Equal(t, "people", aws.ToString(f.putIn.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "oslo"}, f.putIn.Item["city"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "41"}, f.putIn.Item["age"])
	assert.Nil(t, f.putIn.ConditionExpression, "put is an unconditional upsert")
}

func TestPut_Errors(t *testing.T) {
	err := New(&fakeAPI{putErr: errBoom{}}).Put(context.Background(), people, rec{ID: "1"})
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))

	err = New(&fakeAPI{}).Put(context.Background(), store.Collection{Name: "x", Key: "missing"}, rec{ID: "1"})
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
}

func TestUpdate(t *testing.T) {
	f := &fakeAPI{}
	s := New(f)

	err := s.Update(context.Background(), people, "1", []store.Assignment{store.Set("approved", true), store.Set("city", "rome")})
	require.NoError(t, err)

	in := f.updIn
	assert.Equal(t, &types.AttributeValueMemberS{Value: "1"}, in.Key["id"])
	assert.Contains(t, aws.ToString(in.UpdateExpression), "SET")
	assert.Contains(t, aws.ToString(in.ConditionExpression), "attribute_exists")
	assert.Len(t, in.ExpressionAttributeValues, 2)
}

func TestUpdate_MissingItem(t *testing.T) {
	s := New(&fakeAPI{updErr: &types.ConditionalCheckFailedException{Message: aws.String("nope")}})

	err := s.Update(context.Background(), people, "1", []store.Assignment{store.Set("approved", true)})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestUpdate_Error(t *testing.T) {
	s := New(&fakeAPI{updErr: errBoom{}})

	err := s.Update(context.Background(), people, "1", []store.Assignment{store.Set("approved", true)})
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable))
}

func TestUpdate_NothingToDo(t *testing.T) {
	f := &fakeAPI{}
	require.NoError(t, New(f).Update(context.Background(), people, "1", nil))
	assert.Nil(t, f.updIn)
}

func TestPing(t *testing.T) {
	assert.NoError(t, New(&fakeAPI{}).Ping(context.Background()))
	assert.True(t, errors.Is(New(&fakeAPI{listErr: errBoom{}}).Ping(context.Background()), common.ErrorStoreUnavailable))
}

func TestNewFromConfig_AppliesEndpoint(t *testing.T) {
	orig := newDynamoClientFromConfig
	t.Cleanup(func() { newDynamoClientFromConfig = orig })

	var endpoint string
	newDynamoClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) API {
		var o dynamodb.Options
		for _, fn := range optFns {
			fn(&o)
		}
		endpoint = aws.ToString(o.BaseEndpoint)
		return &fakeAPI{}
	}

	NewFromConfig(aws.Config{}, "http://localhost:8000")
	assert.Equal(t, "http://localhost:8000", endpoint)

	NewFromConfig(aws.Config{}, "")
	assert.Equal(t, "", endpoint)
}
