package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudfacade/internal/models"
)

func usersTable() *types.TableDescription {
	return &types.TableDescription{
		TableName:   awsv2.String("users"),
		TableArn:    awsv2.String("arn:aws:dynamodb:us-west-2:123456789012:table/users"),
		TableStatus: types.TableStatusCreating,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: awsv2.String("id"), KeyType: types.KeyTypeHash},
			{AttributeName: awsv2.String("ts"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: awsv2.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: awsv2.String("ts"), AttributeType: types.ScalarAttributeTypeN},
		},
		BillingModeSummary: &types.BillingModeSummary{BillingMode: types.BillingModePayPerRequest},
	}
}

func TestCreateTable(t *testing.T) {
	m := new(MockDynamoDB)
	m.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return awsv2.ToString(in.TableName) == "users" &&
			len(in.KeySchema) == 2 &&
			in.KeySchema[0].KeyType == types.KeyTypeHash &&
			in.AttributeDefinitions[1].AttributeType == types.ScalarAttributeTypeN &&
			in.BillingMode == types.BillingModePayPerRequest &&
			in.ProvisionedThroughput == nil
	})).Return(&dynamodb.CreateTableOutput{TableDescription: usersTable()}, nil)

	f := newTestFacade(&fakeFactory{dynamo: m})
	table, err := f.CreateTable(context.Background(), TableSchema{Name: "users", PartitionKey: "id", SortKey: "ts"})
	require.NoError(t, err)

	assert.Equal(t, "users", table.GetName())
	assert.Equal(t, "CREATING", table.Status)
	assert.Equal(t, "PAY_PER_REQUEST", table.BillingMode)
	assert.Equal(t, []models.KeyElement{
		{AttributeName: "id", AttributeType: "S", KeyType: "HASH"},
		{AttributeName: "ts", AttributeType: "N", KeyType: "RANGE"},
	}, table.KeySchema)
	m.AssertExpectations(t)
}

func TestCreateTableProvisioned(t *testing.T) {
	m := new(MockDynamoDB)
	m.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return in.BillingMode == types.BillingModeProvisioned &&
			in.ProvisionedThroughput != nil &&
			awsv2.ToInt64(in.ProvisionedThroughput.ReadCapacityUnits) == 5 &&
			len(in.KeySchema) == 1
	})).Return(&dynamodb.CreateTableOutput{TableDescription: usersTable()}, nil)

	f := newTestFacade(&fakeFactory{dynamo: m})
	_, err := f.CreateTable(context.Background(), TableSchema{
		Name:          "users",
		PartitionKey:  "id",
		BillingMode:   "PROVISIONED",
		ReadCapacity:  5,
		WriteCapacity: 5,
	})
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestCreateTableWithExtraAttributesIsNotImplemented(t *testing.T) {
	factory := &fakeFactory{dynamo: new(MockDynamoDB)}
	f := newTestFacade(factory)

	table, err := f.CreateTable(context.Background(), TableSchema{
		Name:            "users",
		PartitionKey:    "id",
		OtherAttributes: map[string]string{"email": "S"},
	})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, models.Table{}, table)
	assert.Zero(t, factory.calls)
}

func TestTableFaults(t *testing.T) {
	m := new(MockDynamoDB)
	m.On("CreateTable", mock.Anything, mock.Anything).Return(nil, apiError("ResourceInUseException"))
	m.On("DescribeTable", mock.Anything, mock.Anything).Return(nil, apiError("ResourceNotFoundException"))
	m.On("DeleteTable", mock.Anything, mock.Anything).Return(nil, apiError("ResourceNotFoundException"))

	f := newTestFacade(&fakeFactory{dynamo: m})
	ctx := context.Background()

	_, err := f.CreateTable(ctx, TableSchema{Name: "users", PartitionKey: "id"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = f.DescribeTable(ctx, "users")
	assert.ErrorIs(t, err, ErrDoesNotExist)

	_, err = f.DeleteTable(ctx, "users")
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDescribeAndDeleteTable(t *testing.T) {
	m := new(MockDynamoDB)
	m.On("DescribeTable", mock.Anything, mock.Anything).Return(&dynamodb.DescribeTableOutput{Table: usersTable()}, nil)
	deleting := usersTable()
	deleting.TableStatus = types.TableStatusDeleting
	m.On("DeleteTable", mock.Anything, mock.Anything).Return(&dynamodb.DeleteTableOutput{TableDescription: deleting}, nil)

	f := newTestFacade(&fakeFactory{dynamo: m})
	ctx := context.Background()

	table, err := f.DescribeTable(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:dynamodb:us-west-2:123456789012:table/users", table.GetARN())

	table, err = f.DeleteTable(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "DELETING", table.Status)
}

func TestListTables(t *testing.T) {
	m := new(MockDynamoDB)
	m.On("ListTables", mock.Anything, mock.MatchedBy(func(in *dynamodb.ListTablesInput) bool {
		return in.ExclusiveStartTableName == nil
	})).Return(&dynamodb.ListTablesOutput{
		TableNames:             []string{"a", "b"},
		LastEvaluatedTableName: awsv2.String("b"),
	}, nil)
	m.On("ListTables", mock.Anything, mock.MatchedBy(func(in *dynamodb.ListTablesInput) bool {
		return awsv2.ToString(in.ExclusiveStartTableName) == "b"
	})).Return(&dynamodb.ListTablesOutput{TableNames: []string{"c"}}, nil)

	f := newTestFacade(&fakeFactory{dynamo: m})
	ctx := context.Background()

	first, err := f.ListTables(ctx, WithMaxItems(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, first.Names)
	assert.True(t, first.Truncated)
	assert.Equal(t, "b", first.NextToken)

	second, err := f.ListTables(ctx, WithPageToken(first.NextToken))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, second.Names)
	assert.False(t, second.Truncated)
	m.AssertExpectations(t)
}
