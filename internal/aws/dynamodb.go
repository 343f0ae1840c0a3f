package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"cloudfacade/internal/models"
)

// TableSchema describes a DynamoDB table to create. The partition key
// defaults to a string attribute and the optional sort key to a number.
type TableSchema struct {
	Name             string
	PartitionKey     string
	PartitionKeyType string // "S", "N" or "B"; defaults to "S"
	SortKey          string
	SortKeyType      string // defaults to "N"
	BillingMode      string // PAY_PER_REQUEST (default) or PROVISIONED
	ReadCapacity     int64  // PROVISIONED only
	WriteCapacity    int64  // PROVISIONED only
	OtherAttributes  map[string]string
}

// CreateTable creates a table. Extra attribute definitions are not supported yet.
func (f *Facade) CreateTable(ctx context.Context, schema TableSchema, opts ...CallOption) (models.Table, error) {
	const op = "create"

	if _, err := f.resolve(op, models.TableResource, schema.Name, opts); err != nil {
		return models.Table{}, err
	}

	if len(schema.OtherAttributes) > 0 {
		return models.Table{}, f.notImplemented(op, models.TableResource, schema.Name, "defining attributes beyond the key schema")
	}

	svc, err := f.clients.DynamoDB(ctx)
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, schema.Name)
	}

	input := &dynamodb.CreateTableInput{
		TableName: awsv2.String(schema.Name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: awsv2.String(schema.PartitionKey), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: awsv2.String(schema.PartitionKey),
				AttributeType: types.ScalarAttributeType(defaultString(schema.PartitionKeyType, "S")),
			},
		},
		BillingMode: types.BillingMode(defaultString(schema.BillingMode, string(types.BillingModePayPerRequest))),
	}

	if schema.SortKey != "" {
		input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
			AttributeName: awsv2.String(schema.SortKey),
			KeyType:       types.KeyTypeRange,
		})
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: awsv2.String(schema.SortKey),
			AttributeType: types.ScalarAttributeType(defaultString(schema.SortKeyType, "N")),
		})
	}

	if input.BillingMode == types.BillingModeProvisioned {
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  awsv2.Int64(schema.ReadCapacity),
			WriteCapacityUnits: awsv2.Int64(schema.WriteCapacity),
		}
	}

	f.log.Info().Str("name", schema.Name).Msg("DynamoDB: creating table")
	out, err := svc.CreateTable(ctx, input)
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, schema.Name)
	}
	if err := f.check(op, models.TableResource, schema.Name, out.ResultMetadata); err != nil {
		return models.Table{}, err
	}

	return tableFromSDK(out.TableDescription), nil
}

// DescribeTable describes a table by name
func (f *Facade) DescribeTable(ctx context.Context, name string, opts ...CallOption) (models.Table, error) {
	const op = "describe"

	if _, err := f.resolve(op, models.TableResource, name, opts); err != nil {
		return models.Table{}, err
	}

	svc, err := f.clients.DynamoDB(ctx)
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, name)
	}

	out, err := svc.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: awsv2.String(name)})
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, name)
	}
	if err := f.check(op, models.TableResource, name, out.ResultMetadata); err != nil {
		return models.Table{}, err
	}

	return tableFromSDK(out.Table), nil
}

// DeleteTable deletes a table and returns its final description
func (f *Facade) DeleteTable(ctx context.Context, name string, opts ...CallOption) (models.Table, error) {
	const op = "delete"

	if _, err := f.resolve(op, models.TableResource, name, opts); err != nil {
		return models.Table{}, err
	}

	svc, err := f.clients.DynamoDB(ctx)
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, name)
	}

	f.log.Info().Str("name", name).Msg("DynamoDB: deleting table")
	out, err := svc.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: awsv2.String(name)})
	if err != nil {
		return models.Table{}, f.fault(err, op, models.TableResource, name)
	}
	if err := f.check(op, models.TableResource, name, out.ResultMetadata); err != nil {
		return models.Table{}, err
	}

	return tableFromSDK(out.TableDescription), nil
}

// ListTables lists table names. Only one page (at most 100 names) is fetched per call.
func (f *Facade) ListTables(ctx context.Context, opts ...CallOption) (ListResult[models.Table], error) {
	const op = "list"

	o, err := f.resolve(op, models.TableResource, "", opts)
	if err != nil {
		return ListResult[models.Table]{}, err
	}

	svc, err := f.clients.DynamoDB(ctx)
	if err != nil {
		return ListResult[models.Table]{}, f.fault(err, op, models.TableResource, "")
	}

	input := &dynamodb.ListTablesInput{}
	if o.pageToken != "" {
		input.ExclusiveStartTableName = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.Limit = awsv2.Int32(o.maxItems)
	}

	out, err := svc.ListTables(ctx, input)
	if err != nil {
		return ListResult[models.Table]{}, f.fault(err, op, models.TableResource, "")
	}
	if err := f.check(op, models.TableResource, "", out.ResultMetadata); err != nil {
		return ListResult[models.Table]{}, err
	}

	tables := make([]models.Table, 0, len(out.TableNames))
	for _, name := range out.TableNames {
		tables = append(tables, models.Table{Name: name})
	}

	res := newListResult(tables)
	if last := awsv2.ToString(out.LastEvaluatedTableName); last != "" {
		res.Truncated = true
		res.NextToken = last
	}
	return res, nil
}

func tableFromSDK(d *types.TableDescription) models.Table {
	if d == nil {
		return models.Table{}
	}

	attrTypes := make(map[string]string, len(d.AttributeDefinitions))
	for _, a := range d.AttributeDefinitions {
		attrTypes[awsv2.ToString(a.AttributeName)] = string(a.AttributeType)
	}

	table := models.Table{
		Name:         awsv2.ToString(d.TableName),
		Arn:          awsv2.ToString(d.TableArn),
		TableId:      awsv2.ToString(d.TableId),
		Status:       string(d.TableStatus),
		ItemCount:    awsv2.ToInt64(d.ItemCount),
		SizeBytes:    awsv2.ToInt64(d.TableSizeBytes),
		CreationDate: awsv2.ToTime(d.CreationDateTime),
	}

	if d.BillingModeSummary != nil {
		table.BillingMode = string(d.BillingModeSummary.BillingMode)
	}

	for _, k := range d.KeySchema {
		name := awsv2.ToString(k.AttributeName)
		table.KeySchema = append(table.KeySchema, models.KeyElement{
			AttributeName: name,
			AttributeType: attrTypes[name],
			KeyType:       string(k.KeyType),
		})
	}

	return table
}
