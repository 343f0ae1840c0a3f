package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"cloudfacade/internal/models"
)

// AllRegions asks for functions replicated from every master region
const AllRegions = "ALL"

// ListFunctions lists every function in the served region, following markers
func (f *Facade) ListFunctions(ctx context.Context, opts ...CallOption) (ListResult[models.Function], error) {
	const op = "list"

	var probe callOptions
	for _, opt := range opts {
		opt(&probe)
	}
	if probe.region == AllRegions {
		return ListResult[models.Function]{}, f.notImplemented(op, models.FunctionResource, "", "listing functions across all master regions")
	}

	o, err := f.resolve(op, models.FunctionResource, "", opts)
	if err != nil {
		return ListResult[models.Function]{}, err
	}

	svc, err := f.clients.Lambda(ctx)
	if err != nil {
		return ListResult[models.Function]{}, f.fault(err, op, models.FunctionResource, "")
	}

	input := &lambda.ListFunctionsInput{}
	if o.pageToken != "" {
		input.Marker = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.MaxItems = awsv2.Int32(o.maxItems)
	}

	var functions []models.Function
	paginator := lambda.NewListFunctionsPaginator(svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return ListResult[models.Function]{}, f.fault(err, op, models.FunctionResource, "")
		}
		if err := f.check(op, models.FunctionResource, "", page.ResultMetadata); err != nil {
			return ListResult[models.Function]{}, err
		}

		for i := range page.Functions {
			functions = append(functions, functionFromSDK(&page.Functions[i]))
		}
	}

	return newListResult(functions), nil
}

// GetFunction returns a function's configuration, code location and tags
func (f *Facade) GetFunction(ctx context.Context, name string) (models.FunctionDetails, error) {
	const op = "describe"

	svc, err := f.clients.Lambda(ctx)
	if err != nil {
		return models.FunctionDetails{}, f.fault(err, op, models.FunctionResource, name)
	}

	out, err := svc.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: awsv2.String(name)})
	if err != nil {
		return models.FunctionDetails{}, f.fault(err, op, models.FunctionResource, name)
	}
	if err := f.check(op, models.FunctionResource, name, out.ResultMetadata); err != nil {
		return models.FunctionDetails{}, err
	}

	details := models.FunctionDetails{
		Configuration: functionFromSDK(out.Configuration),
		Tags:          out.Tags,
	}
	if out.Code != nil {
		details.CodeLocation = awsv2.ToString(out.Code.Location)
		details.RepositoryType = awsv2.ToString(out.Code.RepositoryType)
	}
	return details, nil
}

// DeleteFunction deletes a function and all of its versions
func (f *Facade) DeleteFunction(ctx context.Context, name string) error {
	const op = "delete"

	svc, err := f.clients.Lambda(ctx)
	if err != nil {
		return f.fault(err, op, models.FunctionResource, name)
	}

	f.log.Info().Str("name", name).Msg("Lambda: deleting function")
	out, err := svc.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.FunctionResource, name)
	}
	return f.check(op, models.FunctionResource, name, out.ResultMetadata)
}

func functionFromSDK(c *types.FunctionConfiguration) models.Function {
	if c == nil {
		return models.Function{}
	}
	return models.Function{
		Name:         awsv2.ToString(c.FunctionName),
		Arn:          awsv2.ToString(c.FunctionArn),
		Runtime:      string(c.Runtime),
		Handler:      awsv2.ToString(c.Handler),
		Role:         awsv2.ToString(c.Role),
		Description:  awsv2.ToString(c.Description),
		MemorySize:   awsv2.ToInt32(c.MemorySize),
		Timeout:      awsv2.ToInt32(c.Timeout),
		CodeSize:     c.CodeSize,
		LastModified: awsv2.ToString(c.LastModified),
		Version:      awsv2.ToString(c.Version),
	}
}
