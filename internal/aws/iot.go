package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/aws/aws-sdk-go-v2/service/iot/types"

	"cloudfacade/internal/models"
)

// CreateThingInput holds the fields needed to register an IoT thing.
// ThingType must already exist.
type CreateThingInput struct {
	Name         string
	ThingType    string
	Attributes   map[string]string
	BillingGroup string
}

// ThingTypeProperties holds the optional properties of a thing type
type ThingTypeProperties struct {
	Description          string
	SearchableAttributes []string
}

// CreateThing registers a thing. IoT answers a repeated create with the same
// configuration with success, so an existing name is caught up front.
func (f *Facade) CreateThing(ctx context.Context, in CreateThingInput) (models.Thing, error) {
	const op = "create"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return models.Thing{}, f.fault(err, op, models.ThingResource, in.Name)
	}

	exists, err := f.thingExists(ctx, svc, op, in.Name)
	if err != nil {
		return models.Thing{}, err
	}
	if exists {
		return models.Thing{}, f.fail(&OpError{Kind: AlreadyExists, Resource: models.ThingResource, Name: in.Name, Operation: op})
	}

	input := &iot.CreateThingInput{ThingName: awsv2.String(in.Name)}
	if in.ThingType != "" {
		input.ThingTypeName = awsv2.String(in.ThingType)
	}
	if len(in.Attributes) > 0 {
		input.AttributePayload = &types.AttributePayload{Attributes: in.Attributes}
	}
	if in.BillingGroup != "" {
		input.BillingGroupName = awsv2.String(in.BillingGroup)
	}

	f.log.Info().Str("name", in.Name).Str("type", in.ThingType).Msg("IoT: creating thing")
	out, err := svc.CreateThing(ctx, input)
	if err != nil {
		return models.Thing{}, f.fault(err, op, models.ThingResource, in.Name)
	}
	if err := f.check(op, models.ThingResource, in.Name, out.ResultMetadata); err != nil {
		return models.Thing{}, err
	}

	return models.Thing{
		Name:       awsv2.ToString(out.ThingName),
		Arn:        awsv2.ToString(out.ThingArn),
		ThingId:    awsv2.ToString(out.ThingId),
		ThingType:  in.ThingType,
		Attributes: in.Attributes,
	}, nil
}

// DescribeThing describes a thing by name
func (f *Facade) DescribeThing(ctx context.Context, name string) (models.Thing, error) {
	const op = "describe"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return models.Thing{}, f.fault(err, op, models.ThingResource, name)
	}

	out, err := svc.DescribeThing(ctx, &iot.DescribeThingInput{ThingName: awsv2.String(name)})
	if err != nil {
		return models.Thing{}, f.fault(err, op, models.ThingResource, name)
	}
	if err := f.check(op, models.ThingResource, name, out.ResultMetadata); err != nil {
		return models.Thing{}, err
	}

	return models.Thing{
		Name:       awsv2.ToString(out.ThingName),
		Arn:        awsv2.ToString(out.ThingArn),
		ThingId:    awsv2.ToString(out.ThingId),
		ThingType:  awsv2.ToString(out.ThingTypeName),
		Attributes: out.Attributes,
	}, nil
}

// DeleteThing deletes a thing by name. IoT deletes a missing thing without
// complaint, so the name is looked up first.
func (f *Facade) DeleteThing(ctx context.Context, name string) error {
	const op = "delete"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return f.fault(err, op, models.ThingResource, name)
	}

	exists, err := f.thingExists(ctx, svc, op, name)
	if err != nil {
		return err
	}
	if !exists {
		return f.fail(&OpError{Kind: DoesNotExist, Resource: models.ThingResource, Name: name, Operation: op})
	}

	f.log.Info().Str("name", name).Msg("IoT: deleting thing")
	out, err := svc.DeleteThing(ctx, &iot.DeleteThingInput{ThingName: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.ThingResource, name)
	}
	return f.check(op, models.ThingResource, name, out.ResultMetadata)
}

// thingExists looks name up with DescribeThing. Only a missing thing is
// swallowed; any other fault is returned normalized under op.
func (f *Facade) thingExists(ctx context.Context, svc IoTAPI, op, name string) (bool, error) {
	out, err := svc.DescribeThing(ctx, &iot.DescribeThingInput{ThingName: awsv2.String(name)})
	if err != nil {
		opErr := normalize(err, op, models.ThingResource, name)
		if opErr.Kind == DoesNotExist {
			return false, nil
		}
		return false, f.fail(opErr)
	}
	if err := f.check(op, models.ThingResource, name, out.ResultMetadata); err != nil {
		return false, err
	}
	return true, nil
}

// ListThings lists things. Only one page is fetched per call.
func (f *Facade) ListThings(ctx context.Context, opts ...CallOption) (ListResult[models.Thing], error) {
	const op = "list"

	o, err := f.resolve(op, models.ThingResource, "", opts)
	if err != nil {
		return ListResult[models.Thing]{}, err
	}

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return ListResult[models.Thing]{}, f.fault(err, op, models.ThingResource, "")
	}

	input := &iot.ListThingsInput{}
	if o.pageToken != "" {
		input.NextToken = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.MaxResults = awsv2.Int32(o.maxItems)
	}

	out, err := svc.ListThings(ctx, input)
	if err != nil {
		return ListResult[models.Thing]{}, f.fault(err, op, models.ThingResource, "")
	}
	if err := f.check(op, models.ThingResource, "", out.ResultMetadata); err != nil {
		return ListResult[models.Thing]{}, err
	}

	things := make([]models.Thing, 0, len(out.Things))
	for _, t := range out.Things {
		things = append(things, models.Thing{
			Name:       awsv2.ToString(t.ThingName),
			Arn:        awsv2.ToString(t.ThingArn),
			ThingType:  awsv2.ToString(t.ThingTypeName),
			Attributes: t.Attributes,
		})
	}

	res := newListResult(things)
	if token := awsv2.ToString(out.NextToken); token != "" {
		res.Truncated = true
		res.NextToken = token
	}
	return res, nil
}

// CreateThingType creates a thing type
func (f *Facade) CreateThingType(ctx context.Context, name string, props ThingTypeProperties, tags map[string]string) (models.ThingType, error) {
	const op = "create"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return models.ThingType{}, f.fault(err, op, models.ThingTypeResource, name)
	}

	input := &iot.CreateThingTypeInput{
		ThingTypeName: awsv2.String(name),
		Tags:          iotTags(tags),
	}
	if props.Description != "" || len(props.SearchableAttributes) > 0 {
		input.ThingTypeProperties = &types.ThingTypeProperties{
			SearchableAttributes: props.SearchableAttributes,
		}
		if props.Description != "" {
			input.ThingTypeProperties.ThingTypeDescription = awsv2.String(props.Description)
		}
	}

	f.log.Info().Str("name", name).Msg("IoT: creating thing type")
	out, err := svc.CreateThingType(ctx, input)
	if err != nil {
		return models.ThingType{}, f.fault(err, op, models.ThingTypeResource, name)
	}
	if err := f.check(op, models.ThingTypeResource, name, out.ResultMetadata); err != nil {
		return models.ThingType{}, err
	}

	return models.ThingType{
		Name:                 awsv2.ToString(out.ThingTypeName),
		Arn:                  awsv2.ToString(out.ThingTypeArn),
		ThingTypeId:          awsv2.ToString(out.ThingTypeId),
		Description:          props.Description,
		SearchableAttributes: props.SearchableAttributes,
	}, nil
}

// DescribeThingType describes a thing type by name
func (f *Facade) DescribeThingType(ctx context.Context, name string) (models.ThingType, error) {
	const op = "describe"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return models.ThingType{}, f.fault(err, op, models.ThingTypeResource, name)
	}

	out, err := svc.DescribeThingType(ctx, &iot.DescribeThingTypeInput{ThingTypeName: awsv2.String(name)})
	if err != nil {
		return models.ThingType{}, f.fault(err, op, models.ThingTypeResource, name)
	}
	if err := f.check(op, models.ThingTypeResource, name, out.ResultMetadata); err != nil {
		return models.ThingType{}, err
	}

	tt := thingTypeFromSDK(out.ThingTypeName, out.ThingTypeArn, out.ThingTypeProperties, out.ThingTypeMetadata)
	tt.ThingTypeId = awsv2.ToString(out.ThingTypeId)
	return tt, nil
}

// DeprecateThingType deprecates a thing type. The provider only allows
// deletion some minutes after deprecation; callers have to wait it out.
func (f *Facade) DeprecateThingType(ctx context.Context, name string) error {
	const op = "deprecate"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return f.fault(err, op, models.ThingTypeResource, name)
	}

	f.log.Info().Str("name", name).Msg("IoT: deprecating thing type")
	out, err := svc.DeprecateThingType(ctx, &iot.DeprecateThingTypeInput{ThingTypeName: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.ThingTypeResource, name)
	}
	return f.check(op, models.ThingTypeResource, name, out.ResultMetadata)
}

// DeleteThingType deletes a deprecated thing type
func (f *Facade) DeleteThingType(ctx context.Context, name string) error {
	const op = "delete"

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return f.fault(err, op, models.ThingTypeResource, name)
	}

	f.log.Info().Str("name", name).Msg("IoT: deleting thing type")
	out, err := svc.DeleteThingType(ctx, &iot.DeleteThingTypeInput{ThingTypeName: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.ThingTypeResource, name)
	}
	return f.check(op, models.ThingTypeResource, name, out.ResultMetadata)
}

// ListThingTypes lists thing types. Only one page is fetched per call.
func (f *Facade) ListThingTypes(ctx context.Context, opts ...CallOption) (ListResult[models.ThingType], error) {
	const op = "list"

	o, err := f.resolve(op, models.ThingTypeResource, "", opts)
	if err != nil {
		return ListResult[models.ThingType]{}, err
	}

	svc, err := f.clients.IoT(ctx)
	if err != nil {
		return ListResult[models.ThingType]{}, f.fault(err, op, models.ThingTypeResource, "")
	}

	input := &iot.ListThingTypesInput{}
	if o.pageToken != "" {
		input.NextToken = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.MaxResults = awsv2.Int32(o.maxItems)
	}

	out, err := svc.ListThingTypes(ctx, input)
	if err != nil {
		return ListResult[models.ThingType]{}, f.fault(err, op, models.ThingTypeResource, "")
	}
	if err := f.check(op, models.ThingTypeResource, "", out.ResultMetadata); err != nil {
		return ListResult[models.ThingType]{}, err
	}

	defs := make([]models.ThingType, 0, len(out.ThingTypes))
	for _, d := range out.ThingTypes {
		defs = append(defs, thingTypeFromSDK(d.ThingTypeName, d.ThingTypeArn, d.ThingTypeProperties, d.ThingTypeMetadata))
	}

	res := newListResult(defs)
	if token := awsv2.ToString(out.NextToken); token != "" {
		res.Truncated = true
		res.NextToken = token
	}
	return res, nil
}

func thingTypeFromSDK(name, arn *string, props *types.ThingTypeProperties, meta *types.ThingTypeMetadata) models.ThingType {
	tt := models.ThingType{
		Name: awsv2.ToString(name),
		Arn:  awsv2.ToString(arn),
	}
	if props != nil {
		tt.Description = awsv2.ToString(props.ThingTypeDescription)
		tt.SearchableAttributes = props.SearchableAttributes
	}
	if meta != nil {
		tt.Deprecated = meta.Deprecated
		tt.DeprecationDate = meta.DeprecationDate
		tt.CreationDate = awsv2.ToTime(meta.CreationDate)
	}
	return tt
}

func iotTags(tags map[string]string) []types.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, types.Tag{Key: awsv2.String(k), Value: awsv2.String(tags[k])})
	}
	return out
}
