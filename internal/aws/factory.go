package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// ClientFactory opens service clients for the facade. Every operation asks
// the factory for a fresh handle, so tests can substitute fakes without
// touching process-wide configuration.
type ClientFactory interface {
	IAM(ctx context.Context) (IAMAPI, error)
	S3(ctx context.Context) (S3API, error)
	DynamoDB(ctx context.Context) (DynamoDBAPI, error)
	IoT(ctx context.Context) (IoTAPI, error)
	Lambda(ctx context.Context) (LambdaAPI, error)
	EC2(ctx context.Context) (EC2API, error)
}

type options struct {
	profile string
	region  string
}

// Option customizes how the SDK config is loaded
type Option func(*options)

// WithProfile sets the shared config profile. Defaults to the AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region the clients talk to
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// SDKFactory builds real aws-sdk-go-v2 clients from the default credential chain
type SDKFactory struct {
	opts options
}

// NewSDKFactory returns a factory using the given config overrides
func NewSDKFactory(opts ...Option) *SDKFactory {
	f := &SDKFactory{}
	for _, opt := range opts {
		opt(&f.opts)
	}
	return f
}

func (f *SDKFactory) load(ctx context.Context) (awsv2.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if f.opts.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(f.opts.region))
	}

	if f.opts.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(f.opts.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, errors.Wrap(err, "loading AWS config")
	}
	return cfg, nil
}

func (f *SDKFactory) IAM(ctx context.Context) (IAMAPI, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return iam.NewFromConfig(cfg), nil
}

func (f *SDKFactory) S3(ctx context.Context) (S3API, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func (f *SDKFactory) DynamoDB(ctx context.Context) (DynamoDBAPI, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (f *SDKFactory) IoT(ctx context.Context) (IoTAPI, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return iot.NewFromConfig(cfg), nil
}

func (f *SDKFactory) Lambda(ctx context.Context) (LambdaAPI, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return lambda.NewFromConfig(cfg), nil
}

func (f *SDKFactory) EC2(ctx context.Context) (EC2API, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return ec2.NewFromConfig(cfg), nil
}
