package aws

import (
	"context"
	"io"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"cloudfacade/internal/models"
)

// us-east-1 rejects an explicit location constraint
const legacyRegion = "us-east-1"

// ListBuckets lists the account's buckets. Only one page is fetched per call.
func (f *Facade) ListBuckets(ctx context.Context, opts ...CallOption) (ListResult[models.Bucket], error) {
	const op = "list"

	o, err := f.resolve(op, models.BucketResource, "", opts)
	if err != nil {
		return ListResult[models.Bucket]{}, err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return ListResult[models.Bucket]{}, f.fault(err, op, models.BucketResource, "")
	}

	return f.listBuckets(ctx, svc, o)
}

func (f *Facade) listBuckets(ctx context.Context, svc S3API, o callOptions) (ListResult[models.Bucket], error) {
	const op = "list"
	prefix := o.prefix

	input := &s3.ListBucketsInput{}
	if prefix != "" {
		input.Prefix = awsv2.String(prefix)
	}
	if o.pageToken != "" {
		input.ContinuationToken = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.MaxBuckets = awsv2.Int32(o.maxItems)
	}

	out, err := svc.ListBuckets(ctx, input)
	if err != nil {
		return ListResult[models.Bucket]{}, f.fault(err, op, models.BucketResource, prefix)
	}
	if err := f.check(op, models.BucketResource, prefix, out.ResultMetadata); err != nil {
		return ListResult[models.Bucket]{}, err
	}

	buckets := make([]models.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, models.Bucket{
			Name:         awsv2.ToString(b.Name),
			Region:       awsv2.ToString(b.BucketRegion),
			CreationDate: awsv2.ToTime(b.CreationDate),
		})
	}

	res := newListResult(buckets)
	if token := awsv2.ToString(out.ContinuationToken); token != "" {
		res.Truncated = true
		res.NextToken = token
	}
	return res, nil
}

// CreateBucket creates a bucket in the served region. A name already owned by
// this account, or taken by anyone in the partition, yields AlreadyExists.
func (f *Facade) CreateBucket(ctx context.Context, name string, opts ...CallOption) (models.Bucket, error) {
	const op = "create"

	o, err := f.resolve(op, models.BucketResource, name, opts)
	if err != nil {
		return models.Bucket{}, err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return models.Bucket{}, f.fault(err, op, models.BucketResource, name)
	}

	existing, err := f.listBuckets(ctx, svc, callOptions{region: o.region, prefix: name})
	if err != nil {
		return models.Bucket{}, err
	}
	for _, n := range existing.Names {
		if n == name {
			return models.Bucket{}, f.fail(&OpError{Kind: AlreadyExists, Resource: models.BucketResource, Name: name, Operation: op})
		}
	}

	input := &s3.CreateBucketInput{Bucket: awsv2.String(name)}
	if o.region != legacyRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(o.region),
		}
	}

	f.log.Info().Str("name", name).Str("region", o.region).Msg("S3: creating bucket")
	out, err := svc.CreateBucket(ctx, input)
	if err != nil {
		return models.Bucket{}, f.fault(err, op, models.BucketResource, name)
	}
	if err := f.check(op, models.BucketResource, name, out.ResultMetadata); err != nil {
		return models.Bucket{}, err
	}

	return models.Bucket{Name: name, Region: o.region}, nil
}

// DescribeBucket checks the bucket exists and returns its identity
func (f *Facade) DescribeBucket(ctx context.Context, name string, opts ...CallOption) (models.Bucket, error) {
	const op = "describe"

	if _, err := f.resolve(op, models.BucketResource, name, opts); err != nil {
		return models.Bucket{}, err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return models.Bucket{}, f.fault(err, op, models.BucketResource, name)
	}

	out, err := svc.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: awsv2.String(name)})
	if err != nil {
		return models.Bucket{}, f.fault(err, op, models.BucketResource, name)
	}
	if err := f.check(op, models.BucketResource, name, out.ResultMetadata); err != nil {
		return models.Bucket{}, err
	}

	return models.Bucket{Name: name, Region: awsv2.ToString(out.BucketRegion)}, nil
}

// DeleteBucket deletes an empty bucket. A missing bucket yields DoesNotExist.
func (f *Facade) DeleteBucket(ctx context.Context, name string, opts ...CallOption) error {
	const op = "delete"

	if _, err := f.resolve(op, models.BucketResource, name, opts); err != nil {
		return err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return f.fault(err, op, models.BucketResource, name)
	}

	f.log.Info().Str("name", name).Msg("S3: deleting bucket")
	out, err := svc.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.BucketResource, name)
	}
	return f.check(op, models.BucketResource, name, out.ResultMetadata)
}

// ListObjects lists every object in bucket, following continuation tokens
func (f *Facade) ListObjects(ctx context.Context, bucket string, opts ...CallOption) (ListResult[models.Object], error) {
	const op = "list"

	o, err := f.resolve(op, models.ObjectResource, bucket, opts)
	if err != nil {
		return ListResult[models.Object]{}, err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return ListResult[models.Object]{}, f.fault(err, op, models.ObjectResource, bucket)
	}

	var objects []models.Object
	input := &s3.ListObjectsV2Input{Bucket: awsv2.String(bucket)}
	if o.prefix != "" {
		input.Prefix = awsv2.String(o.prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return ListResult[models.Object]{}, f.fault(err, op, models.ObjectResource, bucket)
		}
		if err := f.check(op, models.ObjectResource, bucket, page.ResultMetadata); err != nil {
			return ListResult[models.Object]{}, err
		}

		for _, obj := range page.Contents {
			objects = append(objects, models.Object{
				Bucket:       bucket,
				Key:          awsv2.ToString(obj.Key),
				Size:         awsv2.ToInt64(obj.Size),
				ETag:         awsv2.ToString(obj.ETag),
				StorageClass: string(obj.StorageClass),
				LastModified: awsv2.ToTime(obj.LastModified),
			})
		}
	}

	return newListResult(objects), nil
}

// PutObject uploads body to bucket/key
func (f *Facade) PutObject(ctx context.Context, bucket, key string, body io.Reader, opts ...CallOption) error {
	const op = "put"
	name := bucket + "/" + key

	if _, err := f.resolve(op, models.ObjectResource, name, opts); err != nil {
		return err
	}

	svc, err := f.clients.S3(ctx)
	if err != nil {
		return f.fault(err, op, models.ObjectResource, name)
	}

	f.log.Info().Str("bucket", bucket).Str("key", key).Msg("S3: putting object")
	out, err := svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   body,
	})
	if err != nil {
		return f.fault(err, op, models.ObjectResource, name)
	}
	return f.check(op, models.ObjectResource, name, out.ResultMetadata)
}

// PutFile uploads the file at path to bucket/key. Local I/O failures are
// returned as plain errors, they never reach the provider.
func (f *Facade) PutFile(ctx context.Context, bucket, key, path string, opts ...CallOption) error {
	fh, err := os.Open(path)
	if err != nil {
		f.log.Error().Err(err).Str("path", path).Msg("S3: cannot open source file")
		return errors.Wrapf(err, "opening %s", path)
	}
	defer fh.Close()

	return f.PutObject(ctx, bucket, key, fh, opts...)
}
