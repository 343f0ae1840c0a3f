package models

import "time"

// Bucket represents an S3 bucket
type Bucket struct {
	Name         string
	Region       string
	CreationDate time.Time
}

func (b Bucket) GetType() ResourceKind { return BucketResource }
func (b Bucket) GetName() string       { return b.Name }

// GetARN returns the bucket ARN; S3 bucket ARNs carry no region or account
func (b Bucket) GetARN() string {
	if b.Name == "" {
		return ""
	}
	return "arn:aws:s3:::" + b.Name
}

// Object represents a single S3 object listing entry
type Object struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	StorageClass string
	LastModified time.Time
}

func (o Object) GetType() ResourceKind { return ObjectResource }
func (o Object) GetName() string       { return o.Key }
func (o Object) GetARN() string        { return "arn:aws:s3:::" + o.Bucket + "/" + o.Key }
