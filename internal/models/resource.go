package models

// Descriptor identifies a cloud resource by kind and name/ARN.
// The name is caller-supplied; the ARN is assigned by the provider at
// creation and never changes afterwards.
type Descriptor interface {
	// GetType returns the kind of resource (e.g., "role", "bucket")
	GetType() ResourceKind

	// GetName returns the caller-supplied name
	GetName() string

	// GetARN returns the provider-assigned ARN, empty when the kind has none
	GetARN() string
}

// ResourceKind represents the kind of AWS resource handled by the facade
type ResourceKind string

const (
	RoleResource      ResourceKind = "role"
	PolicyResource    ResourceKind = "policy"
	BucketResource    ResourceKind = "bucket"
	ObjectResource    ResourceKind = "object"
	TableResource     ResourceKind = "table"
	ThingResource     ResourceKind = "thing"
	ThingTypeResource ResourceKind = "thing type"
	FunctionResource  ResourceKind = "function"
	InstanceResource  ResourceKind = "instance"
)

func (k ResourceKind) String() string {
	return string(k)
}
