package models

import "time"

// PolicyScope mirrors the IAM ListPolicies scope filter
type PolicyScope string

const (
	ScopeAll   PolicyScope = "All"
	ScopeAWS   PolicyScope = "AWS"
	ScopeLocal PolicyScope = "Local"
)

// PolicyUsage mirrors the IAM ListPolicies usage filter
type PolicyUsage string

const (
	UsagePermissionsPolicy   PolicyUsage = "PermissionsPolicy"
	UsagePermissionsBoundary PolicyUsage = "PermissionsBoundary"
)

// Policy represents a managed IAM policy
type Policy struct {
	Name             string
	PolicyId         string
	Arn              string
	Path             string
	Description      string
	DefaultVersionId string
	AttachmentCount  int32
	Attachable       bool
	CreateDate       time.Time
	UpdateDate       time.Time
	Document         string // Policy document in JSON format, only set by GetPolicy
}

func (p Policy) GetType() ResourceKind { return PolicyResource }
func (p Policy) GetName() string       { return p.Name }
func (p Policy) GetARN() string        { return p.Arn }

// IsAWSManaged reports whether the policy lives in the provider-owned namespace
func (p Policy) IsAWSManaged() bool {
	return IsAWSManagedPolicyARN(p.Arn)
}

// AttachedPolicy is a managed policy reference returned for a role
type AttachedPolicy struct {
	Name string
	Arn  string
}
