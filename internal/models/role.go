package models

import (
	"strings"
	"time"
)

// Role represents an IAM role
type Role struct {
	RoleName           string
	RoleId             string
	Arn                string
	CreateDate         time.Time
	Path               string
	Description        string
	MaxSessionDuration int32
	TrustPolicy        string
	Tags               map[string]string
	LastUsed           *RoleLastUsed
}

// RoleLastUsed represents information about when a role was last used
type RoleLastUsed struct {
	Date   time.Time
	Region string
}

// GetType returns the resource kind
func (r Role) GetType() ResourceKind {
	return RoleResource
}

// GetName returns the role name
func (r Role) GetName() string {
	return r.RoleName
}

// GetARN returns the role ARN
func (r Role) GetARN() string {
	return r.Arn
}

// IsServiceRole determines if this is an AWS service role
func (r Role) IsServiceRole() bool {
	if strings.Contains(r.Path, "/aws-service-role/") {
		return true
	}

	return strings.HasPrefix(r.RoleName, "AWSServiceRole")
}

// GetRoleInactiveDays returns the number of days since the role was last used
// Returns -1 if the role has never been used
func (r Role) GetRoleInactiveDays() int {
	if r.LastUsed == nil {
		return -1
	}

	return int(time.Since(r.LastUsed.Date).Hours() / 24)
}
