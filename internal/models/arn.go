package models

import (
	"fmt"
	"strings"
)

// ManagedPolicyARN builds the ARN of an AWS-managed policy from its name
func ManagedPolicyARN(partition, name string) string {
	if partition == "" {
		partition = "aws"
	}
	return fmt.Sprintf("arn:%s:iam::aws:policy/%s", partition, strings.TrimPrefix(name, "/"))
}

// IsAWSManagedPolicyARN reports whether arn points at the provider-owned policy namespace
func IsAWSManagedPolicyARN(arn string) bool {
	parts := strings.SplitN(arn, ":", 6)
	return len(parts) == 6 && parts[2] == "iam" && parts[4] == "aws"
}
