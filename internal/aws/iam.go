package aws

import (
	"context"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/pkg/errors"

	"cloudfacade/internal/models"
)

const defaultMaxSessionDuration = 3600

// CreateRoleInput holds the fields needed to create an IAM role
type CreateRoleInput struct {
	Name               string
	TrustPolicy        string // JSON trust relationship document
	Path               string // defaults to "/"
	Description        string
	MaxSessionDuration int32 // seconds, defaults to 3600
	Tags               map[string]string
}

// CreatePolicyInput holds the fields needed to create a managed policy
type CreatePolicyInput struct {
	Name        string
	Document    string // JSON policy document
	Path        string // defaults to "/"
	Description string
}

// PolicyFilter narrows ListPolicies. Zero values default to Local scope,
// PermissionsPolicy usage and the "/" path prefix.
type PolicyFilter struct {
	Scope        models.PolicyScope
	OnlyAttached bool
	PathPrefix   string
	Usage        models.PolicyUsage
}

// CreateRole creates an IAM role. A duplicate name yields AlreadyExists.
func (f *Facade) CreateRole(ctx context.Context, in CreateRoleInput) (models.Role, error) {
	const op = "create"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return models.Role{}, f.fault(err, op, models.RoleResource, in.Name)
	}

	input := &iam.CreateRoleInput{
		RoleName:                 awsv2.String(in.Name),
		AssumeRolePolicyDocument: awsv2.String(in.TrustPolicy),
		Path:                     awsv2.String(defaultString(in.Path, "/")),
		MaxSessionDuration:       awsv2.Int32(defaultMaxSession(in.MaxSessionDuration)),
		Tags:                     iamTags(in.Tags),
	}
	if in.Description != "" {
		input.Description = awsv2.String(in.Description)
	}

	f.log.Info().Str("name", in.Name).Msg("IAM: creating role")
	out, err := svc.CreateRole(ctx, input)
	if err != nil {
		return models.Role{}, f.fault(err, op, models.RoleResource, in.Name)
	}
	if err := f.check(op, models.RoleResource, in.Name, out.ResultMetadata); err != nil {
		return models.Role{}, err
	}

	return f.roleFromSDK(out.Role), nil
}

// GetRole describes a role by name
func (f *Facade) GetRole(ctx context.Context, name string) (models.Role, error) {
	const op = "get"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return models.Role{}, f.fault(err, op, models.RoleResource, name)
	}

	out, err := svc.GetRole(ctx, &iam.GetRoleInput{RoleName: awsv2.String(name)})
	if err != nil {
		return models.Role{}, f.fault(err, op, models.RoleResource, name)
	}
	if err := f.check(op, models.RoleResource, name, out.ResultMetadata); err != nil {
		return models.Role{}, err
	}

	return f.roleFromSDK(out.Role), nil
}

// ListRoles lists roles under pathPrefix. Only one page is fetched per call.
func (f *Facade) ListRoles(ctx context.Context, pathPrefix string, opts ...CallOption) (ListResult[models.Role], error) {
	const op = "list"

	o, err := f.resolve(op, models.RoleResource, pathPrefix, opts)
	if err != nil {
		return ListResult[models.Role]{}, err
	}

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return ListResult[models.Role]{}, f.fault(err, op, models.RoleResource, pathPrefix)
	}

	input := &iam.ListRolesInput{PathPrefix: awsv2.String(defaultString(pathPrefix, "/"))}
	if o.pageToken != "" {
		input.Marker = awsv2.String(o.pageToken)
	}
	if o.maxItems > 0 {
		input.MaxItems = awsv2.Int32(o.maxItems)
	}

	out, err := svc.ListRoles(ctx, input)
	if err != nil {
		return ListResult[models.Role]{}, f.fault(err, op, models.RoleResource, pathPrefix)
	}
	if err := f.check(op, models.RoleResource, pathPrefix, out.ResultMetadata); err != nil {
		return ListResult[models.Role]{}, err
	}

	roles := make([]models.Role, 0, len(out.Roles))
	for i := range out.Roles {
		roles = append(roles, f.roleFromSDK(&out.Roles[i]))
	}

	res := newListResult(roles)
	if out.IsTruncated {
		res.Truncated = true
		res.NextToken = awsv2.ToString(out.Marker)
		f.log.Debug().Int("returned", len(roles)).Msg("IAM: role listing truncated")
	}
	return res, nil
}

// DeleteRole deletes a role by name. A missing role yields DoesNotExist.
func (f *Facade) DeleteRole(ctx context.Context, name string) error {
	const op = "delete"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return f.fault(err, op, models.RoleResource, name)
	}

	f.log.Info().Str("name", name).Msg("IAM: deleting role")
	out, err := svc.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awsv2.String(name)})
	if err != nil {
		return f.fault(err, op, models.RoleResource, name)
	}
	return f.check(op, models.RoleResource, name, out.ResultMetadata)
}

// CreatePolicy creates a customer managed policy
func (f *Facade) CreatePolicy(ctx context.Context, in CreatePolicyInput) (models.Policy, error) {
	const op = "create"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return models.Policy{}, f.fault(err, op, models.PolicyResource, in.Name)
	}

	input := &iam.CreatePolicyInput{
		PolicyName:     awsv2.String(in.Name),
		PolicyDocument: awsv2.String(in.Document),
		Path:           awsv2.String(defaultString(in.Path, "/")),
	}
	if in.Description != "" {
		input.Description = awsv2.String(in.Description)
	}

	f.log.Info().Str("name", in.Name).Msg("IAM: creating policy")
	out, err := svc.CreatePolicy(ctx, input)
	if err != nil {
		return models.Policy{}, f.fault(err, op, models.PolicyResource, in.Name)
	}
	if err := f.check(op, models.PolicyResource, in.Name, out.ResultMetadata); err != nil {
		return models.Policy{}, err
	}

	return policyFromSDK(out.Policy), nil
}

// GetPolicy describes a managed policy by ARN, including its default version document
func (f *Facade) GetPolicy(ctx context.Context, arn string) (models.Policy, error) {
	const op = "get"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return models.Policy{}, f.fault(err, op, models.PolicyResource, arn)
	}

	out, err := svc.GetPolicy(ctx, &iam.GetPolicyInput{PolicyArn: awsv2.String(arn)})
	if err != nil {
		return models.Policy{}, f.fault(err, op, models.PolicyResource, arn)
	}
	if err := f.check(op, models.PolicyResource, arn, out.ResultMetadata); err != nil {
		return models.Policy{}, err
	}

	policy := policyFromSDK(out.Policy)
	if policy.DefaultVersionId == "" {
		return policy, nil
	}

	version, err := svc.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
		PolicyArn: awsv2.String(arn),
		VersionId: awsv2.String(policy.DefaultVersionId),
	})
	if err != nil {
		return models.Policy{}, f.fault(err, op, models.PolicyResource, arn)
	}
	if err := f.check(op, models.PolicyResource, arn, version.ResultMetadata); err != nil {
		return models.Policy{}, err
	}

	if version.PolicyVersion != nil && version.PolicyVersion.Document != nil {
		policy.Document = f.decodeOrRaw(*version.PolicyVersion.Document)
	}
	return policy, nil
}

// ListPolicies lists managed policies matching filter. Only one page is fetched per call.
func (f *Facade) ListPolicies(ctx context.Context, filter PolicyFilter, opts ...CallOption) (ListResult[models.Policy], error) {
	const op = "list"

	o, err := f.resolve(op, models.PolicyResource, filter.PathPrefix, opts)
	if err != nil {
		return ListResult[models.Policy]{}, err
	}

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return ListResult[models.Policy]{}, f.fault(err, op, models.PolicyResource, filter.PathPrefix)
	}

	page, marker, err := f.listPoliciesPage(ctx, svc, filter, o.pageToken, o.maxItems)
	if err != nil {
		return ListResult[models.Policy]{}, err
	}

	res := newListResult(page)
	if marker != "" {
		res.Truncated = true
		res.NextToken = marker
		f.log.Debug().Int("returned", len(page)).Msg("IAM: policy listing truncated")
	}
	return res, nil
}

func (f *Facade) listPoliciesPage(ctx context.Context, svc IAMAPI, filter PolicyFilter, marker string, maxItems int32) ([]models.Policy, string, error) {
	const op = "list"

	input := &iam.ListPoliciesInput{
		Scope:             types.PolicyScopeType(defaultString(string(filter.Scope), string(models.ScopeLocal))),
		OnlyAttached:      filter.OnlyAttached,
		PathPrefix:        awsv2.String(defaultString(filter.PathPrefix, "/")),
		PolicyUsageFilter: types.PolicyUsageType(defaultString(string(filter.Usage), string(models.UsagePermissionsPolicy))),
	}
	if marker != "" {
		input.Marker = awsv2.String(marker)
	}
	if maxItems > 0 {
		input.MaxItems = awsv2.Int32(maxItems)
	}

	out, err := svc.ListPolicies(ctx, input)
	if err != nil {
		return nil, "", f.fault(err, op, models.PolicyResource, filter.PathPrefix)
	}
	if err := f.check(op, models.PolicyResource, filter.PathPrefix, out.ResultMetadata); err != nil {
		return nil, "", err
	}

	policies := make([]models.Policy, 0, len(out.Policies))
	for i := range out.Policies {
		policies = append(policies, policyFromSDK(&out.Policies[i]))
	}

	next := ""
	if out.IsTruncated {
		next = awsv2.ToString(out.Marker)
	}
	return policies, next, nil
}

// policyTiers is the name resolution order: Local scope before AWS managed,
// PermissionsPolicy usage before PermissionsBoundary
var policyTiers = []PolicyFilter{
	{Scope: models.ScopeLocal, Usage: models.UsagePermissionsPolicy},
	{Scope: models.ScopeLocal, Usage: models.UsagePermissionsBoundary},
	{Scope: models.ScopeAWS, Usage: models.UsagePermissionsPolicy},
	{Scope: models.ScopeAWS, Usage: models.UsagePermissionsBoundary},
}

// ResolvePolicyARN finds the ARN of the policy called name. Every page is
// enumerated. The first tier of policyTiers with a match wins; two distinct
// ARNs in the winning tier yield AmbiguousName.
func (f *Facade) ResolvePolicyARN(ctx context.Context, name string) (string, error) {
	const op = "resolve"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return "", f.fault(err, op, models.PolicyResource, name)
	}

	for _, tier := range policyTiers {
		matches := map[string]struct{}{}
		marker := ""
		for {
			page, next, err := f.listPoliciesPage(ctx, svc, tier, marker, 0)
			if err != nil {
				return "", err
			}
			for _, p := range page {
				if p.Name == name {
					matches[p.Arn] = struct{}{}
				}
			}
			if next == "" {
				break
			}
			marker = next
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			for arn := range matches {
				f.log.Debug().Str("name", name).Str("arn", arn).Str("scope", string(tier.Scope)).Msg("IAM: resolved policy")
				return arn, nil
			}
		default:
			arns := make([]string, 0, len(matches))
			for arn := range matches {
				arns = append(arns, arn)
			}
			sort.Strings(arns)
			return "", f.fail(&OpError{
				Kind:      AmbiguousName,
				Resource:  models.PolicyResource,
				Name:      name,
				Operation: op,
				Cause:     errors.Errorf("candidates: %s", strings.Join(arns, ", ")),
			})
		}
	}

	return "", f.fail(&OpError{Kind: DoesNotExist, Resource: models.PolicyResource, Name: name, Operation: op})
}

// DeletePolicy deletes a managed policy. An ARN is required because several
// policies can share a name across paths and scopes; use ResolvePolicyARN
// to look one up. The policy must be detached and its versions deleted first.
func (f *Facade) DeletePolicy(ctx context.Context, arn string) error {
	const op = "delete"

	if !strings.HasPrefix(arn, "arn:") {
		return f.notImplemented(op, models.PolicyResource, arn, "deleting a policy by name")
	}

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return f.fault(err, op, models.PolicyResource, arn)
	}

	f.log.Info().Str("arn", arn).Msg("IAM: deleting policy")
	out, err := svc.DeletePolicy(ctx, &iam.DeletePolicyInput{PolicyArn: awsv2.String(arn)})
	if err != nil {
		return f.fault(err, op, models.PolicyResource, arn)
	}
	return f.check(op, models.PolicyResource, arn, out.ResultMetadata)
}

// ManagedPolicyARN returns the ARN of the AWS-managed policy called name
func (f *Facade) ManagedPolicyARN(name string) string {
	return models.ManagedPolicyARN(f.settings.Partition, name)
}

// AttachRolePolicy attaches a managed policy to a role. Faults are only
// normalized; there is no pre-check of either side.
func (f *Facade) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	const op = "attach"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}

	f.log.Info().Str("role", roleName).Str("policy", policyARN).Msg("IAM: attaching policy")
	out, err := svc.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  awsv2.String(roleName),
		PolicyArn: awsv2.String(policyARN),
	})
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}
	return f.check(op, models.RoleResource, roleName, out.ResultMetadata)
}

// AttachManagedRolePolicy attaches the AWS-managed policy called policyName
func (f *Facade) AttachManagedRolePolicy(ctx context.Context, roleName, policyName string) error {
	return f.AttachRolePolicy(ctx, roleName, f.ManagedPolicyARN(policyName))
}

// DetachRolePolicy detaches a managed policy from a role
func (f *Facade) DetachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	const op = "detach"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}

	f.log.Info().Str("role", roleName).Str("policy", policyARN).Msg("IAM: detaching policy")
	out, err := svc.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
		RoleName:  awsv2.String(roleName),
		PolicyArn: awsv2.String(policyARN),
	})
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}
	return f.check(op, models.RoleResource, roleName, out.ResultMetadata)
}

// ListAttachedRolePolicies returns the managed policies attached to a role, all pages
func (f *Facade) ListAttachedRolePolicies(ctx context.Context, roleName string) ([]models.AttachedPolicy, error) {
	const op = "list attached"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return nil, f.fault(err, op, models.RoleResource, roleName)
	}

	policies := []models.AttachedPolicy{}
	var marker *string
	for {
		out, err := svc.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: awsv2.String(roleName),
			Marker:   marker,
		})
		if err != nil {
			return nil, f.fault(err, op, models.RoleResource, roleName)
		}
		if err := f.check(op, models.RoleResource, roleName, out.ResultMetadata); err != nil {
			return nil, err
		}

		for _, p := range out.AttachedPolicies {
			policies = append(policies, models.AttachedPolicy{
				Name: awsv2.ToString(p.PolicyName),
				Arn:  awsv2.ToString(p.PolicyArn),
			})
		}

		if !out.IsTruncated {
			break
		}
		marker = out.Marker
	}
	return policies, nil
}

// PutRolePolicy embeds an inline policy document in a role
func (f *Facade) PutRolePolicy(ctx context.Context, roleName, policyName, document string) error {
	const op = "put inline policy"

	svc, err := f.clients.IAM(ctx)
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}

	f.log.Info().Str("role", roleName).Str("policy", policyName).Msg("IAM: putting inline policy")
	out, err := svc.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       awsv2.String(roleName),
		PolicyName:     awsv2.String(policyName),
		PolicyDocument: awsv2.String(document),
	})
	if err != nil {
		return f.fault(err, op, models.RoleResource, roleName)
	}
	return f.check(op, models.RoleResource, roleName, out.ResultMetadata)
}

func (f *Facade) roleFromSDK(r *types.Role) models.Role {
	if r == nil {
		return models.Role{}
	}

	role := models.Role{
		RoleName:           awsv2.ToString(r.RoleName),
		RoleId:             awsv2.ToString(r.RoleId),
		Arn:                awsv2.ToString(r.Arn),
		CreateDate:         awsv2.ToTime(r.CreateDate),
		Path:               awsv2.ToString(r.Path),
		Description:        awsv2.ToString(r.Description),
		MaxSessionDuration: awsv2.ToInt32(r.MaxSessionDuration),
	}

	if r.AssumeRolePolicyDocument != nil {
		role.TrustPolicy = f.decodeOrRaw(*r.AssumeRolePolicyDocument)
	}

	if len(r.Tags) > 0 {
		role.Tags = make(map[string]string, len(r.Tags))
		for _, t := range r.Tags {
			role.Tags[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
		}
	}

	if r.RoleLastUsed != nil && r.RoleLastUsed.LastUsedDate != nil {
		role.LastUsed = &models.RoleLastUsed{
			Date:   *r.RoleLastUsed.LastUsedDate,
			Region: awsv2.ToString(r.RoleLastUsed.Region),
		}
	}

	return role
}

func policyFromSDK(p *types.Policy) models.Policy {
	if p == nil {
		return models.Policy{}
	}
	return models.Policy{
		Name:             awsv2.ToString(p.PolicyName),
		PolicyId:         awsv2.ToString(p.PolicyId),
		Arn:              awsv2.ToString(p.Arn),
		Path:             awsv2.ToString(p.Path),
		Description:      awsv2.ToString(p.Description),
		DefaultVersionId: awsv2.ToString(p.DefaultVersionId),
		AttachmentCount:  awsv2.ToInt32(p.AttachmentCount),
		Attachable:       p.IsAttachable,
		CreateDate:       awsv2.ToTime(p.CreateDate),
		UpdateDate:       awsv2.ToTime(p.UpdateDate),
	}
}

func iamTags(tags map[string]string) []types.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, types.Tag{Key: awsv2.String(k), Value: awsv2.String(tags[k])})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func defaultMaxSession(seconds int32) int32 {
	if seconds <= 0 {
		return defaultMaxSessionDuration
	}
	return seconds
}
