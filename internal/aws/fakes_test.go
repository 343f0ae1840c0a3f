package aws

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/middleware"
	"github.com/stretchr/testify/mock"

	"cloudfacade/internal/config"
)

const testAccount = "123456789012"

func okStatus(middleware.Metadata) (int, bool) { return 200, true }

func fixedStatus(code int) StatusFunc {
	return func(middleware.Metadata) (int, bool) { return code, true }
}

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

// fakeFactory hands out the configured clients and counts every request,
// so tests can prove an operation never reached the provider.
type fakeFactory struct {
	iam    IAMAPI
	s3     S3API
	dynamo DynamoDBAPI
	iot    IoTAPI
	lambda LambdaAPI
	ec2    EC2API

	calls int
	err   error
}

func (f *fakeFactory) IAM(context.Context) (IAMAPI, error) {
	f.calls++
	return f.iam, f.err
}

func (f *fakeFactory) S3(context.Context) (S3API, error) {
	f.calls++
	return f.s3, f.err
}

func (f *fakeFactory) DynamoDB(context.Context) (DynamoDBAPI, error) {
	f.calls++
	return f.dynamo, f.err
}

func (f *fakeFactory) IoT(context.Context) (IoTAPI, error) {
	f.calls++
	return f.iot, f.err
}

func (f *fakeFactory) Lambda(context.Context) (LambdaAPI, error) {
	f.calls++
	return f.lambda, f.err
}

func (f *fakeFactory) EC2(context.Context) (EC2API, error) {
	f.calls++
	return f.ec2, f.err
}

func newTestFacade(clients ClientFactory, opts ...FacadeOption) *Facade {
	return New(clients, config.Default(), append([]FacadeOption{WithStatusFunc(okStatus)}, opts...)...)
}

// fakeIAM keeps roles, managed policies and attachments in memory
type fakeIAM struct {
	IAMAPI

	roles       map[string]iamtypes.Role
	policies    []fakePolicy
	attachments map[string][]string
	pageSize    int
	listCalls   int
}

type fakePolicy struct {
	policy   iamtypes.Policy
	usage    iamtypes.PolicyUsageType
	document string
}

func newFakeIAM() *fakeIAM {
	return &fakeIAM{
		roles:       map[string]iamtypes.Role{},
		attachments: map[string][]string{},
	}
}

func (f *fakeIAM) addPolicy(name, arn string, usage iamtypes.PolicyUsageType) {
	f.policies = append(f.policies, fakePolicy{
		policy: iamtypes.Policy{
			PolicyName:       awsv2.String(name),
			Arn:              awsv2.String(arn),
			Path:             awsv2.String("/"),
			DefaultVersionId: awsv2.String("v1"),
			IsAttachable:     true,
		},
		usage:    usage,
		document: `{"Version":"2012-10-17","Statement":[]}`,
	})
}

func (f *fakeIAM) CreateRole(_ context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	name := awsv2.ToString(in.RoleName)
	if _, ok := f.roles[name]; ok {
		return nil, apiError("EntityAlreadyExists")
	}
	role := iamtypes.Role{
		RoleName:                 in.RoleName,
		RoleId:                   awsv2.String("AROA" + strings.ToUpper(name)),
		Arn:                      awsv2.String(fmt.Sprintf("arn:aws:iam::%s:role%s%s", testAccount, awsv2.ToString(in.Path), name)),
		Path:                     in.Path,
		CreateDate:               awsv2.Time(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		AssumeRolePolicyDocument: in.AssumeRolePolicyDocument,
		Description:              in.Description,
		MaxSessionDuration:       in.MaxSessionDuration,
		Tags:                     in.Tags,
	}
	f.roles[name] = role
	return &iam.CreateRoleOutput{Role: &role}, nil
}

func (f *fakeIAM) GetRole(_ context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	role, ok := f.roles[awsv2.ToString(in.RoleName)]
	if !ok {
		return nil, apiError("NoSuchEntity")
	}
	return &iam.GetRoleOutput{Role: &role}, nil
}

func (f *fakeIAM) ListRoles(_ context.Context, in *iam.ListRolesInput, _ ...func(*iam.Options)) (*iam.ListRolesOutput, error) {
	names := make([]string, 0, len(f.roles))
	for name, role := range f.roles {
		if strings.HasPrefix(awsv2.ToString(role.Path), awsv2.ToString(in.PathPrefix)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start := 0
	if in.Marker != nil {
		start, _ = strconv.Atoi(*in.Marker)
	}
	end := len(names)
	if in.MaxItems != nil && start+int(*in.MaxItems) < end {
		end = start + int(*in.MaxItems)
	}

	out := &iam.ListRolesOutput{}
	for _, name := range names[start:end] {
		out.Roles = append(out.Roles, f.roles[name])
	}
	if end < len(names) {
		out.IsTruncated = true
		out.Marker = awsv2.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeIAM) DeleteRole(_ context.Context, in *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	name := awsv2.ToString(in.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, apiError("NoSuchEntity")
	}
	delete(f.roles, name)
	return &iam.DeleteRoleOutput{}, nil
}

func (f *fakeIAM) CreatePolicy(_ context.Context, in *iam.CreatePolicyInput, _ ...func(*iam.Options)) (*iam.CreatePolicyOutput, error) {
	arn := fmt.Sprintf("arn:aws:iam::%s:policy%s%s", testAccount, awsv2.ToString(in.Path), awsv2.ToString(in.PolicyName))
	for _, p := range f.policies {
		if awsv2.ToString(p.policy.Arn) == arn {
			return nil, apiError("EntityAlreadyExists")
		}
	}
	f.addPolicy(awsv2.ToString(in.PolicyName), arn, iamtypes.PolicyUsageTypePermissionsPolicy)
	f.policies[len(f.policies)-1].document = awsv2.ToString(in.PolicyDocument)
	p := f.policies[len(f.policies)-1].policy
	return &iam.CreatePolicyOutput{Policy: &p}, nil
}

func (f *fakeIAM) findPolicy(arn string) (int, bool) {
	for i, p := range f.policies {
		if awsv2.ToString(p.policy.Arn) == arn {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeIAM) GetPolicy(_ context.Context, in *iam.GetPolicyInput, _ ...func(*iam.Options)) (*iam.GetPolicyOutput, error) {
	i, ok := f.findPolicy(awsv2.ToString(in.PolicyArn))
	if !ok {
		return nil, apiError("NoSuchEntity")
	}
	p := f.policies[i].policy
	return &iam.GetPolicyOutput{Policy: &p}, nil
}

func (f *fakeIAM) GetPolicyVersion(_ context.Context, in *iam.GetPolicyVersionInput, _ ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error) {
	i, ok := f.findPolicy(awsv2.ToString(in.PolicyArn))
	if !ok {
		return nil, apiError("NoSuchEntity")
	}
	return &iam.GetPolicyVersionOutput{PolicyVersion: &iamtypes.PolicyVersion{
		Document:         awsv2.String(f.policies[i].document),
		VersionId:        in.VersionId,
		IsDefaultVersion: true,
	}}, nil
}

func (f *fakeIAM) ListPolicies(_ context.Context, in *iam.ListPoliciesInput, _ ...func(*iam.Options)) (*iam.ListPoliciesOutput, error) {
	f.listCalls++

	var matched []iamtypes.Policy
	for _, p := range f.policies {
		awsOwned := strings.Contains(awsv2.ToString(p.policy.Arn), ":iam::aws:")
		switch in.Scope {
		case iamtypes.PolicyScopeTypeLocal:
			if awsOwned {
				continue
			}
		case iamtypes.PolicyScopeTypeAws:
			if !awsOwned {
				continue
			}
		}
		if in.PolicyUsageFilter != "" && in.PolicyUsageFilter != p.usage {
			continue
		}
		matched = append(matched, p.policy)
	}

	start := 0
	if in.Marker != nil {
		start, _ = strconv.Atoi(*in.Marker)
	}
	end := len(matched)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &iam.ListPoliciesOutput{Policies: matched[start:end]}
	if end < len(matched) {
		out.IsTruncated = true
		out.Marker = awsv2.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeIAM) DeletePolicy(_ context.Context, in *iam.DeletePolicyInput, _ ...func(*iam.Options)) (*iam.DeletePolicyOutput, error) {
	i, ok := f.findPolicy(awsv2.ToString(in.PolicyArn))
	if !ok {
		return nil, apiError("NoSuchEntity")
	}
	f.policies = append(f.policies[:i], f.policies[i+1:]...)
	return &iam.DeletePolicyOutput{}, nil
}

func (f *fakeIAM) AttachRolePolicy(_ context.Context, in *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	role := awsv2.ToString(in.RoleName)
	if _, ok := f.roles[role]; !ok {
		return nil, apiError("NoSuchEntity")
	}
	f.attachments[role] = append(f.attachments[role], awsv2.ToString(in.PolicyArn))
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *fakeIAM) DetachRolePolicy(_ context.Context, in *iam.DetachRolePolicyInput, _ ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	role := awsv2.ToString(in.RoleName)
	arn := awsv2.ToString(in.PolicyArn)
	for i, a := range f.attachments[role] {
		if a == arn {
			f.attachments[role] = append(f.attachments[role][:i], f.attachments[role][i+1:]...)
			return &iam.DetachRolePolicyOutput{}, nil
		}
	}
	return nil, apiError("NoSuchEntity")
}

func (f *fakeIAM) ListAttachedRolePolicies(_ context.Context, in *iam.ListAttachedRolePoliciesInput, _ ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	role := awsv2.ToString(in.RoleName)
	if _, ok := f.roles[role]; !ok {
		return nil, apiError("NoSuchEntity")
	}

	out := &iam.ListAttachedRolePoliciesOutput{}
	for _, arn := range f.attachments[role] {
		name := arn[strings.LastIndex(arn, "/")+1:]
		out.AttachedPolicies = append(out.AttachedPolicies, iamtypes.AttachedPolicy{
			PolicyName: awsv2.String(name),
			PolicyArn:  awsv2.String(arn),
		})
	}
	return out, nil
}

// fakeS3 keeps buckets and objects in memory
type fakeS3 struct {
	S3API

	buckets     []string
	objects     map[string]map[string][]byte
	createCalls int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]map[string][]byte{}}
}

func (f *fakeS3) ListBuckets(_ context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	out := &s3.ListBucketsOutput{Buckets: []s3types.Bucket{}}
	for _, name := range f.buckets {
		if strings.HasPrefix(name, awsv2.ToString(in.Prefix)) {
			out.Buckets = append(out.Buckets, s3types.Bucket{
				Name:         awsv2.String(name),
				BucketRegion: awsv2.String("us-west-2"),
			})
		}
	}
	return out, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createCalls++
	name := awsv2.ToString(in.Bucket)
	if _, ok := f.objects[name]; ok {
		return nil, apiError("BucketAlreadyOwnedByYou")
	}
	f.buckets = append(f.buckets, name)
	f.objects[name] = map[string][]byte{}
	return &s3.CreateBucketOutput{Location: awsv2.String("/" + name)}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if _, ok := f.objects[awsv2.ToString(in.Bucket)]; !ok {
		return nil, apiError("NotFound")
	}
	return &s3.HeadBucketOutput{BucketRegion: awsv2.String("us-west-2")}, nil
}

func (f *fakeS3) DeleteBucket(_ context.Context, in *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	name := awsv2.ToString(in.Bucket)
	objects, ok := f.objects[name]
	if !ok {
		return nil, apiError("NoSuchBucket")
	}
	if len(objects) > 0 {
		return nil, apiError("BucketNotEmpty")
	}
	delete(f.objects, name)
	for i, b := range f.buckets {
		if b == name {
			f.buckets = append(f.buckets[:i], f.buckets[i+1:]...)
			break
		}
	}
	return &s3.DeleteBucketOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	objects, ok := f.objects[awsv2.ToString(in.Bucket)]
	if !ok {
		return nil, apiError("NoSuchBucket")
	}

	keys := make([]string, 0, len(objects))
	for k := range objects {
		if strings.HasPrefix(k, awsv2.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, s3types.Object{
			Key:  awsv2.String(k),
			Size: awsv2.Int64(int64(len(objects[k]))),
		})
	}
	return out, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	objects, ok := f.objects[awsv2.ToString(in.Bucket)]
	if !ok {
		return nil, apiError("NoSuchBucket")
	}
	var body []byte
	if in.Body != nil {
		data, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		body = data
	}
	objects[awsv2.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

// MockDynamoDB is a mock implementation of DynamoDBAPI
type MockDynamoDB struct {
	mock.Mock
}

func (m *MockDynamoDB) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func (m *MockDynamoDB) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func (m *MockDynamoDB) DeleteTable(ctx context.Context, in *dynamodb.DeleteTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteTableOutput)
	return out, args.Error(1)
}

func (m *MockDynamoDB) ListTables(ctx context.Context, in *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.ListTablesOutput)
	return out, args.Error(1)
}

// fakeIoT keeps things in memory and answers the way IoT does: a repeated
// create with the same configuration succeeds, a create with a different
// type fails, and deleting a missing thing succeeds.
type fakeIoT struct {
	IoTAPI

	things      map[string]*iot.CreateThingInput
	createCalls int
	deleteCalls int
	describeErr error
}

func newFakeIoT() *fakeIoT {
	return &fakeIoT{things: map[string]*iot.CreateThingInput{}}
}

func thingARN(name string) string {
	return "arn:aws:iot:us-west-2:123456789012:thing/" + name
}

func (f *fakeIoT) CreateThing(_ context.Context, in *iot.CreateThingInput, _ ...func(*iot.Options)) (*iot.CreateThingOutput, error) {
	f.createCalls++
	name := awsv2.ToString(in.ThingName)
	if existing, ok := f.things[name]; ok && awsv2.ToString(existing.ThingTypeName) != awsv2.ToString(in.ThingTypeName) {
		return nil, apiError("ResourceAlreadyExistsException")
	}
	f.things[name] = in
	return &iot.CreateThingOutput{
		ThingName: awsv2.String(name),
		ThingArn:  awsv2.String(thingARN(name)),
		ThingId:   awsv2.String("id-" + name),
	}, nil
}

func (f *fakeIoT) DescribeThing(_ context.Context, in *iot.DescribeThingInput, _ ...func(*iot.Options)) (*iot.DescribeThingOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	name := awsv2.ToString(in.ThingName)
	thing, ok := f.things[name]
	if !ok {
		return nil, apiError("ResourceNotFoundException")
	}
	out := &iot.DescribeThingOutput{
		ThingName:     awsv2.String(name),
		ThingArn:      awsv2.String(thingARN(name)),
		ThingId:       awsv2.String("id-" + name),
		ThingTypeName: thing.ThingTypeName,
	}
	if thing.AttributePayload != nil {
		out.Attributes = thing.AttributePayload.Attributes
	}
	return out, nil
}

func (f *fakeIoT) DeleteThing(_ context.Context, in *iot.DeleteThingInput, _ ...func(*iot.Options)) (*iot.DeleteThingOutput, error) {
	f.deleteCalls++
	delete(f.things, awsv2.ToString(in.ThingName))
	return &iot.DeleteThingOutput{}, nil
}

// MockIoT is a mock implementation of IoTAPI
type MockIoT struct {
	mock.Mock
}

func (m *MockIoT) CreateThing(ctx context.Context, in *iot.CreateThingInput, _ ...func(*iot.Options)) (*iot.CreateThingOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.CreateThingOutput)
	return out, args.Error(1)
}

func (m *MockIoT) DescribeThing(ctx context.Context, in *iot.DescribeThingInput, _ ...func(*iot.Options)) (*iot.DescribeThingOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.DescribeThingOutput)
	return out, args.Error(1)
}

func (m *MockIoT) DeleteThing(ctx context.Context, in *iot.DeleteThingInput, _ ...func(*iot.Options)) (*iot.DeleteThingOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.DeleteThingOutput)
	return out, args.Error(1)
}

func (m *MockIoT) ListThings(ctx context.Context, in *iot.ListThingsInput, _ ...func(*iot.Options)) (*iot.ListThingsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.ListThingsOutput)
	return out, args.Error(1)
}

func (m *MockIoT) CreateThingType(ctx context.Context, in *iot.CreateThingTypeInput, _ ...func(*iot.Options)) (*iot.CreateThingTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.CreateThingTypeOutput)
	return out, args.Error(1)
}

func (m *MockIoT) DescribeThingType(ctx context.Context, in *iot.DescribeThingTypeInput, _ ...func(*iot.Options)) (*iot.DescribeThingTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.DescribeThingTypeOutput)
	return out, args.Error(1)
}

func (m *MockIoT) DeprecateThingType(ctx context.Context, in *iot.DeprecateThingTypeInput, _ ...func(*iot.Options)) (*iot.DeprecateThingTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.DeprecateThingTypeOutput)
	return out, args.Error(1)
}

func (m *MockIoT) DeleteThingType(ctx context.Context, in *iot.DeleteThingTypeInput, _ ...func(*iot.Options)) (*iot.DeleteThingTypeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.DeleteThingTypeOutput)
	return out, args.Error(1)
}

func (m *MockIoT) ListThingTypes(ctx context.Context, in *iot.ListThingTypesInput, _ ...func(*iot.Options)) (*iot.ListThingTypesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iot.ListThingTypesOutput)
	return out, args.Error(1)
}

// MockLambda is a mock implementation of LambdaAPI
type MockLambda struct {
	mock.Mock
}

func (m *MockLambda) ListFunctions(ctx context.Context, in *lambda.ListFunctionsInput, _ ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*lambda.ListFunctionsOutput)
	return out, args.Error(1)
}

func (m *MockLambda) GetFunction(ctx context.Context, in *lambda.GetFunctionInput, _ ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*lambda.GetFunctionOutput)
	return out, args.Error(1)
}

func (m *MockLambda) DeleteFunction(ctx context.Context, in *lambda.DeleteFunctionInput, _ ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*lambda.DeleteFunctionOutput)
	return out, args.Error(1)
}

// MockEC2 is a mock implementation of EC2API
type MockEC2 struct {
	mock.Mock
}

func (m *MockEC2) RunInstances(ctx context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ec2.RunInstancesOutput)
	return out, args.Error(1)
}

func (m *MockEC2) DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ec2.DescribeInstancesOutput)
	return out, args.Error(1)
}

func (m *MockEC2) TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ec2.TerminateInstancesOutput)
	return out, args.Error(1)
}
