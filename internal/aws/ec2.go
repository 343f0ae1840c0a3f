package aws

import (
	"context"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"cloudfacade/internal/models"
)

const defaultInstanceType = "t3.micro"

// LaunchInput describes a single instance to launch
type LaunchInput struct {
	Name             string
	ImageID          string
	InstanceType     string   // defaults to t3.micro
	KeyName          string
	SecurityGroupIDs []string // defaults to the project's security group
	Tags             map[string]string
}

// LaunchInstance launches exactly one instance tagged with its name and the project
func (f *Facade) LaunchInstance(ctx context.Context, in LaunchInput, opts ...CallOption) (models.Instance, error) {
	const op = "launch"

	if _, err := f.resolve(op, models.InstanceResource, in.Name, opts); err != nil {
		return models.Instance{}, err
	}

	svc, err := f.clients.EC2(ctx)
	if err != nil {
		return models.Instance{}, f.fault(err, op, models.InstanceResource, in.Name)
	}

	groups := in.SecurityGroupIDs
	if len(groups) == 0 {
		groups = f.settings.ProjectSecurityGroups()
	}

	tags := map[string]string{}
	for k, v := range in.Tags {
		tags[k] = v
	}
	tags["Name"] = in.Name
	tags["project_name"] = f.settings.ProjectName

	input := &ec2.RunInstancesInput{
		ImageId:          awsv2.String(in.ImageID),
		InstanceType:     types.InstanceType(defaultString(in.InstanceType, defaultInstanceType)),
		MinCount:         awsv2.Int32(1),
		MaxCount:         awsv2.Int32(1),
		SecurityGroupIds: groups,
		TagSpecifications: []types.TagSpecification{
			{ResourceType: types.ResourceTypeInstance, Tags: ec2Tags(tags)},
		},
	}
	if in.KeyName != "" {
		input.KeyName = awsv2.String(in.KeyName)
	}

	f.log.Info().
		Str("name", in.Name).
		Str("image", in.ImageID).
		Str("type", string(input.InstanceType)).
		Msg("EC2: launching instance")
	out, err := svc.RunInstances(ctx, input)
	if err != nil {
		return models.Instance{}, f.fault(err, op, models.InstanceResource, in.Name)
	}
	if err := f.check(op, models.InstanceResource, in.Name, out.ResultMetadata); err != nil {
		return models.Instance{}, err
	}

	if len(out.Instances) == 0 {
		return models.Instance{}, f.fail(&OpError{Kind: APICallFailed, Resource: models.InstanceResource, Name: in.Name, Operation: op})
	}
	return instanceFromSDK(out.Instances[0]), nil
}

// DescribeInstances describes the given instances, or every instance when ids
// is empty. Only one page is fetched per call.
func (f *Facade) DescribeInstances(ctx context.Context, ids []string, opts ...CallOption) (ListResult[models.Instance], error) {
	const op = "describe"
	name := strings.Join(ids, ",")

	o, err := f.resolve(op, models.InstanceResource, name, opts)
	if err != nil {
		return ListResult[models.Instance]{}, err
	}

	svc, err := f.clients.EC2(ctx)
	if err != nil {
		return ListResult[models.Instance]{}, f.fault(err, op, models.InstanceResource, name)
	}

	input := &ec2.DescribeInstancesInput{InstanceIds: ids}
	if o.pageToken != "" {
		input.NextToken = awsv2.String(o.pageToken)
	}
	// MaxResults cannot be combined with explicit instance IDs
	if o.maxItems > 0 && len(ids) == 0 {
		input.MaxResults = awsv2.Int32(o.maxItems)
	}

	out, err := svc.DescribeInstances(ctx, input)
	if err != nil {
		return ListResult[models.Instance]{}, f.fault(err, op, models.InstanceResource, name)
	}
	if err := f.check(op, models.InstanceResource, name, out.ResultMetadata); err != nil {
		return ListResult[models.Instance]{}, err
	}

	var instances []models.Instance
	for _, r := range out.Reservations {
		for _, inst := range r.Instances {
			instances = append(instances, instanceFromSDK(inst))
		}
	}

	res := newListResult(instances)
	if token := awsv2.ToString(out.NextToken); token != "" {
		res.Truncated = true
		res.NextToken = token
	}
	return res, nil
}

// TerminateInstances terminates the given instances and returns their new states
func (f *Facade) TerminateInstances(ctx context.Context, ids []string, opts ...CallOption) ([]models.Instance, error) {
	const op = "terminate"
	name := strings.Join(ids, ",")

	if _, err := f.resolve(op, models.InstanceResource, name, opts); err != nil {
		return nil, err
	}

	svc, err := f.clients.EC2(ctx)
	if err != nil {
		return nil, f.fault(err, op, models.InstanceResource, name)
	}

	f.log.Info().Strs("ids", ids).Msg("EC2: terminating instances")
	out, err := svc.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: ids})
	if err != nil {
		return nil, f.fault(err, op, models.InstanceResource, name)
	}
	if err := f.check(op, models.InstanceResource, name, out.ResultMetadata); err != nil {
		return nil, err
	}

	changes := make([]models.Instance, 0, len(out.TerminatingInstances))
	for _, c := range out.TerminatingInstances {
		inst := models.Instance{InstanceId: awsv2.ToString(c.InstanceId)}
		if c.CurrentState != nil {
			inst.State = string(c.CurrentState.Name)
		}
		changes = append(changes, inst)
	}
	return changes, nil
}

func instanceFromSDK(i types.Instance) models.Instance {
	inst := models.Instance{
		InstanceId:   awsv2.ToString(i.InstanceId),
		ImageId:      awsv2.ToString(i.ImageId),
		InstanceType: string(i.InstanceType),
		KeyName:      awsv2.ToString(i.KeyName),
		PrivateIP:    awsv2.ToString(i.PrivateIpAddress),
		PublicIP:     awsv2.ToString(i.PublicIpAddress),
		LaunchTime:   awsv2.ToTime(i.LaunchTime),
		Tags:         map[string]string{},
	}
	if i.State != nil {
		inst.State = string(i.State.Name)
	}
	for _, g := range i.SecurityGroups {
		inst.SecurityGroups = append(inst.SecurityGroups, awsv2.ToString(g.GroupId))
	}
	for _, t := range i.Tags {
		inst.Tags[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
	}
	inst.Name = inst.Tags["Name"]
	return inst
}

func ec2Tags(tags map[string]string) []types.Tag {
	out := make([]types.Tag, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		out = append(out, types.Tag{Key: awsv2.String(k), Value: awsv2.String(tags[k])})
	}
	return out
}
