package aws

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestThingRegistry(t *testing.T) {
	fake := newFakeIoT()
	f := newTestFacade(&fakeFactory{iot: fake})
	reg := NewThingRegistry(f)
	ctx := context.Background()

	_, err := reg.Create(ctx, CreateThingInput{Name: "t1"})
	require.NoError(t, err)
	_, err = reg.Create(ctx, CreateThingInput{Name: "t2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, reg.Names())

	_, err = reg.Create(ctx, CreateThingInput{Name: "t1"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, []string{"t1", "t2"}, reg.Names(), "failed create leaves the record untouched")

	require.NoError(t, reg.Delete(ctx, "t1"))
	assert.Equal(t, []string{"t2"}, reg.Names())

	delete(fake.things, "t2")
	assert.ErrorIs(t, reg.Delete(ctx, "t2"), ErrDoesNotExist)
	assert.Equal(t, []string{"t2"}, reg.Names(), "failed delete leaves the record untouched")

	path := filepath.Join(t.TempDir(), ThingLedgerStem+".gob")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadThingRegistry(f, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, loaded.Names())
	thing, ok := loaded.Get("t2")
	require.True(t, ok)
	assert.Equal(t, "arn:aws:iot:us-west-2:123456789012:thing/t2", thing.Arn)
}

func TestInstanceRegistry(t *testing.T) {
	m := new(MockEC2)
	m.On("RunInstances", mock.Anything, mock.Anything).Return(&ec2.RunInstancesOutput{
		Instances: []ec2types.Instance{runningInstance("i-1", "worker-1")},
	}, nil)
	m.On("TerminateInstances", mock.Anything, mock.MatchedBy(func(in *ec2.TerminateInstancesInput) bool {
		return in.InstanceIds[0] == "i-1"
	})).Return(&ec2.TerminateInstancesOutput{}, nil)

	factory := &fakeFactory{ec2: m}
	f := newTestFacade(factory)
	reg := NewInstanceRegistry(f)
	ctx := context.Background()

	_, err := reg.Launch(ctx, LaunchInput{Name: "worker-1", ImageID: "ami-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"worker-1"}, reg.Names())

	path := filepath.Join(t.TempDir(), InstanceLedgerStem+".gob")
	require.NoError(t, reg.Save(path))
	loaded, err := LoadInstanceRegistry(f, path)
	require.NoError(t, err)
	inst, ok := loaded.Get("worker-1")
	require.True(t, ok)
	assert.Equal(t, "i-1", inst.InstanceId)

	calls := factory.calls
	assert.ErrorIs(t, reg.Terminate(ctx, "unknown"), ErrDoesNotExist)
	assert.Equal(t, calls, factory.calls)

	require.NoError(t, reg.Terminate(ctx, "worker-1"))
	assert.Empty(t, reg.Names())
	m.AssertExpectations(t)
}
