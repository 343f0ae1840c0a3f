package models

import "time"

// Instance represents an EC2 instance
type Instance struct {
	InstanceId     string
	Name           string
	ImageId        string
	InstanceType   string
	State          string
	KeyName        string
	PrivateIP      string
	PublicIP       string
	LaunchTime     time.Time
	SecurityGroups []string
	Tags           map[string]string
}

func (i Instance) GetType() ResourceKind { return InstanceResource }

// GetName returns the Name tag, falling back to the instance ID
func (i Instance) GetName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.InstanceId
}

// GetARN is empty: instance ARNs need the owning account, which listing does not return
func (i Instance) GetARN() string { return "" }
