package models

// Function represents a Lambda function configuration
type Function struct {
	Name         string
	Arn          string
	Runtime      string
	Handler      string
	Role         string
	Description  string
	MemorySize   int32
	Timeout      int32
	CodeSize     int64
	LastModified string
	Version      string
}

func (f Function) GetType() ResourceKind { return FunctionResource }
func (f Function) GetName() string       { return f.Name }
func (f Function) GetARN() string        { return f.Arn }

// FunctionDetails is the normalized GetFunction payload.
// CodeLocation is a presigned URL valid for roughly ten minutes.
type FunctionDetails struct {
	Configuration  Function
	CodeLocation   string
	RepositoryType string
	Tags           map[string]string
}
