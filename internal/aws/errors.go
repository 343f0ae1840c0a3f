package aws

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/pkg/errors"

	"cloudfacade/internal/models"
)

// ErrorKind is the closed taxonomy every facade failure is mapped into
type ErrorKind int

const (
	NoError ErrorKind = iota
	AlreadyExists
	DoesNotExist
	APICallFailed
	RegionNotSupported
	NotImplemented
	AmbiguousName
)

var errorKindNames = map[ErrorKind]string{
	NoError:            "NoError",
	AlreadyExists:      "AlreadyExists",
	DoesNotExist:       "DoesNotExist",
	APICallFailed:      "APICallFailed",
	RegionNotSupported: "RegionNotSupported",
	NotImplemented:     "NotImplemented",
	AmbiguousName:      "AmbiguousName",
}

var errorMessages = map[ErrorKind]string{
	NoError:            "No error",
	AlreadyExists:      "Resource already exists",
	DoesNotExist:       "Resource does not exist",
	APICallFailed:      "AWS API call failed",
	RegionNotSupported: "Region not supported",
	NotImplemented:     "Operation not implemented",
	AmbiguousName:      "Name matches more than one resource",
}

// String returns the taxonomy name of the kind
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Message returns the human-readable message for the kind
func (k ErrorKind) Message() string {
	if msg, ok := errorMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("Error kind %d does not exist", int(k))
}

// Provider fault codes mapped to the distinguished kinds. Anything else is APICallFailed.
var (
	alreadyExistsCodes = map[string]struct{}{
		"EntityAlreadyExists":            {},
		"BucketAlreadyExists":            {},
		"BucketAlreadyOwnedByYou":        {},
		"ResourceInUseException":         {},
		"TableAlreadyExistsException":    {},
		"ResourceAlreadyExistsException": {},
		"ResourceConflictException":      {},
		"InvalidGroup.Duplicate":         {},
	}
	doesNotExistCodes = map[string]struct{}{
		"NoSuchEntity":               {},
		"NoSuchBucket":               {},
		"NotFound":                   {},
		"ResourceNotFoundException":  {},
		"TableNotFoundException":     {},
		"InvalidInstanceID.NotFound": {},
	}
)

// OpError is a classified facade failure. It carries enough to log the
// resource kind, the name or ARN attempted and the taxonomy entry.
type OpError struct {
	Kind      ErrorKind
	Resource  models.ResourceKind
	Name      string
	Operation string
	Code      int
	Region    string
	Cause     error
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrAlreadyExists      = &OpError{Kind: AlreadyExists}
	ErrDoesNotExist       = &OpError{Kind: DoesNotExist}
	ErrAPICallFailed      = &OpError{Kind: APICallFailed}
	ErrRegionNotSupported = &OpError{Kind: RegionNotSupported}
	ErrNotImplemented     = &OpError{Kind: NotImplemented}
	ErrAmbiguousName      = &OpError{Kind: AmbiguousName}
)

func (e *OpError) Error() string {
	var parts []string

	if e.Operation != "" || e.Resource != "" {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s %s", e.Operation, e.Resource)))
	}
	if e.Name != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Name))
	}

	msg := e.Kind.Message()
	if len(parts) > 0 {
		msg = strings.Join(parts, " ") + ": " + msg
	}
	if e.Region != "" {
		msg += fmt.Sprintf(" (region %s)", e.Region)
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Code)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Cause
}

// Is matches any *OpError with the same Kind
func (e *OpError) Is(target error) bool {
	t, ok := target.(*OpError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the taxonomy entry of err; NoError for nil and APICallFailed
// for errors that never went through the normalizer
func KindOf(err error) ErrorKind {
	if err == nil {
		return NoError
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return APICallFailed
}

type httpStatusError interface {
	HTTPStatusCode() int
}

// normalize maps a provider fault into the taxonomy
func normalize(err error, op string, kind models.ResourceKind, name string) *OpError {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}

	e := &OpError{
		Kind:      APICallFailed,
		Resource:  kind,
		Name:      name,
		Operation: op,
		Cause:     err,
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if _, ok := alreadyExistsCodes[code]; ok {
			e.Kind = AlreadyExists
		} else if _, ok := doesNotExistCodes[code]; ok {
			e.Kind = DoesNotExist
		}
	}

	var statusErr httpStatusError
	if errors.As(err, &statusErr) {
		e.Code = statusErr.HTTPStatusCode()
	}

	return e
}
