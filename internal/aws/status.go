package aws

import (
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/pkg/errors"
)

// SuccessCodes is the set of transport status codes treated as success
var SuccessCodes = map[int]struct{}{
	200: {},
	204: {},
}

// ErrStatusMissing is returned when a response carries no transport status
var ErrStatusMissing = errors.New("response carries no HTTP status code")

// StatusFunc extracts the transport status code from SDK result metadata
type StatusFunc func(md middleware.Metadata) (code int, present bool)

// RawResponseStatus reads the status of the raw HTTP response the SDK
// stores in the result metadata
func RawResponseStatus(md middleware.Metadata) (int, bool) {
	raw, ok := awsmiddleware.GetRawResponse(md).(*smithyhttp.Response)
	if !ok || raw == nil || raw.Response == nil {
		return 0, false
	}
	return raw.StatusCode, true
}

// ClassifyStatus reports whether code is in SuccessCodes. An absent status is
// an error, never a success.
func ClassifyStatus(code int, present bool) (bool, int, error) {
	if !present {
		return false, 0, ErrStatusMissing
	}

	_, ok := SuccessCodes[code]
	return ok, code, nil
}
