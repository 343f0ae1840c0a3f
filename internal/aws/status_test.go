package aws

import (
	"net/http"
	"testing"

	"github.com/aws/smithy-go/middleware"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		present bool
		wantOK  bool
		wantErr error
	}{
		{name: "ok", code: 200, present: true, wantOK: true},
		{name: "no content", code: 204, present: true, wantOK: true},
		{name: "created is not in the success set", code: 201, present: true},
		{name: "accepted is not in the success set", code: 202, present: true},
		{name: "not found", code: 404, present: true},
		{name: "conflict", code: 409, present: true},
		{name: "server error", code: 500, present: true},
		{name: "absent status", present: false, wantErr: ErrStatusMissing},
		{name: "absent status with a stale code", code: 200, present: false, wantErr: ErrStatusMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, code, err := ClassifyStatus(tt.code, tt.present)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestClassifyStatusMatchesSuccessSet(t *testing.T) {
	for code := 100; code < 600; code++ {
		_, inSet := SuccessCodes[code]
		ok, got, err := ClassifyStatus(code, true)
		assert.NoError(t, err)
		assert.Equal(t, code, got)
		assert.Equal(t, inSet, ok, "status %d (%s)", code, http.StatusText(code))
	}
}

func TestRawResponseStatusWithoutResponse(t *testing.T) {
	code, present := RawResponseStatus(middleware.Metadata{})
	assert.False(t, present)
	assert.Zero(t, code)
}
