package dtos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-utils"
)

func TestDecodeAndValidate(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name     string
		body     string
		ok       bool
		wantCode string
	}{
		{"valid", `{"email":"a@b.co","username":"alice"}`, true, ""},
		{"malformed", `{"email":`, false, utils.ErrCodeInvalidPayload},
		{"invalid", `{"email":"a@b.co","username":"al"}`, false, utils.ErrCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			var dst sampleRequest
			ok := DecodeAndValidate(rec, req, v, &dst)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, "alice", dst.Username)
				return
			}

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body utils.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}
