package dtos

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Code     string `json:"code" validate:"omitempty,len=6,numeric"`
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Struct(sampleRequest{Email: "nope", Username: "ab", Code: "12"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	details := FormatValidationErrors(verrs)
	require.Len(t, details, 3)

	byField := map[string]ValidationErrorDetail{}
	for _, d := range details {
		byField[d.Field] = d
	}
	assert.Equal(t, "validation_email", byField["email"].Code)
	assert.Equal(t, "validation_min", byField["username"].Code)
	assert.Contains(t, byField["username"].Message, "at least 3")
	assert.Equal(t, "validation_len", byField["code"].Code)
}

func TestValidRequestPasses(t *testing.T) {
	assert.NoError(t, NewValidator().Struct(sampleRequest{Email: "a@b.co", Username: "alice", Code: "007042"}))
}
