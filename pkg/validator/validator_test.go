package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerBody struct {
	UserName string `json:"user_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidate_Success(t *testing.T) {
	s := registerBody{UserName: "alice", Email: "alice@example.com", Password: "secret1"}
	assert.NoError(t, Validate(s))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(registerBody{Email: "alice@example.com", Password: "secret1"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["user_name"])
	assert.NotContains(t, fields, "UserName")
}

func TestValidate_InvalidEmail(t *testing.T) {
	err := Validate(registerBody{UserName: "alice", Email: "not-an-email", Password: "secret1"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["email"])
}

func TestValidate_MinLengthAndRange(t *testing.T) {
	err := Validate(registerBody{UserName: "alice", Email: "alice@example.com", Password: "abc", Rating: 9})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.Contains(t, fields["rating"], "5")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(registerBody{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'user_name'")
	assert.Contains(t, err.Error(), "is required")
}

type packageBody struct {
	Type string `json:"type" validate:"oneof=individual box"`
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(packageBody{Type: "crate"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be one of: individual box", valErr.Fields()["type"])
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"user_name":"alice","email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s registerBody
	err := DecodeAndValidate(httptest.NewRecorder(), req, &s)

	require.NoError(t, err)
	assert.Equal(t, "alice", s.UserName)
	assert.Equal(t, "alice@example.com", s.Email)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s registerBody
	err := DecodeAndValidate(httptest.NewRecorder(), req, &s)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, err.Error(), "invalid request body")
}

func TestDecodeAndValidate_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var s registerBody
	err := DecodeAndValidate(httptest.NewRecorder(), req, &s)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestDecodeAndValidate_UnknownField(t *testing.T) {
	body := `{"user_name":"alice","email":"alice@example.com","password":"secret1","is_admin":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var s registerBody
	err := DecodeAndValidate(httptest.NewRecorder(), req, &s)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, err.Error(), "is_admin")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"user_name":"","email":"bad","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s registerBody
	err := DecodeAndValidate(httptest.NewRecorder(), req, &s)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
