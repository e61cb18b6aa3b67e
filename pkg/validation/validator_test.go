package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,min=2"`
}

func engine(t *testing.T) *validator.Validate {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestPwdAliasEnforcesMinLength(t *testing.T) {
	v := engine(t)

	err := v.Struct(signupPayload{Email: "a@b.co", Password: "short", Name: "Ann"})
	require.Error(t, err)
	details := ToDetails(err)
	assert.Contains(t, details, "password")

	err = v.Struct(signupPayload{Email: "a@b.co", Password: "longenough", Name: "Ann"})
	assert.NoError(t, err)
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	v := engine(t)

	err := v.Struct(signupPayload{Email: "not-an-email", Password: "longenough", Name: "A"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 2 characters long", details["name"])
	assert.NotContains(t, details, "Email", "struct field names must not leak")
}

func TestToDetailsNilAndUnknown(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
