package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

func TestValidateLogin(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		req    LoginRequest
		fields map[string]string
	}{
		{
			name: "valid",
			req:  LoginRequest{Email: "ada@example.com", Password: "secret1"},
		},
		{
			name:   "email without at sign",
			req:    LoginRequest{Email: "ada.example.com", Password: "secret1"},
			fields: map[string]string{"email": MsgInvalidEmail},
		},
		{
			name:   "empty email",
			req:    LoginRequest{Password: "secret1"},
			fields: map[string]string{"email": MsgInvalidEmail},
		},
		{
			name:   "short password",
			req:    LoginRequest{Email: "ada@example.com", Password: "12345"},
			fields: map[string]string{"password": MsgPasswordTooShort},
		},
		{
			name: "both invalid",
			req:  LoginRequest{Email: "nope", Password: ""},
			fields: map[string]string{
				"email":    MsgInvalidEmail,
				"password": MsgPasswordTooShort,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&tt.req)
			if tt.fields == nil {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.fields, errs.ByField())
		})
	}
}

func TestValidateRegister(t *testing.T) {
	v := New()

	valid := RegisterRequest{
		Email:    "ada@example.com",
		Password: "secret1",
		Username: "ada",
		Role:     models.RoleTeacher,
	}
	assert.Empty(t, v.Validate(&valid))

	short := valid
	short.Username = "ad"
	assert.Equal(t, map[string]string{"username": MsgUsernameTooShort}, v.Validate(&short).ByField())

	badRole := valid
	badRole.Role = "admin"
	errs := v.Validate(&badRole)
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)
	assert.Equal(t, "user_role", errs[0].Rule)
	assert.Equal(t, MsgRoleRequired, errs[0].Message)
}

func TestValidateConfirmReset(t *testing.T) {
	v := New()

	assert.Empty(t, v.Validate(&ConfirmResetRequest{Token: "tok", Password: "secret1"}))

	errs := v.Validate(&ConfirmResetRequest{Password: "123"})
	assert.Equal(t, map[string]string{
		"token":    MsgResetLinkInvalid,
		"password": MsgPasswordTooShort,
	}, errs.ByField())
	for _, e := range errs {
		assert.Nil(t, e.Value, e.Field)
	}

	req := ConfirmResetRequest{Token: " tok \n"}
	req.Normalize()
	assert.Equal(t, "tok", req.Token)
}

func TestNewRegisterRequestDefaultsToStudent(t *testing.T) {
	assert.Equal(t, models.RoleStudent, NewRegisterRequest().Role)
}

func TestPasswordValueIsRedacted(t *testing.T) {
	errs := New().Validate(&LoginRequest{Email: "ada@example.com", Password: "abc"})
	require.Len(t, errs, 1)
	assert.Nil(t, errs[0].Value)
}

func TestNormalize(t *testing.T) {
	req := RegisterRequest{Email: "  ada@example.com ", Username: " ada ", Role: " Teacher "}
	req.Normalize()
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "ada", req.Username)
	assert.Equal(t, models.RoleTeacher, req.Role)
}
