package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "a@b.com", Password: "x"}.Validate())

	err := LoginRequest{}.Validate()
	details := ValidationDetails(err)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestPasswordUpdateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PasswordUpdateRequest
		invalid []string
	}{
		{name: "valid", req: PasswordUpdateRequest{CurrentPassword: "old", NewPassword: "new-password"}},
		{name: "blank current", req: PasswordUpdateRequest{CurrentPassword: "   ", NewPassword: "new-password"}, invalid: []string{"current_password"}},
		{name: "short new", req: PasswordUpdateRequest{CurrentPassword: "old", NewPassword: "short"}, invalid: []string{"new_password"}},
		{name: "overlong new", req: PasswordUpdateRequest{CurrentPassword: "old", NewPassword: strings.Repeat("a", 73)}, invalid: []string{"new_password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.invalid) == 0 {
				assert.NoError(t, err)
				return
			}
			details := ValidationDetails(err)
			for _, field := range tt.invalid {
				assert.Contains(t, details, field)
			}
		})
	}
}

func TestUserCreateRequestValidate(t *testing.T) {
	assert.NoError(t, UserCreateRequest{Email: "new@x.com", Password: "pw123456"}.Validate())

	details := ValidationDetails(UserCreateRequest{Email: "not-an-email", Password: "pw"}.Validate())
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}
