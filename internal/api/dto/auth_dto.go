package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// LoginRequest payload for login. Form posts use the OAuth2 "username" field.
type LoginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate checks the login payload shape only; credentials are checked by the service.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, 320)),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordUpdateRequest payload for changing the caller's password.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate enforces a non-blank current password and an 8..72 byte new one.
func (r PasswordUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required, validation.By(notBlank)),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	IsSuperuser  bool   `json:"is_superuser"`
}

// RefreshResponse is returned by POST /api/auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// PasswordUpdateResponse is returned by PUT /api/auth/password.
type PasswordUpdateResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ValidationDetails flattens ozzo field errors into error details.
func ValidationDetails(err error) map[string]any {
	details := map[string]any{}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
	}
	return details
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
