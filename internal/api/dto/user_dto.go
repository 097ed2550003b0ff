package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/auth-service/internal/domain"
)

// UserCreateRequest payload for superuser account creation.
type UserCreateRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Validate checks email format and the bcrypt-compatible password length.
func (r UserCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 320), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

// UserResponse is the public view of a user. It never includes the hash.
type UserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	IsSuperuser         bool       `json:"is_superuser"`
	LastAuthenticatedAt *time.Time `json:"last_connected_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		Email:               user.Email,
		IsSuperuser:         user.IsSuperuser,
		LastAuthenticatedAt: user.LastAuthenticatedAt,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}
