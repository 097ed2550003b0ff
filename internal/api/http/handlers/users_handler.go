package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// UsersHandler exposes superuser account administration.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Create handles POST /api/auth/admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewForbidden("superuser access required")
	}

	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	user, err := h.auth.CreateUser(c.UserContext(), actor.ID, req.Email, req.Password, req.IsSuperuser)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// List handles GET /api/auth/admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, dto.NewUserResponse(user))
	}
	return c.JSON(resp)
}

// Delete handles DELETE /api/auth/admin/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewForbidden("superuser access required")
	}

	if err := h.auth.DeleteUser(c.UserContext(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
