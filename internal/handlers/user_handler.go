package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/taskhive-backend/internal/authz"
	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetProfile handles GET /user - returns the authenticated principal.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	return c.JSON(dto.UserResponse{
		ID:      principal.ID,
		Email:   principal.Email,
		Name:    principal.Name,
		IsAdmin: principal.IsAdmin,
	})
}

// UpdateProfile handles PATCH /user - name and/or password only. A body
// carrying email is rejected with 403, not 400: the field exists but the
// caller is not entitled to change it.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := authz.PrincipalFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updated, err := h.authService.UpdateProfile(principal, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailImmutable) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(dto.UserResponse{
		ID:      updated.ID,
		Email:   updated.Email,
		Name:    updated.Name,
		IsAdmin: updated.IsAdmin,
	})
}
