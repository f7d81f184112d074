package authz

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/taskhive-backend/internal/models"
)

// PrincipalFromCtx extracts the authenticated user loaded by the principal
// middleware from Fiber context locals.
func PrincipalFromCtx(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("principal").(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no principal in context")
	}
	return user, nil
}
