package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/dto"
)

// AdminSignupGuard protects the admin registration endpoint. When ADMIN_TOKEN
// is configured the X-Admin-Token header must match; an unset token disables
// admin signup entirely rather than leaving it open.
func AdminSignupGuard(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Admin registration is disabled",
			})
		}

		presented := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.AdminToken)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Admin access required",
			})
		}

		return c.Next()
	}
}
