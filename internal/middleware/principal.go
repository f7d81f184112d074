package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive-backend/internal/dto"
	"github.com/taskhive/taskhive-backend/internal/models"
	"gorm.io/gorm"
)

// LoadPrincipal resolves the authenticated user from the verified JWT and
// stores it in context locals. Loading the row on every request means
// privilege flags and ownership checks always see current state, not what
// was true when the token was issued.
func LoadPrincipal(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c)
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return unauthorized(c)
		}

		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c)
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return unauthorized(c)
		}

		c.Locals("principal", &user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized",
	})
}
