package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"contactly/internal/config"
	"contactly/internal/database"
	"contactly/internal/token"
)

func AuthMiddleware(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	db := c.Locals("db").(*gorm.DB)

	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
			"kind":  "unauthorized",
		})
	}

	claims, err := token.Verify(cfg.JWTSecret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
			"kind":  "unauthorized",
		})
	}

	userID, err := uuid.Parse(claims.ID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
			"kind":  "unauthorized",
		})
	}

	var user database.User
	result := db.First(&user, "id = ?", userID)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
			"kind":  "unauthorized",
		})
	}

	c.Locals("user", user)

	return c.Next()
}
