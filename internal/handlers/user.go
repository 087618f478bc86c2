package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contactly/internal/database"
	authsvc "contactly/internal/platform/auth"
)

func GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(database.User)

	return c.JSON(authsvc.NewUserDTO(&user))
}
