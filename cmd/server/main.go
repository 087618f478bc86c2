package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"contactly/internal/config"
	"contactly/internal/database"
	"contactly/internal/handlers"
	"contactly/internal/middleware"
	"contactly/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel})

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	store := cfg.Storage()

	app := fiber.New()

	app.Use(compress.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(healthcheck.New())

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("db", db)
		c.Locals("storage", store)
		return c.Next()
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/brand-signup", handlers.BrandSignup)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)
	auth.Get("/validate-reset-token/:token", handlers.ValidateResetToken)

	contact := api.Group("/contact")
	contact.Post("/contacts", handlers.CreateContact)
	contact.Get("/contactsByEmail/:email", handlers.GetContactByEmail)
	contact.Get("/contacts", handlers.GetAllContacts)
	contact.Get("/contacts/search", handlers.SearchContacts)
	contact.Post("/contacts/export", middleware.AuthMiddleware, middleware.AdminMiddleware, handlers.ExportContacts)

	user := api.Group("/user", middleware.AuthMiddleware)
	user.Get("/me", handlers.GetCurrentUser)

	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	log.Info().Int("port", cfg.ServerPort).Msg("server listening")
	if err := app.Listen(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
