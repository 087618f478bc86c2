package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"contactly/internal/config"
	"contactly/internal/database"
	"contactly/internal/mail"
	authsvc "contactly/internal/platform/auth"
)

func newAuthService(c *fiber.Ctx) *authsvc.Service {
	cfg := c.Locals("config").(*config.Config)
	db := c.Locals("db").(*gorm.DB)

	mailer := mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase, cfg.MailFrom)
	return authsvc.NewService(database.NewRepository(db), mailer, cfg.JWTSecret, cfg.BaseURL)
}

func Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Email     string  `json:"email" validate:"required,email"`
		Password  string  `json:"password" validate:"required,min=8"`
		FirstName string  `json:"firstName" validate:"required,min=2"`
		LastName  string  `json:"lastName" validate:"required,min=2"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role" validate:"required,oneof=ADMIN CLIENT CREATOR"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	resp, err := newAuthService(c).Register(authsvc.RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	resp, err := newAuthService(c).Login(input.Email, input.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(resp)
}

func BrandSignup(c *fiber.Ctx) error {
	type BrandSignupInput struct {
		Email        string  `json:"email" validate:"required,email"`
		Password     string  `json:"password" validate:"required,min=8"`
		CompanyName  string  `json:"companyName" validate:"required,min=2"`
		Industry     string  `json:"industry"`
		Website      string  `json:"website"`
		BusinessType string  `json:"businessType"`
		Phone        *string `json:"phone"`
		Domain       string  `json:"domain" validate:"required"`
	}

	var input BrandSignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	clientID, err := newAuthService(c).BrandSignup(authsvc.BrandSignupInput{
		Email:        input.Email,
		Password:     input.Password,
		CompanyName:  input.CompanyName,
		Industry:     input.Industry,
		Website:      input.Website,
		BusinessType: input.BusinessType,
		Phone:        input.Phone,
		Domain:       input.Domain,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"clientId": clientID})
}

func ForgotPassword(c *fiber.Ctx) error {
	type ForgotPasswordInput struct {
		Email string `json:"email" validate:"required,email"`
	}

	var input ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := newAuthService(c).ForgotPassword(input.Email); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset instructions sent to your email"})
}

func ResetPassword(c *fiber.Ctx) error {
	type ResetPasswordInput struct {
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}

	tok := c.Query("token")
	if tok == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reset token required", "kind": "validation_error"})
	}

	var input ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := newAuthService(c).ResetPassword(input.NewPassword, tok); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func ValidateResetToken(c *fiber.Ctx) error {
	valid := newAuthService(c).ValidateResetToken(c.Params("token"))

	return c.JSON(fiber.Map{"valid": valid})
}
