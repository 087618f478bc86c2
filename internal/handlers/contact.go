package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"contactly/internal/config"
	"contactly/internal/database"
	contactsvc "contactly/internal/platform/contact"
)

func newContactService(c *fiber.Ctx) *contactsvc.Service {
	db := c.Locals("db").(*gorm.DB)

	return contactsvc.NewService(database.NewRepository(db))
}

func CreateContact(c *fiber.Ctx) error {
	type ContactInput struct {
		Email     string  `json:"email" validate:"required,email"`
		FirstName string  `json:"firstName" validate:"required,min=2"`
		LastName  string  `json:"lastName" validate:"required,min=2"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role" validate:"required,oneof=ADMIN CLIENT CREATOR"`
		Status    string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE PENDING SUSPENDED"`
	}

	var input ContactInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "kind": "validation_error"})
	}
	if err := config.Validate.Struct(&input); err != nil {
		return validationErrorResponse(c, err)
	}

	contact, err := newContactService(c).CreateContact(contactsvc.ContactInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
		Status:    input.Status,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"contact": contact})
}

func GetContactByEmail(c *fiber.Ctx) error {
	contact, err := newContactService(c).ContactByEmail(c.Params("email"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"contact": contact})
}

func GetAllContacts(c *fiber.Ctx) error {
	result, err := newContactService(c).ListContacts(contactsvc.ListParams{
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("pageSize", 10),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(result)
}

// parseDate accepts a date-only value or a full RFC 3339 timestamp.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func SearchContacts(c *fiber.Ctx) error {
	minCreated, err := parseDate(c.Query("minCreatedDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid minCreatedDate", "kind": "validation_error"})
	}
	maxCreated, err := parseDate(c.Query("maxCreatedDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid maxCreatedDate", "kind": "validation_error"})
	}

	contacts, err := newContactService(c).SearchContacts(contactsvc.SearchFilter{
		FirstName:      c.Query("firstName"),
		LastName:       c.Query("lastName"),
		Company:        c.Query("company"),
		MinCreatedDate: minCreated,
		MaxCreatedDate: maxCreated,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(contacts)
}

func ExportContacts(c *fiber.Ctx) error {
	store := c.Locals("storage").(fiber.Storage)

	key, err := newContactService(c).ExportContacts(store, c.Query("search"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"key": key})
}
