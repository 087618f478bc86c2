// Package contact manages CRM contact records: creation, lookup, paginated
// listing, filtered search and CSV export.
package contact

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"contactly/internal/database"
	"contactly/pkg/utils"
)

var (
	ErrDuplicateEmail  = errors.New("Email already registered")
	ErrContactNotFound = errors.New("Contact not found")
)

type Service struct {
	repo database.Repository
}

func NewService(repo database.Repository) *Service {
	return &Service{repo: repo}
}

// ContactDTO is the safe projection of a contact row.
type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactDTO(u *database.User) ContactDTO {
	return ContactDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

type ContactInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Role      string
	Status    string
}

// CreateContact stores a contact as a user row with an empty password, so the
// record can never be used to sign in. Role CLIENT and CREATOR contacts get
// their empty profile row in the same transaction.
func (s *Service) CreateContact(input ContactInput) (*ContactDTO, error) {
	if _, err := s.repo.UserByEmail(input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = database.StatusActive
	}

	user := &database.User{
		Email:     input.Email,
		Password:  "",
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
		Status:    status,
	}

	var client *database.Client
	var creator *database.Creator
	switch input.Role {
	case database.RoleClient:
		client = &database.Client{}
	case database.RoleCreator:
		creator = &database.Creator{Expertise: datatypes.NewJSONSlice([]string{})}
	}

	if err := s.repo.CreateUser(user, client, creator); err != nil {
		return nil, err
	}

	dto := NewContactDTO(user)
	return &dto, nil
}

func (s *Service) ContactByEmail(email string) (*ContactDTO, error) {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	dto := NewContactDTO(user)
	return &dto, nil
}

type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}

type Pagination struct {
	TotalContacts int64 `json:"totalContacts"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
}

type ContactList struct {
	Contacts   []ContactDTO `json:"contacts"`
	Pagination Pagination   `json:"pagination"`
}

// ListContacts returns one page of contacts. The search term matches
// first name, last name, email or phone case-insensitively.
func (s *Service) ListContacts(params ListParams) (*ContactList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 10
	}
	if params.SortBy == "" {
		params.SortBy = "createdAt"
	}
	if params.SortOrder == "" {
		params.SortOrder = "desc"
	}

	users, total, err := s.repo.ListContacts(database.ListContactsParams{
		Search:    params.Search,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Offset:    (params.Page - 1) * params.PageSize,
		Limit:     params.PageSize,
	})
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactDTO, 0, len(users))
	for i := range users {
		contacts = append(contacts, NewContactDTO(&users[i]))
	}

	return &ContactList{
		Contacts: contacts,
		Pagination: Pagination{
			TotalContacts: total,
			CurrentPage:   params.Page,
			PageSize:      params.PageSize,
			TotalPages:    int(math.Ceil(float64(total) / float64(params.PageSize))),
		},
	}, nil
}

type SearchFilter struct {
	FirstName      string
	LastName       string
	Company        string
	MinCreatedDate *time.Time
	MaxCreatedDate *time.Time
}

// SearchContacts applies all provided filters conjunctively and returns the
// matches newest first. The company filter matches the linked client's
// company name.
func (s *Service) SearchContacts(filter SearchFilter) ([]ContactDTO, error) {
	users, err := s.repo.SearchContacts(database.SearchContactsFilter{
		FirstName:      filter.FirstName,
		LastName:       filter.LastName,
		Company:        filter.Company,
		MinCreatedDate: filter.MinCreatedDate,
		MaxCreatedDate: filter.MaxCreatedDate,
	})
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactDTO, 0, len(users))
	for i := range users {
		contacts = append(contacts, NewContactDTO(&users[i]))
	}
	return contacts, nil
}

// ExportContacts writes every contact matching the search term to a CSV
// object in the given store and returns the object key.
func (s *Service) ExportContacts(store fiber.Storage, search string) (string, error) {
	users, _, err := s.repo.ListContacts(database.ListContactsParams{Search: search})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "first_name", "last_name", "email", "phone", "role", "status", "created_at"})
	for i := range users {
		u := &users[i]
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		w.Write([]string{
			u.ID.String(),
			u.FirstName,
			u.LastName,
			u.Email,
			phone,
			u.Role,
			u.Status,
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/contacts-%s-%s.csv",
		time.Now().UTC().Format("20060102-150405"), utils.GenerateRandomString(6))
	if err := store.Set(key, buf.Bytes(), 0); err != nil {
		return "", err
	}
	return key, nil
}
