package database

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateDomain = errors.New("domain already registered")
)

type ListContactsParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

type SearchContactsFilter struct {
	FirstName      string
	LastName       string
	Company        string
	MinCreatedDate *time.Time
	MaxCreatedDate *time.Time
}

// Repository is the single data-access boundary shared by all services.
type Repository interface {
	UserByID(id uuid.UUID) (*User, error)
	UserByEmail(email string) (*User, error)
	UserByResetToken(token string) (*User, error)
	CreateUser(user *User, client *Client, creator *Creator) error
	CreateTenant(user *User, client *Client, domain *ClientDomain) error
	SaveUser(user *User) error
	CreateSession(session *Session) error
	ListContacts(params ListContactsParams) ([]User, int64, error)
	SearchContacts(filter SearchContactsFilter) ([]User, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UserByID(id uuid.UUID) (*User, error) {
	var user User
	result := r.db.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormRepository) UserByEmail(email string) (*User, error) {
	var user User
	result := r.db.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormRepository) UserByResetToken(token string) (*User, error) {
	// Contact-only rows all carry an empty reset token; never match on it.
	if token == "" {
		return nil, ErrNotFound
	}

	var user User
	result := r.db.First(&user, "reset_token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// CreateUser inserts the user plus its optional client or creator profile in
// one transaction.
func (r *gormRepository) CreateUser(user *User, client *Client, creator *Creator) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if client != nil {
			if err := tx.Create(client).Error; err != nil {
				return err
			}
			if err := tx.Exec("INSERT INTO application.client_user (user_id, client_id) VALUES (?, ?)", user.ID, client.ID).Error; err != nil {
				return err
			}
		}
		if creator != nil {
			creator.UserID = user.ID
			if err := tx.Create(creator).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateTenant runs the brand signup writes as one transaction: the admin
// user, the client and its domain all land or none do. Domain ownership is
// checked inside the transaction boundary.
func (r *gormRepository) CreateTenant(user *User, client *Client, domain *ClientDomain) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ClientDomain{}).Where("domain = ?", domain.Domain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateDomain
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		if err := tx.Exec("INSERT INTO application.client_user (user_id, client_id) VALUES (?, ?)", user.ID, client.ID).Error; err != nil {
			return err
		}

		domain.ClientID = client.ID
		return tx.Create(domain).Error
	})
}

func (r *gormRepository) SaveUser(user *User) error {
	return r.db.Save(user).Error
}

func (r *gormRepository) CreateSession(session *Session) error {
	return r.db.Create(session).Error
}

// contactColumns is the safe projection for contact reads; password and
// reset token never leave the database.
const contactColumns = "id, first_name, last_name, email, phone, role, status, created_at"

var contactSortColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"createdAt": "created_at",
}

func (r *gormRepository) ListContacts(params ListContactsParams) ([]User, int64, error) {
	query := r.db.Model(&User{})
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := contactSortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	query = query.Select(contactColumns).Order(column + " " + direction).Offset(params.Offset)
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var users []User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// qualifiedContactColumns disambiguates the projection when contact queries
// join against the client tables. "user" must stay quoted, it is a reserved
// word in Postgres.
const qualifiedContactColumns = `"user".id, "user".first_name, "user".last_name, ` +
	`"user".email, "user".phone, "user".role, "user".status, "user".created_at`

func (r *gormRepository) SearchContacts(filter SearchContactsFilter) ([]User, error) {
	query := r.db.Model(&User{}).Select(qualifiedContactColumns)

	if filter.FirstName != "" {
		query = query.Where(`"user".first_name ILIKE ?`, "%"+filter.FirstName+"%")
	}
	if filter.LastName != "" {
		query = query.Where(`"user".last_name ILIKE ?`, "%"+filter.LastName+"%")
	}
	if filter.Company != "" {
		query = query.
			Joins(`JOIN application.client_user ON application.client_user.user_id = "user".id`).
			Joins("JOIN application.client ON application.client.id = application.client_user.client_id").
			Where("application.client.company_name ILIKE ?", "%"+filter.Company+"%")
	}
	if filter.MinCreatedDate != nil {
		query = query.Where(`"user".created_at >= ?`, *filter.MinCreatedDate)
	}
	if filter.MaxCreatedDate != nil {
		query = query.Where(`"user".created_at <= ?`, *filter.MaxCreatedDate)
	}

	var users []User
	if err := query.Order(`"user".created_at DESC`).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
