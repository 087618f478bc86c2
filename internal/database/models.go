package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleAdmin   = "ADMIN"
	RoleClient  = "CLIENT"
	RoleCreator = "CREATOR"
)

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusPending   = "PENDING"
	StatusSuspended = "SUSPENDED"
)

// User doubles as an account holder and a CRM contact. Contact rows carry an
// empty password hash and cannot sign in.
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex"`
	Password   string    `json:"-"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      *string   `json:"phone"`
	Role       string    `json:"role" gorm:"default:'CLIENT'"`
	Status     string    `json:"status" gorm:"default:'ACTIVE'"`
	ResetToken string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Clients    []Client  `json:"clients,omitempty" gorm:"many2many:application.client_user;foreignKey:ID;joinForeignKey:user_id;References:ID;joinReferences:client_id"`
}

func (u *User) TableName() string {
	return "application.user"
}

type Client struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CompanyName  string    `json:"companyName"`
	Industry     string    `json:"industry"`
	BusinessType string    `json:"businessType"`
	Website      string    `json:"website"`
	Users        []User    `json:"-" gorm:"many2many:application.client_user;foreignKey:ID;joinForeignKey:client_id;References:ID;joinReferences:user_id"`
}

func (c *Client) TableName() string {
	return "application.client"
}

// ClientDomain maps a domain name to the single client that owns it.
type ClientDomain struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Domain   string    `json:"domain" gorm:"uniqueIndex"`
	ClientID uuid.UUID `json:"client_id" gorm:"type:uuid"`
}

func (d *ClientDomain) TableName() string {
	return "application.client_domain"
}

type Creator struct {
	ID        uuid.UUID                   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID                   `json:"user_id" gorm:"type:uuid;uniqueIndex"`
	Expertise datatypes.JSONSlice[string] `json:"expertise"`
}

func (cr *Creator) TableName() string {
	return "application.creator"
}

// Session records every issued login token. It is not consulted for
// authorization; it exists as an audit trail and a future revocation hook.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) TableName() string {
	return "application.session"
}
