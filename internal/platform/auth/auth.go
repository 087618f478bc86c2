// Package auth orchestrates registration, login, brand signup and the
// password recovery flow.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"contactly/internal/database"
	"contactly/internal/mail"
	"contactly/internal/token"
	"contactly/pkg/utils"
)

var (
	ErrDuplicateEmail     = errors.New("Email already registered")
	ErrDuplicateDomain    = errors.New("Domain already registered")
	ErrInvalidCredentials = errors.New("Invalid Crendentials")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidResetToken  = errors.New("Invalid or expired reset token")
)

// sessionWindow is the fixed lifetime recorded on session rows. It is
// independent of the access token's own TTL, which defaults to one hour.
const sessionWindow = 24 * time.Hour

type Service struct {
	repo    database.Repository
	mailer  mail.Mailer
	secret  string
	baseURL string
}

func NewService(repo database.Repository, mailer mail.Mailer, secret, baseURL string) *Service {
	return &Service{repo: repo, mailer: mailer, secret: secret, baseURL: baseURL}
}

// UserDTO is the outbound projection of a user; password and reset token are
// never part of it.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserDTO(u *database.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token,omitempty"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      string
}

// Register creates an account holder. A CLIENT gets an empty client record
// linked to it, a CREATOR gets a creator profile with no expertise yet; the
// extra row is written in the same transaction as the user.
func (s *Service) Register(input RegisterInput) (*AuthResponse, error) {
	if _, err := s.repo.UserByEmail(input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Email:     input.Email,
		Password:  hash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      input.Role,
		Status:    database.StatusActive,
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

	return &AuthResponse{User: NewUserDTO(user)}, nil
}

type BrandSignupInput struct {
	Email        string
	Password     string
	CompanyName  string
	Industry     string
	Website      string
	BusinessType string
	Phone        *string
	Domain       string
}

// BrandSignup provisions a tenant: the admin user, the client and its domain
// are created atomically, so a claimed domain leaves no partial rows behind.
func (s *Service) BrandSignup(input BrandSignupInput) (uuid.UUID, error) {
	if _, err := s.repo.UserByEmail(input.Email); err == nil {
		return uuid.Nil, ErrDuplicateEmail
	} else if !errors.Is(err, database.ErrNotFound) {
		return uuid.Nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return uuid.Nil, err
	}

	user := &database.User{
		Email:     input.Email,
		Password:  hash,
		FirstName: input.CompanyName,
		LastName:  input.CompanyName,
		Phone:     input.Phone,
		Role:      database.RoleAdmin,
		Status:    database.StatusActive,
	}
	client := &database.Client{
		CompanyName:  input.CompanyName,
		Industry:     input.Industry,
		BusinessType: input.BusinessType,
		Website:      input.Website,
	}
	domain := &database.ClientDomain{Domain: input.Domain}

	if err := s.repo.CreateTenant(user, client, domain); err != nil {
		if errors.Is(err, database.ErrDuplicateDomain) {
			return uuid.Nil, ErrDuplicateDomain
		}
		return uuid.Nil, err
	}

	return client.ID, nil
}

// Login verifies the credentials, issues a signed token and records a
// session row with the fixed 24 hour window.
func (s *Service) Login(email, password string) (*AuthResponse, error) {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Contact rows carry an empty hash and can never sign in.
	if user.Password == "" || !utils.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tok, err := token.Generate(s.secret, user.ID, user.Email, user.Role, token.DefaultTTL)
	if err != nil {
		return nil, err
	}

	session := &database.Session{
		UserID:    user.ID,
		Token:     tok,
		ExpiresAt: time.Now().Add(sessionWindow),
	}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}

	return &AuthResponse{User: NewUserDTO(user), Token: tok}, nil
}

// ForgotPassword issues a one hour reset token, stores it verbatim on the
// user row and mails the reset link.
func (s *Service) ForgotPassword(email string) error {
	user, err := s.repo.UserByEmail(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	tok, err := token.Generate(s.secret, user.ID, user.Email, user.Role, token.DefaultTTL)
	if err != nil {
		return err
	}

	user.ResetToken = tok
	user.UpdatedAt = time.Now()
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(tok))
	return s.mailer.SendPasswordResetEmail(user.Email, link)
}

// ResetPassword replaces the password of the user holding the given reset
// token. The token must verify as a signed, unexpired token and still be the
// one on file; on success the stored token is cleared.
func (s *Service) ResetPassword(newPassword, tok string) error {
	if _, err := token.Verify(s.secret, tok); err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.repo.UserByResetToken(tok)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	user.ResetToken = ""
	return s.repo.SaveUser(user)
}

// ValidateResetToken reports whether some user's stored reset token equals
// the given string.
func (s *Service) ValidateResetToken(tok string) bool {
	_, err := s.repo.UserByResetToken(tok)
	return err == nil
}
