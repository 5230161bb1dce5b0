package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
)

// Roles. Authorization checks membership of the principal's role in an allowed set.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// AllRoles lists every known role.
var AllRoles = []string{RoleAdmin, RoleManager, RoleStaff}

// IsValidRole reports whether role is known.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

var validate = validator.New()

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// User is a person who can log in. Email is the unique login.
type User struct {
	entity.BaseEntity

	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

// NewUser creates a user. Email is normalized to lower case.
func NewUser(name, email, passwordHash, role string) *User {
	return &User{
		BaseEntity:   entity.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if err := validate.Var(u.Email, "email,max=255"); err != nil {
		return apperror.NewValidation("email is invalid").WithDetail("field", "email")
	}
	if !IsValidRole(u.Role) {
		return apperror.NewValidation("unknown role").
			WithDetail("field", "role").
			WithDetail("allowed", AllRoles)
	}
	return nil
}

// CreateUserRequest is the input of CreateUser.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Credentials are the login input.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}

// BootstrapAdmin configures the admin created on first start.
type BootstrapAdmin struct {
	Name     string
	Email    string
	Password string
}
