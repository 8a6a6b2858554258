package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrDuplicateEmail = errors.New("email already registered")
var ErrUserNotFound = errors.New("user not found")

// User models a registered member of the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether r is one of the known role values.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}
