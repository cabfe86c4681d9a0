package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the display name printed on rendered receipts.
	Username string

	// Login is the unique credential name used to authorize.
	Login string

	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password is never stored.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(username, login, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
