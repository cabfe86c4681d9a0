package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/receipts/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("your login or password is incorrect")
	ErrEmptyPassword      = errors.New("password is required")
)

// UserStorage defines the user persistence operations the authenticator needs.
type UserStorage interface {
	// CreateUser must return models.ErrLoginExists on a login uniqueness violation.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByLogin returns models.ErrNotFound wrapped when no user has the login.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks that a password was supplied.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if credential == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
// Login uniqueness is left to the storage constraint so concurrent
// registrations of one login cannot both succeed.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, login, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(username, login, string(hashedPassword))

	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrLoginExists) {
			return nil, models.ErrLoginExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the login and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, login, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
