package auth

import (
	"context"

	"github.com/mmynk/receipts/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction keeps the credential scheme out of the service layer.
type Authenticator interface {
	// Register creates a new user account with the given login and credential.
	// Returns models.ErrLoginExists when the login is taken.
	Register(ctx context.Context, username, login, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Unknown logins and wrong credentials fail with the same ErrInvalidCredentials.
	Authenticate(ctx context.Context, login, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
