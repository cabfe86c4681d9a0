package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/models"
)

// AuthService is the identity store: registration, authorization and
// bearer-token resolution.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, username, login, password string) (*models.User, error) {
	s.logger.Info("Register request", "login", login)

	if login == "" {
		return nil, fmt.Errorf("%w: login is required", models.ErrValidation)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}

	user, err := s.authenticator.Register(ctx, username, login, password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
		if errors.Is(err, models.ErrLoginExists) {
			s.logger.Warn("Registration rejected", "login", login, "error", err)
			return nil, err
		}
		s.logger.Error("Registration failed", "login", login, "error", err)
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "login", user.Login)
	return user, nil
}

// Authorize checks credentials and issues a bearer token for the login.
func (s *AuthService) Authorize(ctx context.Context, login, password string) (string, error) {
	s.logger.Info("Authorize request", "login", login)

	user, err := s.authenticator.Authenticate(ctx, login, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Authorize failed", "login", login)
			return "", auth.ErrInvalidCredentials
		}
		s.logger.Error("Authorize failed", "login", login, "error", err)
		return "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", err
	}

	s.logger.Info("User authorized successfully", "user_id", user.ID)
	return token, nil
}

// Resolve validates a bearer token and loads the user it names.
// Every failure, including a subject that no longer exists, is ErrInvalidToken.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	login, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", auth.ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return user, nil
}
