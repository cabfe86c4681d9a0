package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/receipts/internal/models"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.executor(ctx).Exec(ctx,
		`INSERT INTO users (id, username, login, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Login, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login %q: %w", user.Login, models.ErrLoginExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByLogin retrieves a user by login.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	err := s.executor(ctx).QueryRow(ctx,
		`SELECT id, username, login, password_hash, created_at FROM users WHERE login = $1`,
		login,
	).Scan(&user.ID, &user.Username, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", login, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return user, nil
}
