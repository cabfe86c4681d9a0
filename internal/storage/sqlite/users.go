package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/receipts/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, login, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Login,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login %q: %w", user.Login, models.ErrLoginExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByLogin retrieves a user by their login.
func (s *SQLiteStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT id, username, login, password_hash, created_at
		FROM users
		WHERE login = ?
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, login).Scan(
		&user.ID,
		&user.Username,
		&user.Login,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", login, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user, nil
}
