// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/receipts/internal/models"
)

// Store defines the interface for user and receipt storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Lookups that find nothing return an error wrapping models.ErrNotFound.
type Store interface {
	// CreateUser inserts a user. A duplicate login returns an error wrapping
	// models.ErrLoginExists, detected by the unique constraint.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByLogin retrieves a user by login.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// CreateReceipt persists a receipt and all of its items in one transaction.
	// Either everything is written or nothing is.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves any receipt by ID, including items and owner name.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// GetOwnedReceipt retrieves a receipt by ID only if userID owns it.
	GetOwnedReceipt(ctx context.Context, userID, receiptID string) (*models.Receipt, error)

	// ListReceipts returns the user's receipts matching filter, ordered by ID ascending.
	ListReceipts(ctx context.Context, userID string, filter models.ReceiptFilter, page models.Page) ([]*models.Receipt, error)

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
