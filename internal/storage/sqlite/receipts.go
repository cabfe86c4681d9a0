package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/receipts/internal/models"
	"github.com/mmynk/receipts/internal/storage"
)

const receiptColumns = `
	SELECT r.id, r.user_id, u.username, r.type, r.amount, r.total, r.rest, r.created_at
	FROM receipts r
	JOIN users u ON u.id = r.user_id
`

// CreateReceipt persists a receipt and its items in a single transaction.
// IDs and CreatedAt must already be set by the caller.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, type, amount, total, rest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.UserID, string(receipt.Type),
		receipt.Amount.String(), receipt.Total.String(), receipt.Rest.String(),
		dialect.Time(receipt.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (id, receipt_id, position, name, price, quantity, total)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, receipt.ID, item.Position, item.Name,
			item.Price.String(), item.Quantity, item.Total.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID regardless of owner.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.getOne(ctx, receiptColumns+" WHERE r.id = ?", receiptID)
}

// GetOwnedReceipt retrieves a receipt by ID scoped to its owner.
func (s *SQLiteStore) GetOwnedReceipt(ctx context.Context, userID, receiptID string) (*models.Receipt, error) {
	return s.getOne(ctx, receiptColumns+" WHERE r.id = ? AND r.user_id = ?", receiptID, userID)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, args ...any) (*models.Receipt, error) {
	receipt, err := scanReceipt(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %v: %w", args[0], models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if err := s.loadItems(ctx, []*models.Receipt{receipt}); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts retrieves the user's receipts matching the filter, ordered by ID.
func (s *SQLiteStore) ListReceipts(ctx context.Context, userID string, filter models.ReceiptFilter, page models.Page) ([]*models.Receipt, error) {
	where, args := storage.ReceiptConditions(dialect, userID, filter)
	query := receiptColumns + " WHERE " + where + " ORDER BY r.id ASC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	receipts := []*models.Receipt{}
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	// Close before loading items: the pool has a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	if err := s.loadItems(ctx, receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// loadItems fills Items for every receipt with one IN query.
func (s *SQLiteStore) loadItems(ctx context.Context, receipts []*models.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	byID := make(map[string]*models.Receipt, len(receipts))
	args := make([]any, len(receipts))
	for i, r := range receipts {
		r.Items = []models.LineItem{}
		byID[r.ID] = r
		args[i] = r.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, receipt_id, position, name, price, quantity, total
		 FROM products
		 WHERE receipt_id IN (`+storage.Placeholders(dialect, 1, len(args))+`)
		 ORDER BY receipt_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Position, &item.Name,
			&item.Price, &item.Quantity, &item.Total); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if r, ok := byID[item.ReceiptID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate products: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*models.Receipt, error) {
	var (
		receipt   models.Receipt
		paymentTy string
		createdAt int64
	)
	if err := row.Scan(&receipt.ID, &receipt.UserID, &receipt.Username, &paymentTy,
		&receipt.Amount, &receipt.Total, &receipt.Rest, &createdAt); err != nil {
		return nil, err
	}
	receipt.Type = models.PaymentType(paymentTy)
	receipt.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &receipt, nil
}
