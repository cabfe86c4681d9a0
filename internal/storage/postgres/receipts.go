package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/receipts/internal/models"
	"github.com/mmynk/receipts/internal/storage"
)

// Money is selected as text and parsed with decimal so no precision is lost
// through float conversion.
const receiptColumns = `
	SELECT r.id, r.user_id, u.username, r.type, r.amount::text, r.total::text, r.rest::text, r.created_at
	FROM receipts r
	JOIN users u ON u.id = r.user_id
`

// CreateReceipt persists a receipt and its items atomically.
func (s *Store) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	return s.RunAtomic(ctx, func(ctx context.Context) error {
		_, err := s.executor(ctx).Exec(ctx,
			`INSERT INTO receipts (id, user_id, type, amount, total, rest, created_at)
			 VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7)`,
			receipt.ID, receipt.UserID, string(receipt.Type),
			receipt.Amount.String(), receipt.Total.String(), receipt.Rest.String(),
			receipt.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}

		for _, item := range receipt.Items {
			_, err := s.executor(ctx).Exec(ctx,
				`INSERT INTO products (id, receipt_id, position, name, price, quantity, total)
				 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric)`,
				item.ID, receipt.ID, item.Position, item.Name,
				item.Price.String(), item.Quantity, item.Total.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert product: %w", err)
			}
		}
		return nil
	})
}

// GetReceipt retrieves a receipt by ID regardless of owner.
func (s *Store) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.getOne(ctx, receiptColumns+" WHERE r.id = $1", receiptID)
}

// GetOwnedReceipt retrieves a receipt by ID scoped to its owner.
func (s *Store) GetOwnedReceipt(ctx context.Context, userID, receiptID string) (*models.Receipt, error) {
	return s.getOne(ctx, receiptColumns+" WHERE r.id = $1 AND r.user_id = $2", receiptID, userID)
}

func (s *Store) getOne(ctx context.Context, query string, args ...any) (*models.Receipt, error) {
	receipt, err := scanReceipt(s.executor(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
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
func (s *Store) ListReceipts(ctx context.Context, userID string, filter models.ReceiptFilter, page models.Page) ([]*models.Receipt, error) {
	where, args := storage.ReceiptConditions(dialect, userID, filter)
	n := len(args)
	query := receiptColumns + " WHERE " + where +
		" ORDER BY r.id ASC LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	receipts := []*models.Receipt{}
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	rows.Close()

	if err := s.loadItems(ctx, receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// loadItems fills Items for every receipt with a single ANY query.
func (s *Store) loadItems(ctx context.Context, receipts []*models.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	byID := make(map[string]*models.Receipt, len(receipts))
	ids := make([]string, len(receipts))
	for i, r := range receipts {
		r.Items = []models.LineItem{}
		byID[r.ID] = r
		ids[i] = r.ID
	}

	rows, err := s.executor(ctx).Query(ctx,
		`SELECT id, receipt_id, position, name, price::text, quantity, total::text
		 FROM products
		 WHERE receipt_id = ANY($1)
		 ORDER BY receipt_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item         models.LineItem
			price, total string
		)
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Position, &item.Name,
			&price, &item.Quantity, &total); err != nil {
			return fmt.Errorf("failed to scan product: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("failed to parse product price: %w", err)
		}
		if item.Total, err = decimal.NewFromString(total); err != nil {
			return fmt.Errorf("failed to parse product total: %w", err)
		}
		if r, ok := byID[item.ReceiptID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	return rows.Err()
}

func scanReceipt(row pgx.Row) (*models.Receipt, error) {
	var (
		receipt             models.Receipt
		paymentTy           string
		amount, total, rest string
	)
	if err := row.Scan(&receipt.ID, &receipt.UserID, &receipt.Username, &paymentTy,
		&amount, &total, &rest, &receipt.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if receipt.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	if receipt.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if receipt.Rest, err = decimal.NewFromString(rest); err != nil {
		return nil, fmt.Errorf("parse rest: %w", err)
	}
	receipt.Type = models.PaymentType(paymentTy)
	receipt.CreatedAt = receipt.CreatedAt.UTC()
	return &receipt, nil
}
