package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/receipts/internal/calculator"
	"github.com/mmynk/receipts/internal/models"
	"github.com/mmynk/receipts/internal/storage"
)

// ItemInput is one product line as submitted by a client.
type ItemInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
}

// CreateReceiptInput is the client-supplied part of a receipt.
type CreateReceiptInput struct {
	Type   string
	Amount decimal.Decimal
	Items  []ItemInput
}

// ReceiptService is the receipt ledger.
type ReceiptService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewReceiptService creates a new ReceiptService with the given storage backend.
func NewReceiptService(store storage.Store, logger *slog.Logger) *ReceiptService {
	return &ReceiptService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateReceipt computes totals for the input and stores the receipt with its
// items atomically. The returned receipt is fully populated.
func (s *ReceiptService) CreateReceipt(ctx context.Context, owner *models.User, input CreateReceiptInput) (*models.Receipt, error) {
	paymentType, err := models.ParsePaymentType(input.Type)
	if err != nil {
		return nil, err
	}

	items := make([]calculator.Item, len(input.Items))
	for i, item := range input.Items {
		items[i] = calculator.Item{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	totals, err := calculator.CalculateReceipt(input.Amount, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	// Stored precision is microseconds on both backends.
	createdAt := s.now().UTC().Truncate(time.Microsecond)

	receipt := &models.Receipt{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    owner.ID,
		Username:  owner.Username,
		Type:      paymentType,
		Amount:    input.Amount,
		Total:     totals.Total,
		Rest:      totals.Rest,
		CreatedAt: createdAt,
		Items:     make([]models.LineItem, len(totals.Lines)),
	}
	for i, line := range totals.Lines {
		receipt.Items[i] = models.LineItem{
			ID:        uuid.NewString(),
			ReceiptID: receipt.ID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Total:     line.Total,
			Position:  i,
		}
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		s.logger.Error("CreateReceipt failed", "user_id", owner.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Receipt created",
		"receipt_id", receipt.ID,
		"user_id", owner.ID,
		"items_count", len(receipt.Items),
		"total", receipt.Total.String(),
	)
	return receipt, nil
}

// GetReceipt returns any receipt by ID. It does no ownership check; the
// printable receipt page is public.
func (s *ReceiptService) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, receiptID)
}

// GetOwnedReceipt returns the receipt only if owner owns it. A foreign
// receipt is reported exactly like a missing one.
func (s *ReceiptService) GetOwnedReceipt(ctx context.Context, owner *models.User, receiptID string) (*models.Receipt, error) {
	return s.store.GetOwnedReceipt(ctx, owner.ID, receiptID)
}

// ListReceipts returns the owner's receipts matching filter within page.
func (s *ReceiptService) ListReceipts(ctx context.Context, owner *models.User, filter models.ReceiptFilter, page models.Page) ([]*models.Receipt, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	receipts, err := s.store.ListReceipts(ctx, owner.ID, filter, page)
	if err != nil {
		s.logger.Error("ListReceipts failed", "user_id", owner.ID, "error", err)
		return nil, err
	}

	s.logger.Debug("ListReceipts successful", "user_id", owner.ID, "count", len(receipts))
	return receipts, nil
}

// Ping checks that the ledger's storage is reachable.
func (s *ReceiptService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
