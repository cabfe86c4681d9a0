package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Receipt JSON carries money as numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentType is how a receipt was paid.
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentCashless PaymentType = "cashless"
)

// ParsePaymentType validates s as a payment type.
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentCash, PaymentCashless:
		return PaymentType(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment type %q", ErrValidation, s)
}

// Receipt is a purchase made by one user.
// Total and Rest are derived from Amount and Items and are never client supplied.
type Receipt struct {
	// ID is the unique identifier (UUIDv7, so ids sort in creation order).
	ID string

	// UserID is the owner. It never changes after creation.
	UserID string

	// Username is the owner's display name. Populated on reads for rendering.
	Username string

	// Type is the payment type.
	Type PaymentType

	// Amount is the tendered amount handed over by the payer.
	Amount decimal.Decimal

	// Total is the sum of all item totals.
	Total decimal.Decimal

	// Rest is the change due: Amount - Total. Negative when underpaid.
	Rest decimal.Decimal

	// CreatedAt is the server time of creation, in UTC.
	CreatedAt time.Time

	// Items are the line items in input order.
	Items []LineItem
}

// LineItem is a single product line on a receipt.
type LineItem struct {
	ID        string
	ReceiptID string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	// Total is Price * Quantity.
	Total decimal.Decimal
	// Position keeps the submitted order of items.
	Position int
}
