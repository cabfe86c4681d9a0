package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 100
)

// ReceiptFilter is a conjunction of optional predicates over an owner's receipts.
// Nil fields impose no constraint.
type ReceiptFilter struct {
	TotalGT     *decimal.Decimal
	TotalLT     *decimal.Decimal
	Type        *PaymentType
	CreatedAtGT *time.Time
	CreatedAtLT *time.Time
}

// Page bounds a listing.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage returns the page used when the caller gives no bounds.
func DefaultPage() Page {
	return Page{Limit: DefaultLimit, Offset: 0}
}

// Validate checks that both bounds are non-negative.
func (p Page) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0", ErrValidation)
	}
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0", ErrValidation)
	}
	return nil
}
