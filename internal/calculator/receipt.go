package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item represents a single product line before totals are known.
type Item struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
}

// Line is an Item with its computed total.
type Line struct {
	Item
	Total decimal.Decimal
}

// ReceiptTotals is the output of CalculateReceipt.
type ReceiptTotals struct {
	Lines []Line
	Total decimal.Decimal
	Rest  decimal.Decimal
}

// CalculateReceipt computes line totals, the receipt total and the change due.
//
//	line.total = price × quantity
//	total      = Σ line.total
//	rest       = amount − total
//
// No rounding is applied. Rest may be negative when the tendered amount is short.
// An empty item list is valid and yields a zero total.
func CalculateReceipt(amount decimal.Decimal, items []Item) (*ReceiptTotals, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	totals := &ReceiptTotals{
		Lines: make([]Line, len(items)),
		Total: decimal.Zero,
	}
	for i, item := range items {
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("item %d (%s): price cannot be negative", i+1, item.Name)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("item %d (%s): quantity cannot be negative", i+1, item.Name)
		}

		lineTotal := item.Price.Mul(decimal.NewFromInt(item.Quantity))
		totals.Lines[i] = Line{Item: item, Total: lineTotal}
		totals.Total = totals.Total.Add(lineTotal)
	}
	totals.Rest = amount.Sub(totals.Total)

	return totals, nil
}
