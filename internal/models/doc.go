// Package models defines the core domain models for the receipts service.
//
// # Models
//
//   - User: registered account that owns receipts
//   - Receipt: a purchase with its payment and computed totals
//   - LineItem: one product line on a receipt
//   - ReceiptFilter and Page: owner-scoped listing parameters
//
// # Design Principles
//
//  1. Money is decimal.Decimal end to end; floats never touch amounts.
//  2. Relationships are ID strings, not pointers (Receipt.UserID, LineItem.ReceiptID).
//  3. Receipts are immutable once stored; there are no update paths.
//  4. Computed fields (totals, rest) are filled by the calculator, never by clients.
package models
