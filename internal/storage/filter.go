package storage

import (
	"strings"
	"time"

	"github.com/mmynk/receipts/internal/models"
)

// Dialect adapts the receipt filter SQL to one database engine.
type Dialect struct {
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder func(n int) string
	// Money wraps a money expression so it compares numerically.
	Money func(expr string) string
	// Time encodes a timestamp argument the way created_at is stored.
	Time func(t time.Time) any
}

// ReceiptConditions builds the WHERE clause (without the keyword) and its
// arguments for an owner-scoped receipt listing. Columns are referenced
// through the alias "r". The owner condition is always present.
func ReceiptConditions(d Dialect, userID string, f models.ReceiptFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(expr, "{}", d.Placeholder(len(args))))
	}

	add("r.user_id = {}", userID)

	if f.TotalGT != nil {
		add(d.Money("r.total")+" > "+d.Money("{}"), f.TotalGT.String())
	}
	if f.TotalLT != nil {
		add(d.Money("r.total")+" < "+d.Money("{}"), f.TotalLT.String())
	}
	if f.Type != nil {
		add("r.type = {}", string(*f.Type))
	}
	if f.CreatedAtGT != nil {
		add("r.created_at > {}", d.Time(*f.CreatedAtGT))
	}
	if f.CreatedAtLT != nil {
		add("r.created_at < {}", d.Time(*f.CreatedAtLT))
	}

	return strings.Join(conds, " AND "), args
}

// Placeholders returns n bind markers starting at argument index start,
// joined for use in an IN clause.
func Placeholders(d Dialect, start, n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.Placeholder(start + i)
	}
	return strings.Join(marks, ", ")
}
