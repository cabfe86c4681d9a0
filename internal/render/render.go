// Package render formats receipts as fixed-width text and as a printable HTML page.
//
// Both layouts are pure functions of the receipt and the line width, so the
// same input always produces byte-identical output.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receipts/internal/models"
)

const (
	DefaultWidth = 32
	// MinWidth fits the closing line and a "cashless" row with a ten digit amount.
	MinWidth = 24
	MaxWidth = 120

	totalLabel  = "TOTAL"
	changeLabel = "CHANGE"
	closing     = "Thank you for shopping!"
	timeLayout  = "02.01.2006 15:04"
)

// ClampWidth limits width to [MinWidth, MaxWidth].
func ClampWidth(width int) int {
	switch {
	case width < MinWidth:
		return MinWidth
	case width > MaxWidth:
		return MaxWidth
	}
	return width
}

// Lines returns the receipt layout one line per element, without newlines.
func Lines(receipt *models.Receipt, width int) []string {
	width = ClampWidth(width)

	var lines []string
	for _, part := range wrap(receipt.Username, width) {
		lines = append(lines, center(part, width))
	}
	lines = append(lines, strings.Repeat("=", width))

	for _, item := range receipt.Items {
		qty := fmt.Sprintf("%d x %s", item.Quantity, money(item.Price))
		lines = append(lines, row(qty, money(item.Total), width))
		lines = append(lines, wrap(item.Name, width)...)
		lines = append(lines, strings.Repeat("-", width))
	}

	lines = append(lines,
		row(totalLabel, money(receipt.Total), width),
		row(string(receipt.Type), money(receipt.Amount), width),
		row(changeLabel, money(receipt.Rest), width),
		strings.Repeat("=", width),
		center(receipt.CreatedAt.UTC().Format(timeLayout), width),
		center(closing, width),
	)
	return lines
}

// Text renders the receipt as plain text, newline terminated.
func Text(receipt *models.Receipt, width int) string {
	return strings.Join(Lines(receipt, width), "\n") + "\n"
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// row puts left and right on one line, right flush with width.
// They keep at least one space between them when they do not fit.
func row(left, right string, width int) string {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// wrap splits s into chunks of at most width runes.
func wrap(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	return append(out, string(runes))
}
