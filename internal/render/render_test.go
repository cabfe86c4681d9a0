package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receipts/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReceipt() *models.Receipt {
	return &models.Receipt{
		ID:        "r-1",
		Username:  "Jo",
		Type:      models.PaymentCash,
		Amount:    dec("200"),
		Total:     dec("21.0"),
		Rest:      dec("179.0"),
		CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Items: []models.LineItem{
			{Name: "Apple", Price: dec("1.5"), Quantity: 10, Total: dec("15.0")},
			{Name: "Banana", Price: dec("1.2"), Quantity: 5, Total: dec("6.0")},
		},
	}
}

func TestText(t *testing.T) {
	want := "" +
		"               Jo\n" +
		"================================\n" +
		"10 x 1.50                  15.00\n" +
		"Apple\n" +
		"--------------------------------\n" +
		"5 x 1.20                    6.00\n" +
		"Banana\n" +
		"--------------------------------\n" +
		"TOTAL                      21.00\n" +
		"cash                      200.00\n" +
		"CHANGE                    179.00\n" +
		"================================\n" +
		"        01.06.2024 10:00\n" +
		"    Thank you for shopping!\n"

	assert.Equal(t, want, Text(sampleReceipt(), 32))
}

func TestTextIsDeterministic(t *testing.T) {
	r := sampleReceipt()
	for _, width := range []int{0, 24, 32, 40, 500} {
		assert.Equal(t, Text(r, width), Text(r, width), "width %d", width)
	}
}

func TestTextWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantWidth int
	}{
		{"default", DefaultWidth, 32},
		{"wide", 48, 48},
		{"too narrow is clamped", 5, MinWidth},
		{"negative is clamped", -10, MinWidth},
		{"too wide is clamped", 1000, MaxWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Lines(sampleReceipt(), tt.width)
			assert.Equal(t, strings.Repeat("=", tt.wantWidth), lines[1])
			for _, line := range lines {
				assert.LessOrEqual(t, utf8.RuneCountInString(line), tt.wantWidth, "line %q", line)
			}
		})
	}
}

func TestTextUnicodeAndLongNames(t *testing.T) {
	r := sampleReceipt()
	r.Username = "Олена"
	r.Items = []models.LineItem{
		{Name: strings.Repeat("Ж", 30), Price: dec("0.333"), Quantity: 3, Total: dec("0.999")},
	}
	r.Total = dec("0.999")
	r.Rest = dec("199.001")

	lines := Lines(r, 24)
	assert.Equal(t, "         Олена", lines[0])
	assert.Equal(t, "3 x 0.33            1.00", lines[2])
	assert.Equal(t, strings.Repeat("Ж", 24), lines[3])
	assert.Equal(t, strings.Repeat("Ж", 6), lines[4])
	assert.Equal(t, "CHANGE            199.00", lines[8])
}

func TestHTML(t *testing.T) {
	r := sampleReceipt()
	r.Items[0].Name = "<script>alert(1)</script>"

	out, err := HTML(r, 32)
	require.NoError(t, err)

	assert.Contains(t, out, "width: 32ch")
	assert.Contains(t, out, "<div>Banana</div>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")

	again, err := HTML(r, 32)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
