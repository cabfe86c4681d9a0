package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateReceipt(t *testing.T) {
	tests := []struct {
		name      string
		amount    decimal.Decimal
		items     []Item
		wantErr   bool
		wantTotal string
		wantRest  string
		wantLines []string
	}{
		{
			name:   "apples and bananas paid in cash",
			amount: dec("200"),
			items: []Item{
				{Name: "Apple", Price: dec("1.5"), Quantity: 10},
				{Name: "Banana", Price: dec("1.2"), Quantity: 5},
			},
			wantTotal: "21",
			wantRest:  "179",
			wantLines: []string{"15", "6"},
		},
		{
			name:   "underpaid yields negative rest",
			amount: dec("5"),
			items: []Item{
				{Name: "Cheese", Price: dec("7.25"), Quantity: 1},
			},
			wantTotal: "7.25",
			wantRest:  "-2.25",
			wantLines: []string{"7.25"},
		},
		{
			name:   "zero quantity contributes nothing",
			amount: dec("10"),
			items: []Item{
				{Name: "Bread", Price: dec("3.10"), Quantity: 0},
				{Name: "Milk", Price: dec("2.05"), Quantity: 2},
			},
			wantTotal: "4.1",
			wantRest:  "5.9",
			wantLines: []string{"0", "4.1"},
		},
		{
			name:      "no items",
			amount:    dec("12.50"),
			items:     nil,
			wantTotal: "0",
			wantRest:  "12.5",
			wantLines: []string{},
		},
		{
			name:   "no float drift on tenths",
			amount: dec("1"),
			items: []Item{
				{Name: "A", Price: dec("0.1"), Quantity: 1},
				{Name: "B", Price: dec("0.2"), Quantity: 1},
			},
			wantTotal: "0.3",
			wantRest:  "0.7",
			wantLines: []string{"0.1", "0.2"},
		},
		{
			name:    "negative price rejected",
			amount:  dec("10"),
			items:   []Item{{Name: "Refund", Price: dec("-1"), Quantity: 1}},
			wantErr: true,
		},
		{
			name:    "negative quantity rejected",
			amount:  dec("10"),
			items:   []Item{{Name: "Oops", Price: dec("1"), Quantity: -3}},
			wantErr: true,
		},
		{
			name:    "negative amount rejected",
			amount:  dec("-0.01"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateReceipt(tt.amount, tt.items)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.True(t, got.Total.Equal(dec(tt.wantTotal)), "total = %s, want %s", got.Total, tt.wantTotal)
			assert.True(t, got.Rest.Equal(dec(tt.wantRest)), "rest = %s, want %s", got.Rest, tt.wantRest)
			require.Len(t, got.Lines, len(tt.wantLines))
			for i, want := range tt.wantLines {
				assert.True(t, got.Lines[i].Total.Equal(dec(want)), "line %d total = %s, want %s", i, got.Lines[i].Total, want)
				assert.Equal(t, tt.items[i].Name, got.Lines[i].Name)
			}

			// rest + total always reconstructs the tendered amount
			assert.True(t, got.Rest.Add(got.Total).Equal(tt.amount))
		})
	}
}
