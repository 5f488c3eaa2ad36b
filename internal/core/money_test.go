package core_test

import (
	"testing"

	"orderdesk/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    string
		want     string
	}{
		{"simple", 2, "10.00", "20"},
		{"rounding half up", 3, "3.335", "10.01"},
		{"quantity clamped to 1", 0, "5.50", "5.5"},
		{"negative quantity clamped", -4, "5.50", "5.5"},
		{"negative price clamped to 0", 3, "-2.00", "0"},
		{"zero price", 10, "0", "0"},
		{"fractional price", 1, "5.555", "5.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.LineTotal(tt.quantity, d(tt.price))
			if !got.Equal(d(tt.want)) {
				t.Errorf("LineTotal(%d, %s) = %s, want %s", tt.quantity, tt.price, got, tt.want)
			}
		})
	}
}

func TestItemsTotal_SkipsRemovedAndIsOrderInvariant(t *testing.T) {
	items := []core.LineItem{
		{Quantity: 2, UnitPrice: d("10.00"), State: core.StateUnchanged},
		{Quantity: 1, UnitPrice: d("5.50"), State: core.StateModified},
		{Quantity: 9, UnitPrice: d("99.99"), State: core.StateRemoved},
	}

	total := core.ItemsTotal(items)
	if !total.Equal(d("25.50")) {
		t.Errorf("ItemsTotal = %s, want 25.50", total)
	}

	reversed := []core.LineItem{items[2], items[1], items[0]}
	if !core.ItemsTotal(reversed).Equal(total) {
		t.Errorf("ItemsTotal changed under reordering: %s vs %s", core.ItemsTotal(reversed), total)
	}
}

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name        string
		total, paid string
		want        string
	}{
		{"partial payment", "25.50", "20.00", "5.50"},
		{"exact payment", "25.50", "25.50", "0"},
		{"overpayment floors at zero", "25.50", "30.00", "0"},
		{"nothing paid", "25.50", "0", "25.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.RemainingBalance(d(tt.total), d(tt.paid))
			if !got.Equal(d(tt.want)) {
				t.Errorf("RemainingBalance(%s, %s) = %s, want %s", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}
