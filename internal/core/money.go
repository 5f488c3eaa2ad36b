package core

import "github.com/shopspring/decimal"

// Money helpers. All rounding is half-up to 2 decimal places and happens
// exactly once, at the line level; totals sum already-rounded line totals so
// reordering the collection can never change the result.

// ClampQuantity enforces the quantity minimum of 1.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// ClampUnitPrice enforces the unit price minimum of 0.
func ClampUnitPrice(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// LineTotal computes one line's total: round2(max(1,quantity) * max(0,unitPrice)).
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	q := decimal.NewFromInt(int64(ClampQuantity(quantity)))
	return q.Mul(ClampUnitPrice(unitPrice)).Round(2)
}

// ItemsTotal sums the line totals of all active (not removed) items.
// Each addend is already rounded, so the sum itself is exact.
func ItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.State == StateRemoved {
			continue
		}
		total = total.Add(LineTotal(it.Quantity, it.UnitPrice))
	}
	return total.Round(2)
}

// RemainingBalance returns max(0, round2(total - amountPaid)).
func RemainingBalance(total, amountPaid decimal.Decimal) decimal.Decimal {
	bal := total.Sub(amountPaid).Round(2)
	if bal.IsNegative() {
		return decimal.Zero
	}
	return bal
}
