package payments

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "0.00"},
		{cents: 1, want: "0.01"},
		{cents: 100, want: "1.00"},
		{cents: 150000, want: "1500.00"},
		{cents: 157500, want: "1575.00"},
		{cents: 12345, want: "123.45"},
	}

	for _, tt := range tests {
		if got := FromCents(tt.cents).StringFixed(2); got != tt.want {
			t.Fatalf("FromCents(%d) = %s, want %s", tt.cents, got, tt.want)
		}
	}
}

func TestBonus(t *testing.T) {
	tests := []struct {
		total string
		base  string
		want  string
	}{
		{total: "1500.00", base: "1500.00", want: "0.00"},
		{total: "1575.00", base: "1500.00", want: "75.00"},
		{total: "1500.00", base: "1575.00", want: "0.00"}, // short payment is never a discount
		{total: "0.00", base: "0.00", want: "0.00"},
		{total: "10.01", base: "10.00", want: "0.01"},
	}

	for _, tt := range tests {
		total := decimal.RequireFromString(tt.total)
		base := decimal.RequireFromString(tt.base)
		got := Bonus(total, base)
		if got.StringFixed(2) != tt.want {
			t.Fatalf("Bonus(%s, %s) = %s, want %s", tt.total, tt.base, got.StringFixed(2), tt.want)
		}
		if got.IsNegative() {
			t.Fatalf("Bonus(%s, %s) is negative", tt.total, tt.base)
		}
	}
}

func TestBuildLineItems_BaseOnly(t *testing.T) {
	base := decimal.RequireFromString("1500.00")
	items := BuildLineItems("1:1 Coaching Package", base, decimal.Zero)

	if len(items) != 1 {
		t.Fatalf("expected exactly one line item, got %d", len(items))
	}
	if items[0].Description != "1:1 Coaching Package" || items[0].Quantity != 1 {
		t.Fatalf("unexpected base line: %+v", items[0])
	}
	if !items[0].UnitPrice.Equal(base) || !items[0].Total.Equal(base) {
		t.Fatalf("base line must carry the base amount, got %+v", items[0])
	}
}

func TestBuildLineItems_WithBonus(t *testing.T) {
	base := decimal.RequireFromString("1500.00")
	bonus := decimal.RequireFromString("75.00")
	items := BuildLineItems("1:1 Coaching Package", base, bonus)

	if len(items) != 2 {
		t.Fatalf("expected two line items, got %d", len(items))
	}
	if !items[1].UnitPrice.Equal(bonus) || items[1].Quantity != 1 {
		t.Fatalf("bonus line must carry unit price %s, got %+v", bonus, items[1])
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total)
	}
	if !sum.Equal(base.Add(bonus)) {
		t.Fatalf("line items sum to %s, want %s", sum, base.Add(bonus))
	}
}
