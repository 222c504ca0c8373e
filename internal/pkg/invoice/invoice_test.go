package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(description string, amount string) LineItem {
	d := decimal.RequireFromString(amount)
	return LineItem{Description: description, Quantity: 1, UnitPrice: d, Total: d}
}

func TestNew_SingleItem(t *testing.T) {
	inv := New("INV-2026-0001", "Dana Miles", "dana@example.com",
		[]LineItem{item("1:1 Coaching Package", "1500.00")}, "")

	if got := inv.Subtotal.StringFixed(2); got != "1500.00" {
		t.Errorf("subtotal = %s, want 1500.00", got)
	}
	if !inv.TaxAmount.IsZero() {
		t.Errorf("tax = %s, want 0", inv.TaxAmount)
	}
	if got := inv.Total.StringFixed(2); got != "1500.00" {
		t.Errorf("total = %s, want 1500.00", got)
	}
}

func TestNew_SumsMultipleItems(t *testing.T) {
	inv := New("INV-2026-0002", "Dana Miles", "dana@example.com", []LineItem{
		item("1:1 Coaching Package", "1500.00"),
		item("Additional contribution", "75.00"),
	}, "")

	if got := inv.Subtotal.StringFixed(2); got != "1575.00" {
		t.Errorf("subtotal = %s, want 1575.00", got)
	}
	if got := inv.Total.StringFixed(2); got != "1575.00" {
		t.Errorf("total = %s, want 1575.00", got)
	}
}

func TestNew_TotalIsSubtotalPlusTax(t *testing.T) {
	inv := New("INV-2026-0003", "Dana Miles", "dana@example.com", []LineItem{
		item("Session block", "480.00"),
		item("Workbook", "35.50"),
	}, "notes")

	want := inv.Subtotal.Add(inv.TaxAmount)
	if !inv.Total.Equal(want) {
		t.Errorf("total = %s, want subtotal+tax = %s", inv.Total, want)
	}
}

func TestNew_EmptyItems(t *testing.T) {
	inv := New("INV-2026-0004", "Dana Miles", "dana@example.com", nil, "")
	if !inv.Subtotal.IsZero() || !inv.Total.IsZero() {
		t.Errorf("empty invoice should be zero, got subtotal=%s total=%s", inv.Subtotal, inv.Total)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"0.5", "$0.50"},
		{"75", "$75.00"},
		{"1500", "$1,500.00"},
		{"1575.5", "$1,575.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-1500", "-$1,500.00"},
	}
	for _, c := range cases {
		got := formatMoney(decimal.RequireFromString(c.in))
		if got != c.want {
			t.Errorf("formatMoney(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}
