package payments

import (
	"github.com/shopspring/decimal"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/invoice"
)

const bonusLineDescription = "Additional contribution"

// FromCents converts a provider amount in minor currency units to major
// units. This is the single conversion point; everything downstream works in
// major units so the divide-by-100 can never happen twice.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// Bonus returns the payer's voluntary extra contribution on top of the
// quoted base amount. Never negative: a short payment yields a zero bonus,
// not a discount line.
func Bonus(total, base decimal.Decimal) decimal.Decimal {
	bonus := total.Sub(base)
	if bonus.IsNegative() {
		return decimal.Zero
	}
	return bonus
}

// BuildLineItems assembles the invoice lines: always one line for the base
// service, plus a bonus line iff the payer contributed extra. The sum of the
// lines equals the amount actually charged; no separate tax is computed on
// already-collected card payments in this flow.
func BuildLineItems(description string, base, bonus decimal.Decimal) []invoice.LineItem {
	items := []invoice.LineItem{
		{
			Description: description,
			Quantity:    1,
			UnitPrice:   base,
			Total:       base,
		},
	}
	if bonus.IsPositive() {
		items = append(items, invoice.LineItem{
			Description: bonusLineDescription,
			Quantity:    1,
			UnitPrice:   bonus,
			Total:       bonus,
		})
	}
	return items
}
