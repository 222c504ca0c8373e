package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one row of the invoice table.
type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Invoice is the value object the document builder renders. It is derived on
// demand from a completed payment and never persisted by this pipeline.
type Invoice struct {
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	Items         []LineItem
	Subtotal      decimal.Decimal
	// TaxAmount is an explicit zero in this flow: card payments collected
	// through checkout carry no separately computed tax. It is still added
	// into Total so subtotal+tax==total holds structurally.
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	IssuedAt  time.Time
	// DueDate is presentational only; the payment has already occurred.
	DueDate time.Time
	Notes   string
}

// New builds an invoice from line items, computing subtotal and total.
func New(number, clientName, clientEmail string, items []LineItem, notes string) Invoice {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	tax := decimal.Zero
	now := time.Now()

	return Invoice{
		InvoiceNumber: number,
		ClientName:    clientName,
		ClientEmail:   clientEmail,
		Items:         items,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Total:         subtotal.Add(tax),
		IssuedAt:      now,
		DueDate:       now,
		Notes:         notes,
	}
}

// RenderResult is the structured outcome of a document build. A failed build
// carries the error message; callers decide whether to proceed without the
// attachment.
type RenderResult struct {
	PDF     []byte
	Success bool
	Error   string
}

// Renderer produces a binary invoice document.
type Renderer interface {
	Render(inv Invoice) RenderResult
}
