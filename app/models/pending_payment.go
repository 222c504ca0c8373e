package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// PendingPayment is a payment awaiting completion via the provider webhook.
// Status only ever moves pending -> completed; the completion write is a
// partial merge so fields set at creation time survive redelivered events.
type PendingPayment struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClientName      string          `gorm:"type:varchar(200);not null" json:"client_name"`
	ClientEmail     string          `gorm:"type:varchar(200);not null;index" json:"client_email"`
	Description     string          `gorm:"type:varchar(255);not null" json:"description"`
	Notes           string          `gorm:"type:text" json:"notes"`
	BaseAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_amount"`
	InvoiceNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex" json:"invoice_number"`
	Status          string          `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	StripeSessionID string          `gorm:"type:varchar(191);default:''" json:"stripe_session_id"`
	BonusAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"bonus_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_amount"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCompleted reports whether the payment has already been reconciled.
func (p *PendingPayment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
