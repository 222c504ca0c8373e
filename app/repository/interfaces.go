package repository

import (
	"github.com/shopspring/decimal"

	"github.com/JonasWeidner/CoachDesk/app/models"
)

// PendingPaymentRepository defines the interface for pending payment
// database operations. It is the single owner of the status column; nothing
// else mutates status directly.
type PendingPaymentRepository interface {
	Create(payment *models.PendingPayment) error
	GetByID(id string) (*models.PendingPayment, error)
	// MarkCompleted applies the completion fields as a partial merge. Fields
	// not listed in the update map (client data, description, notes, base
	// amount, invoice number) are left untouched.
	MarkCompleted(id, stripeSessionID string, bonusAmount, totalAmount decimal.Decimal) error
	List(offset, limit int) ([]models.PendingPayment, error)
	Count() (int64, error)
}

// WebhookEventRepository persists provider webhook deliveries for idempotent
// processing.
type WebhookEventRepository interface {
	// CreateIfNotExists inserts the event unless a row with the same
	// provider+event id already exists. Returns created=false for duplicates
	// along with the stored row.
	CreateIfNotExists(event *models.PaymentWebhookEvent) (created bool, stored *models.PaymentWebhookEvent, err error)
	MarkProcessed(id uint, processingError string) error
}

// AuditLogRepository appends immutable audit records.
type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListByEntity(entityID string, limit int) ([]models.AuditLog, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	PendingPayment PendingPaymentRepository
	WebhookEvent   WebhookEventRepository
	AuditLog       AuditLogRepository
}
