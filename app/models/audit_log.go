package models

import "time"

// Audit actions written by the reconciliation pipeline.
const (
	AuditActionPaymentCompleted = "payment.completed"
	AuditActionPaymentUnmatched = "payment.unmatched"
)

// AuditLog is an append-only record of a state transition. Rows are never
// updated or deleted by the application.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityID  string    `gorm:"type:varchar(191);not null;index" json:"entity_id"`
	Details   string    `gorm:"type:longtext" json:"details"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
