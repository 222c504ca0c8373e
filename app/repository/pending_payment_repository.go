package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JonasWeidner/CoachDesk/app/models"
)

// pendingPaymentRepository implements the PendingPaymentRepository interface
type pendingPaymentRepository struct {
	db *gorm.DB
}

// NewPendingPaymentRepository creates a new pending payment repository instance
func NewPendingPaymentRepository(db *gorm.DB) PendingPaymentRepository {
	return &pendingPaymentRepository{db: db}
}

// Create inserts a new pending payment
func (r *pendingPaymentRepository) Create(payment *models.PendingPayment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a pending payment by its opaque id
func (r *pendingPaymentRepository) GetByID(id string) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	if err := r.db.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkCompleted transitions a payment to completed. The update map touches
// only the completion fields; re-applying the same values for a redelivered
// event is a no-op in effect.
func (r *pendingPaymentRepository) MarkCompleted(id, stripeSessionID string, bonusAmount, totalAmount decimal.Decimal) error {
	updates := map[string]interface{}{
		"status":            models.PaymentStatusCompleted,
		"stripe_session_id": stripeSessionID,
		"bonus_amount":      bonusAmount,
		"total_amount":      totalAmount,
		"updated_at":        time.Now(),
	}
	return r.db.Model(&models.PendingPayment{}).Where("id = ?", id).Updates(updates).Error
}

// List retrieves pending payments with pagination, newest first
func (r *pendingPaymentRepository) List(offset, limit int) ([]models.PendingPayment, error) {
	var payments []models.PendingPayment
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

// Count returns the total number of pending payment records
func (r *pendingPaymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PendingPayment{}).Count(&count).Error
	return count, err
}
