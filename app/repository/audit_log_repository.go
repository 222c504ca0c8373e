package repository

import (
	"gorm.io/gorm"

	"github.com/JonasWeidner/CoachDesk/app/models"
)

// auditLogRepository implements the AuditLogRepository interface
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create appends an audit record. Rows are never updated afterwards.
func (r *auditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

// ListByEntity retrieves the most recent audit records for an entity
func (r *auditLogRepository) ListByEntity(entityID string, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Where("entity_id = ?", entityID).Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
