package audit

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"

	"github.com/JonasWeidner/CoachDesk/app/models"
	"github.com/JonasWeidner/CoachDesk/app/repository"
)

// Recorder appends audit records. It is fire-and-forget relative to the
// calling pipeline: failures are logged with full context and swallowed,
// never propagated.
type Recorder struct {
	repo repository.AuditLogRepository
}

// NewRecorder creates a recorder from an injected repository.
func NewRecorder(repo repository.AuditLogRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record writes one audit entry. Details are marshaled to JSON; a marshal or
// insert failure is logged and dropped.
func (r *Recorder) Record(action, entityID string, details map[string]interface{}) {
	if r == nil || r.repo == nil {
		return
	}

	payload := ""
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Warnf("audit: could not marshal details for %s/%s: %v", action, entityID, err)
		} else {
			payload = string(raw)
		}
	}

	entry := &models.AuditLog{
		Action:   action,
		EntityID: entityID,
		Details:  payload,
	}
	if err := r.repo.Create(entry); err != nil {
		log.Warnf("audit: could not persist %s/%s: %v", action, entityID, err)
	}
}
