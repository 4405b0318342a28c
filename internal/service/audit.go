package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/rs/zerolog"
)

// auditor emits audit trail entries. Emission is best-effort: a sink
// failure is logged and never rolls back the primary state change.
type auditor struct {
	repo repository.AuditRepository
	log  zerolog.Logger
}

func newAuditor(repo repository.AuditRepository, log zerolog.Logger) *auditor {
	return &auditor{
		repo: repo,
		log:  log.With().Str("component", "audit").Logger(),
	}
}

// record appends one immutable entry. ownerID is always the subject whose
// vault the action concerns, regardless of who performed it.
func (a *auditor) record(ctx context.Context, ownerID string, action models.AuditAction, performedBy string, category *models.Category, details string) {
	entry := &models.AuditLogEntry{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Action:      action,
		PerformedBy: performedBy,
		Category:    category,
		Details:     details,
		CreatedAt:   time.Now(),
	}

	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.Error().Err(err).
			Str("owner_id", ownerID).
			Str("action", string(action)).
			Msg("Failed to write audit log entry")
	}
}
