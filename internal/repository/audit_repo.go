package repository

import (
	"context"
	"database/sql"

	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
)

// auditRepo is the concrete implementation of AuditRepository
type auditRepo struct {
	db *database.DB
}

// NewAuditRepo creates a new audit log repository
func NewAuditRepo(db *database.DB) AuditRepository {
	return &auditRepo{db: db}
}

// Create appends an audit log entry. Rows are never updated or deleted.
func (r *auditRepo) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, owner_id, action, performed_by, category, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var category interface{}
	if entry.Category != nil {
		category = string(*entry.Category)
	}
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.Action, entry.PerformedBy, category,
		entry.Details, entry.CreatedAt,
	)
	return err
}

// ListForOwner returns the owner's trail expanded with actor identities,
// newest-first, capped at limit.
func (r *auditRepo) ListForOwner(ctx context.Context, ownerID string, limit int) ([]*models.AuditLogView, error) {
	query := `
		SELECT a.id, a.owner_id, a.action, a.performed_by, a.category, a.details, a.created_at,
			u.id, u.name, u.email, u.role
		FROM audit_logs a
		JOIN users u ON u.id = a.performed_by
		WHERE a.owner_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.AuditLogView
	for rows.Next() {
		var v models.AuditLogView
		var category sql.NullString
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Action, &v.PerformedBy, &category, &v.Details, &v.CreatedAt,
			&v.Actor.ID, &v.Actor.Name, &v.Actor.Email, &v.Actor.Role,
		)
		if err != nil {
			return nil, err
		}
		if category.Valid {
			c := models.Category(category.String)
			v.AuditLogEntry.Category = &c
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
