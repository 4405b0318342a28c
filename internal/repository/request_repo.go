package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// accessRequestRepo is the concrete implementation of AccessRequestRepository
type accessRequestRepo struct {
	db *database.DB
}

// NewAccessRequestRepo creates a new access request repository
func NewAccessRequestRepo(db *database.DB) AccessRequestRepository {
	return &accessRequestRepo{db: db}
}

// Create inserts a new request. The partial unique index on pending rows
// turns a concurrent duplicate submit into ErrConflict, the same outcome as
// the sequential duplicate check.
func (r *accessRequestRepo) Create(ctx context.Context, req *models.AccessRequest) error {
	query := `
		INSERT INTO access_requests (id, owner_id, dependent_id, reason, status, admin_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.OwnerID, req.DependentID, req.Reason, req.Status, req.AdminNote,
		req.CreatedAt, time.Now(),
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return apperr.ErrConflict
	}
	return err
}

// GetByID retrieves a request by ID
func (r *accessRequestRepo) GetByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	query := `
		SELECT id, owner_id, dependent_id, reason, status, admin_note, processed_by, processed_at, created_at, updated_at
		FROM access_requests WHERE id = $1
	`
	var req models.AccessRequest
	var processedBy sql.NullString
	var processedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.OwnerID, &req.DependentID, &req.Reason, &req.Status, &req.AdminNote,
		&processedBy, &processedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if processedBy.Valid {
		req.ProcessedBy = &processedBy.String
	}
	if processedAt.Valid {
		req.ProcessedAt = &processedAt.Time
	}
	return &req, nil
}

// HasPending reports whether a pending request exists for the pair
func (r *accessRequestRepo) HasPending(ctx context.Context, ownerID, dependentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM access_requests WHERE owner_id = $1 AND dependent_id = $2 AND status = 'pending')`,
		ownerID, dependentID,
	).Scan(&exists)
	return exists, err
}

// MarkProcessed persists the one-time admin decision fields
func (r *accessRequestRepo) MarkProcessed(ctx context.Context, req *models.AccessRequest) error {
	query := `
		UPDATE access_requests
		SET status = $2, admin_note = $3, processed_by = $4, processed_at = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.Status, req.AdminNote, req.ProcessedBy, req.ProcessedAt, time.Now(),
	)
	return err
}

const requestViewQuery = `
	SELECT r.id, r.owner_id, r.dependent_id, r.reason, r.status, r.admin_note,
		r.processed_by, r.processed_at, r.created_at, r.updated_at,
		o.id, o.name, o.email, o.is_inactive, o.last_activity_at,
		d.id, d.name, d.email,
		COALESCE(p.name, '')
	FROM access_requests r
	JOIN users o ON o.id = r.owner_id
	JOIN users d ON d.id = r.dependent_id
	LEFT JOIN users p ON p.id = r.processed_by
`

// ListPending returns all pending requests for the admin queue, newest-first
func (r *accessRequestRepo) ListPending(ctx context.Context) ([]*models.AccessRequestView, error) {
	query := requestViewQuery + ` WHERE r.status = 'pending' ORDER BY r.created_at DESC`
	return r.queryViews(ctx, query)
}

// ListAll returns every request for the admin history, newest-first
func (r *accessRequestRepo) ListAll(ctx context.Context) ([]*models.AccessRequestView, error) {
	query := requestViewQuery + ` ORDER BY r.created_at DESC`
	return r.queryViews(ctx, query)
}

// ListForDependent returns the dependent's own requests, newest-first
func (r *accessRequestRepo) ListForDependent(ctx context.Context, dependentID string) ([]*models.AccessRequestView, error) {
	query := requestViewQuery + ` WHERE r.dependent_id = $1 ORDER BY r.created_at DESC`
	return r.queryViews(ctx, query, dependentID)
}

func (r *accessRequestRepo) queryViews(ctx context.Context, query string, args ...interface{}) ([]*models.AccessRequestView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.AccessRequestView
	for rows.Next() {
		var v models.AccessRequestView
		var processedBy sql.NullString
		var processedAt sql.NullTime
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.DependentID, &v.Reason, &v.Status, &v.AdminNote,
			&processedBy, &processedAt, &v.CreatedAt, &v.UpdatedAt,
			&v.Owner.ID, &v.Owner.Name, &v.Owner.Email, &v.Owner.IsInactive, &v.Owner.LastActivityAt,
			&v.Dependent.ID, &v.Dependent.Name, &v.Dependent.Email,
			&v.ProcessedByName,
		)
		if err != nil {
			return nil, err
		}
		if processedBy.Valid {
			v.ProcessedBy = &processedBy.String
		}
		if processedAt.Valid {
			v.ProcessedAt = &processedAt.Time
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
