package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
)

// dependentRepo is the concrete implementation of DependentRepository
type dependentRepo struct {
	db *database.DB
}

// NewDependentRepo creates a new dependent relationship repository
func NewDependentRepo(db *database.DB) DependentRepository {
	return &dependentRepo{db: db}
}

const relationshipColumns = `id, owner_id, dependent_id, perm_assets, perm_liabilities, perm_insurance, perm_contacts, perm_emergency, perm_notes, access_granted, created_at, updated_at`

func scanRelationship(row interface{ Scan(...interface{}) error }) (*models.DependentRelationship, error) {
	var rel models.DependentRelationship
	err := row.Scan(
		&rel.ID, &rel.OwnerID, &rel.DependentID,
		&rel.Permissions.Assets, &rel.Permissions.Liabilities, &rel.Permissions.Insurance,
		&rel.Permissions.Contacts, &rel.Permissions.Emergency, &rel.Permissions.Notes,
		&rel.AccessGranted, &rel.CreatedAt, &rel.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Create inserts a new relationship row
func (r *dependentRepo) Create(ctx context.Context, rel *models.DependentRelationship) error {
	query := `
		INSERT INTO dependents (id, owner_id, dependent_id, perm_assets, perm_liabilities, perm_insurance, perm_contacts, perm_emergency, perm_notes, access_granted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID, rel.OwnerID, rel.DependentID,
		rel.Permissions.Assets, rel.Permissions.Liabilities, rel.Permissions.Insurance,
		rel.Permissions.Contacts, rel.Permissions.Emergency, rel.Permissions.Notes,
		rel.AccessGranted, rel.CreatedAt, time.Now(),
	)
	return err
}

// GetByOwnerAndID retrieves a relationship by ID scoped to its owner
func (r *dependentRepo) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.DependentRelationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM dependents WHERE id = $1 AND owner_id = $2`
	return scanRelationship(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// GetByPair retrieves the relationship for an (owner, dependent) pair
func (r *dependentRepo) GetByPair(ctx context.Context, ownerID, dependentID string) (*models.DependentRelationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM dependents WHERE owner_id = $1 AND dependent_id = $2`
	return scanRelationship(r.db.QueryRowContext(ctx, query, ownerID, dependentID))
}

// UpdatePermissions replaces the full permission set; access_granted is untouched
func (r *dependentRepo) UpdatePermissions(ctx context.Context, id string, perms models.PermissionSet) error {
	query := `
		UPDATE dependents SET
			perm_assets = $2, perm_liabilities = $3, perm_insurance = $4,
			perm_contacts = $5, perm_emergency = $6, perm_notes = $7,
			updated_at = $8
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id,
		perms.Assets, perms.Liabilities, perms.Insurance,
		perms.Contacts, perms.Emergency, perms.Notes,
		time.Now(),
	)
	return err
}

// SetAccessGranted flips the grant flag
func (r *dependentRepo) SetAccessGranted(ctx context.Context, id string, granted bool) error {
	query := `UPDATE dependents SET access_granted = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, granted, time.Now())
	return err
}

// Delete removes a relationship row; any grant it carried is void with it
func (r *dependentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dependents WHERE id = $1`, id)
	return err
}

// ListForOwner returns the owner's relationships expanded with each
// dependent's identity, newest-first.
func (r *dependentRepo) ListForOwner(ctx context.Context, ownerID string) ([]*models.DependentView, error) {
	query := `
		SELECT d.id, d.owner_id, d.dependent_id,
			d.perm_assets, d.perm_liabilities, d.perm_insurance,
			d.perm_contacts, d.perm_emergency, d.perm_notes,
			d.access_granted, d.created_at, d.updated_at,
			u.id, u.name, u.email
		FROM dependents d
		JOIN users u ON u.id = d.dependent_id
		WHERE d.owner_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.DependentView
	for rows.Next() {
		var v models.DependentView
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.DependentID,
			&v.Permissions.Assets, &v.Permissions.Liabilities, &v.Permissions.Insurance,
			&v.Permissions.Contacts, &v.Permissions.Emergency, &v.Permissions.Notes,
			&v.AccessGranted, &v.CreatedAt, &v.UpdatedAt,
			&v.Dependent.ID, &v.Dependent.Name, &v.Dependent.Email,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

// ListForDependent returns the relationships naming this dependent,
// expanded with each owner's identity and activity state, newest-first.
func (r *dependentRepo) ListForDependent(ctx context.Context, dependentID string) ([]*models.OwnerView, error) {
	query := `
		SELECT d.id, d.owner_id, d.dependent_id,
			d.perm_assets, d.perm_liabilities, d.perm_insurance,
			d.perm_contacts, d.perm_emergency, d.perm_notes,
			d.access_granted, d.created_at, d.updated_at,
			u.id, u.name, u.email, u.is_inactive, u.last_activity_at
		FROM dependents d
		JOIN users u ON u.id = d.owner_id
		WHERE d.dependent_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, dependentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.OwnerView
	for rows.Next() {
		var v models.OwnerView
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.DependentID,
			&v.Permissions.Assets, &v.Permissions.Liabilities, &v.Permissions.Insurance,
			&v.Permissions.Contacts, &v.Permissions.Emergency, &v.Permissions.Notes,
			&v.AccessGranted, &v.CreatedAt, &v.UpdatedAt,
			&v.Owner.ID, &v.Owner.Name, &v.Owner.Email, &v.Owner.IsInactive, &v.Owner.LastActivityAt,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
