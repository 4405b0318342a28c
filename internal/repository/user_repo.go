package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, last_activity_at, inactivity_days, is_inactive, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.LastActivityAt, &user.InactivityDays, &user.IsInactive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, last_activity_at, inactivity_days, is_inactive, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.LastActivityAt, user.InactivityDays, user.IsInactive,
		user.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByEmailAndRole retrieves a user by email constrained to a role
func (r *userRepo) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, email, role))
}

// Touch records activity: resets the activity timestamp and clears the
// inactive flag unconditionally.
func (r *userRepo) Touch(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_activity_at = $2, is_inactive = FALSE, updated_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

// SetInactive persists a sweep-computed inactivity state
func (r *userRepo) SetInactive(ctx context.Context, id string, inactive bool) error {
	query := `UPDATE users SET is_inactive = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, inactive, time.Now())
	return err
}

// UpdateSettings persists the owner-editable fields
func (r *userRepo) UpdateSettings(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = $2, inactivity_days = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.InactivityDays, time.Now())
	return err
}

// ListOwners retrieves every user with the owner role, for the sweep
func (r *userRepo) ListOwners(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1`
	return r.queryUsers(ctx, query, models.RoleOwner)
}

// ListAll retrieves all users, newest-first
func (r *userRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.queryUsers(ctx, query)
}

func (r *userRepo) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Stats returns user base counts for the admin dashboard
func (r *userRepo) Stats(ctx context.Context) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'owner'),
			COUNT(*) FILTER (WHERE role = 'dependent'),
			COUNT(*) FILTER (WHERE role = 'owner' AND is_inactive)
		FROM users
	`
	var stats models.UserStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total, &stats.Owners, &stats.Dependents, &stats.InactiveOwners,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
