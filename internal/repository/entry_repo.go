package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
	"github.com/lib/pq"
)

// entryRepo is the concrete implementation of EntryRepository
type entryRepo struct {
	db *database.DB
}

// NewEntryRepo creates a new knowledge entry repository
func NewEntryRepo(db *database.DB) EntryRepository {
	return &entryRepo{db: db}
}

const entryColumns = `id, owner_id, category, title, content, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.KnowledgeEntry, error) {
	var entry models.KnowledgeEntry
	err := row.Scan(
		&entry.ID, &entry.OwnerID, &entry.Category, &entry.Title, &entry.Content,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new entry
func (r *entryRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	query := `
		INSERT INTO knowledge_entries (id, owner_id, category, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.Category, entry.Title, entry.Content,
		entry.CreatedAt, time.Now(),
	)
	return err
}

// GetByOwnerAndID retrieves an entry by ID scoped to its owner
func (r *entryRepo) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.KnowledgeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM knowledge_entries WHERE id = $1 AND owner_id = $2`
	return scanEntry(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// Update persists the editable fields of an entry
func (r *entryRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	query := `
		UPDATE knowledge_entries SET category = $2, title = $3, content = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Category, entry.Title, entry.Content, time.Now(),
	)
	return err
}

// Delete removes an entry
func (r *entryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id = $1`, id)
	return err
}

// ListForOwner returns all of an owner's entries, most recently updated first
func (r *entryRepo) ListForOwner(ctx context.Context, ownerID string) ([]*models.KnowledgeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM knowledge_entries WHERE owner_id = $1 ORDER BY updated_at DESC`
	return r.queryEntries(ctx, query, ownerID)
}

// ListForOwnerByCategory returns an owner's entries in one category
func (r *entryRepo) ListForOwnerByCategory(ctx context.Context, ownerID string, category models.Category) ([]*models.KnowledgeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM knowledge_entries WHERE owner_id = $1 AND category = $2 ORDER BY updated_at DESC`
	return r.queryEntries(ctx, query, ownerID, category)
}

// FindByOwnerAndCategories returns the entries of the permitted categories,
// sorted by category then by most-recently-updated.
func (r *entryRepo) FindByOwnerAndCategories(ctx context.Context, ownerID string, categories []models.Category) ([]*models.KnowledgeEntry, error) {
	cats := make([]string, len(categories))
	for i, c := range categories {
		cats[i] = string(c)
	}
	query := `
		SELECT ` + entryColumns + ` FROM knowledge_entries
		WHERE owner_id = $1 AND category = ANY($2)
		ORDER BY category ASC, updated_at DESC
	`
	return r.queryEntries(ctx, query, ownerID, pq.Array(cats))
}

func (r *entryRepo) queryEntries(ctx context.Context, query string, args ...interface{}) ([]*models.KnowledgeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.KnowledgeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByCategory returns entry totals per category, zero-filled
func (r *entryRepo) CountByCategory(ctx context.Context, ownerID string) (models.CategoryCounts, error) {
	query := `SELECT category, COUNT(*) FROM knowledge_entries WHERE owner_id = $1 GROUP BY category`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := models.NewCategoryCounts()
	for rows.Next() {
		var category models.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// StreamForOwner streams all of an owner's entries for export (memory efficient)
func (r *entryRepo) StreamForOwner(ctx context.Context, ownerID string, callback func(*models.KnowledgeEntry) error) error {
	query := `SELECT ` + entryColumns + ` FROM knowledge_entries WHERE owner_id = $1 ORDER BY category ASC, updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return err
		}
		if err := callback(entry); err != nil {
			return err
		}
	}
	return rows.Err()
}
