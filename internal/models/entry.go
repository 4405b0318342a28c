package models

import (
	"time"
)

// KnowledgeEntry is a single categorized vault record, owned exclusively by
// its owner. Content is opaque text.
type KnowledgeEntry struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Category  Category  `json:"category" db:"category"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EntryRequest is the create/update payload for a vault entry
type EntryRequest struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
}

// VaultView is what a dependent sees through the visibility gate: the
// entries of the permitted categories plus the full permission map, so the
// caller can render which categories are visible even when empty.
type VaultView struct {
	Entries     []*KnowledgeEntry `json:"entries"`
	Permissions PermissionSet     `json:"permissions"`
}

// CategoryCounts holds the per-category entry totals for the owner summary.
// Every category is present, zero-filled.
type CategoryCounts map[Category]int

// NewCategoryCounts returns a zero-filled counts map over all categories
func NewCategoryCounts() CategoryCounts {
	counts := make(CategoryCounts, len(AllCategories))
	for _, c := range AllCategories {
		counts[c] = 0
	}
	return counts
}
