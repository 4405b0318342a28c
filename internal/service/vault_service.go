package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/legacy-vault-api/internal/validation"
	"github.com/rs/zerolog"
)

// vaultService is the concrete implementation of VaultService. It covers
// the owner's entry management and the dependent-facing visibility gate.
type vaultService struct {
	entryRepo repository.EntryRepository
	depRepo   repository.DependentRepository
	auditRepo repository.AuditRepository
	audit     *auditor
	log       zerolog.Logger
}

// newVaultService creates a new VaultService
func newVaultService(entryRepo repository.EntryRepository, depRepo repository.DependentRepository, auditRepo repository.AuditRepository, audit *auditor, log zerolog.Logger) *vaultService {
	return &vaultService{
		entryRepo: entryRepo,
		depRepo:   depRepo,
		auditRepo: auditRepo,
		audit:     audit,
		log:       log.With().Str("service", "vault").Logger(),
	}
}

// CreateEntry stores a new vault entry for the owner
func (s *vaultService) CreateEntry(ctx context.Context, ownerID string, req *models.EntryRequest) (*models.KnowledgeEntry, error) {
	if errs := validation.ValidateEntry(string(req.Category), req.Title, req.Content); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", errs[0].Message, apperr.ErrValidation)
	}

	entry := &models.KnowledgeEntry{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Category:  req.Category,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	category := entry.Category
	s.audit.record(ctx, ownerID, models.AuditEntryCreated, ownerID, &category,
		fmt.Sprintf("Created entry: %s", entry.Title))

	return entry, nil
}

// GetEntry retrieves a single entry owned by the caller
func (s *vaultService) GetEntry(ctx context.Context, ownerID, entryID string) (*models.KnowledgeEntry, error) {
	entry, err := s.entryRepo.GetByOwnerAndID(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, apperr.ErrNotFound)
	}
	return entry, nil
}

// UpdateEntry updates an entry's fields; empty payload fields keep the
// stored values.
func (s *vaultService) UpdateEntry(ctx context.Context, ownerID, entryID string, req *models.EntryRequest) (*models.KnowledgeEntry, error) {
	entry, err := s.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.Content != "" {
		entry.Content = req.Content
	}
	if req.Category != "" {
		if _, ok := models.ParseCategory(string(req.Category)); !ok {
			return nil, fmt.Errorf("invalid category: %w", apperr.ErrValidation)
		}
		entry.Category = req.Category
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	category := entry.Category
	s.audit.record(ctx, ownerID, models.AuditEntryUpdated, ownerID, &category,
		fmt.Sprintf("Updated entry: %s", entry.Title))

	return entry, nil
}

// DeleteEntry removes an entry owned by the caller
func (s *vaultService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	entry, err := s.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entry.ID); err != nil {
		return err
	}

	category := entry.Category
	s.audit.record(ctx, ownerID, models.AuditEntryDeleted, ownerID, &category,
		fmt.Sprintf("Deleted entry: %s", entry.Title))

	return nil
}

// ListEntries returns all of the owner's entries, most recently updated first
func (s *vaultService) ListEntries(ctx context.Context, ownerID string) ([]*models.KnowledgeEntry, error) {
	return s.entryRepo.ListForOwner(ctx, ownerID)
}

// ListEntriesByCategory returns the owner's entries in one category
func (s *vaultService) ListEntriesByCategory(ctx context.Context, ownerID string, category models.Category) ([]*models.KnowledgeEntry, error) {
	return s.entryRepo.ListForOwnerByCategory(ctx, ownerID, category)
}

// Stats returns per-category entry counts for the owner, zero-filled
func (s *vaultService) Stats(ctx context.Context, ownerID string) (models.CategoryCounts, error) {
	return s.entryRepo.CountByCategory(ctx, ownerID)
}

// Export streams the owner's entries as NDJSON or a JSON array
func (s *vaultService) Export(ctx context.Context, ownerID string, w io.Writer, format string) error {
	switch format {
	case "ndjson":
		encoder := json.NewEncoder(w)
		return s.entryRepo.StreamForOwner(ctx, ownerID, func(entry *models.KnowledgeEntry) error {
			return encoder.Encode(entry)
		})
	case "json":
		if _, err := w.Write([]byte("[")); err != nil {
			return err
		}
		first := true
		err := s.entryRepo.StreamForOwner(ctx, ownerID, func(entry *models.KnowledgeEntry) error {
			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return err
				}
			}
			first = false
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		})
		if err != nil {
			return err
		}
		_, err = w.Write([]byte("]"))
		return err
	default:
		return fmt.Errorf("unsupported export format %q: %w", format, apperr.ErrValidation)
	}
}

// ViewAsDependent is the visibility gate. It re-evaluates the relationship
// on every call: the grant flag must be set and at least one category
// permitted, otherwise the view is denied outright. An access-granted
// relationship with every flag revoked presents as a denial, not an empty
// success.
func (s *vaultService) ViewAsDependent(ctx context.Context, dependentID, ownerID string) (*models.VaultView, error) {
	rel, err := s.depRepo.GetByPair(ctx, ownerID, dependentID)
	if err != nil {
		return nil, err
	}
	if rel == nil || !rel.AccessGranted {
		return nil, fmt.Errorf("access not granted; request access first: %w", apperr.ErrForbidden)
	}

	permitted := rel.Permissions.Permitted()
	if len(permitted) == 0 {
		return nil, fmt.Errorf("no categories permitted: %w", apperr.ErrForbidden)
	}

	entries, err := s.entryRepo.FindByOwnerAndCategories(ctx, ownerID, permitted)
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, ownerID, models.AuditVaultViewed, dependentID, nil,
		"Vault viewed by dependent")

	return &models.VaultView{
		Entries:     entries,
		Permissions: rel.Permissions,
	}, nil
}

// AuditTrail returns the owner's audit log, newest-first, capped at 100
func (s *vaultService) AuditTrail(ctx context.Context, ownerID string) ([]*models.AuditLogView, error) {
	return s.auditRepo.ListForOwner(ctx, ownerID, 100)
}
