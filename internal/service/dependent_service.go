package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/legacy-vault-api/internal/validation"
	"github.com/rs/zerolog"
)

// dependentService is the concrete implementation of DependentService
type dependentService struct {
	depRepo  repository.DependentRepository
	userRepo repository.UserRepository
	audit    *auditor
	log      zerolog.Logger
}

// newDependentService creates a new DependentService
func newDependentService(depRepo repository.DependentRepository, userRepo repository.UserRepository, audit *auditor, log zerolog.Logger) *dependentService {
	return &dependentService{
		depRepo:  depRepo,
		userRepo: userRepo,
		audit:    audit,
		log:      log.With().Str("service", "dependent").Logger(),
	}
}

// Add registers a dependent for an owner by email. The target user must
// already exist with the dependent role. Access starts ungranted.
func (s *dependentService) Add(ctx context.Context, ownerID string, req *models.AddDependentRequest) (*models.DependentView, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validation.ValidateEmail(email); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", errs[0].Message, apperr.ErrValidation)
	}

	dependentUser, err := s.userRepo.GetByEmailAndRole(ctx, email, models.RoleDependent)
	if err != nil {
		return nil, err
	}
	if dependentUser == nil {
		return nil, fmt.Errorf("no dependent registered with email %s: %w", email, apperr.ErrNotFound)
	}

	existing, err := s.depRepo.GetByPair(ctx, ownerID, dependentUser.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("dependent already added: %w", apperr.ErrConflict)
	}

	rel := &models.DependentRelationship{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		DependentID:   dependentUser.ID,
		Permissions:   req.Permissions,
		AccessGranted: false,
		CreatedAt:     time.Now(),
	}

	if err := s.depRepo.Create(ctx, rel); err != nil {
		return nil, err
	}

	s.audit.record(ctx, ownerID, models.AuditDependentAdded, ownerID, nil,
		fmt.Sprintf("Added dependent: %s", dependentUser.Email))

	return &models.DependentView{
		DependentRelationship: *rel,
		Dependent: models.UserRef{
			ID:    dependentUser.ID,
			Name:  dependentUser.Name,
			Email: dependentUser.Email,
		},
	}, nil
}

// UpdatePermissions replaces the full permission set of a relationship.
// The grant flag is untouched: an owner narrowing categories does not
// revoke an admin-approved grant, and widening them does not grant one.
func (s *dependentService) UpdatePermissions(ctx context.Context, ownerID, relationshipID string, perms models.PermissionSet) (*models.DependentRelationship, error) {
	rel, err := s.depRepo.GetByOwnerAndID(ctx, ownerID, relationshipID)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, fmt.Errorf("dependent relationship %s: %w", relationshipID, apperr.ErrNotFound)
	}

	if err := s.depRepo.UpdatePermissions(ctx, rel.ID, perms); err != nil {
		return nil, err
	}

	rel.Permissions = perms
	return rel, nil
}

// Remove deletes a relationship. Any previously granted access is void
// with the row, since the row is the sole source of the grant.
func (s *dependentService) Remove(ctx context.Context, ownerID, relationshipID string) error {
	rel, err := s.depRepo.GetByOwnerAndID(ctx, ownerID, relationshipID)
	if err != nil {
		return err
	}
	if rel == nil {
		return fmt.Errorf("dependent relationship %s: %w", relationshipID, apperr.ErrNotFound)
	}

	dependentUser, err := s.userRepo.GetByID(ctx, rel.DependentID)
	if err != nil {
		return err
	}

	if err := s.depRepo.Delete(ctx, rel.ID); err != nil {
		return err
	}

	email := rel.DependentID
	if dependentUser != nil {
		email = dependentUser.Email
	}
	s.audit.record(ctx, ownerID, models.AuditDependentRemoved, ownerID, nil,
		fmt.Sprintf("Removed dependent: %s", email))

	return nil
}

// ListForOwner returns the owner's relationships, newest-first
func (s *dependentService) ListForOwner(ctx context.Context, ownerID string) ([]*models.DependentView, error) {
	return s.depRepo.ListForOwner(ctx, ownerID)
}

// ListForDependent returns the relationships naming this dependent, newest-first
func (s *dependentService) ListForDependent(ctx context.Context, dependentID string) ([]*models.OwnerView, error) {
	return s.depRepo.ListForDependent(ctx, dependentID)
}
