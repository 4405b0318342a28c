package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/legacy-vault-api/internal/validation"
	"github.com/rs/zerolog"
)

// accessService is the concrete implementation of AccessService. It owns
// the request lifecycle: none -> pending -> approved|rejected, with
// approved and rejected terminal.
type accessService struct {
	reqRepo  repository.AccessRequestRepository
	depRepo  repository.DependentRepository
	userRepo repository.UserRepository
	audit    *auditor
	log      zerolog.Logger
}

// newAccessService creates a new AccessService
func newAccessService(reqRepo repository.AccessRequestRepository, depRepo repository.DependentRepository, userRepo repository.UserRepository, audit *auditor, log zerolog.Logger) *accessService {
	return &accessService{
		reqRepo:  reqRepo,
		depRepo:  depRepo,
		userRepo: userRepo,
		audit:    audit,
		log:      log.With().Str("service", "access").Logger(),
	}
}

// Submit creates a pending request. Preconditions, checked in order: the
// relationship must exist, the owner must currently be inactive, and no
// pending request may already exist for the pair.
func (s *accessService) Submit(ctx context.Context, dependentID, ownerID, reason string) (*models.AccessRequest, error) {
	if errs := validation.ValidateReason(reason); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", errs[0].Message, apperr.ErrValidation)
	}

	rel, err := s.depRepo.GetByPair(ctx, ownerID, dependentID)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, fmt.Errorf("not a registered dependent for this owner: %w", apperr.ErrForbidden)
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("owner %s: %w", ownerID, apperr.ErrNotFound)
	}
	if !owner.IsInactive {
		return nil, fmt.Errorf("access can only be requested when the owner is inactive: %w", apperr.ErrInvalidState)
	}

	pending, err := s.reqRepo.HasPending(ctx, ownerID, dependentID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("a pending request already exists for this owner: %w", apperr.ErrConflict)
	}

	req := &models.AccessRequest{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		DependentID: dependentID,
		Reason:      reason,
		Status:      models.RequestStatusPending,
		CreatedAt:   time.Now(),
	}

	// The partial unique index backs this up under concurrent submission;
	// the repository surfaces the violation as ErrConflict.
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	dependent, err := s.userRepo.GetByID(ctx, dependentID)
	if err != nil {
		s.log.Error().Err(err).Str("dependent_id", dependentID).Msg("Failed to load dependent for audit detail")
	}
	detail := "Access requested by dependent"
	if dependent != nil {
		detail = fmt.Sprintf("Access requested by dependent: %s", dependent.Email)
	}
	s.audit.record(ctx, ownerID, models.AuditAccessRequested, dependentID, nil, detail)

	return req, nil
}

// Approve resolves a pending request and grants access on the matching
// relationship. If the relationship was deleted in the meantime, the
// approval still records but grants nothing.
func (s *accessService) Approve(ctx context.Context, adminID, requestID, adminNote string) (*models.AccessRequest, error) {
	req, err := s.loadPending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = models.RequestStatusApproved
	req.AdminNote = adminNote
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now

	if err := s.reqRepo.MarkProcessed(ctx, req); err != nil {
		return nil, err
	}

	rel, err := s.depRepo.GetByPair(ctx, req.OwnerID, req.DependentID)
	if err != nil {
		return nil, err
	}
	if rel != nil {
		if err := s.depRepo.SetAccessGranted(ctx, rel.ID, true); err != nil {
			return nil, err
		}
	} else {
		s.log.Warn().
			Str("request_id", req.ID).
			Str("owner_id", req.OwnerID).
			Str("dependent_id", req.DependentID).
			Msg("Approved request has no matching relationship; nothing to grant")
	}

	s.audit.record(ctx, req.OwnerID, models.AuditAccessApproved, adminID, nil,
		"Access approved by admin for dependent")

	return req, nil
}

// Reject resolves a pending request without touching the grant flag
func (s *accessService) Reject(ctx context.Context, adminID, requestID, adminNote string) (*models.AccessRequest, error) {
	req, err := s.loadPending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = models.RequestStatusRejected
	req.AdminNote = adminNote
	req.ProcessedBy = &adminID
	req.ProcessedAt = &now

	if err := s.reqRepo.MarkProcessed(ctx, req); err != nil {
		return nil, err
	}

	s.audit.record(ctx, req.OwnerID, models.AuditAccessRejected, adminID, nil,
		"Access rejected by admin")

	return req, nil
}

// loadPending fetches a request and enforces that it is still pending
func (s *accessService) loadPending(ctx context.Context, requestID string) (*models.AccessRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("access request %s: %w", requestID, apperr.ErrNotFound)
	}
	if req.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("request already processed: %w", apperr.ErrInvalidState)
	}
	return req, nil
}

// ListPending returns the admin queue, newest-first
func (s *accessService) ListPending(ctx context.Context) ([]*models.AccessRequestView, error) {
	return s.reqRepo.ListPending(ctx)
}

// ListAll returns every request, newest-first
func (s *accessService) ListAll(ctx context.Context) ([]*models.AccessRequestView, error) {
	return s.reqRepo.ListAll(ctx)
}

// ListForDependent returns the dependent's own requests, newest-first
func (s *accessService) ListForDependent(ctx context.Context, dependentID string) ([]*models.AccessRequestView, error) {
	return s.reqRepo.ListForDependent(ctx, dependentID)
}
