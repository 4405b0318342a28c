package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/auth"
	"github.com/legacy-vault-api/internal/config"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/legacy-vault-api/internal/validation"
	"github.com/rs/zerolog"
)

// userService is the concrete implementation of UserService
type userService struct {
	userRepo repository.UserRepository
	audit    *auditor
	cfg      *config.Config
	log      zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(userRepo repository.UserRepository, audit *auditor, cfg *config.Config, log zerolog.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		audit:    audit,
		cfg:      cfg,
		log:      log.With().Str("service", "user").Logger(),
	}
}

// Register creates an owner or dependent account and issues a token.
// Admins cannot self-register. The role is fixed at creation and never
// reassigned.
func (s *userService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	if errs := validation.ValidateRegistration(name, email, password, role); len(errs) > 0 {
		return nil, "", fmt.Errorf("%s: %w", errs[0].Message, apperr.ErrValidation)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("user already exists: %w", apperr.ErrConflict)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(name),
		Email:          email,
		PasswordHash:   hash,
		Role:           models.Role(role),
		LastActivityAt: now,
		InactivityDays: 30,
		IsInactive:     false,
		CreatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.cfg.Auth.JWTSecret), s.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("User registered")
	return user, token, nil
}

// Login authenticates a user and counts as an activity signal: the
// activity timestamp resets and the inactive flag clears.
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	now := time.Now()
	if err := s.userRepo.Touch(ctx, user.ID, now); err != nil {
		return nil, "", err
	}
	user.LastActivityAt = now
	user.IsInactive = false

	token, err := auth.GenerateToken(user.ID, []byte(s.cfg.Auth.JWTSecret), s.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return user, nil
}

// UpdateSettings updates the owner-editable fields. Nil pointers leave the
// corresponding field unchanged.
func (s *userService) UpdateSettings(ctx context.Context, ownerID string, name *string, inactivityDays *int) (*models.User, error) {
	user, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if inactivityDays != nil {
		if errs := validation.ValidateInactivityDays(*inactivityDays); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", errs[0].Message, apperr.ErrValidation)
		}
		user.InactivityDays = *inactivityDays
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		user.Name = strings.TrimSpace(*name)
	}

	if err := s.userRepo.UpdateSettings(ctx, user); err != nil {
		return nil, err
	}

	s.audit.record(ctx, ownerID, models.AuditSettingsUpdated, ownerID, nil, "Settings updated")
	return user, nil
}

// ListUsers returns all users, newest-first
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListAll(ctx)
}

// Stats returns user base counts
func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	return s.userRepo.Stats(ctx)
}
