package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/rs/zerolog"
)

// activityService is the concrete implementation of ActivityService. It
// owns the lastActivityAt / isInactive fields and runs the periodic
// inactivity sweep in the background.
type activityService struct {
	userRepo repository.UserRepository
	interval time.Duration
	log      zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	mu       sync.Mutex
}

// newActivityService creates a new ActivityService
func newActivityService(userRepo repository.UserRepository, interval time.Duration, log zerolog.Logger) *activityService {
	return &activityService{
		userRepo: userRepo,
		interval: interval,
		log:      log.With().Str("service", "activity").Logger(),
	}
}

// Touch records an activity signal: last_activity_at moves to now and the
// inactive flag clears unconditionally, superseding any stale sweep result.
func (s *activityService) Touch(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	return s.userRepo.Touch(ctx, userID, time.Now())
}

// Sweep recomputes inactivity for every owner. Elapsed days use ceiling
// division, so any non-zero gap under one day already counts as one day.
// State is persisted only when it changes; the transition is logged
// operationally, not through the audit sink. Returns the number of owners
// whose state changed.
func (s *activityService) Sweep(ctx context.Context) (int, error) {
	owners, err := s.userRepo.ListOwners(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	changed := 0
	for _, owner := range owners {
		shouldBeInactive := owner.ShouldBeInactive(now)
		if shouldBeInactive == owner.IsInactive {
			continue
		}

		if err := s.userRepo.SetInactive(ctx, owner.ID, shouldBeInactive); err != nil {
			s.log.Error().Err(err).Str("user_id", owner.ID).Msg("Failed to persist inactivity change")
			continue
		}
		changed++
		s.log.Info().
			Str("user_id", owner.ID).
			Str("email", owner.Email).
			Bool("is_inactive", shouldBeInactive).
			Int("elapsed_days", owner.ElapsedDays(now)).
			Int("inactivity_days", owner.InactivityDays).
			Msg("Owner inactivity status changed")
	}

	return changed, nil
}

// StartSweeper runs the sweep on a fixed interval until the context is
// cancelled or StopSweeper is called. The sweep is idempotent and safe to
// interleave with Touch (last-write-wins).
func (s *activityService) StartSweeper(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info().Dur("interval", s.interval).Msg("Inactivity sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Inactivity sweeper stopping")
			return
		case <-ticker.C:
			if _, err := s.Sweep(s.ctx); err != nil {
				s.log.Error().Err(err).Msg("Inactivity sweep failed")
			}
		}
	}
}

// StopSweeper stops the background sweeper
func (s *activityService) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info().Msg("Inactivity sweeper stopped")
}
