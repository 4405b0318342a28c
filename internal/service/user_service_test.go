package service

import (
	"context"
	"testing"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/auth"
	"github.com/legacy-vault-api/internal/models"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, token, err := env.user.Register(ctx, "Olive Owner", "Olive@Test.com", "correct-horse", "owner")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "olive@test.com" {
		t.Errorf("Email should be normalized to lowercase, got %s", user.Email)
	}
	if user.Role != models.RoleOwner {
		t.Errorf("Expected owner role, got %s", user.Role)
	}
	if user.InactivityDays != 30 {
		t.Errorf("Default inactivity threshold should be 30 days, got %d", user.InactivityDays)
	}
	if user.IsInactive {
		t.Error("New accounts start active")
	}

	userID, err := auth.UserIDFromToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("Issued token should verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("Token should carry the user ID, got %s", userID)
	}

	// Duplicate email
	_, _, err = env.user.Register(ctx, "Other", "olive@test.com", "different-pass", "dependent")
	expectError(t, err, apperr.ErrConflict)

	// Login with the right password
	logged, _, err := env.user.Login(ctx, "olive@test.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("Login returned the wrong user: %s", logged.ID)
	}

	// Wrong password and unknown email read the same
	_, _, err = env.user.Login(ctx, "olive@test.com", "wrong")
	expectError(t, err, apperr.ErrUnauthorized)
	_, _, err = env.user.Login(ctx, "ghost@test.com", "whatever")
	expectError(t, err, apperr.ErrUnauthorized)
}

func TestUserService_LoginCountsAsActivity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, _, err := env.user.Register(ctx, "Olive Owner", "olive@test.com", "correct-horse", "owner")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Simulate a long silence and a stale inactive flag
	stored := env.users.Users[user.ID]
	stored.LastActivityAt = time.Now().Add(-60 * 24 * time.Hour)
	stored.IsInactive = true

	logged, _, err := env.user.Login(ctx, "olive@test.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.IsInactive {
		t.Error("Login should clear the inactive flag")
	}
	if time.Since(env.users.Users[user.ID].LastActivityAt) > time.Minute {
		t.Error("Login should reset the activity timestamp")
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Admins cannot self-register
	_, _, err := env.user.Register(ctx, "Ada", "ada@test.com", "long-enough", "admin")
	expectError(t, err, apperr.ErrValidation)

	_, _, err = env.user.Register(ctx, "Short", "short@test.com", "short", "owner")
	expectError(t, err, apperr.ErrValidation)

	_, _, err = env.user.Register(ctx, "Bad Email", "not-an-email", "long-enough", "owner")
	expectError(t, err, apperr.ErrValidation)
}

func TestUserService_UpdateSettings(t *testing.T) {
	env := newTestEnv()
	owner := env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	ctx := context.Background()

	days := 7
	updated, err := env.user.UpdateSettings(ctx, owner.ID, nil, &days)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.InactivityDays != 7 {
		t.Errorf("Threshold not updated, got %d", updated.InactivityDays)
	}
	if updated.Name != "Olive Owner" {
		t.Errorf("Nil name pointer should leave the name unchanged, got %s", updated.Name)
	}

	name := "Olive O. Owner"
	updated, err = env.user.UpdateSettings(ctx, owner.ID, &name, nil)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.Name != "Olive O. Owner" {
		t.Errorf("Name not updated, got %s", updated.Name)
	}
	if updated.InactivityDays != 7 {
		t.Errorf("Nil days pointer should leave the threshold unchanged, got %d", updated.InactivityDays)
	}

	audit := env.lastAudit(t, owner.ID)
	if audit.Action != models.AuditSettingsUpdated {
		t.Errorf("Expected settings_updated audit, got %s", audit.Action)
	}

	bad := 0
	_, err = env.user.UpdateSettings(ctx, owner.ID, nil, &bad)
	expectError(t, err, apperr.ErrValidation)
	bad = 400
	_, err = env.user.UpdateSettings(ctx, owner.ID, nil, &bad)
	expectError(t, err, apperr.ErrValidation)
}

func TestUserService_Stats(t *testing.T) {
	env := newTestEnv()
	env.addUser("o1", "Owner One", "o1@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("o2", "Owner Two", "o2@test.com", models.RoleOwner, time.Now(), 30, true)
	env.addUser("d1", "Dep One", "d1@test.com", models.RoleDependent, time.Now(), 30, false)
	env.addUser("a1", "Admin One", "a1@test.com", models.RoleAdmin, time.Now(), 30, false)

	stats, err := env.user.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 4 || stats.Owners != 2 || stats.Dependents != 1 || stats.InactiveOwners != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
