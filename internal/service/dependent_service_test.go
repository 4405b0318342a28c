package service

import (
	"context"
	"testing"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
)

func TestDependentService_Add(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)

	view, err := env.dependent.Add(context.Background(), "owner-1", &models.AddDependentRequest{
		Email:       "Dana@Test.com",
		Permissions: models.PermissionSet{Assets: true, Notes: true},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if view.AccessGranted {
		t.Error("New relationships must start ungranted")
	}
	if !view.Permissions.Assets || !view.Permissions.Notes || view.Permissions.Insurance {
		t.Errorf("Permissions not stored as given: %+v", view.Permissions)
	}
	if view.Dependent.Email != "dana@test.com" {
		t.Errorf("View should embed the dependent identity, got %s", view.Dependent.Email)
	}

	audit := env.lastAudit(t, "owner-1")
	if audit.Action != models.AuditDependentAdded {
		t.Errorf("Expected dependent_added audit, got %s", audit.Action)
	}
	if audit.Details != "Added dependent: dana@test.com" {
		t.Errorf("Unexpected audit detail: %q", audit.Details)
	}
}

func TestDependentService_AddUnknownEmail(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)

	_, err := env.dependent.Add(context.Background(), "owner-1", &models.AddDependentRequest{
		Email: "nobody@test.com",
	})
	expectError(t, err, apperr.ErrNotFound)
}

func TestDependentService_AddRejectsNonDependentRole(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("owner-2", "Otto Owner", "otto@test.com", models.RoleOwner, time.Now(), 30, false)

	// The email exists but belongs to an owner account
	_, err := env.dependent.Add(context.Background(), "owner-1", &models.AddDependentRequest{
		Email: "otto@test.com",
	})
	expectError(t, err, apperr.ErrNotFound)
}

func TestDependentService_AddDuplicate(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	ctx := context.Background()

	if _, err := env.dependent.Add(ctx, "owner-1", &models.AddDependentRequest{Email: "dana@test.com"}); err != nil {
		t.Fatalf("First add failed: %v", err)
	}

	_, err := env.dependent.Add(ctx, "owner-1", &models.AddDependentRequest{Email: "dana@test.com"})
	expectError(t, err, apperr.ErrConflict)
}

func TestDependentService_UpdatePermissions(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{Assets: true, Notes: true}, true)

	// Full replacement: assets revoked, insurance added
	rel, err := env.dependent.UpdatePermissions(context.Background(), "owner-1", "rel-1",
		models.PermissionSet{Insurance: true, Notes: true})
	if err != nil {
		t.Fatalf("UpdatePermissions failed: %v", err)
	}
	if rel.Permissions.Assets {
		t.Error("Assets flag should be revoked by the replacement")
	}
	if !rel.Permissions.Insurance || !rel.Permissions.Notes {
		t.Errorf("Replacement set not applied: %+v", rel.Permissions)
	}
	if !rel.AccessGranted {
		t.Error("Permission changes must not touch the grant flag")
	}
}

func TestDependentService_UpdatePermissionsWrongOwner(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{}, false)

	_, err := env.dependent.UpdatePermissions(context.Background(), "someone-else", "rel-1", models.PermissionSet{})
	expectError(t, err, apperr.ErrNotFound)
}

func TestDependentService_Remove(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{Assets: true}, true)
	ctx := context.Background()

	if err := env.dependent.Remove(ctx, "owner-1", "rel-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	rel, _ := env.deps.GetByPair(ctx, "owner-1", "dep-1")
	if rel != nil {
		t.Error("Relationship should be gone")
	}

	audit := env.lastAudit(t, "owner-1")
	if audit.Action != models.AuditDependentRemoved {
		t.Errorf("Expected dependent_removed audit, got %s", audit.Action)
	}
	if audit.Details != "Removed dependent: dana@test.com" {
		t.Errorf("Unexpected audit detail: %q", audit.Details)
	}

	expectError(t, env.dependent.Remove(ctx, "owner-1", "rel-1"), apperr.ErrNotFound)
}

func TestDependentService_ListForDependent(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner,
		time.Now().Add(-31*24*time.Hour), 30, true)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{Assets: true}, false)

	views, err := env.dependent.ListForDependent(context.Background(), "dep-1")
	if err != nil {
		t.Fatalf("ListForDependent failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 owner view, got %d", len(views))
	}
	if views[0].Owner.Email != "olive@test.com" {
		t.Errorf("View should embed the owner identity, got %s", views[0].Owner.Email)
	}
	if !views[0].Owner.IsInactive {
		t.Error("View should expose the owner's inactive state")
	}
}
