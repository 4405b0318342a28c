package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
)

func seedEntries(env *testEnv, ownerID string) {
	now := time.Now()
	entries := []*models.KnowledgeEntry{
		{ID: "e-assets-old", OwnerID: ownerID, Category: models.CategoryAssets, Title: "Old account", Content: "...", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "e-assets-new", OwnerID: ownerID, Category: models.CategoryAssets, Title: "New account", Content: "...", UpdatedAt: now},
		{ID: "e-insurance", OwnerID: ownerID, Category: models.CategoryInsurance, Title: "Policy", Content: "...", UpdatedAt: now},
		{ID: "e-notes", OwnerID: ownerID, Category: models.CategoryNotes, Title: "Letter", Content: "...", UpdatedAt: now},
	}
	for _, e := range entries {
		env.entries.Create(context.Background(), e)
	}
}

func TestVaultService_EntryLifecycle(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	ctx := context.Background()

	entry, err := env.vault.CreateEntry(ctx, "owner-1", &models.EntryRequest{
		Category: models.CategoryAssets,
		Title:    "Bank account",
		Content:  "IBAN DE00 1234",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	audit := env.lastAudit(t, "owner-1")
	if audit.Action != models.AuditEntryCreated {
		t.Errorf("Expected entry_created audit, got %s", audit.Action)
	}
	if audit.Category == nil || *audit.Category != models.CategoryAssets {
		t.Error("Entry audit should carry the category")
	}

	// Partial update: only the title changes
	updated, err := env.vault.UpdateEntry(ctx, "owner-1", entry.ID, &models.EntryRequest{Title: "Main bank account"})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Title != "Main bank account" {
		t.Errorf("Title not updated: %s", updated.Title)
	}
	if updated.Content != "IBAN DE00 1234" {
		t.Errorf("Empty payload fields must keep stored values, got %q", updated.Content)
	}
	if updated.Category != models.CategoryAssets {
		t.Errorf("Category should be unchanged, got %s", updated.Category)
	}

	if err := env.vault.DeleteEntry(ctx, "owner-1", entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	_, err = env.vault.GetEntry(ctx, "owner-1", entry.ID)
	expectError(t, err, apperr.ErrNotFound)
}

func TestVaultService_CreateEntryValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.vault.CreateEntry(ctx, "owner-1", &models.EntryRequest{
		Category: "crypto",
		Title:    "Wallet",
		Content:  "...",
	})
	expectError(t, err, apperr.ErrValidation)

	_, err = env.vault.CreateEntry(ctx, "owner-1", &models.EntryRequest{
		Category: models.CategoryNotes,
		Title:    "  ",
		Content:  "...",
	})
	expectError(t, err, apperr.ErrValidation)
}

func TestVaultService_EntriesAreOwnerScoped(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")
	ctx := context.Background()

	_, err := env.vault.GetEntry(ctx, "owner-2", "e-notes")
	expectError(t, err, apperr.ErrNotFound)

	err = env.vault.DeleteEntry(ctx, "owner-2", "e-notes")
	expectError(t, err, apperr.ErrNotFound)
}

func TestVaultService_Stats(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")

	counts, err := env.vault.Stats(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(counts) != len(models.AllCategories) {
		t.Errorf("Counts must cover every category, got %d keys", len(counts))
	}
	if counts[models.CategoryAssets] != 2 {
		t.Errorf("Expected 2 asset entries, got %d", counts[models.CategoryAssets])
	}
	if counts[models.CategoryEmergency] != 0 {
		t.Errorf("Empty categories must be zero-filled, got %d", counts[models.CategoryEmergency])
	}
}

func TestVaultService_ViewAsDependent(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, true)
	env.addUser("dep-1", "Dana Dependent", "dana@test.com", models.RoleDependent, time.Now(), 30, false)
	seedEntries(env, "owner-1")
	env.addRelationship("rel-1", "owner-1", "dep-1",
		models.PermissionSet{Assets: true, Notes: true}, true)
	ctx := context.Background()

	view, err := env.vault.ViewAsDependent(ctx, "dep-1", "owner-1")
	if err != nil {
		t.Fatalf("ViewAsDependent failed: %v", err)
	}

	// Only assets and notes are permitted; insurance stays hidden
	if len(view.Entries) != 3 {
		t.Fatalf("Expected 3 visible entries, got %d", len(view.Entries))
	}
	for _, entry := range view.Entries {
		if entry.Category == models.CategoryInsurance {
			t.Error("Insurance entries must not be visible")
		}
	}

	// Category ascending, then most recently updated first
	if view.Entries[0].ID != "e-assets-new" || view.Entries[1].ID != "e-assets-old" {
		t.Errorf("Assets should come first, newest first: %s, %s", view.Entries[0].ID, view.Entries[1].ID)
	}
	if view.Entries[2].ID != "e-notes" {
		t.Errorf("Notes should come last, got %s", view.Entries[2].ID)
	}

	if !view.Permissions.Assets || view.Permissions.Insurance {
		t.Errorf("View should return the permission map as stored: %+v", view.Permissions)
	}

	audit := env.lastAudit(t, "owner-1")
	if audit.Action != models.AuditVaultViewed {
		t.Errorf("Expected vault_viewed audit, got %s", audit.Action)
	}
	if audit.PerformedBy != "dep-1" {
		t.Errorf("View audit should be attributed to the dependent, got %s", audit.PerformedBy)
	}
}

func TestVaultService_ViewDeniedWithoutGrant(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")
	ctx := context.Background()

	// No relationship at all
	_, err := env.vault.ViewAsDependent(ctx, "dep-1", "owner-1")
	expectError(t, err, apperr.ErrForbidden)

	// Relationship exists but access was never granted
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{Assets: true}, false)
	_, err = env.vault.ViewAsDependent(ctx, "dep-1", "owner-1")
	expectError(t, err, apperr.ErrForbidden)
}

func TestVaultService_ViewDeniedWithEmptyPermissions(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")

	// Granted, but every category flag revoked: denial, not an empty list
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{}, true)

	_, err := env.vault.ViewAsDependent(context.Background(), "dep-1", "owner-1")
	expectError(t, err, apperr.ErrForbidden)
}

func TestVaultService_ViewDeniedAfterRemoval(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")
	env.addRelationship("rel-1", "owner-1", "dep-1", models.PermissionSet{Assets: true}, true)
	ctx := context.Background()

	if _, err := env.vault.ViewAsDependent(ctx, "dep-1", "owner-1"); err != nil {
		t.Fatalf("View should succeed before removal: %v", err)
	}

	env.deps.Delete(ctx, "rel-1")

	_, err := env.vault.ViewAsDependent(ctx, "dep-1", "owner-1")
	expectError(t, err, apperr.ErrForbidden)
}

func TestVaultService_Export(t *testing.T) {
	env := newTestEnv()
	seedEntries(env, "owner-1")
	ctx := context.Background()

	var ndjson bytes.Buffer
	if err := env.vault.Export(ctx, "owner-1", &ndjson, "ndjson"); err != nil {
		t.Fatalf("NDJSON export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(ndjson.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected 4 NDJSON lines, got %d", len(lines))
	}
	var first models.KnowledgeEntry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Errorf("Each NDJSON line should be a valid entry: %v", err)
	}

	var arr bytes.Buffer
	if err := env.vault.Export(ctx, "owner-1", &arr, "json"); err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}
	var decoded []models.KnowledgeEntry
	if err := json.Unmarshal(arr.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON export should be a valid array: %v", err)
	}
	if len(decoded) != 4 {
		t.Errorf("Expected 4 exported entries, got %d", len(decoded))
	}

	err := env.vault.Export(ctx, "owner-1", &bytes.Buffer{}, "xml")
	expectError(t, err, apperr.ErrValidation)
}

func TestVaultService_AuditTrail(t *testing.T) {
	env := newTestEnv()
	env.addUser("owner-1", "Olive Owner", "olive@test.com", models.RoleOwner, time.Now(), 30, false)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := env.vault.CreateEntry(ctx, "owner-1", &models.EntryRequest{
			Category: models.CategoryNotes,
			Title:    title,
			Content:  "...",
		}); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	trail, err := env.vault.AuditTrail(ctx, "owner-1")
	if err != nil {
		t.Fatalf("AuditTrail failed: %v", err)
	}
	if len(trail) != 3 {
		t.Fatalf("Expected 3 audit entries, got %d", len(trail))
	}
	for _, view := range trail {
		if view.Action != models.AuditEntryCreated {
			t.Errorf("Unexpected action %s", view.Action)
		}
		if view.Actor.ID != "owner-1" {
			t.Errorf("Actor should be the owner, got %s", view.Actor.ID)
		}
		if view.Actor.Role != models.RoleOwner {
			t.Errorf("Actor role should be owner, got %s", view.Actor.Role)
		}
	}
}
