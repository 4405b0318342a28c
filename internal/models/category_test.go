package models

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories {
		parsed, ok := ParseCategory(string(c))
		if !ok || parsed != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, parsed, ok)
		}
	}
	for _, invalid := range []string{"", "Assets", "crypto"} {
		if _, ok := ParseCategory(invalid); ok {
			t.Errorf("ParseCategory(%q) should fail", invalid)
		}
	}
}

func TestPermissionSetPermitted(t *testing.T) {
	empty := PermissionSet{}
	if got := empty.Permitted(); len(got) != 0 {
		t.Errorf("Empty set should permit nothing, got %v", got)
	}

	partial := PermissionSet{Notes: true, Assets: true, Insurance: true}
	permitted := partial.Permitted()
	want := []Category{CategoryAssets, CategoryInsurance, CategoryNotes}
	if len(permitted) != len(want) {
		t.Fatalf("Expected %d permitted categories, got %d", len(want), len(permitted))
	}
	// Canonical order, not flag order
	for i, c := range want {
		if permitted[i] != c {
			t.Errorf("Permitted()[%d] = %s, want %s", i, permitted[i], c)
		}
	}

	if partial.Allows(CategoryContacts) {
		t.Error("Contacts should not be allowed")
	}
	if !partial.Allows(CategoryNotes) {
		t.Error("Notes should be allowed")
	}
}
