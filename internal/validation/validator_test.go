package validation

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	if errs := ValidateEmail("user@example.com"); len(errs) != 0 {
		t.Errorf("Valid email rejected: %v", errs)
	}
	for _, bad := range []string{"", "no-at-sign", "user@", "@example.com", "user@host"} {
		if errs := ValidateEmail(bad); len(errs) == 0 {
			t.Errorf("ValidateEmail(%q) should fail", bad)
		}
	}
}

func TestValidateRegistration(t *testing.T) {
	if errs := ValidateRegistration("Name", "user@example.com", "password123", "owner"); len(errs) != 0 {
		t.Errorf("Valid registration rejected: %v", errs)
	}
	if errs := ValidateRegistration("Name", "user@example.com", "password123", "dependent"); len(errs) != 0 {
		t.Errorf("Valid dependent registration rejected: %v", errs)
	}

	if errs := ValidateRegistration("Name", "user@example.com", "password123", "admin"); len(errs) == 0 {
		t.Error("Admin role must be rejected at registration")
	}
	if errs := ValidateRegistration("Name", "user@example.com", "short", "owner"); len(errs) == 0 {
		t.Error("Short password must be rejected")
	}
	if errs := ValidateRegistration("  ", "user@example.com", "password123", "owner"); len(errs) == 0 {
		t.Error("Blank name must be rejected")
	}
}

func TestValidateInactivityDays(t *testing.T) {
	for _, ok := range []int{1, 30, 365} {
		if errs := ValidateInactivityDays(ok); len(errs) != 0 {
			t.Errorf("ValidateInactivityDays(%d) should pass: %v", ok, errs)
		}
	}
	for _, bad := range []int{0, -1, 366} {
		if errs := ValidateInactivityDays(bad); len(errs) == 0 {
			t.Errorf("ValidateInactivityDays(%d) should fail", bad)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	if errs := ValidateEntry("assets", "Bank account", "IBAN"); len(errs) != 0 {
		t.Errorf("Valid entry rejected: %v", errs)
	}
	if errs := ValidateEntry("crypto", "Wallet", "seed"); len(errs) == 0 {
		t.Error("Unknown category must be rejected")
	}
	if errs := ValidateEntry("notes", "  ", "body"); len(errs) == 0 {
		t.Error("Blank title must be rejected")
	}
	if errs := ValidateEntry("notes", "Title", ""); len(errs) == 0 {
		t.Error("Empty content must be rejected")
	}
}

func TestValidateReason(t *testing.T) {
	if errs := ValidateReason("owner unreachable for a month"); len(errs) != 0 {
		t.Errorf("Valid reason rejected: %v", errs)
	}
	if errs := ValidateReason("   "); len(errs) == 0 {
		t.Error("Blank reason must be rejected")
	}
}
