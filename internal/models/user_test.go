package models

import (
	"testing"
	"time"
)

func TestElapsedDays(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		gap  time.Duration
		want int
	}{
		{"zero gap", 0, 0},
		{"one minute rounds up", time.Minute, 1},
		{"almost a day", 23 * time.Hour, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"a day and a second", 24*time.Hour + time.Second, 2},
		{"thirty days", 30 * 24 * time.Hour, 30},
		{"thirty days and an hour", 30*24*time.Hour + time.Hour, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{LastActivityAt: now.Add(-tt.gap)}
			if got := user.ElapsedDays(now); got != tt.want {
				t.Errorf("ElapsedDays(%v gap) = %d, want %d", tt.gap, got, tt.want)
			}
		})
	}
}

func TestShouldBeInactive(t *testing.T) {
	now := time.Now()

	user := &User{
		LastActivityAt: now.Add(-29 * 24 * time.Hour),
		InactivityDays: 30,
	}
	if user.ShouldBeInactive(now) {
		t.Error("29 elapsed days against a 30 day threshold should stay active")
	}

	user.LastActivityAt = now.Add(-30 * 24 * time.Hour)
	if !user.ShouldBeInactive(now) {
		t.Error("Reaching the threshold exactly should count as inactive")
	}

	// Ceiling division makes a 29.5 day gap read as 30 days
	user.LastActivityAt = now.Add(-29*24*time.Hour - 12*time.Hour)
	if !user.ShouldBeInactive(now) {
		t.Error("A partial final day should round up and trip the threshold")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"owner", "dependent", "admin"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) should succeed", valid)
		}
	}
	for _, invalid := range []string{"", "Owner", "superuser"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) should fail", invalid)
		}
	}
}
