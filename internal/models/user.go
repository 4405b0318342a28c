package models

import (
	"time"
)

// Role represents a user's fixed role, assigned at registration and never
// reassigned afterwards.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleDependent Role = "dependent"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a raw role string
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleDependent, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User represents an account. Inactivity fields only carry meaning for
// owners; dependents and admins keep the defaults.
type User struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Role           Role      `json:"role" db:"role"`
	LastActivityAt time.Time `json:"last_activity_at" db:"last_activity_at"`
	InactivityDays int       `json:"inactivity_days" db:"inactivity_days"`
	IsInactive     bool      `json:"is_inactive" db:"is_inactive"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ElapsedDays returns the number of days since the last recorded activity,
// using ceiling division on the millisecond difference. A gap of one minute
// already counts as a full day; only a zero gap counts as zero.
func (u *User) ElapsedDays(now time.Time) int {
	diff := now.Sub(u.LastActivityAt)
	if diff < 0 {
		diff = -diff
	}
	const day = 24 * time.Hour
	return int((diff + day - 1) / day)
}

// ShouldBeInactive reports whether the inactivity threshold has been reached
func (u *User) ShouldBeInactive(now time.Time) bool {
	return u.ElapsedDays(now) >= u.InactivityDays
}

// UserRef is the compact reference embedded in expanded views. It is a
// deliberate projection, distinct from the raw foreign-key ID fields.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerRef extends UserRef with the activity state a dependent needs to
// decide whether the request pathway is open.
type OwnerRef struct {
	UserRef
	IsInactive     bool      `json:"is_inactive"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// UserStats summarizes the user base for the admin dashboard
type UserStats struct {
	Total          int `json:"total"`
	Owners         int `json:"owners"`
	Dependents     int `json:"dependents"`
	InactiveOwners int `json:"inactive_owners"`
}
