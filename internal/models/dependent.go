package models

import (
	"time"
)

// DependentRelationship links an owner to a dependent. At most one row
// exists per (owner, dependent) pair. AccessGranted starts false and is set
// true only by an approved access request; it is never auto-reverted -
// revocation happens by deleting the row.
type DependentRelationship struct {
	ID            string        `json:"id" db:"id"`
	OwnerID       string        `json:"owner_id" db:"owner_id"`
	DependentID   string        `json:"dependent_id" db:"dependent_id"`
	Permissions   PermissionSet `json:"permissions"`
	AccessGranted bool          `json:"access_granted" db:"access_granted"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// DependentView is the owner-facing projection: the relationship expanded
// with the dependent's identity.
type DependentView struct {
	DependentRelationship
	Dependent UserRef `json:"dependent"`
}

// OwnerView is the dependent-facing projection: the relationship expanded
// with the owner's identity and activity state.
type OwnerView struct {
	DependentRelationship
	Owner OwnerRef `json:"owner"`
}

// AddDependentRequest is the payload for adding a dependent by email
type AddDependentRequest struct {
	Email       string        `json:"email"`
	Permissions PermissionSet `json:"permissions"`
}

// UpdatePermissionsRequest replaces the full permission set of a
// relationship; unset flags revoke the category.
type UpdatePermissionsRequest struct {
	Permissions PermissionSet `json:"permissions"`
}
