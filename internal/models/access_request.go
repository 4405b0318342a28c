package models

import (
	"time"
)

// RequestStatus is the lifecycle state of an access request. Transitions
// are monotonic: pending moves to approved or rejected exactly once and the
// terminal states never change.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// AccessRequest is a dependent's ask for visibility into an owner's vault,
// adjudicated by an admin. Requests are never deleted.
type AccessRequest struct {
	ID          string        `json:"id" db:"id"`
	OwnerID     string        `json:"owner_id" db:"owner_id"`
	DependentID string        `json:"dependent_id" db:"dependent_id"`
	Reason      string        `json:"reason" db:"reason"`
	Status      RequestStatus `json:"status" db:"status"`
	AdminNote   string        `json:"admin_note" db:"admin_note"`
	ProcessedBy *string       `json:"processed_by,omitempty" db:"processed_by"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// AccessRequestView expands a request with the identities the admin and
// dependent screens render.
type AccessRequestView struct {
	AccessRequest
	Owner           OwnerRef `json:"owner"`
	Dependent       UserRef  `json:"dependent"`
	ProcessedByName string   `json:"processed_by_name,omitempty"`
}

// SubmitAccessRequest is the payload for a dependent requesting access
type SubmitAccessRequest struct {
	OwnerID string `json:"owner_id"`
	Reason  string `json:"reason"`
}

// ProcessAccessRequest is the admin payload for approve/reject
type ProcessAccessRequest struct {
	AdminNote string `json:"admin_note"`
}
