package models

import (
	"time"
)

// AuditAction enumerates every state transition the audit trail records
type AuditAction string

const (
	AuditEntryCreated     AuditAction = "entry_created"
	AuditEntryUpdated     AuditAction = "entry_updated"
	AuditEntryDeleted     AuditAction = "entry_deleted"
	AuditDependentAdded   AuditAction = "dependent_added"
	AuditDependentRemoved AuditAction = "dependent_removed"
	AuditAccessRequested  AuditAction = "access_requested"
	AuditAccessApproved   AuditAction = "access_approved"
	AuditAccessRejected   AuditAction = "access_rejected"
	AuditVaultViewed      AuditAction = "vault_viewed"
	AuditSettingsUpdated  AuditAction = "settings_updated"
)

// AuditLogEntry is an immutable append-only record. OwnerID is always the
// subject whose vault the action concerns, even when someone else performed
// it (a dependent viewing, an admin approving).
type AuditLogEntry struct {
	ID          string      `json:"id" db:"id"`
	OwnerID     string      `json:"owner_id" db:"owner_id"`
	Action      AuditAction `json:"action" db:"action"`
	PerformedBy string      `json:"performed_by" db:"performed_by"`
	Category    *Category   `json:"category,omitempty" db:"category"`
	Details     string      `json:"details" db:"details"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// AuditActorRef identifies who performed an audited action
type AuditActorRef struct {
	UserRef
	Role Role `json:"role"`
}

// AuditLogView expands a log entry with the actor's identity for the
// owner's activity screen.
type AuditLogView struct {
	AuditLogEntry
	Actor AuditActorRef `json:"actor"`
}
