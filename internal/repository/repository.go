package repository

import (
	"context"
	"time"

	"github.com/legacy-vault-api/internal/database"
	"github.com/legacy-vault-api/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error)
	Touch(ctx context.Context, id string, at time.Time) error
	SetInactive(ctx context.Context, id string, inactive bool) error
	UpdateSettings(ctx context.Context, user *models.User) error
	ListOwners(ctx context.Context) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}

// DependentRepository defines the interface for relationship data operations
type DependentRepository interface {
	Create(ctx context.Context, rel *models.DependentRelationship) error
	GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.DependentRelationship, error)
	GetByPair(ctx context.Context, ownerID, dependentID string) (*models.DependentRelationship, error)
	UpdatePermissions(ctx context.Context, id string, perms models.PermissionSet) error
	SetAccessGranted(ctx context.Context, id string, granted bool) error
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, ownerID string) ([]*models.DependentView, error)
	ListForDependent(ctx context.Context, dependentID string) ([]*models.OwnerView, error)
}

// AccessRequestRepository defines the interface for access request data operations
type AccessRequestRepository interface {
	Create(ctx context.Context, req *models.AccessRequest) error
	GetByID(ctx context.Context, id string) (*models.AccessRequest, error)
	HasPending(ctx context.Context, ownerID, dependentID string) (bool, error)
	MarkProcessed(ctx context.Context, req *models.AccessRequest) error
	ListPending(ctx context.Context) ([]*models.AccessRequestView, error)
	ListAll(ctx context.Context) ([]*models.AccessRequestView, error)
	ListForDependent(ctx context.Context, dependentID string) ([]*models.AccessRequestView, error)
}

// EntryRepository defines the interface for knowledge entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.KnowledgeEntry, error)
	Update(ctx context.Context, entry *models.KnowledgeEntry) error
	Delete(ctx context.Context, id string) error
	ListForOwner(ctx context.Context, ownerID string) ([]*models.KnowledgeEntry, error)
	ListForOwnerByCategory(ctx context.Context, ownerID string, category models.Category) ([]*models.KnowledgeEntry, error)
	FindByOwnerAndCategories(ctx context.Context, ownerID string, categories []models.Category) ([]*models.KnowledgeEntry, error)
	CountByCategory(ctx context.Context, ownerID string) (models.CategoryCounts, error)
	StreamForOwner(ctx context.Context, ownerID string, callback func(*models.KnowledgeEntry) error) error
}

// AuditRepository defines the interface for the append-only audit trail
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	ListForOwner(ctx context.Context, ownerID string, limit int) ([]*models.AuditLogView, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Dependent DependentRepository
	Request   AccessRequestRepository
	Entry     EntryRepository
	Audit     AuditRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepo(db),
		Dependent: NewDependentRepo(db),
		Request:   NewAccessRequestRepo(db),
		Entry:     NewEntryRepo(db),
		Audit:     NewAuditRepo(db),
	}
}
