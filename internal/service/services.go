package service

import (
	"context"
	"io"

	"github.com/legacy-vault-api/internal/config"
	"github.com/legacy-vault-api/internal/models"
	"github.com/legacy-vault-api/internal/repository"
	"github.com/rs/zerolog"
)

// UserService defines the interface for account operations
type UserService interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, ownerID string, name *string, inactivityDays *int) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}

// ActivityService defines the interface for the account activity tracker
type ActivityService interface {
	Touch(ctx context.Context, userID string) error
	Sweep(ctx context.Context) (int, error)
	StartSweeper(ctx context.Context)
	StopSweeper()
}

// DependentService defines the interface for the relationship registry
type DependentService interface {
	Add(ctx context.Context, ownerID string, req *models.AddDependentRequest) (*models.DependentView, error)
	UpdatePermissions(ctx context.Context, ownerID, relationshipID string, perms models.PermissionSet) (*models.DependentRelationship, error)
	Remove(ctx context.Context, ownerID, relationshipID string) error
	ListForOwner(ctx context.Context, ownerID string) ([]*models.DependentView, error)
	ListForDependent(ctx context.Context, dependentID string) ([]*models.OwnerView, error)
}

// AccessService defines the interface for the access request workflow
type AccessService interface {
	Submit(ctx context.Context, dependentID, ownerID, reason string) (*models.AccessRequest, error)
	Approve(ctx context.Context, adminID, requestID, adminNote string) (*models.AccessRequest, error)
	Reject(ctx context.Context, adminID, requestID, adminNote string) (*models.AccessRequest, error)
	ListPending(ctx context.Context) ([]*models.AccessRequestView, error)
	ListAll(ctx context.Context) ([]*models.AccessRequestView, error)
	ListForDependent(ctx context.Context, dependentID string) ([]*models.AccessRequestView, error)
}

// VaultService defines the interface for entry management and the
// dependent visibility gate
type VaultService interface {
	CreateEntry(ctx context.Context, ownerID string, req *models.EntryRequest) (*models.KnowledgeEntry, error)
	GetEntry(ctx context.Context, ownerID, entryID string) (*models.KnowledgeEntry, error)
	UpdateEntry(ctx context.Context, ownerID, entryID string, req *models.EntryRequest) (*models.KnowledgeEntry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID string) error
	ListEntries(ctx context.Context, ownerID string) ([]*models.KnowledgeEntry, error)
	ListEntriesByCategory(ctx context.Context, ownerID string, category models.Category) ([]*models.KnowledgeEntry, error)
	Stats(ctx context.Context, ownerID string) (models.CategoryCounts, error)
	Export(ctx context.Context, ownerID string, w io.Writer, format string) error
	ViewAsDependent(ctx context.Context, dependentID, ownerID string) (*models.VaultView, error)
	AuditTrail(ctx context.Context, ownerID string) ([]*models.AuditLogView, error)
}

// Services holds all service interfaces
type Services struct {
	User      UserService
	Activity  ActivityService
	Dependent DependentService
	Access    AccessService
	Vault     VaultService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	audit := newAuditor(repos.Audit, log)

	return &Services{
		User:      newUserService(repos.User, audit, cfg, log),
		Activity:  newActivityService(repos.User, cfg.Sweep.Interval, log),
		Dependent: newDependentService(repos.Dependent, repos.User, audit, log),
		Access:    newAccessService(repos.Request, repos.Dependent, repos.User, audit, log),
		Vault:     newVaultService(repos.Entry, repos.Dependent, repos.Audit, audit, log),
	}
}
