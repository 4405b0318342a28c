package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/legacy-vault-api/internal/apperr"
	"github.com/legacy-vault-api/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	CreateError error
	TouchError  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Users[user.ID] = user
	m.EmailToUser[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.EmailToUser[email], nil
}

func (m *MockUserRepository) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	user := m.EmailToUser[email]
	if user == nil || user.Role != role {
		return nil, nil
	}
	return user, nil
}

func (m *MockUserRepository) Touch(ctx context.Context, id string, at time.Time) error {
	if m.TouchError != nil {
		return m.TouchError
	}
	if user, ok := m.Users[id]; ok {
		user.LastActivityAt = at
		user.IsInactive = false
	}
	return nil
}

func (m *MockUserRepository) SetInactive(ctx context.Context, id string, inactive bool) error {
	if user, ok := m.Users[id]; ok {
		user.IsInactive = inactive
	}
	return nil
}

func (m *MockUserRepository) UpdateSettings(ctx context.Context, user *models.User) error {
	m.Users[user.ID] = user
	m.EmailToUser[user.Email] = user
	return nil
}

func (m *MockUserRepository) ListOwners(ctx context.Context) ([]*models.User, error) {
	var owners []*models.User
	for _, user := range m.Users {
		if user.Role == models.RoleOwner {
			owners = append(owners, user)
		}
	}
	return owners, nil
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.Users))
	for _, user := range m.Users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *MockUserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	stats := &models.UserStats{}
	for _, user := range m.Users {
		stats.Total++
		switch user.Role {
		case models.RoleOwner:
			stats.Owners++
			if user.IsInactive {
				stats.InactiveOwners++
			}
		case models.RoleDependent:
			stats.Dependents++
		}
	}
	return stats, nil
}

func (m *MockUserRepository) userRef(id string) models.UserRef {
	if user, ok := m.Users[id]; ok {
		return models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	return models.UserRef{ID: id}
}

func (m *MockUserRepository) ownerRef(id string) models.OwnerRef {
	ref := models.OwnerRef{UserRef: m.userRef(id)}
	if user, ok := m.Users[id]; ok {
		ref.IsInactive = user.IsInactive
		ref.LastActivityAt = user.LastActivityAt
	}
	return ref
}

// MockDependentRepository is a mock implementation of DependentRepository.
// UserRepo, when set, supplies the identities embedded in expanded views.
type MockDependentRepository struct {
	Relationships map[string]*models.DependentRelationship
	UserRepo      *MockUserRepository
	CreateError   error
}

func NewMockDependentRepository(userRepo *MockUserRepository) *MockDependentRepository {
	return &MockDependentRepository{
		Relationships: make(map[string]*models.DependentRelationship),
		UserRepo:      userRepo,
	}
}

func (m *MockDependentRepository) Create(ctx context.Context, rel *models.DependentRelationship) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Relationships[rel.ID] = rel
	return nil
}

func (m *MockDependentRepository) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.DependentRelationship, error) {
	rel, ok := m.Relationships[id]
	if !ok || rel.OwnerID != ownerID {
		return nil, nil
	}
	return rel, nil
}

func (m *MockDependentRepository) GetByPair(ctx context.Context, ownerID, dependentID string) (*models.DependentRelationship, error) {
	for _, rel := range m.Relationships {
		if rel.OwnerID == ownerID && rel.DependentID == dependentID {
			return rel, nil
		}
	}
	return nil, nil
}

func (m *MockDependentRepository) UpdatePermissions(ctx context.Context, id string, perms models.PermissionSet) error {
	if rel, ok := m.Relationships[id]; ok {
		rel.Permissions = perms
	}
	return nil
}

func (m *MockDependentRepository) SetAccessGranted(ctx context.Context, id string, granted bool) error {
	if rel, ok := m.Relationships[id]; ok {
		rel.AccessGranted = granted
	}
	return nil
}

func (m *MockDependentRepository) Delete(ctx context.Context, id string) error {
	delete(m.Relationships, id)
	return nil
}

func (m *MockDependentRepository) ListForOwner(ctx context.Context, ownerID string) ([]*models.DependentView, error) {
	var views []*models.DependentView
	for _, rel := range m.Relationships {
		if rel.OwnerID != ownerID {
			continue
		}
		view := &models.DependentView{DependentRelationship: *rel}
		if m.UserRepo != nil {
			view.Dependent = m.UserRepo.userRef(rel.DependentID)
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (m *MockDependentRepository) ListForDependent(ctx context.Context, dependentID string) ([]*models.OwnerView, error) {
	var views []*models.OwnerView
	for _, rel := range m.Relationships {
		if rel.DependentID != dependentID {
			continue
		}
		view := &models.OwnerView{DependentRelationship: *rel}
		if m.UserRepo != nil {
			view.Owner = m.UserRepo.ownerRef(rel.OwnerID)
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

// MockAccessRequestRepository is a mock implementation of AccessRequestRepository
type MockAccessRequestRepository struct {
	Requests    map[string]*models.AccessRequest
	UserRepo    *MockUserRepository
	CreateError error
}

func NewMockAccessRequestRepository(userRepo *MockUserRepository) *MockAccessRequestRepository {
	return &MockAccessRequestRepository{
		Requests: make(map[string]*models.AccessRequest),
		UserRepo: userRepo,
	}
}

func (m *MockAccessRequestRepository) Create(ctx context.Context, req *models.AccessRequest) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	// Mirror the partial unique index on pending rows
	for _, existing := range m.Requests {
		if existing.OwnerID == req.OwnerID && existing.DependentID == req.DependentID &&
			existing.Status == models.RequestStatusPending {
			return apperr.ErrConflict
		}
	}
	m.Requests[req.ID] = req
	return nil
}

func (m *MockAccessRequestRepository) GetByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	return m.Requests[id], nil
}

func (m *MockAccessRequestRepository) HasPending(ctx context.Context, ownerID, dependentID string) (bool, error) {
	for _, req := range m.Requests {
		if req.OwnerID == ownerID && req.DependentID == dependentID && req.Status == models.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccessRequestRepository) MarkProcessed(ctx context.Context, req *models.AccessRequest) error {
	m.Requests[req.ID] = req
	return nil
}

func (m *MockAccessRequestRepository) ListPending(ctx context.Context) ([]*models.AccessRequestView, error) {
	return m.views(func(req *models.AccessRequest) bool {
		return req.Status == models.RequestStatusPending
	}), nil
}

func (m *MockAccessRequestRepository) ListAll(ctx context.Context) ([]*models.AccessRequestView, error) {
	return m.views(func(*models.AccessRequest) bool { return true }), nil
}

func (m *MockAccessRequestRepository) ListForDependent(ctx context.Context, dependentID string) ([]*models.AccessRequestView, error) {
	return m.views(func(req *models.AccessRequest) bool {
		return req.DependentID == dependentID
	}), nil
}

func (m *MockAccessRequestRepository) views(match func(*models.AccessRequest) bool) []*models.AccessRequestView {
	var views []*models.AccessRequestView
	for _, req := range m.Requests {
		if !match(req) {
			continue
		}
		view := &models.AccessRequestView{AccessRequest: *req}
		if m.UserRepo != nil {
			view.Owner = m.UserRepo.ownerRef(req.OwnerID)
			view.Dependent = m.UserRepo.userRef(req.DependentID)
			if req.ProcessedBy != nil {
				view.ProcessedByName = m.UserRepo.userRef(*req.ProcessedBy).Name
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	Entries     map[string]*models.KnowledgeEntry
	CreateError error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		Entries: make(map[string]*models.KnowledgeEntry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*models.KnowledgeEntry, error) {
	entry, ok := m.Entries[id]
	if !ok || entry.OwnerID != ownerID {
		return nil, nil
	}
	return entry, nil
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	m.Entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	delete(m.Entries, id)
	return nil
}

func (m *MockEntryRepository) ListForOwner(ctx context.Context, ownerID string) ([]*models.KnowledgeEntry, error) {
	entries := m.matching(func(e *models.KnowledgeEntry) bool {
		return e.OwnerID == ownerID
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

func (m *MockEntryRepository) ListForOwnerByCategory(ctx context.Context, ownerID string, category models.Category) ([]*models.KnowledgeEntry, error) {
	entries := m.matching(func(e *models.KnowledgeEntry) bool {
		return e.OwnerID == ownerID && e.Category == category
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

func (m *MockEntryRepository) FindByOwnerAndCategories(ctx context.Context, ownerID string, categories []models.Category) ([]*models.KnowledgeEntry, error) {
	allowed := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	entries := m.matching(func(e *models.KnowledgeEntry) bool {
		return e.OwnerID == ownerID && allowed[e.Category]
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

func (m *MockEntryRepository) CountByCategory(ctx context.Context, ownerID string) (models.CategoryCounts, error) {
	counts := models.NewCategoryCounts()
	for _, entry := range m.Entries {
		if entry.OwnerID == ownerID {
			counts[entry.Category]++
		}
	}
	return counts, nil
}

func (m *MockEntryRepository) StreamForOwner(ctx context.Context, ownerID string, callback func(*models.KnowledgeEntry) error) error {
	entries, _ := m.FindByOwnerAndCategories(ctx, ownerID, models.AllCategories)
	for _, entry := range entries {
		if err := callback(entry); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockEntryRepository) matching(match func(*models.KnowledgeEntry) bool) []*models.KnowledgeEntry {
	var entries []*models.KnowledgeEntry
	for _, entry := range m.Entries {
		if match(entry) {
			entries = append(entries, entry)
		}
	}
	return entries
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	Entries     []*models.AuditLogEntry
	UserRepo    *MockUserRepository
	CreateError error
}

func NewMockAuditRepository(userRepo *MockUserRepository) *MockAuditRepository {
	return &MockAuditRepository{UserRepo: userRepo}
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockAuditRepository) ListForOwner(ctx context.Context, ownerID string, limit int) ([]*models.AuditLogView, error) {
	var views []*models.AuditLogView
	for _, entry := range m.Entries {
		if entry.OwnerID != ownerID {
			continue
		}
		view := &models.AuditLogView{AuditLogEntry: *entry}
		if m.UserRepo != nil {
			ref := m.UserRepo.userRef(entry.PerformedBy)
			view.Actor = models.AuditActorRef{UserRef: ref}
			if user, ok := m.UserRepo.Users[entry.PerformedBy]; ok {
				view.Actor.Role = user.Role
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// ActionsFor returns the recorded audit actions for an owner, oldest-first
func (m *MockAuditRepository) ActionsFor(ownerID string) []models.AuditAction {
	var actions []models.AuditAction
	for _, entry := range m.Entries {
		if entry.OwnerID == ownerID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}
