// Package memory provides a mutex-guarded in-memory implementation of the
// import engine's collaborator store. It backs the test suite and serves as
// the default store when no database is configured.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"careimport/internal/importer"
	"careimport/pkg/contracts/domain"
)

// Store is an in-memory importer.Store. Safe for concurrent batches.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]*domain.Account // by id
	accountEmails map[string]string          // normalized email -> id
	dependents    map[string]*domain.Dependent
	organizations map[string]*domain.Organization
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]*domain.Account),
		accountEmails: make(map[string]string),
		dependents:    make(map[string]*domain.Dependent),
		organizations: make(map[string]*domain.Organization),
	}
}

// PutOrganization installs or replaces an organization. Setup helper for
// tests and the development server; not part of the importer.Store contract.
func (s *Store) PutOrganization(org *domain.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *org
	s.organizations[org.ID] = &cp
}

// Organization returns a copy of the stored organization, for assertions.
func (s *Store) Organization(id string) (*domain.Organization, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.organizations[id]
	if !ok {
		return nil, false
	}
	cp := *org
	return &cp, true
}

// FindAccountByEmail implements importer.Store.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountEmails[strings.ToLower(email)]
	if !ok {
		return nil, importer.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// CreateAccount implements importer.Store. E-mail uniqueness is enforced the
// way a database unique index would be.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := s.accountEmails[email]; exists {
		return nil, fmt.Errorf("account with email %s already exists", email)
	}

	cp := *account
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.accounts[cp.ID] = &cp
	s.accountEmails[email] = cp.ID

	out := cp
	return &out, nil
}

// FindDependentByNaturalKey implements importer.Store.
func (s *Store) FindDependentByNaturalKey(ctx context.Context, fullName, parentID string, dateOfBirth time.Time) (*domain.Dependent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dep := range s.dependents {
		if dep.FullName == fullName && dep.ParentID == parentID && dep.DateOfBirth.Equal(dateOfBirth) {
			cp := *dep
			return &cp, nil
		}
	}
	return nil, importer.ErrNotFound
}

// CreateDependent implements importer.Store.
func (s *Store) CreateDependent(ctx context.Context, dep *domain.Dependent) (*domain.Dependent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *dep
	cp.CreatedAt = time.Now().UTC()
	s.dependents[cp.ID] = &cp

	out := cp
	return &out, nil
}

// FindOrganization implements importer.Store.
func (s *Store) FindOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.organizations[id]
	if !ok {
		return nil, importer.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

// LinkAccountToOrganization implements importer.Store.
func (s *Store) LinkAccountToOrganization(ctx context.Context, accountID, orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("link account: %w", importer.ErrNotFound)
	}
	if _, ok := s.organizations[orgID]; !ok {
		return fmt.Errorf("link organization: %w", importer.ErrNotFound)
	}
	acc.OrganizationID = orgID
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

// AppendOrganizationMembers implements importer.Store.
func (s *Store) AppendOrganizationMembers(ctx context.Context, orgID string, members domain.MemberIDs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.organizations[orgID]
	if !ok {
		return fmt.Errorf("append members: %w", importer.ErrNotFound)
	}
	org.StaffIDs = appendMissing(org.StaffIDs, members.StaffIDs)
	org.FamilyIDs = appendMissing(org.FamilyIDs, members.FamilyIDs)
	org.DependentIDs = appendMissing(org.DependentIDs, members.DependentIDs)
	return nil
}

// AccountCount reports how many accounts exist; assertion helper.
func (s *Store) AccountCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// DependentCount reports how many dependents exist; assertion helper.
func (s *Store) DependentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dependents)
}

func appendMissing(existing, additions []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	for _, id := range additions {
		if _, dup := seen[id]; dup {
			continue
		}
		existing = append(existing, id)
		seen[id] = struct{}{}
	}
	return existing
}
