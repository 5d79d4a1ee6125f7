package importer

import (
	"context"
	"errors"
	"time"

	"careimport/pkg/contracts/domain"
)

// Store sentinel errors. Implementations must return ErrNotFound (possibly
// wrapped) from the Find methods when no entity matches.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrOrganizationNotFound = errors.New("organization not found")
)

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Store is the collaborator persistence boundary the import engine consumes.
// The engine only reads, creates and links entities; it never deletes or
// updates unrelated fields, so the interface offers nothing of the sort.
type Store interface {
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)

	FindDependentByNaturalKey(ctx context.Context, fullName, parentID string, dateOfBirth time.Time) (*domain.Dependent, error)
	CreateDependent(ctx context.Context, dep *domain.Dependent) (*domain.Dependent, error)

	FindOrganization(ctx context.Context, id string) (*domain.Organization, error)

	// LinkAccountToOrganization points an existing account at the
	// organization. Linking an already-linked account is a no-op.
	LinkAccountToOrganization(ctx context.Context, accountID, orgID string) error

	// AppendOrganizationMembers adds the batch's accumulated member ids to
	// the organization's member lists. Called once per execute call, at
	// batch finalization.
	AppendOrganizationMembers(ctx context.Context, orgID string, members domain.MemberIDs) error
}
