package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"careimport/pkg/contracts/domain"
)

// Options carries the execution knobs shared by every import kind. The
// default password is configuration supplied by the operator; the engine
// itself hard-codes no secret.
type Options struct {
	// DefaultPassword is used when neither the row nor the execute call
	// supplies a password.
	DefaultPassword string
	// BcryptCost for hashing created account passwords.
	BcryptCost int
	// SampleRows caps the preview's sample row count.
	SampleRows int
}

// displayRow converts a 0-based data row index into the 1-based display row
// number of the source file, accounting for the header row.
func displayRow(i int) int { return i + 2 }

// batch holds the per-execute-call state: the target organization, the
// member ids accumulated for the final flush, and the secret options. A
// batch is never shared between execute calls.
type batch struct {
	store    Store
	logger   *slog.Logger
	org      *domain.Organization
	members  domain.MemberIDs
	opts     Options
	override string
}

// newBatch loads the target organization and prepares batch state. A missing
// organization is batch-fatal.
func newBatch(ctx context.Context, store Store, logger *slog.Logger, orgID string, opts Options, overridePassword string) (*batch, error) {
	org, err := store.FindOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrganizationNotFound, orgID)
		}
		return nil, fmt.Errorf("loading organization %s: %w", orgID, err)
	}
	return &batch{
		store:    store,
		logger:   logger,
		org:      org,
		opts:     opts,
		override: overridePassword,
	}, nil
}

// password picks the effective password for a created account: the row's own
// value, then the caller's per-call override, then the configured default.
func (b *batch) password(rowValue string) string {
	if rowValue != "" {
		return rowValue
	}
	if b.override != "" {
		return b.override
	}
	return b.opts.DefaultPassword
}

func (b *batch) hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.opts.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// linkExistingAccount attaches an already-existing account to the target
// organization, once. Re-linking an account that is already a member (from a
// previous batch or earlier in this one) is a no-op.
func (b *batch) linkExistingAccount(ctx context.Context, acc *domain.Account, asStaff bool) error {
	var linked bool
	if asStaff {
		linked = b.org.HasStaff(acc.ID) || containsString(b.members.StaffIDs, acc.ID)
	} else {
		linked = b.org.HasFamily(acc.ID) || containsString(b.members.FamilyIDs, acc.ID)
	}
	if linked {
		return nil
	}

	if err := b.store.LinkAccountToOrganization(ctx, acc.ID, b.org.ID); err != nil {
		return fmt.Errorf("linking account %s: %w", acc.ID, err)
	}
	if asStaff {
		b.members.StaffIDs = append(b.members.StaffIDs, acc.ID)
	} else {
		b.members.FamilyIDs = append(b.members.FamilyIDs, acc.ID)
	}
	return nil
}

// addCreatedAccount records a freshly created account in the batch's member
// list. The account was created with the organization id already set, so no
// extra link call is needed.
func (b *batch) addCreatedAccount(acc *domain.Account, asStaff bool) {
	if asStaff {
		b.members.StaffIDs = append(b.members.StaffIDs, acc.ID)
	} else {
		b.members.FamilyIDs = append(b.members.FamilyIDs, acc.ID)
	}
}

// addDependent records a created dependent for the final membership flush.
func (b *batch) addDependent(id string) {
	if !b.org.HasDependent(id) && !containsString(b.members.DependentIDs, id) {
		b.members.DependentIDs = append(b.members.DependentIDs, id)
	}
}

// finalize persists the accumulated member ids in one store call. Called
// exactly once per execute, after the row loop, even when the batch was cut
// short by cancellation.
func (b *batch) finalize(ctx context.Context) error {
	if b.members.Empty() {
		return nil
	}
	if err := b.store.AppendOrganizationMembers(ctx, b.org.ID, b.members); err != nil {
		return fmt.Errorf("appending organization members: %w", err)
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// requireFields appends one error per missing required field and reports
// whether the row may proceed. A failing row never reaches the duplicate
// check or the store.
func requireFields(row CanonicalRow, rowNum int, fields ...string) []domain.ImportRowError {
	var errs []domain.ImportRowError
	for _, f := range fields {
		if !row.Has(f) {
			errs = append(errs, domain.ImportRowError{Row: rowNum, Field: f, Message: "missing required value"})
		}
	}
	return errs
}

func rowError(rowNum int, field, format string, args ...any) domain.ImportRowError {
	return domain.ImportRowError{Row: rowNum, Field: field, Message: fmt.Sprintf(format, args...)}
}
