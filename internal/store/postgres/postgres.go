// Package postgres implements the import engine's collaborator store on
// PostgreSQL through pgx connection pooling.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"careimport/internal/importer"
	"careimport/pkg/contracts/domain"
)

// Store is a PostgreSQL-backed importer.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a store to the database at url.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// EnsureSchema creates the backing tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS organizations (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	leader_id     TEXT,
	staff_ids     TEXT[] NOT NULL DEFAULT '{}',
	family_ids    TEXT[] NOT NULL DEFAULT '{}',
	dependent_ids TEXT[] NOT NULL DEFAULT '{}',
	address       TEXT,
	contact       TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id              TEXT PRIMARY KEY,
	full_name       TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	phone           TEXT,
	password_hash   TEXT NOT NULL,
	role            TEXT NOT NULL,
	organization_id TEXT REFERENCES organizations(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dependents (
	id              TEXT PRIMARY KEY,
	full_name       TEXT NOT NULL,
	date_of_birth   DATE NOT NULL,
	gender          TEXT NOT NULL,
	diagnosis       TEXT,
	medical_history TEXT,
	allergies       TEXT,
	medications     TEXT,
	notes           TEXT,
	parent_id       TEXT NOT NULL REFERENCES accounts(id),
	organization_id TEXT REFERENCES organizations(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS dependents_natural_key
	ON dependents (full_name, parent_id, date_of_birth);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// FindAccountByEmail implements importer.Store.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
SELECT id, full_name, email, COALESCE(phone, ''), password_hash, role,
       COALESCE(organization_id, ''), created_at, updated_at
FROM accounts
WHERE email = $1`

	var acc domain.Account
	err := s.pool.QueryRow(ctx, q, strings.ToLower(email)).Scan(
		&acc.ID, &acc.FullName, &acc.Email, &acc.Phone, &acc.PasswordHash,
		&acc.Role, &acc.OrganizationID, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account by email: %w", err)
	}
	return &acc, nil
}

// CreateAccount implements importer.Store.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const q = `
INSERT INTO accounts (id, full_name, email, phone, password_hash, role, organization_id)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
RETURNING created_at, updated_at`

	cp := *account
	cp.Email = strings.ToLower(cp.Email)
	err := s.pool.QueryRow(ctx, q,
		cp.ID, cp.FullName, cp.Email, cp.Phone, cp.PasswordHash, cp.Role, cp.OrganizationID,
	).Scan(&cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}
	return &cp, nil
}

// FindDependentByNaturalKey implements importer.Store.
func (s *Store) FindDependentByNaturalKey(ctx context.Context, fullName, parentID string, dateOfBirth time.Time) (*domain.Dependent, error) {
	const q = `
SELECT id, full_name, date_of_birth, gender, COALESCE(diagnosis, ''),
       COALESCE(medical_history, ''), COALESCE(allergies, ''),
       COALESCE(medications, ''), COALESCE(notes, ''), parent_id,
       COALESCE(organization_id, ''), created_at
FROM dependents
WHERE full_name = $1 AND parent_id = $2 AND date_of_birth = $3`

	var dep domain.Dependent
	err := s.pool.QueryRow(ctx, q, fullName, parentID, dateOfBirth).Scan(
		&dep.ID, &dep.FullName, &dep.DateOfBirth, &dep.Gender, &dep.Diagnosis,
		&dep.MedicalHistory, &dep.Allergies, &dep.Medications, &dep.Notes,
		&dep.ParentID, &dep.OrganizationID, &dep.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying dependent: %w", err)
	}
	return &dep, nil
}

// CreateDependent implements importer.Store.
func (s *Store) CreateDependent(ctx context.Context, dep *domain.Dependent) (*domain.Dependent, error) {
	const q = `
INSERT INTO dependents (id, full_name, date_of_birth, gender, diagnosis,
	medical_history, allergies, medications, notes, parent_id, organization_id)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
	NULLIF($8, ''), NULLIF($9, ''), $10, NULLIF($11, ''))
RETURNING created_at`

	cp := *dep
	err := s.pool.QueryRow(ctx, q,
		cp.ID, cp.FullName, cp.DateOfBirth, cp.Gender, cp.Diagnosis,
		cp.MedicalHistory, cp.Allergies, cp.Medications, cp.Notes,
		cp.ParentID, cp.OrganizationID,
	).Scan(&cp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting dependent: %w", err)
	}
	return &cp, nil
}

// FindOrganization implements importer.Store.
func (s *Store) FindOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	const q = `
SELECT id, name, COALESCE(leader_id, ''), staff_ids, family_ids,
       dependent_ids, COALESCE(address, ''), COALESCE(contact, ''), created_at
FROM organizations
WHERE id = $1`

	var org domain.Organization
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&org.ID, &org.Name, &org.LeaderID, &org.StaffIDs, &org.FamilyIDs,
		&org.DependentIDs, &org.Address, &org.Contact, &org.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying organization: %w", err)
	}
	return &org, nil
}

// LinkAccountToOrganization implements importer.Store.
func (s *Store) LinkAccountToOrganization(ctx context.Context, accountID, orgID string) error {
	const q = `UPDATE accounts SET organization_id = $2, updated_at = now() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, accountID, orgID)
	if err != nil {
		return fmt.Errorf("linking account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("linking account %s: %w", accountID, importer.ErrNotFound)
	}
	return nil
}

// AppendOrganizationMembers implements importer.Store. Array concatenation
// keeps only ids not already present.
func (s *Store) AppendOrganizationMembers(ctx context.Context, orgID string, members domain.MemberIDs) error {
	const q = `
UPDATE organizations SET
	staff_ids = staff_ids || (SELECT COALESCE(array_agg(v), '{}') FROM unnest($2::TEXT[]) AS v WHERE v != ALL(staff_ids)),
	family_ids = family_ids || (SELECT COALESCE(array_agg(v), '{}') FROM unnest($3::TEXT[]) AS v WHERE v != ALL(family_ids)),
	dependent_ids = dependent_ids || (SELECT COALESCE(array_agg(v), '{}') FROM unnest($4::TEXT[]) AS v WHERE v != ALL(dependent_ids))
WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, orgID, members.StaffIDs, members.FamilyIDs, members.DependentIDs)
	if err != nil {
		return fmt.Errorf("appending members: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appending members to %s: %w", orgID, importer.ErrNotFound)
	}
	return nil
}
