package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"careimport/internal/importer"
	"careimport/pkg/contracts/domain"
)

var familyMappings = []domain.MappingPair{
	{Header: "Full Name", Field: "fullName"},
	{Header: "Email", Field: "email"},
	{Header: "Password", Field: "password"},
}

func TestFamilyImportPasswordPrecedence(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyImporter(store, nil, testOpts)

	csv := "Full Name,Email,Password\n" +
		"Row Secret,row@example.com,row-pass\n" +
		"No Secret,none@example.com,\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyMappings, "call-pass")
	require.NoError(t, err)
	require.Equal(t, 2, summary.Created)

	rowAcc, err := store.FindAccountByEmail(context.Background(), "row@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rowAcc.PasswordHash), []byte("row-pass")),
		"a password in the row wins over the call override")

	noneAcc, err := store.FindAccountByEmail(context.Background(), "none@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(noneAcc.PasswordHash), []byte("call-pass")),
		"without a row password the call override applies")
}

func TestFamilyImportDefaultPassword(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyImporter(store, nil, testOpts)

	csv := "Full Name,Email\nDana Cole,dana@example.com\n"
	mappings := []domain.MappingPair{
		{Header: "Full Name", Field: "fullName"},
		{Header: "Email", Field: "email"},
	}

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", mappings, "")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Created)

	acc, err := store.FindAccountByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFamily, acc.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(testOpts.DefaultPassword)))
}

func TestFamilyImportLinksExistingAccount(t *testing.T) {
	store := newTestStore(t, "org-1")
	existing, err := store.CreateAccount(context.Background(), &domain.Account{
		ID:       "fam-1",
		FullName: "Dana Cole",
		Email:    "dana@example.com",
		Role:     domain.RoleFamily,
	})
	require.NoError(t, err)
	im := importer.NewFamilyImporter(store, nil, testOpts)

	csv := "Full Name,Email\nDana Cole,dana@example.com\n"
	mappings := []domain.MappingPair{
		{Header: "Full Name", Field: "fullName"},
		{Header: "Email", Field: "email"},
	}

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", mappings, "")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, store.AccountCount())

	org, ok := store.Organization("org-1")
	require.True(t, ok)
	assert.Contains(t, org.FamilyIDs, existing.ID)
}
