package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careimport/internal/importer"
	"careimport/pkg/contracts/domain"
)

var familyDependentsMappings = []domain.MappingPair{
	{Header: "Parent Name", Field: "parentName"},
	{Header: "Parent Email", Field: "parentEmail"},
	{Header: "Parent Phone", Field: "parentPhone"},
	{Header: "Child Name", Field: "childName"},
	{Header: "Date of Birth", Field: "dateOfBirth"},
	{Header: "Gender", Field: "gender"},
}

func TestFamilyDependentsImportSharedParent(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		"Dana Cole,dana@example.com,Ben,2015-03-09,M\n" +
		"Dana Cole,dana@example.com,Mia,2017-06-01,F\n" +
		"Dana Cole,DANA@example.com,Leo,2019-11-20,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 1, summary.FamiliesCreated, "three rows, one parent")
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, summary.ChildrenCreated)
	assert.Empty(t, summary.Errors)
	assert.Empty(t, summary.ChildrenErrors)

	assert.Equal(t, 1, store.AccountCount())
	assert.Equal(t, 3, store.DependentCount())

	parent, err := store.FindAccountByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFamily, parent.Role)

	org, ok := store.Organization("org-1")
	require.True(t, ok)
	assert.Len(t, org.FamilyIDs, 1)
	assert.Len(t, org.DependentIDs, 3)
	assert.Empty(t, org.StaffIDs)
}

func TestFamilyDependentsImportExistingParentUntouched(t *testing.T) {
	store := newTestStore(t, "org-1")
	existing, err := store.CreateAccount(context.Background(), &domain.Account{
		ID:       "fam-1",
		FullName: "Dana Original",
		Email:    "dana@example.com",
		Phone:    "111",
		Role:     domain.RoleFamily,
	})
	require.NoError(t, err)
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Parent Phone,Child Name,Date of Birth,Gender\n" +
		"Dana Renamed,dana@example.com,999,Ben,2015-03-09,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FamiliesCreated)
	assert.Equal(t, 1, summary.Skipped, "existing parent counts as skipped, not created")
	assert.Equal(t, 1, summary.ChildrenCreated)

	after, err := store.FindAccountByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Dana Original", after.FullName, "row values never overwrite an existing account")
	assert.Equal(t, "111", after.Phone)

	// The child still attaches to the pre-existing parent.
	dob := time.Date(2015, time.March, 9, 0, 0, 0, 0, time.UTC)
	dep, err := store.FindDependentByNaturalKey(context.Background(), "Ben", existing.ID, dob)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, dep.ParentID)

	org, ok := store.Organization("org-1")
	require.True(t, ok)
	assert.Contains(t, org.FamilyIDs, existing.ID, "existing parent gets linked to the organization")
}

func TestFamilyDependentsImportParentOnlyRows(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		"Dana Cole,dana@example.com,,,\n" +
		"Omar Nasr,omar@example.com,,,\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FamiliesCreated)
	assert.Equal(t, 0, summary.ChildrenCreated)
	assert.Empty(t, summary.Errors)
	assert.Empty(t, summary.ChildrenErrors)
	assert.Equal(t, 0, store.DependentCount())
}

func TestFamilyDependentsImportMissingParentName(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		",new@example.com,Ben,2015-03-09,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FamiliesCreated)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Row)
	assert.Equal(t, "parentName", summary.Errors[0].Field)
	assert.Equal(t, 0, summary.ChildrenCreated, "without a parent the child cannot be created either")
	assert.Equal(t, 0, store.AccountCount())
	assert.Equal(t, 0, store.DependentCount())
}

func TestFamilyDependentsImportChildErrorKeepsParent(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		"Dana Cole,dana@example.com,Ben,not-a-date,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FamiliesCreated, "the parent half of the row still succeeds")
	assert.Equal(t, 0, summary.ChildrenCreated)
	assert.Empty(t, summary.Errors)
	require.Len(t, summary.ChildrenErrors, 1)
	assert.Equal(t, "dateOfBirth", summary.ChildrenErrors[0].Field)
	assert.Equal(t, 1, store.AccountCount())
	assert.Equal(t, 0, store.DependentCount())
}

func TestFamilyDependentsImportChildDeduplication(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		"Dana Cole,dana@example.com,Ben,2015-03-09,M\n" +
		"Dana Cole,dana@example.com,Ben,2015-03-09,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FamiliesCreated)
	assert.Equal(t, 1, summary.ChildrenCreated)
	assert.Equal(t, 1, summary.ChildrenSkipped)
	assert.Empty(t, summary.ChildrenErrors)
	assert.Equal(t, 1, store.DependentCount())
}

func TestFamilyDependentsImportMissingParentEmail(t *testing.T) {
	store := newTestStore(t, "org-1")
	im := importer.NewFamilyDependentsImporter(store, nil, testOpts)

	csv := "Parent Name,Parent Email,Child Name,Date of Birth,Gender\n" +
		"Dana Cole,,Ben,2015-03-09,M\n"

	summary, err := im.Execute(context.Background(), []byte(csv), "org-1", familyDependentsMappings, "")
	require.NoError(t, err)

	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "parentEmail", summary.Errors[0].Field)
	assert.Equal(t, 0, store.AccountCount())
}
