package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"careimport/pkg/contracts/domain"
)

// FamilyDependentsImporter handles the combined import where every row
// carries a parent's fields and, optionally, a dependent's fields. Rows
// sharing a parent e-mail resolve to a single parent account through a
// per-batch cache, so the parent is created (or found and linked) exactly
// once no matter how many rows reference it.
type FamilyDependentsImporter struct {
	store  Store
	reader *Reader
	logger *slog.Logger
	opts   Options
}

// NewFamilyDependentsImporter wires the combined importer against the store.
func NewFamilyDependentsImporter(store Store, logger *slog.Logger, opts Options) *FamilyDependentsImporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "family_dependents_importer"))
	return &FamilyDependentsImporter{
		store:  store,
		reader: NewReader(logger),
		logger: logger,
		opts:   opts,
	}
}

// Preview parses the upload and returns suggested mappings plus sample rows.
func (im *FamilyDependentsImporter) Preview(ctx context.Context, data []byte) (*domain.ImportPreview, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportFamilyDependents)
	return BuildPreview(table, schema, im.opts.SampleRows), nil
}

// Execute runs the combined import. Parent-level and dependent-level
// outcomes are tracked in separate counters because one row can succeed at
// the parent level and fail at the dependent level, or the reverse.
func (im *FamilyDependentsImporter) Execute(ctx context.Context, data []byte, orgID string, mappings []domain.MappingPair, overridePassword string) (*domain.FamilyDependentsSummary, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportFamilyDependents)
	rows := ApplyMappings(table.Rows, mappings, schema)

	b, err := newBatch(ctx, im.store, im.logger, orgID, im.opts, overridePassword)
	if err != nil {
		return nil, err
	}

	// Batch-scoped entity-resolution cache: normalized parent e-mail to the
	// resolved account. Discarded when Execute returns.
	parentCache := make(map[string]*domain.Account)

	summary := domain.NewFamilyDependentsSummary(len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		rowNum := displayRow(i)

		if !row.Has("parentEmail") {
			summary.Errors = append(summary.Errors, rowError(rowNum, "parentEmail", "missing required value"))
			continue
		}
		parentEmail := NormalizeEmail(row.Get("parentEmail"))

		parent, cached := parentCache[parentEmail]
		if !cached {
			existing, err := im.store.FindAccountByEmail(ctx, parentEmail)
			switch {
			case err == nil:
				// Existing parent: link, count skipped, keep existing
				// fields untouched even if the row carries new values.
				if err := b.linkExistingAccount(ctx, existing, false); err != nil {
					summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
					continue
				}
				parent = existing
				summary.Skipped++
			case isNotFound(err):
				if !row.Has("parentName") {
					summary.Errors = append(summary.Errors, rowError(rowNum, "parentName", "missing required value (needed to create parent)"))
					continue
				}
				hash, err := b.hashPassword(b.password(row.Get("parentPassword")))
				if err != nil {
					summary.Errors = append(summary.Errors, rowError(rowNum, "parentPassword", "%v", err))
					continue
				}
				created, err := im.store.CreateAccount(ctx, &domain.Account{
					ID:             uuid.New().String(),
					FullName:       row.Get("parentName"),
					Email:          parentEmail,
					Phone:          row.Get("parentPhone"),
					PasswordHash:   hash,
					Role:           domain.RoleFamily,
					OrganizationID: orgID,
				})
				if err != nil {
					summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
					continue
				}
				b.addCreatedAccount(created, false)
				parent = created
				summary.FamiliesCreated++
				summary.Created++
			default:
				summary.Errors = append(summary.Errors, rowError(rowNum, "parentEmail", "looking up parent %s: %v", parentEmail, err))
				continue
			}
			parentCache[parentEmail] = parent
		}

		// A row may legitimately carry parent data only.
		if !row.Has("childName") {
			continue
		}

		if errs := requireFields(row, rowNum, "dateOfBirth", "gender"); len(errs) > 0 {
			summary.ChildrenErrors = append(summary.ChildrenErrors, errs...)
			continue
		}

		gender, ok := NormalizeGender(row.Get("gender"))
		if !ok {
			summary.ChildrenErrors = append(summary.ChildrenErrors, rowError(rowNum, "gender", "invalid gender %q", row.Get("gender")))
			continue
		}

		dob, err := ParseDate(row.Get("dateOfBirth"))
		if err != nil {
			summary.ChildrenErrors = append(summary.ChildrenErrors, rowError(rowNum, "dateOfBirth", "invalid date %q", row.Get("dateOfBirth")))
			continue
		}

		dup, err := im.store.FindDependentByNaturalKey(ctx, row.Get("childName"), parent.ID, dob)
		switch {
		case err == nil && dup != nil:
			summary.ChildrenSkipped++
			continue
		case err != nil && !isNotFound(err):
			summary.ChildrenErrors = append(summary.ChildrenErrors, rowError(rowNum, "", "duplicate check: %v", err))
			continue
		}

		created, err := im.store.CreateDependent(ctx, &domain.Dependent{
			ID:             uuid.New().String(),
			FullName:       row.Get("childName"),
			DateOfBirth:    dob,
			Gender:         gender,
			Diagnosis:      row.Get("diagnosis"),
			MedicalHistory: row.Get("medicalHistory"),
			Allergies:      row.Get("allergies"),
			Medications:    row.Get("medications"),
			Notes:          row.Get("notes"),
			ParentID:       parent.ID,
			OrganizationID: orgID,
		})
		if err != nil {
			summary.ChildrenErrors = append(summary.ChildrenErrors, rowError(rowNum, "", "%v", err))
			continue
		}
		b.addDependent(created.ID)
		summary.ChildrenCreated++
	}

	if err := b.finalize(ctx); err != nil {
		im.logger.ErrorContext(ctx, "batch finalization failed",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()))
		return summary, err
	}

	observeSummary(string(domain.ImportFamilyDependents),
		summary.Created+summary.ChildrenCreated,
		summary.Skipped+summary.ChildrenSkipped,
		len(summary.Errors)+len(summary.ChildrenErrors))
	im.logger.InfoContext(ctx, "family+dependents import finished",
		slog.String("org_id", orgID),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("families_created", summary.FamiliesCreated),
		slog.Int("children_created", summary.ChildrenCreated),
		slog.Int("children_skipped", summary.ChildrenSkipped),
		slog.Int("errors", len(summary.Errors)+len(summary.ChildrenErrors)))
	return summary, ctx.Err()
}
