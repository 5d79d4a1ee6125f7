package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"careimport/pkg/contracts/domain"
)

// DependentsImporter imports dependents whose parent accounts already exist.
// A missing parent is a row error, never an auto-create. De-duplication uses
// the {name, parent, date-of-birth} natural key.
type DependentsImporter struct {
	store  Store
	reader *Reader
	logger *slog.Logger
	opts   Options
}

// NewDependentsImporter wires a dependents importer against the store.
func NewDependentsImporter(store Store, logger *slog.Logger, opts Options) *DependentsImporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dependents_importer"))
	return &DependentsImporter{
		store:  store,
		reader: NewReader(logger),
		logger: logger,
		opts:   opts,
	}
}

// Preview parses the upload and returns suggested mappings plus sample rows.
func (im *DependentsImporter) Preview(ctx context.Context, data []byte) (*domain.ImportPreview, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportDependents)
	return BuildPreview(table, schema, im.opts.SampleRows), nil
}

// Execute runs the import with a caller-confirmed mapping. The password
// override is accepted for interface symmetry and unused: dependents carry
// no credentials.
func (im *DependentsImporter) Execute(ctx context.Context, data []byte, orgID string, mappings []domain.MappingPair, overridePassword string) (*domain.ImportSummary, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportDependents)
	rows := ApplyMappings(table.Rows, mappings, schema)

	b, err := newBatch(ctx, im.store, im.logger, orgID, im.opts, overridePassword)
	if err != nil {
		return nil, err
	}

	// Parents resolved once per batch, keyed by normalized e-mail.
	parents := make(map[string]*domain.Account)

	summary := domain.NewImportSummary(len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		rowNum := displayRow(i)

		if errs := requireFields(row, rowNum, "fullName", "dateOfBirth", "gender", "parentEmail"); len(errs) > 0 {
			summary.Errors = append(summary.Errors, errs...)
			continue
		}

		gender, ok := NormalizeGender(row.Get("gender"))
		if !ok {
			summary.Errors = append(summary.Errors, rowError(rowNum, "gender", "invalid gender %q", row.Get("gender")))
			continue
		}

		dob, err := ParseDate(row.Get("dateOfBirth"))
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "dateOfBirth", "invalid date %q", row.Get("dateOfBirth")))
			continue
		}

		parentEmail := NormalizeEmail(row.Get("parentEmail"))
		parent, ok := parents[parentEmail]
		if !ok {
			found, err := im.store.FindAccountByEmail(ctx, parentEmail)
			switch {
			case isNotFound(err):
				summary.Errors = append(summary.Errors, rowError(rowNum, "parentEmail", "parent not found: %q", parentEmail))
				continue
			case err != nil:
				summary.Errors = append(summary.Errors, rowError(rowNum, "parentEmail", "looking up parent %s: %v", parentEmail, err))
				continue
			}
			if found.Role != domain.RoleFamily {
				summary.Errors = append(summary.Errors, rowError(rowNum, "parentEmail", "account %q is not a family account", parentEmail))
				continue
			}
			parent = found
			parents[parentEmail] = found
		}

		dup, err := im.store.FindDependentByNaturalKey(ctx, row.Get("fullName"), parent.ID, dob)
		switch {
		case err == nil && dup != nil:
			summary.Skipped++
			continue
		case err != nil && !isNotFound(err):
			summary.Errors = append(summary.Errors, rowError(rowNum, "", "duplicate check: %v", err))
			continue
		}

		created, err := im.store.CreateDependent(ctx, &domain.Dependent{
			ID:             uuid.New().String(),
			FullName:       row.Get("fullName"),
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
			summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
			continue
		}
		b.addDependent(created.ID)
		summary.Created++
	}

	if err := b.finalize(ctx); err != nil {
		im.logger.ErrorContext(ctx, "batch finalization failed",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()))
		return summary, err
	}

	observeSummary(string(domain.ImportDependents), summary.Created, summary.Skipped, len(summary.Errors))
	im.logger.InfoContext(ctx, "dependents import finished",
		slog.String("org_id", orgID),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", len(summary.Errors)))
	return summary, ctx.Err()
}
