package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"careimport/pkg/contracts/domain"
)

// StaffImporter imports staff accounts: one account per row, de-duplicated
// by e-mail, linked to the target organization.
type StaffImporter struct {
	store  Store
	reader *Reader
	logger *slog.Logger
	opts   Options
}

// NewStaffImporter wires a staff importer against the collaborator store.
func NewStaffImporter(store Store, logger *slog.Logger, opts Options) *StaffImporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "staff_importer"))
	return &StaffImporter{
		store:  store,
		reader: NewReader(logger),
		logger: logger,
		opts:   opts,
	}
}

// Preview parses the upload and returns suggested mappings plus sample rows.
// It has no side effects and may be called repeatedly.
func (im *StaffImporter) Preview(ctx context.Context, data []byte) (*domain.ImportPreview, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportStaff)
	return BuildPreview(table, schema, im.opts.SampleRows), nil
}

// Execute runs the import with a caller-confirmed mapping. Row failures are
// collected into the summary; only malformed files and a missing target
// organization abort the call.
func (im *StaffImporter) Execute(ctx context.Context, data []byte, orgID string, mappings []domain.MappingPair, overridePassword string) (*domain.ImportSummary, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportStaff)
	rows := ApplyMappings(table.Rows, mappings, schema)

	b, err := newBatch(ctx, im.store, im.logger, orgID, im.opts, overridePassword)
	if err != nil {
		return nil, err
	}

	summary := domain.NewImportSummary(len(rows))
	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}
		rowNum := displayRow(i)

		if errs := requireFields(row, rowNum, "fullName", "email", "role"); len(errs) > 0 {
			summary.Errors = append(summary.Errors, errs...)
			continue
		}

		role, ok := NormalizeRole(row.Get("role"))
		if !ok {
			summary.Errors = append(summary.Errors, rowError(rowNum, "role", "invalid role %q", row.Get("role")))
			continue
		}

		email := NormalizeEmail(row.Get("email"))
		existing, err := im.store.FindAccountByEmail(ctx, email)
		switch {
		case err == nil:
			// Duplicate by natural key: keep the account, make sure it is
			// attached to this organization, count the row as skipped.
			if err := b.linkExistingAccount(ctx, existing, true); err != nil {
				summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
				continue
			}
			summary.Skipped++
			continue
		case !isNotFound(err):
			summary.Errors = append(summary.Errors, rowError(rowNum, "", "looking up %s: %v", email, err))
			continue
		}

		hash, err := b.hashPassword(b.password(row.Get("password")))
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "password", "%v", err))
			continue
		}

		created, err := im.store.CreateAccount(ctx, &domain.Account{
			ID:             uuid.New().String(),
			FullName:       row.Get("fullName"),
			Email:          email,
			Phone:          row.Get("phone"),
			PasswordHash:   hash,
			Role:           role,
			OrganizationID: orgID,
		})
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
			continue
		}
		b.addCreatedAccount(created, true)
		summary.Created++
	}

	if err := b.finalize(ctx); err != nil {
		im.logger.ErrorContext(ctx, "batch finalization failed",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()))
		return summary, err
	}

	observeSummary(string(domain.ImportStaff), summary.Created, summary.Skipped, len(summary.Errors))
	im.logger.InfoContext(ctx, "staff import finished",
		slog.String("org_id", orgID),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", len(summary.Errors)))
	return summary, ctx.Err()
}
