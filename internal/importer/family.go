package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"careimport/pkg/contracts/domain"
)

// FamilyImporter imports family (guardian) accounts: one account per row,
// de-duplicated by e-mail, created with the family role.
type FamilyImporter struct {
	store  Store
	reader *Reader
	logger *slog.Logger
	opts   Options
}

// NewFamilyImporter wires a family importer against the collaborator store.
func NewFamilyImporter(store Store, logger *slog.Logger, opts Options) *FamilyImporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "family_importer"))
	return &FamilyImporter{
		store:  store,
		reader: NewReader(logger),
		logger: logger,
		opts:   opts,
	}
}

// Preview parses the upload and returns suggested mappings plus sample rows.
func (im *FamilyImporter) Preview(ctx context.Context, data []byte) (*domain.ImportPreview, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportFamily)
	return BuildPreview(table, schema, im.opts.SampleRows), nil
}

// Execute runs the import with a caller-confirmed mapping.
func (im *FamilyImporter) Execute(ctx context.Context, data []byte, orgID string, mappings []domain.MappingPair, overridePassword string) (*domain.ImportSummary, error) {
	table, err := im.reader.Parse(data)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(domain.ImportFamily)
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

		if errs := requireFields(row, rowNum, "fullName", "email"); len(errs) > 0 {
			summary.Errors = append(summary.Errors, errs...)
			continue
		}

		email := NormalizeEmail(row.Get("email"))
		existing, err := im.store.FindAccountByEmail(ctx, email)
		switch {
		case err == nil:
			if err := b.linkExistingAccount(ctx, existing, false); err != nil {
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
			Role:           domain.RoleFamily,
			OrganizationID: orgID,
		})
		if err != nil {
			summary.Errors = append(summary.Errors, rowError(rowNum, "", "%v", err))
			continue
		}
		b.addCreatedAccount(created, false)
		summary.Created++
	}

	if err := b.finalize(ctx); err != nil {
		im.logger.ErrorContext(ctx, "batch finalization failed",
			slog.String("org_id", orgID),
			slog.String("error", err.Error()))
		return summary, err
	}

	observeSummary(string(domain.ImportFamily), summary.Created, summary.Skipped, len(summary.Errors))
	im.logger.InfoContext(ctx, "family import finished",
		slog.String("org_id", orgID),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", len(summary.Errors)))
	return summary, ctx.Err()
}
