package importer

import (
	"context"
	"log/slog"

	"careimport/pkg/contracts/domain"
)

// Service dispatches preview and execute calls to the per-kind importers.
// It is the single entry point the transport layer talks to.
type Service struct {
	staff      *StaffImporter
	family     *FamilyImporter
	dependents *DependentsImporter
	combined   *FamilyDependentsImporter
}

// NewService builds the four importers over one collaborator store.
func NewService(store Store, logger *slog.Logger, opts Options) *Service {
	return &Service{
		staff:      NewStaffImporter(store, logger, opts),
		family:     NewFamilyImporter(store, logger, opts),
		dependents: NewDependentsImporter(store, logger, opts),
		combined:   NewFamilyDependentsImporter(store, logger, opts),
	}
}

// Preview parses the upload for the given kind and returns the mapping
// suggestion payload. Repeatable, side-effect free.
func (s *Service) Preview(ctx context.Context, kind domain.ImportKind, data []byte) (*domain.ImportPreview, error) {
	switch kind {
	case domain.ImportStaff:
		return s.staff.Preview(ctx, data)
	case domain.ImportFamily:
		return s.family.Preview(ctx, data)
	case domain.ImportDependents:
		return s.dependents.Preview(ctx, data)
	case domain.ImportFamilyDependents:
		return s.combined.Preview(ctx, data)
	default:
		_, err := SchemaFor(kind)
		return nil, err
	}
}

// Execute runs the side-effecting import for the given kind. The concrete
// summary type depends on the kind: *domain.ImportSummary for the
// single-entity kinds, *domain.FamilyDependentsSummary for the combined one.
func (s *Service) Execute(ctx context.Context, kind domain.ImportKind, data []byte, orgID string, mappings []domain.MappingPair, overridePassword string) (any, error) {
	switch kind {
	case domain.ImportStaff:
		return s.staff.Execute(ctx, data, orgID, mappings, overridePassword)
	case domain.ImportFamily:
		return s.family.Execute(ctx, data, orgID, mappings, overridePassword)
	case domain.ImportDependents:
		return s.dependents.Execute(ctx, data, orgID, mappings, overridePassword)
	case domain.ImportFamilyDependents:
		return s.combined.Execute(ctx, data, orgID, mappings, overridePassword)
	default:
		_, err := SchemaFor(kind)
		return nil, err
	}
}

// Template returns the expected column labels for an import kind, for the
// downloadable starter sheet.
func (s *Service) Template(kind domain.ImportKind) ([]string, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	return schema.TemplateColumns(), nil
}
