package importer

import (
	"careimport/pkg/contracts/domain"
)

// CanonicalRow maps a canonical field name to its raw trimmed value. Absent
// and empty values are equivalent for validation purposes.
type CanonicalRow map[string]string

// Get returns the trimmed value of a field, empty when unset.
func (c CanonicalRow) Get(field string) string { return c[field] }

// Has reports whether the field carries a non-empty value.
func (c CanonicalRow) Has(field string) bool { return c[field] != "" }

// ApplyMappings converts raw rows into canonical rows using the confirmed
// header-to-field assignments. Headers absent from the mapping are dropped;
// mapping entries naming a field the schema does not declare are ignored.
// The transform is pure and order-preserving: the same inputs always produce
// the same outputs, one canonical row per input row.
func ApplyMappings(rows []Row, mappings []domain.MappingPair, schema Schema) []CanonicalRow {
	// Resolve each mapping pair once, against normalized header text, so the
	// caller may echo back either the original or the normalized spelling.
	type binding struct {
		header string // normalized
		field  string
	}
	bindings := make([]binding, 0, len(mappings))
	for _, m := range mappings {
		if !schema.HasField(m.Field) {
			continue
		}
		bindings = append(bindings, binding{header: NormalizeHeader(m.Header), field: m.Field})
	}

	out := make([]CanonicalRow, 0, len(rows))
	for _, row := range rows {
		byNorm := make(map[string]string, len(row))
		for header, value := range row {
			byNorm[NormalizeHeader(header)] = value
		}

		canonical := make(CanonicalRow, len(bindings))
		for _, b := range bindings {
			if value, ok := byNorm[b.header]; ok && value != "" {
				canonical[b.field] = value
			}
		}
		out = append(out, canonical)
	}
	return out
}
