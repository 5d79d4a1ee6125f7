package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"careimport/pkg/contracts/domain"
)

// NormalizeHeader canonicalizes a header string for synonym lookup: trim,
// lower-case, strip combining accents, turn underscores/dashes/dots/slashes
// into spaces and collapse whitespace runs. "Date_de_Naissance" and
// "date de naissance" normalize identically.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// NFD decomposition, then drop the combining marks.
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case '_', '-', '.', '/', '\\':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// SuggestMappings proposes a field for each detected header by exact lookup
// of the normalized header in the kind's synonym table. A hit is proposed
// with full confidence; a miss stays unmapped for the caller to resolve.
// There is deliberately no fuzzy matching: a wrongly guessed column is worse
// than an unmapped one.
func SuggestMappings(headers []string, synonyms SynonymTable) []domain.ColumnMapping {
	mappings := make([]domain.ColumnMapping, 0, len(headers))
	for _, header := range headers {
		m := domain.ColumnMapping{Header: header}
		if field, ok := synonyms[NormalizeHeader(header)]; ok {
			m.Field = field
			m.Confidence = 1.0
		}
		mappings = append(mappings, m)
	}
	return mappings
}

// BuildPreview assembles the preview payload for one parsed upload: suggested
// mappings, the declared target fields, and up to sampleSize rows with the
// suggestion applied so the caller can eyeball the result before confirming.
func BuildPreview(table *Table, schema Schema, sampleSize int) *domain.ImportPreview {
	suggested := SuggestMappings(table.Headers, schema.Synonyms)

	pairs := make([]domain.MappingPair, 0, len(suggested))
	for _, m := range suggested {
		if m.Field != "" {
			pairs = append(pairs, domain.MappingPair{Header: m.Header, Field: m.Field})
		}
	}

	limit := len(table.Rows)
	if sampleSize >= 0 && sampleSize < limit {
		limit = sampleSize
	}
	samples := make([]map[string]string, 0, limit)
	for _, row := range ApplyMappings(table.Rows[:limit], pairs, schema) {
		samples = append(samples, row)
	}

	return &domain.ImportPreview{
		DetectedHeaders:   table.Headers,
		SuggestedMappings: suggested,
		AvailableFields:   schema.Fields,
		SampleRows:        samples,
		TotalRows:         len(table.Rows),
	}
}
