package domain

// ImportKind identifies one of the supported import flavours. The set is
// closed; anything else is a caller error, not a row error.
type ImportKind string

const (
	ImportStaff            ImportKind = "staff"
	ImportFamily           ImportKind = "family"
	ImportDependents       ImportKind = "dependents"
	ImportFamilyDependents ImportKind = "family_dependents"
)

// ImportKinds lists every supported kind, in a stable order.
var ImportKinds = []ImportKind{
	ImportStaff,
	ImportFamily,
	ImportDependents,
	ImportFamilyDependents,
}

// Valid reports whether k is one of the supported import kinds.
func (k ImportKind) Valid() bool {
	for _, v := range ImportKinds {
		if k == v {
			return true
		}
	}
	return false
}

// FieldDefinition declares one canonical target field of an import kind.
type FieldDefinition struct {
	Field    string `json:"field"`
	Required bool   `json:"required"`
	Label    string `json:"label"`
}

// ColumnMapping is one suggested header-to-field assignment produced by the
// inference step. Field is empty when the header could not be matched.
type ColumnMapping struct {
	Header     string  `json:"header"`
	Field      string  `json:"field,omitempty"`
	Confidence float64 `json:"confidence"`
}

// MappingPair is one caller-confirmed header-to-field assignment used for the
// execute phase.
type MappingPair struct {
	Header string `json:"header" validate:"required"`
	Field  string `json:"field" validate:"required"`
}

// ImportPreview is the transient negotiation artifact returned by the preview
// call. It is never persisted.
type ImportPreview struct {
	DetectedHeaders   []string            `json:"detectedHeaders"`
	SuggestedMappings []ColumnMapping     `json:"suggestedMapping"`
	AvailableFields   []FieldDefinition   `json:"availableFields"`
	SampleRows        []map[string]string `json:"sampleRows"`
	TotalRows         int                 `json:"totalRows"`
}

// ImportRowError records one row-scoped failure. Row is the 1-based display
// row number in the source file (header row included in the count).
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportSummary is the result of a single execute call. Duplicates count as
// skipped, never as errors; errors covering every row is still a successful
// call.
type ImportSummary struct {
	TotalRows int              `json:"totalRows"`
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Errors    []ImportRowError `json:"errors"`
}

// NewImportSummary returns a summary with a non-nil error slice so the JSON
// encoding is always an array.
func NewImportSummary(totalRows int) *ImportSummary {
	return &ImportSummary{TotalRows: totalRows, Errors: []ImportRowError{}}
}

// FamilyDependentsSummary extends ImportSummary for the combined import where
// each row carries parent and dependent data with independent outcomes.
type FamilyDependentsSummary struct {
	ImportSummary
	FamiliesCreated int              `json:"familiesCreated"`
	ChildrenCreated int              `json:"childrenCreated"`
	ChildrenSkipped int              `json:"childrenSkipped"`
	ChildrenErrors  []ImportRowError `json:"childrenErrors"`
}

// NewFamilyDependentsSummary returns a combined summary with non-nil error
// slices.
func NewFamilyDependentsSummary(totalRows int) *FamilyDependentsSummary {
	return &FamilyDependentsSummary{
		ImportSummary:  ImportSummary{TotalRows: totalRows, Errors: []ImportRowError{}},
		ChildrenErrors: []ImportRowError{},
	}
}
