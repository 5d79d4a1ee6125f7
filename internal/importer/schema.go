package importer

import (
	"errors"
	"fmt"

	"careimport/pkg/contracts/domain"
)

// ErrUnknownKind is returned when a caller asks for an import kind outside
// the supported set.
var ErrUnknownKind = errors.New("unknown import kind")

// SynonymTable maps a normalized header alias to a canonical field name.
// Keys must already be in NormalizeHeader form.
type SynonymTable map[string]string

// Schema declares the target fields and header synonyms of one import kind.
type Schema struct {
	Kind     domain.ImportKind
	Fields   []domain.FieldDefinition
	Synonyms SynonymTable
}

// FieldNames returns the canonical field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Field
	}
	return names
}

// HasField reports whether name is a declared canonical field.
func (s Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

// RequiredFields returns the canonical names of all required fields.
func (s Schema) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Field)
		}
	}
	return names
}

// TemplateColumns returns the display labels used by the template download.
func (s Schema) TemplateColumns() []string {
	labels := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		labels[i] = f.Label
	}
	return labels
}

var schemas = map[domain.ImportKind]Schema{
	domain.ImportStaff: {
		Kind: domain.ImportStaff,
		Fields: []domain.FieldDefinition{
			{Field: "fullName", Required: true, Label: "Full Name"},
			{Field: "email", Required: true, Label: "Email"},
			{Field: "phone", Required: false, Label: "Phone"},
			{Field: "role", Required: true, Label: "Role"},
			{Field: "password", Required: false, Label: "Password"},
		},
		Synonyms: staffSynonyms,
	},
	domain.ImportFamily: {
		Kind: domain.ImportFamily,
		Fields: []domain.FieldDefinition{
			{Field: "fullName", Required: true, Label: "Full Name"},
			{Field: "email", Required: true, Label: "Email"},
			{Field: "phone", Required: false, Label: "Phone"},
			{Field: "password", Required: false, Label: "Password"},
		},
		Synonyms: familySynonyms,
	},
	domain.ImportDependents: {
		Kind: domain.ImportDependents,
		Fields: []domain.FieldDefinition{
			{Field: "fullName", Required: true, Label: "Child Name"},
			{Field: "dateOfBirth", Required: true, Label: "Date of Birth"},
			{Field: "gender", Required: true, Label: "Gender"},
			{Field: "parentEmail", Required: true, Label: "Parent Email"},
			{Field: "diagnosis", Required: false, Label: "Diagnosis"},
			{Field: "medicalHistory", Required: false, Label: "Medical History"},
			{Field: "allergies", Required: false, Label: "Allergies"},
			{Field: "medications", Required: false, Label: "Medications"},
			{Field: "notes", Required: false, Label: "Notes"},
		},
		Synonyms: dependentSynonyms,
	},
	domain.ImportFamilyDependents: {
		Kind: domain.ImportFamilyDependents,
		Fields: []domain.FieldDefinition{
			{Field: "parentName", Required: true, Label: "Parent Name"},
			{Field: "parentEmail", Required: true, Label: "Parent Email"},
			{Field: "parentPhone", Required: false, Label: "Parent Phone"},
			{Field: "parentPassword", Required: false, Label: "Parent Password"},
			{Field: "childName", Required: true, Label: "Child Name"},
			{Field: "dateOfBirth", Required: true, Label: "Date of Birth"},
			{Field: "gender", Required: true, Label: "Gender"},
			{Field: "diagnosis", Required: false, Label: "Diagnosis"},
			{Field: "medicalHistory", Required: false, Label: "Medical History"},
			{Field: "allergies", Required: false, Label: "Allergies"},
			{Field: "medications", Required: false, Label: "Medications"},
			{Field: "notes", Required: false, Label: "Notes"},
		},
		Synonyms: familyDependentSynonyms,
	},
}

// SchemaFor looks up the schema of an import kind.
func SchemaFor(kind domain.ImportKind) (Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s, nil
}
