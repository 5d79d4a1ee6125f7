package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"careimport/pkg/contracts/domain"
)

// Enum alias tables. Keys are normalized with normalizeEnum (header
// normalization plus spaces collapsed to underscores), so "Speech Therapist",
// "speech-therapist" and "SPEECH_THERAPIST" all resolve identically.

var roleAliases = map[string]domain.Role{
	"doctor":  domain.RoleDoctor,
	"dr":      domain.RoleDoctor,
	"medecin": domain.RoleDoctor,
	"طبيب":    domain.RoleDoctor,

	"volunteer": domain.RoleVolunteer,
	"benevole":  domain.RoleVolunteer,
	"متطوع":     domain.RoleVolunteer,

	"psychologist": domain.RolePsychologist,
	"psychologue":  domain.RolePsychologist,
	"اخصائي_نفسي":  domain.RolePsychologist,

	"speech_therapist": domain.RoleSpeechTherapist,
	"orthophoniste":    domain.RoleSpeechTherapist,
	"اخصائي_نطق":       domain.RoleSpeechTherapist,

	"occupational_therapist": domain.RoleOccupationalTherapist,
	"ergotherapeute":         domain.RoleOccupationalTherapist,
	"معالج_وظيفي":            domain.RoleOccupationalTherapist,

	"other": domain.RoleOther,
	"autre": domain.RoleOther,
	"اخرى":  domain.RoleOther,
}

var genderAliases = map[string]domain.Gender{
	"male":     domain.GenderMale,
	"m":        domain.GenderMale,
	"homme":    domain.GenderMale,
	"masculin": domain.GenderMale,
	"garcon":   domain.GenderMale,
	"ذكر":      domain.GenderMale,

	"female":  domain.GenderFemale,
	"f":       domain.GenderFemale,
	"femme":   domain.GenderFemale,
	"feminin": domain.GenderFemale,
	"fille":   domain.GenderFemale,
	"انثى":    domain.GenderFemale,

	"other": domain.GenderOther,
	"autre": domain.GenderOther,
	"اخر":   domain.GenderOther,
}

func normalizeEnum(raw string) string {
	return strings.ReplaceAll(NormalizeHeader(raw), " ", "_")
}

// NormalizeRole resolves a raw role cell to a canonical staff role.
func NormalizeRole(raw string) (domain.Role, bool) {
	cleaned := normalizeEnum(raw)
	if role, ok := roleAliases[cleaned]; ok {
		return role, true
	}
	// Already-canonical values pass through.
	if r := domain.Role(cleaned); domain.IsStaffRole(r) {
		return r, true
	}
	return "", false
}

// NormalizeGender resolves a raw gender cell to a canonical gender value.
func NormalizeGender(raw string) (domain.Gender, bool) {
	g, ok := genderAliases[normalizeEnum(raw)]
	return g, ok
}

// dateLayouts are tried in order; first match wins. ISO forms come first,
// then the day-first forms common in the exported sheets, then the month
// name forms excelize renders for styled date cells.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"01-02-06",
	"1-2-06",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseDate parses a date cell. Formatted strings are matched against the
// known layouts; bare numbers are treated as Excel serial dates. The result
// is truncated to the date in UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toUTCDate(t), nil
		}
	}

	// Unstyled xlsx date cells surface as the raw serial number.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil && t.Year() > 1900 {
			return toUTCDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func toUTCDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeEmail lower-cases and trims an e-mail natural key.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
