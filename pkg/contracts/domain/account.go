package domain

import (
	"time"
)

// Account represents a user account owned by the collaborator store: either a
// staff member or a family (guardian) account attached to an organization.
type Account struct {
	ID             string    `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name" validate:"required"`
	Email          string    `json:"email" db:"email" validate:"required,email"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Role           Role      `json:"role" db:"role" validate:"required"`
	OrganizationID string    `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Role classifies an account.
type Role string

const (
	RoleFamily                Role = "family"
	RoleDoctor                Role = "doctor"
	RoleVolunteer             Role = "volunteer"
	RolePsychologist          Role = "psychologist"
	RoleSpeechTherapist       Role = "speech_therapist"
	RoleOccupationalTherapist Role = "occupational_therapist"
	RoleOther                 Role = "other"
)

// StaffRoles lists the roles a staff import row may carry. Family accounts
// are created by the family importers with RoleFamily directly.
var StaffRoles = []Role{
	RoleDoctor,
	RoleVolunteer,
	RolePsychologist,
	RoleSpeechTherapist,
	RoleOccupationalTherapist,
	RoleOther,
}

// IsStaffRole reports whether r is one of the importable staff roles.
func IsStaffRole(r Role) bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

// Dependent represents a child or other dependent linked to a family account.
// The natural key for de-duplication is {FullName, ParentID, DateOfBirth}.
type Dependent struct {
	ID             string    `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name" validate:"required"`
	DateOfBirth    time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender         Gender    `json:"gender" db:"gender" validate:"required"`
	Diagnosis      string    `json:"diagnosis,omitempty" db:"diagnosis"`
	MedicalHistory string    `json:"medical_history,omitempty" db:"medical_history"`
	Allergies      string    `json:"allergies,omitempty" db:"allergies"`
	Medications    string    `json:"medications,omitempty" db:"medications"`
	Notes          string    `json:"notes,omitempty" db:"notes"`
	ParentID       string    `json:"parent_id" db:"parent_id"`
	OrganizationID string    `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Gender is the canonical gender enum for dependents.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Organization groups accounts and dependents. The import engine only reads
// it and appends member ids; it never removes or rewrites unrelated fields.
type Organization struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" validate:"required"`
	LeaderID     string    `json:"leader_id,omitempty" db:"leader_id"`
	StaffIDs     []string  `json:"staff_ids" db:"staff_ids"`
	FamilyIDs    []string  `json:"family_ids" db:"family_ids"`
	DependentIDs []string  `json:"dependent_ids" db:"dependent_ids"`
	Address      string    `json:"address,omitempty" db:"address"`
	Contact      string    `json:"contact,omitempty" db:"contact"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// HasStaff reports whether id is already in the staff member list.
func (o *Organization) HasStaff(id string) bool { return containsID(o.StaffIDs, id) }

// HasFamily reports whether id is already in the family member list.
func (o *Organization) HasFamily(id string) bool { return containsID(o.FamilyIDs, id) }

// HasDependent reports whether id is already in the dependent list.
func (o *Organization) HasDependent(id string) bool { return containsID(o.DependentIDs, id) }

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// MemberIDs carries the member ids accumulated during one import batch.
// It is applied to the organization once, at batch finalization.
type MemberIDs struct {
	StaffIDs     []string
	FamilyIDs    []string
	DependentIDs []string
}

// Empty reports whether the batch produced no new links.
func (m MemberIDs) Empty() bool {
	return len(m.StaffIDs) == 0 && len(m.FamilyIDs) == 0 && len(m.DependentIDs) == 0
}
