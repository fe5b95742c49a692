package domain

import (
	"strings"
	"time"
)

// Role discriminates the two kinds of principals the platform knows about.
type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
)

// Valid reports whether the role is one of the supported discriminants.
func (r Role) Valid() bool {
	return r == RoleVolunteer || r == RoleOrganization
}

// VolunteerProfile holds volunteer-only fields. Both names are optional.
type VolunteerProfile struct {
	FirstName string
	LastName  string
}

// OrganizationProfile holds organization-only fields.
type OrganizationProfile struct {
	Name string
}

// Account is a persisted identity record. Exactly one of Volunteer or
// Organization is set, matching Role; the email is stored normalized and is
// unique across all accounts.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	Volunteer    *VolunteerProfile
	Organization *OrganizationProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate enforces the role-conditional invariants before persistence.
func (a Account) Validate() error {
	if !a.Role.Valid() {
		return ErrInvalidRole
	}
	switch a.Role {
	case RoleOrganization:
		if a.Organization == nil || strings.TrimSpace(a.Organization.Name) == "" {
			return ErrOrganizationNameRequired
		}
		if a.Volunteer != nil {
			return ErrProfileMismatch
		}
	case RoleVolunteer:
		if a.Organization != nil {
			return ErrProfileMismatch
		}
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email so it can act as the natural
// key. Every lookup and write goes through the same normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
