package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voluntra/voluntra-auth/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@x.com", domain.NormalizeEmail(" A@x.Com "))
	require.Equal(t, "", domain.NormalizeEmail("   "))
}

func TestAccountValidate(t *testing.T) {
	volunteer := domain.Account{Role: domain.RoleVolunteer}
	require.NoError(t, volunteer.Validate())

	org := domain.Account{Role: domain.RoleOrganization}
	require.ErrorIs(t, org.Validate(), domain.ErrOrganizationNameRequired)

	org.Organization = &domain.OrganizationProfile{Name: "Helpers United"}
	require.NoError(t, org.Validate())

	org.Volunteer = &domain.VolunteerProfile{FirstName: "x"}
	require.ErrorIs(t, org.Validate(), domain.ErrProfileMismatch)

	mixed := domain.Account{Role: domain.RoleVolunteer, Organization: &domain.OrganizationProfile{Name: "x"}}
	require.ErrorIs(t, mixed.Validate(), domain.ErrProfileMismatch)

	unknown := domain.Account{Role: domain.Role("admin")}
	require.ErrorIs(t, unknown.Validate(), domain.ErrInvalidRole)
}
