package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voluntra/voluntra-auth/internal/domain"
	"github.com/voluntra/voluntra-auth/internal/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := token.NewIssuer(testSecret, 7*24*time.Hour)
	account := domain.Account{
		ID:        42,
		Email:     "bob@x.com",
		Role:      domain.RoleVolunteer,
		Volunteer: &domain.VolunteerProfile{FirstName: "Bob"},
	}

	raw, err := issuer.Issue(account)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.AccountID)
	require.Equal(t, domain.RoleVolunteer, claims.Role)
	require.Equal(t, "bob@x.com", claims.Email)
	require.WithinDuration(t, claims.IssuedAt.Add(7*24*time.Hour), claims.ExpiresAt, time.Second)
}

func TestVerifyExpired(t *testing.T) {
	issuer := token.NewIssuer(testSecret, -time.Minute)
	raw, err := issuer.Issue(domain.Account{ID: 1, Email: "a@x.com", Role: domain.RoleOrganization})
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	require.ErrorIs(t, err, token.ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	raw, err := issuer.Issue(domain.Account{ID: 1, Email: "a@x.com", Role: domain.RoleVolunteer})
	require.NoError(t, err)

	other := token.NewIssuer([]byte("another-secret-another-secret!!!"), time.Hour)
	_, err = other.Verify(raw)
	require.ErrorIs(t, err, token.ErrSignatureInvalid)
}

func TestVerifyTampered(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	raw, err := issuer.Issue(domain.Account{ID: 7, Email: "a@x.com", Role: domain.RoleVolunteer})
	require.NoError(t, err)

	// Flip one character at every position; each mutation must fail as either
	// malformed or signature-invalid, never verify. The final character is
	// skipped: its low base64 bits are padding outside the signed bytes.
	for pos := 0; pos < len(raw)-1; pos++ {
		mutated := flipChar(raw, pos)
		if mutated == raw {
			continue
		}
		_, err := issuer.Verify(mutated)
		require.Error(t, err, "position %d", pos)
		require.True(t,
			err == token.ErrMalformed || err == token.ErrSignatureInvalid,
			"position %d: unexpected error %v", pos, err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := token.NewIssuer(testSecret, time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b", strings.Repeat("x", 100)} {
		_, err := issuer.Verify(raw)
		require.ErrorIs(t, err, token.ErrMalformed)
	}
}

func flipChar(s string, pos int) string {
	b := []byte(s)
	if b[pos] == 'A' {
		b[pos] = 'B'
	} else {
		b[pos] = 'A'
	}
	return string(b)
}
