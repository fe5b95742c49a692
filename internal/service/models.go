package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/voluntra/voluntra-auth/internal/domain"
)

// AuthError is the closed set of outcomes surfaced to callers. Raw collaborator
// errors never cross the service boundary.
type AuthError struct {
	Code        string
	Description string
	Status      int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newAuthError(code, desc string, status int) *AuthError {
	return &AuthError{Code: code, Description: desc, Status: status}
}

func errAlreadyExists() *AuthError {
	return newAuthError("already_exists", "An account with this email already exists.", http.StatusConflict)
}

// errInvalidCredentials is shared by the unknown-email and wrong-password
// paths so the two are indistinguishable to a caller.
func errInvalidCredentials() *AuthError {
	return newAuthError("invalid_credentials", "Invalid email or password.", http.StatusUnauthorized)
}

func errNotFound() *AuthError {
	return newAuthError("not_found", "Account not found.", http.StatusNotFound)
}

func errInvalidRequest(desc string) *AuthError {
	return newAuthError("invalid_request", desc, http.StatusBadRequest)
}

func errServer() *AuthError {
	return newAuthError("server_error", "Internal server error.", http.StatusInternalServerError)
}

// AccountSummary is the externally visible shape of an account. It never
// carries the password hash, and fields belonging to the other role are
// omitted rather than null.
type AccountSummary struct {
	ID               int64       `json:"id"`
	Email            string      `json:"email"`
	Role             domain.Role `json:"role"`
	FirstName        string      `json:"firstName,omitempty"`
	LastName         string      `json:"lastName,omitempty"`
	OrganizationName string      `json:"organizationName,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// NewAccountSummary projects an account into its external shape.
func NewAccountSummary(account domain.Account) AccountSummary {
	summary := AccountSummary{
		ID:        account.ID,
		Email:     account.Email,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
	}
	if account.Volunteer != nil {
		summary.FirstName = account.Volunteer.FirstName
		summary.LastName = account.Volunteer.LastName
	}
	if account.Organization != nil {
		summary.OrganizationName = account.Organization.Name
	}
	return summary
}

// AuthResult is returned by successful Register and Login calls.
type AuthResult struct {
	Account AccountSummary `json:"account"`
	Token   string         `json:"token"`
}
