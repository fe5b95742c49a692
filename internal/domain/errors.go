package domain

import "errors"

var (
	// ErrEmailTaken is returned when the unique index on normalized email
	// rejects a write. The index is the single authority for duplicates.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound is returned for lookups and updates on absent accounts.
	ErrNotFound = errors.New("account not found")

	ErrInvalidRole              = errors.New("invalid account role")
	ErrOrganizationNameRequired = errors.New("organization name is required")
	ErrProfileMismatch          = errors.New("profile does not match account role")
)
