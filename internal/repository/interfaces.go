package repository

import (
	"context"

	"github.com/voluntra/voluntra-auth/internal/domain"
)

// AccountRepository exposes persistence for identity records. Implementations
// map storage-level failures to the domain sentinel errors: a unique-index
// rejection on email becomes domain.ErrEmailTaken and absent rows become
// domain.ErrNotFound.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
