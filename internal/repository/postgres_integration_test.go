//go:build integration

package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/voluntra/voluntra-auth/internal/domain"
	"github.com/voluntra/voluntra-auth/internal/migrations"
	"github.com/voluntra/voluntra-auth/internal/repository"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL must be set for integration tests")
	}

	ctx := context.Background()
	require.NoError(t, migrations.Run(ctx, dbURL))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM accounts`)
		pool.Close()
	})

	return pool
}

func newAccount(t *testing.T, node *snowflake.Node, email string) domain.Account {
	t.Helper()
	return domain.Account{
		ID:           node.Generate().Int64(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		Role:         domain.RoleVolunteer,
		Volunteer:    &domain.VolunteerProfile{FirstName: "Test"},
	}
}

func TestCreateAndLookup(t *testing.T) {
	pool := setupDB(t)
	repo := repository.NewPostgresAccountRepo(pool)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount(t, node, "  Volunteer@Example.COM "))
	require.NoError(t, err)
	require.Equal(t, "volunteer@example.com", created.Email)
	require.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "VOLUNTEER@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, byID.Email)
	require.NotNil(t, byID.Volunteer)
	require.Nil(t, byID.Organization)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	pool := setupDB(t)
	repo := repository.NewPostgresAccountRepo(pool)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Create(ctx, newAccount(t, node, "dup@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount(t, node, "DUP@example.com "))
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateConcurrentSameEmail(t *testing.T) {
	pool := setupDB(t)
	repo := repository.NewPostgresAccountRepo(pool)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newAccount(t, node, "race@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, domain.ErrEmailTaken)
			duplicates++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, attempts-1, duplicates)
}

func TestUpdatePassword(t *testing.T) {
	pool := setupDB(t)
	repo := repository.NewPostgresAccountRepo(pool)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount(t, node, "update@example.com"))
	require.NoError(t, err)

	const newHash = "$argon2id$v=19$m=65536,t=3,p=2$bmV3c2FsdG5ld3NhbHQ$bmV3aGFzaG5ld2hhc2huZXdoYXNobmV3aGFzaA"
	require.NoError(t, repo.UpdatePassword(ctx, created.ID, newHash))

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, newHash, updated.PasswordHash)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	require.ErrorIs(t, repo.UpdatePassword(ctx, created.ID+1, newHash), domain.ErrNotFound)
}
