package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voluntra/voluntra-auth/internal/domain"
)

// Compile-time interface assertion.
var _ AccountRepository = (*PostgresAccountRepo)(nil)

const uniqueViolationCode = "23505"

// PostgresAccountRepo implements AccountRepository on pgx. Emails are stored
// already normalized; the accounts_email_key unique index is the authority on
// duplicates.
type PostgresAccountRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAccountRepo(pool *pgxpool.Pool) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: pool}
}

const insertAccountSQL = `INSERT INTO accounts (id, email, password_hash, role, first_name, last_name, organization_name)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, email, password_hash, role, first_name, last_name, organization_name, created_at, updated_at`

func (r *PostgresAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	var firstName, lastName, orgName sql.NullString
	if account.Volunteer != nil {
		firstName = nullString(account.Volunteer.FirstName)
		lastName = nullString(account.Volunteer.LastName)
	}
	if account.Organization != nil {
		orgName = nullString(account.Organization.Name)
	}

	row := r.db.QueryRow(ctx, insertAccountSQL,
		account.ID,
		domain.NormalizeEmail(account.Email),
		account.PasswordHash,
		string(account.Role),
		firstName,
		lastName,
		orgName,
	)

	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.Account{}, domain.ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

const selectAccountSQL = `SELECT id, email, password_hash, role, first_name, last_name, organization_name, created_at, updated_at
FROM accounts`

func (r *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, selectAccountSQL+` WHERE email = $1`, domain.NormalizeEmail(email))
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	row := r.db.QueryRow(ctx, selectAccountSQL+` WHERE id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		account   domain.Account
		role      string
		firstName sql.NullString
		lastName  sql.NullString
		orgName   sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&firstName,
		&lastName,
		&orgName,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	account.Role = domain.Role(role)
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	switch account.Role {
	case domain.RoleVolunteer:
		account.Volunteer = &domain.VolunteerProfile{
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
	case domain.RoleOrganization:
		account.Organization = &domain.OrganizationProfile{Name: orgName.String}
	}
	return account, nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
