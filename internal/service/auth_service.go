package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/voluntra/voluntra-auth/internal/domain"
	pw "github.com/voluntra/voluntra-auth/internal/password"
	"github.com/voluntra/voluntra-auth/internal/repository"
	"github.com/voluntra/voluntra-auth/internal/token"
)

// AuthService sequences the credential store and token issuer into the
// user-facing operations. Every call is independent; failures are terminal and
// never retried here.
type AuthService struct {
	accounts  repository.AccountRepository
	issuer    *token.Issuer
	snowflake *snowflake.Node
	logger    *zap.Logger
	tracer    trace.Tracer

	// decoyHash is verified against when login hits an unknown email, so
	// that path pays the same argon2id cost as a wrong password.
	decoyHash string
}

// NewAuthService wires dependencies.
func NewAuthService(accounts repository.AccountRepository, issuer *token.Issuer, node *snowflake.Node, logger *zap.Logger) (*AuthService, error) {
	decoy, err := pw.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare decoy hash: %w", err)
	}
	return &AuthService{
		accounts:  accounts,
		issuer:    issuer,
		snowflake: node,
		logger:    logger,
		tracer:    otel.Tracer("github.com/voluntra/voluntra-auth/internal/service"),
		decoyHash: decoy,
	}, nil
}

// RegisterInput carries the already-validated primitive values for a
// registration.
type RegisterInput struct {
	Role             domain.Role
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

// Register creates a new account and issues a token for it. A duplicate email
// yields already_exists whether it is caught by the fast-path lookup or by the
// store's unique constraint; the constraint is the real guard.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	account := domain.Account{
		Email: domain.NormalizeEmail(input.Email),
		Role:  input.Role,
	}
	switch input.Role {
	case domain.RoleVolunteer:
		account.Volunteer = &domain.VolunteerProfile{
			FirstName: input.FirstName,
			LastName:  input.LastName,
		}
	case domain.RoleOrganization:
		account.Organization = &domain.OrganizationProfile{Name: input.OrganizationName}
	}

	if account.Email == "" {
		return AuthResult{}, errInvalidRequest("Email is required.")
	}
	if input.Password == "" {
		return AuthResult{}, errInvalidRequest("Password is required.")
	}
	if err := account.Validate(); err != nil {
		return AuthResult{}, errInvalidRequest(err.Error())
	}

	// Fast path only; the unique index decides races.
	if _, err := s.accounts.GetByEmail(ctx, account.Email); err == nil {
		return AuthResult{}, errAlreadyExists()
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		s.log().Error("register lookup failed", zap.Error(err))
		return AuthResult{}, errServer()
	}

	// Hash before the insert attempt so the write's timing does not reveal
	// whether the email existed.
	hashed, err := pw.Hash(input.Password)
	if err != nil {
		span.RecordError(err)
		s.log().Error("register hash failed", zap.Error(err))
		return AuthResult{}, errServer()
	}
	account.PasswordHash = hashed
	account.ID = s.snowflake.Generate().Int64()

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return AuthResult{}, errAlreadyExists()
		}
		span.RecordError(err)
		s.log().Error("register create failed", zap.Error(err))
		return AuthResult{}, errServer()
	}

	signed, err := s.issuer.Issue(created)
	if err != nil {
		span.RecordError(err)
		s.log().Error("register issue token failed", zap.Error(err))
		return AuthResult{}, errServer()
	}

	s.audit("register.success", "account_id", created.ID, "role", created.Role)
	return AuthResult{Account: NewAccountSummary(created), Token: signed}, nil
}

// Login verifies the password for the account bound to email and issues a
// token. Unknown email and wrong password return the same result.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_, _ = pw.Verify(password, s.decoyHash)
			return AuthResult{}, errInvalidCredentials()
		}
		span.RecordError(err)
		s.log().Error("login lookup failed", zap.Error(err))
		return AuthResult{}, errServer()
	}

	ok, err := pw.Verify(password, account.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, errInvalidCredentials()
	}

	signed, err := s.issuer.Issue(account)
	if err != nil {
		span.RecordError(err)
		s.log().Error("login issue token failed", zap.Error(err))
		return AuthResult{}, errServer()
	}

	s.audit("login.success", "account_id", account.ID, "role", account.Role)
	return AuthResult{Account: NewAccountSummary(account), Token: signed}, nil
}

// LookupByID returns the account summary for id.
func (s *AuthService) LookupByID(ctx context.Context, id int64) (AccountSummary, error) {
	ctx, span := s.startSpan(ctx, "AuthService.LookupByID")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AccountSummary{}, errNotFound()
		}
		span.RecordError(err)
		s.log().Error("lookup failed", zap.Error(err))
		return AccountSummary{}, errServer()
	}
	return NewAccountSummary(account), nil
}

// ChangePassword re-hashes and replaces the secret after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	ctx, span := s.startSpan(ctx, "AuthService.ChangePassword")
	defer span.End()

	if next == "" {
		return errInvalidRequest("New password is required.")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound()
		}
		span.RecordError(err)
		s.log().Error("change password lookup failed", zap.Error(err))
		return errServer()
	}

	ok, err := pw.Verify(current, account.PasswordHash)
	if err != nil || !ok {
		return errInvalidCredentials()
	}

	hashed, err := pw.Hash(next)
	if err != nil {
		span.RecordError(err)
		s.log().Error("change password hash failed", zap.Error(err))
		return errServer()
	}

	if err := s.accounts.UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound()
		}
		span.RecordError(err)
		s.log().Error("change password update failed", zap.Error(err))
		return errServer()
	}

	s.audit("password.change.success", "account_id", id)
	return nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
