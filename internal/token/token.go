package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"

	"github.com/voluntra/voluntra-auth/internal/domain"
)

// Verification failure kinds. Verify returns exactly one of these.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claims is the identity assertion embedded in an issued token. It is derived
// from one account at one instant and is never persisted.
type Claims struct {
	AccountID int64
	Role      domain.Role
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type customClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Issuer signs and validates identity tokens with a process-wide symmetric
// secret. The secret is injected once at construction; rotating it invalidates
// every outstanding token.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs a token issuer. ttl is the fixed expiry horizon applied
// to every token.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue produces a signed compact JWT asserting the account's identity and
// role.
func (i *Issuer) Issue(account domain.Account) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: i.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := i.now().UTC()
	std := gojwt.Claims{
		Subject:  strconv.FormatInt(account.ID, 10),
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(i.ttl)),
	}
	custom := customClaims{
		Role:  string(account.Role),
		Email: account.Email,
	}

	raw, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return raw, nil
}

// Verify checks the token's structure, signature, and expiry, and returns the
// embedded claims. It is pure: no store access, claims are trusted as signed.
func (i *Issuer) Verify(raw string) (Claims, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return Claims{}, ErrMalformed
	}

	var std gojwt.Claims
	var custom customClaims
	if err := parsed.Claims(i.secret, &std, &custom); err != nil {
		return Claims{}, ErrSignatureInvalid
	}

	if err := std.Validate(gojwt.Expected{Time: i.now().UTC()}); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}

	if std.IssuedAt == nil || std.Expiry == nil {
		return Claims{}, ErrMalformed
	}
	accountID, err := strconv.ParseInt(std.Subject, 10, 64)
	if err != nil {
		return Claims{}, ErrMalformed
	}
	role := domain.Role(custom.Role)
	if !role.Valid() {
		return Claims{}, ErrMalformed
	}

	return Claims{
		AccountID: accountID,
		Role:      role,
		Email:     custom.Email,
		IssuedAt:  std.IssuedAt.Time(),
		ExpiresAt: std.Expiry.Time(),
	}, nil
}
