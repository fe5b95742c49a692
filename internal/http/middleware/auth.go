package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voluntra/voluntra-auth/internal/token"
)

const claimsKey = "tokenClaims"

// Auth validates the Authorization header and attaches the token claims.
type Auth struct {
	Issuer *token.Issuer
}

// ValidateJWT ensures the request carries a valid, unexpired bearer token.
func (m *Auth) ValidateJWT(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return
	}

	claims, err := m.Issuer.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		desc := "Invalid access token."
		if errors.Is(err, token.ErrExpired) {
			desc = "Access token expired."
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": desc})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// GetClaims exposes the verified token claims to handlers.
func GetClaims(c *gin.Context) (token.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return token.Claims{}, false
	}
	claims, ok := value.(token.Claims)
	return claims, ok
}
