package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voluntra/voluntra-auth/internal/domain"
	"github.com/voluntra/voluntra-auth/internal/http/middleware"
	"github.com/voluntra/voluntra-auth/internal/service"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerVolunteerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegisterVolunteer handles POST /auth/register/volunteer.
func (h *AuthHandler) RegisterVolunteer(c *gin.Context) {
	var req registerVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{"Invalid payload."})
		return
	}

	var problems []string
	problems = appendEmailProblems(problems, req.Email)
	problems = appendPasswordProblems(problems, req.Password)
	problems = appendNameProblems(problems, "firstName", req.FirstName, false)
	problems = appendNameProblems(problems, "lastName", req.LastName, false)
	if len(problems) > 0 {
		respondValidation(c, problems)
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Role:      domain.RoleVolunteer,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type registerOrganizationRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName"`
}

// RegisterOrganization handles POST /auth/register/organization.
func (h *AuthHandler) RegisterOrganization(c *gin.Context) {
	var req registerOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{"Invalid payload."})
		return
	}

	var problems []string
	problems = appendEmailProblems(problems, req.Email)
	problems = appendPasswordProblems(problems, req.Password)
	problems = appendOrganizationNameProblems(problems, req.OrganizationName)
	if len(problems) > 0 {
		respondValidation(c, problems)
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Role:             domain.RoleOrganization,
		Email:            req.Email,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{"Invalid payload."})
		return
	}

	var problems []string
	problems = appendEmailProblems(problems, req.Email)
	if req.Password == "" {
		problems = append(problems, "Password is required.")
	}
	if len(problems) > 0 {
		respondValidation(c, problems)
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me handles GET /auth/me for an authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing token claims."})
		return
	}

	summary, err := h.Auth.LookupByID(c.Request.Context(), claims.AccountID)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Lookup handles GET /accounts/:id.
func (h *AuthHandler) Lookup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Account id must be numeric."})
		return
	}

	summary, lookupErr := h.Auth.LookupByID(c.Request.Context(), id)
	if lookupErr != nil {
		respondAuthError(c, lookupErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /auth/password for an authenticated caller.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing token claims."})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, []string{"Invalid payload."})
		return
	}

	var problems []string
	if req.CurrentPassword == "" {
		problems = append(problems, "Current password is required.")
	}
	problems = appendPasswordProblems(problems, req.NewPassword)
	if len(problems) > 0 {
		respondValidation(c, problems)
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password_updated"})
}

func respondValidation(c *gin.Context, problems []string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "errors": problems})
}

func respondAuthError(c *gin.Context, err error) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		c.JSON(authErr.Status, gin.H{"error": authErr.Code, "error_description": authErr.Description})
		return
	}
	zap.L().Error("unexpected service failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
}
