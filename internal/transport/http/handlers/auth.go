package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// AuthHandler serves login and self-service account endpoints.
type AuthHandler struct {
	auth  *usecase.AuthService
	users *usecase.UserService
	authz *usecase.AuthorizationService
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, users *usecase.UserService, authz *usecase.AuthorizationService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, authz: authz}
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        newUserPayload(result.User),
	})
}

// Me godoc
// @Summary Return the authenticated account with roles and permissions
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} UserPayload
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	result, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payload := newUserPayload(result.User)
	payload.Roles = make([]RolePayload, 0, len(result.Roles))
	for _, role := range result.Roles {
		payload.Roles = append(payload.Roles, newRolePayload(role))
	}

	permissions, err := h.authz.ResolveEffectivePermissions(c.Request.Context(), userID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	keys := make([]string, 0, len(permissions))
	for key := range permissions {
		keys = append(keys, key)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        payload,
		"permissions": keys,
	})
}

// ChangePassword godoc
// @Summary Change the authenticated account's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body ChangePasswordRequest true "Password change request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), usecase.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     strings.TrimSpace(req.NewPassword),
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// CompleteWizard godoc
// @Summary Mark the first-login wizard as completed
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/wizard/complete [post]
func (h *AuthHandler) CompleteWizard(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.users.CompleteWizard(c.Request.Context(), userID); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "wizard completed"})
}
