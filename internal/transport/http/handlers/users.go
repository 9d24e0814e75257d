package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// UserHandler serves administrative user management endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @Summary List all user accounts
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {array} UserPayload
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payloads := make([]UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, newUserPayload(user))
	}

	c.JSON(http.StatusOK, payloads)
}

// Get godoc
// @Summary Fetch one user with its roles
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "User ID"
// @Success 200 {object} UserPayload
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payload := newUserPayload(result.User)
	payload.Roles = make([]RolePayload, 0, len(result.Roles))
	for _, role := range result.Roles {
		payload.Roles = append(payload.Roles, newRolePayload(role))
	}

	c.JSON(http.StatusOK, payload)
}

// Create godoc
// @Summary Provision a user account with a temporary password
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body UserCreateRequest true "User create request"
// @Success 201 {object} UserPayload
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Register(c.Request.Context(), usecase.RegisterUserInput{
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserPayload(*user))
}

// Update godoc
// @Summary Update a user's profile, status, and role assignments
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "User ID"
// @Param request body UserUpdateRequest true "User update request"
// @Success 200 {object} UserPayload
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	input := usecase.UpdateUserInput{
		UserID:    c.Param("id"),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Status:    domain.UserStatus(req.Status),
	}
	if req.RoleIDs != nil {
		input.RoleIDs = *req.RoleIDs
		if input.RoleIDs == nil {
			input.RoleIDs = []string{}
		}
	}

	user, err := h.users.Update(c.Request.Context(), input)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserPayload(*user))
}

// AssignRoles godoc
// @Summary Replace a user's role assignments
// @Tags Users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "User ID"
// @Param request body AssignRolesRequest true "Role assignment request"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c *gin.Context) {
	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role assignment payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.users.AssignRoles(c.Request.Context(), c.Param("id"), req.RoleIDs, actorID); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "roles assigned"})
}
