package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// RoleHandler serves role management endpoints.
type RoleHandler struct {
	roles *usecase.RoleService
}

// NewRoleHandler builds a RoleHandler.
func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List godoc
// @Summary List all roles
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {array} RolePayload
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payloads := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payloads = append(payloads, newRolePayload(role))
	}

	c.JSON(http.StatusOK, payloads)
}

// Get godoc
// @Summary Fetch one role with its granted permissions
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Success 200 {object} RoleDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	result, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	response := RoleDetailResponse{
		RolePayload: newRolePayload(result.Role),
		Permissions: make([]PermissionPayload, 0, len(result.Permissions)),
	}
	for _, permission := range result.Permissions {
		response.Permissions = append(response.Permissions, newPermissionPayload(permission))
	}

	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary Create a new role
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body RoleCreateRequest true "Role create request"
// @Success 201 {object} RolePayload
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.Create(c.Request.Context(), usecase.CreateRoleInput{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRolePayload(*role))
}

// Update godoc
// @Summary Rename or describe a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Param request body RoleUpdateRequest true "Role update request"
// @Success 200 {object} RolePayload
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.roles.Update(c.Request.Context(), usecase.UpdateRoleInput{
		RoleID:      c.Param("id"),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRolePayload(*role))
}

// Delete godoc
// @Summary Delete a role not held by any user
// @Tags Roles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role deleted"})
}

// GrantPermissions godoc
// @Summary Grant permissions to a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Param request body PermissionIDsRequest true "Permission ids"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/roles/{id}/permissions [post]
func (h *RoleHandler) GrantPermissions(c *gin.Context) {
	var req PermissionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.roles.GrantPermissions(c.Request.Context(), c.Param("id"), req.PermissionIDs, actorID); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "permissions granted"})
}

// RevokePermissions godoc
// @Summary Revoke permissions from a role
// @Tags Roles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Role ID"
// @Param request body PermissionIDsRequest true "Permission ids"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/roles/{id}/permissions [delete]
func (h *RoleHandler) RevokePermissions(c *gin.Context) {
	var req PermissionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permission payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.roles.RevokePermissions(c.Request.Context(), c.Param("id"), req.PermissionIDs, actorID); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "permissions revoked"})
}
