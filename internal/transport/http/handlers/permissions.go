package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/usecase"
)

// PermissionHandler serves read access to the permission catalogue.
type PermissionHandler struct {
	permissions *usecase.PermissionService
}

// NewPermissionHandler builds a PermissionHandler.
func NewPermissionHandler(permissions *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

// List godoc
// @Summary List the permission catalogue grouped by category
// @Tags Permissions
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {array} PermissionGroupPayload
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/permissions [get]
func (h *PermissionHandler) List(c *gin.Context) {
	groups, err := h.permissions.ListGrouped(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payloads := make([]PermissionGroupPayload, 0, len(groups))
	for _, group := range groups {
		payload := PermissionGroupPayload{
			Category:    group.Category,
			Permissions: make([]PermissionPayload, 0, len(group.Permissions)),
		}
		for _, permission := range group.Permissions {
			payload.Permissions = append(payload.Permissions, newPermissionPayload(permission))
		}
		payloads = append(payloads, payload)
	}

	c.JSON(http.StatusOK, payloads)
}
