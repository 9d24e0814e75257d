package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/usecase"
)

// RequirePermission gates a route behind a single permission key. It runs
// after RequireAuth; a missing identity is treated as unauthenticated rather
// than forbidden.
func RequirePermission(authz *usecase.AuthorizationService, permissionKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		allowed, err := authz.HasPermission(c.Request.Context(), userID, permissionKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "permission check failed"))
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}
