package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// RespondWithError translates a business failure into an HTTP response.
// Typed domain errors map by kind; anything else is reported as an
// internal fault without leaking detail.
func RespondWithError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		response := NewErrorResponse(c, de.Message)
		response.Code = de.Code
		c.JSON(statusForKind(de.Kind), response)
		return
	}

	c.Error(err) //nolint:errcheck
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
