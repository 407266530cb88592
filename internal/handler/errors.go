package handler

import (
	"errors"
	"net/http"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusForError maps the service error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrOverDelivery),
		errors.Is(err, apperr.ErrOverIssue):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// operatorID pulls the authenticated user id the role middleware stored.
func operatorID(c *gin.Context) (string, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok && id != ""
}
