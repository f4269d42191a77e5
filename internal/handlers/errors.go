package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workpulse/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrCodeMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrMalformedCode),
		errors.Is(err, service.ErrInvalidInvite):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRoleSwitchDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNoActiveChallenge),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInviteExpired):
		return http.StatusGone
	case errors.Is(err, service.ErrAlreadyAccepted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// renderError writes the stable error code. Unexpected errors are logged
// and reported as internal_error.
func (h HandlerSet) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": service.ErrorCode(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
}
