package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "plate-plan.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. AppErrors carry their own status and
// message; bare domain sentinels are mapped here; anything else becomes a
// generic 500 so internal detail never reaches the client.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	status, message := mapSentinel(err)
	c.JSON(status, gin.H{"error": message})
}

// ErrorWithStatus sends an error response with an explicit status and message
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func mapSentinel(err error) (int, string) {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return http.StatusConflict, "resource already exists"
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domainerrors.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domainerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domainerrors.ErrEmailNotVerified):
		return http.StatusForbidden, "email not verified"
	case errors.Is(err, domainerrors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return http.StatusBadRequest, "bad request"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
