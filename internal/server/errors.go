package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	"github.com/costwatch/costwatch/internal/auth/token"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request body")
)

type messageResponse struct {
	Message string `json:"message"`
}

// ErrorHandlingMiddleware translates domain errors collected on the
// context into the HTTP contract: 404 for missing entities and
// referenced parents, 400 for malformed input, 401 for failed
// authentication, 409 for duplicates.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, messageResponse{Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, integrationdomain.ErrIntegrationNotFound):
		return http.StatusNotFound, "Integration does not exist"
	case errors.Is(err, alertdomain.ErrAlertNotFound):
		return http.StatusNotFound, "Alert not found"
	case errors.Is(err, usagedomain.ErrEntryNotFound):
		return http.StatusNotFound, "Usage entry not found"
	case errors.Is(err, userdomain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"

	case errors.Is(err, userdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"

	case errors.Is(err, userdomain.ErrUserExists):
		return http.StatusConflict, "User already exists"

	case isValidationError(err):
		return http.StatusBadRequest, err.Error()

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

var validationErrors = []error{
	ErrInvalidRequest,
	integrationdomain.ErrNameRequired,
	integrationdomain.ErrTypeRequired,
	integrationdomain.ErrTypeImmutable,
	usagedomain.ErrInvalidValue,
	usagedomain.ErrDateRequired,
	alertdomain.ErrInvalidThreshold,
	alertdomain.ErrInvalidType,
	alertdomain.ErrInvalidNotificationMethod,
	userdomain.ErrNameRequired,
	userdomain.ErrEmailRequired,
	userdomain.ErrInvalidEmail,
	userdomain.ErrPasswordRequired,
}

func isValidationError(err error) bool {
	for _, candidate := range validationErrors {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
