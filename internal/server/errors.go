package server

import (
	"errors"
	"net/http"

	affordabilitydomain "github.com/brickvale/homebuyer/internal/affordability/domain"
	landregistrydomain "github.com/brickvale/homebuyer/internal/landregistry/domain"
	mortgagedomain "github.com/brickvale/homebuyer/internal/mortgage/domain"
	stampdutydomain "github.com/brickvale/homebuyer/internal/stampduty/domain"
	"github.com/gin-gonic/gin"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

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

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "upstream feed unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, mortgagedomain.ErrInvalidPrice),
		errors.Is(err, mortgagedomain.ErrInvalidTerm),
		errors.Is(err, mortgagedomain.ErrInvalidLoan),
		errors.Is(err, stampdutydomain.ErrInvalidPrice),
		errors.Is(err, affordabilitydomain.ErrInvalidIncome),
		errors.Is(err, affordabilitydomain.ErrInvalidLoan),
		errors.Is(err, affordabilitydomain.ErrInvalidTerm),
		errors.Is(err, landregistrydomain.ErrNoSearchTerms):
		return true
	default:
		return false
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "", payload.Type
	}
}
