package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/session"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeNotFound             = "NOT_FOUND"
	CodeSessionEnded         = "SESSION_ENDED"
	CodeItemMismatch         = "ITEM_MISMATCH"
	CodeConcurrentSubmission = "CONCURRENT_SUBMISSION"
	CodeSessionActive        = "SESSION_ACTIVE"
	CodePersistence          = "PERSISTENCE_FAILURE"
	CodeInternal             = "INTERNAL"
)

// statusFor maps a domain error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, session.ErrSessionEnded):
		return http.StatusConflict, CodeSessionEnded
	case errors.Is(err, session.ErrItemMismatch):
		return http.StatusConflict, CodeItemMismatch
	case errors.Is(err, session.ErrConcurrentSubmission):
		return http.StatusConflict, CodeConcurrentSubmission
	case errors.Is(err, session.ErrSessionActive):
		return http.StatusConflict, CodeSessionActive
	case errs.IsPersistence(err):
		return http.StatusServiceUnavailable, CodePersistence
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		// Driver details stay in the logs.
		msg = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeInvalidRequest})
}
