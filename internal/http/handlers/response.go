// Package handlers wires the advising API's HTTP endpoints: login and token
// verification, the chat turn itself, per-student history, the competency
// catalog, and the faculty export and stats operations. Every handler answers
// through the small set of response helpers in this file so clients see one
// envelope shape regardless of which endpoint failed.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope every endpoint returns on failure.
// Code is a stable machine-readable string from errors.go; Message is safe
// to surface in the client UI. RequestID echoes X-Request-ID so a student's
// error report can be matched against server logs.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"resource not found"`
}

// fail aborts the request with an ErrorResponse at the given status and logs
// 5xx failures through the request-scoped logger before the abort.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail exposes fail to the router for NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as the JSON success response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent answers 204 for operations that succeed with nothing to return.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
