// Authentication HTTP handlers.
//
// This file exposes the session endpoints:
//   - POST /auth/login    (password authentication, mock mode only)
//   - POST /auth/verify   (validate a bearer token, echo the identity)
//   - POST /auth/refresh  (exchange a valid token for a fresh one)
//
// Handlers are transport-thin: they validate input, call the directory and
// token service, and translate results into HTTP responses.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/domain"
	"github.com/campusmind/advising-backend/internal/http/middleware"
)

// LoginRequest is the JSON payload for password authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"student001@st.example-u.ac.jp"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries a fresh session token and the authenticated identity.
type LoginResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    domain.Identity `json:"user"`
}

// VerifyResponse reports the outcome of a token check.
type VerifyResponse struct {
	Valid bool             `json:"valid"`
	User  *domain.Identity `json:"user,omitempty"`
}

// RefreshResponse carries the renewed session token.
type RefreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login godoc
// @ID          login
// @Summary     Authenticate with email and password
// @Description Checks the credentials against the user directory and issues a session token. Available in mock mode only; live deployments authenticate upstream.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Authentication failed"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	id, authed := h.directory.Authenticate(req.Email, req.Password)
	if !authed {
		fail(c, http.StatusUnauthorized, ErrCodeLoginFailed, "authentication failed")
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}
	ok(c, http.StatusOK, LoginResponse{Success: true, Token: token, User: id})
}

// Verify godoc
// @ID          verifyToken
// @Summary     Verify a session token
// @Description Validates the bearer token and returns the embedded identity.
// @Tags        Auth
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  handlers.VerifyResponse
// @Failure     401  {object}  handlers.VerifyResponse  "Invalid token"
// @Router      /auth/verify [post]
func (h *Handlers) Verify(c *gin.Context) {
	id, err := h.tokens.Verify(middleware.BearerToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, VerifyResponse{Valid: false})
		return
	}
	ok(c, http.StatusOK, VerifyResponse{Valid: true, User: &id})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Refresh a session token
// @Description Exchanges a still-valid bearer token for a fresh one with a renewed validity window.
// @Tags        Auth
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  handlers.RefreshResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid token"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	token, err := h.tokens.Refresh(middleware.BearerToken(c))
	if err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid token")
		return
	}
	ok(c, http.StatusOK, RefreshResponse{Success: true, Token: token})
}
