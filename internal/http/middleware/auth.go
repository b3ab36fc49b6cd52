// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication and role gating. The
// token service verifies self-contained session tokens; no directory or
// store lookup happens per request.
//
// Context keys:
//   - "identity": the verified domain.Identity
//   - "userID":   the identity's id, consumed by logging and rate limiting
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/auth"
	"github.com/campusmind/advising-backend/internal/domain"
)

const identityKey = "identity"

// BearerToken extracts the token from the Authorization header. A missing
// or non-Bearer header yields the empty string.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth returns middleware that rejects requests without a valid
// session token. On success the verified identity is stored in the Gin
// context for handlers and downstream middleware.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tokens.Verify(BearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "missing or invalid token",
			})
			return
		}
		c.Set(identityKey, id)
		c.Set("userID", id.ID)
		c.Next()
	}
}

// RequireRole returns middleware that rejects authenticated requests whose
// role does not reach the required level. It must run after RequireAuth.
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || !auth.CheckPermission(id, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "insufficient role",
			})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
