package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fritterhq/fritter-services/internal/sessions"
	"github.com/gin-gonic/gin"
)

// Actor is the authenticated user attached to the request context.
type Actor struct {
	UserID   string
	Username string
}

// Verifier is the minimal interface the middleware depends on for checking a
// bearer token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Actor, error)
}

const actorKey = "actor"

// GetActor returns the authenticated actor set by AuthMiddleware, if any.
func GetActor(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	var token string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
		return "", false
	}
	return token, true
}

// AuthMiddleware verifies the Bearer token, rejects blacklisted tokens, and
// attaches the Actor to the context. Unauthenticated requests are rejected
// with 403 before any store access happens.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you must be logged in to do that"})
			return
		}
		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && black {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token has been revoked"})
			return
		}
		actor, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the Actor when a valid token is present but
// lets anonymous requests through. Used by read endpoints that can scope to
// the caller when one is known.
func OptionalAuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if actor, err := ver.Verify(c.Request.Context(), token); err == nil {
				c.Set(actorKey, actor)
			}
		}
		c.Next()
	}
}
