package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/atelier/internal/pkg/auth"
)

const (
	// ActorIDContextKey is a gin context key for the authenticated actor id.
	ActorIDContextKey = "actorID"
	// ActorRoleContextKey is a gin context key for the authenticated actor role.
	ActorRoleContextKey = "actorRole"
)

// AuthRequired verifies the bearer token issued by the identity collaborator
// and stores actor claims on the request context.
func AuthRequired(strategy pkgAuth.TokenStrategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := strategy.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ActorIDContextKey, claims.ActorID)
		c.Set(ActorRoleContextKey, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route group to one actor role.
func RequireRole(role pkgAuth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(ActorRoleContextKey)
		if !ok || val.(pkgAuth.Role) != role {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
