package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth verifies the bearer token and stashes the caller's identity on
// the context. It never touches the store: a token stays good for its full
// lifetime even if the user changed server-side after issuance.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "authentication_required",
					"message": "Missing or invalid Authorization header",
				},
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "authentication_required",
					"message": "Missing bearer token",
				},
			})
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "invalid_token",
					"message": "Invalid or expired token",
				},
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxRoleKey, claims.Role)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
