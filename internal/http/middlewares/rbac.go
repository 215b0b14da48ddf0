package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on a declarative allow-list of roles. With no
// roles configured any authenticated caller passes; otherwise the identity's
// role must be in the list. Runs after RequireAuth.
func (m *AuthMiddleware) RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "authentication_required",
					"message": "Missing identity context",
				},
			})
			return
		}

		if len(allowed) == 0 {
			c.Next()
			return
		}

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "forbidden",
				"message": "Role not permitted for this resource",
			},
		})
	}
}
