// README: Role guard for privileged routes.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles ensures the caller's role is one of the allowed roles.
// Usage: group.Use(RequireRoles("admin"))
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		callerRole, _ := role.(string)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	}
}
