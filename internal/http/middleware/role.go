package middleware

import (
	"net/http"

	"beercatalog/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets principals holding one of allowedRoles through.
// Ownership is checked later by the services.
//
//	r.POST("/manufacturer", RequireRoles(auth.RoleAdmin), handler)
func RequireRoles(allowedRoles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p.IsAnonymous() {
			AbortWithError(c, http.StatusUnauthorized, "unauthenticated", "Authentication required")
			return
		}
		if !p.IsAdmin() && !p.HasAnyRole(allowedRoles...) {
			AbortWithError(c, http.StatusForbidden, "forbidden", "access denied")
			return
		}
		c.Next()
	}
}
