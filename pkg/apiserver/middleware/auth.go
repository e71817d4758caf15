package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/auth"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
)

const principalKey = "principal"

// Auth validates the bearer token and stores the authenticated principal in
// the request context for handlers to consume.
func Auth(manager *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
			return
		}
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization"})
			return
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "empty token"})
			return
		}

		principal, err := manager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the authenticated principal set by Auth.
func Principal(c *gin.Context) (*auth.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient role"})
	}
}
