package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identify copies the actor id header into the request context so usecases
// can stamp audit fields without touching HTTP types.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(UserIDHeader); userID != "" {
			c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		}
		c.Next()
	}
}

// RequirePermission rejects the request unless the actor holds the given
// action on the module.
func RequirePermission(authz Authorizer, module string, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetUserID(c.Request.Context())
		if !authz.IsAuthorized(actor, module, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
