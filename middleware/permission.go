package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckAdminPermissionMiddleware aborts the request unless the
// authenticated user carries the admin flag.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("IsAdmin")
		if !exists || isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Admin permission required.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
