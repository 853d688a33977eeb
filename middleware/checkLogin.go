package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckLoginMiddleware aborts the request when no authenticated user
// was resolved by AuthMiddleware.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, exists := c.Get("UserID")
		if !exists {
			if _, invalid := c.Get("AuthInvalid"); invalid {
				c.JSON(http.StatusForbidden, gin.H{
					"message": "Invalid token!",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "No token, access denied.",
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
