package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"webshop/jwt"
)

// AuthMiddleware resolves an optional bearer credential. A missing or
// invalid token is not an error here; the request simply continues
// unauthenticated and CheckLoginMiddleware decides per route.
func AuthMiddleware(db *gorm.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" || token == authHeader {
			c.Next()
			return
		}

		userID, isAdmin, err := jwt.VerifyToken(token, secret, db)
		if err != nil {
			log.Printf("token rejected: %v", err)
			// Remember that a credential was presented and failed, so
			// mandatory-auth routes can answer 403 instead of 401.
			c.Set("AuthInvalid", true)
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("IsAdmin", isAdmin)
		c.Next()
	}
}
