package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursecart/models"
	"coursecart/services"
	"coursecart/store"
)

const userKey = "authUser"

// AuthRequired verifies the bearer token, resolves it to a user record and
// attaches the record to the request context. Every failure mode gets the
// same response so callers cannot probe which part failed.
func AuthRequired(secret []byte, users store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		userID, err := services.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil on routes
// that skipped the middleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
