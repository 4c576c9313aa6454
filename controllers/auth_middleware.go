package controllers

import (
	"errors"
	"net/http"
	"strings"

	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserKey = "auth_user"

// AuthRequired validates the Bearer token and loads the user from DB into context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "missing bearer token", http.StatusUnauthorized)
			c.Abort()
			return
		}

		s, ok := requireServices(c)
		if !ok {
			c.Abort()
			return
		}

		token := strings.TrimSpace(h[len("Bearer "):])
		userID, err := parseAccessToken(token, s.Config.Security.JwtSecret)
		if errors.Is(err, jwt.ErrTokenExpired) {
			RespondError(c, "token expired", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if err != nil {
			RespondError(c, "invalid token", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db, ok := requireDB(c)
		if !ok {
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			RespondError(c, "user not found", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
