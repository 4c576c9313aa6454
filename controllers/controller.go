package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondInternal logs err and answers 500 without details.
func RespondInternal(c *gin.Context, msg string, err error) {
	if s := ServicesInstance(c); s != nil && s.Logger != nil {
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		}
		if user, ok := GetUserLogged(c); ok {
			fields = append(fields, zap.Int64("user_id", user.ID))
		}
		s.Logger.Error(msg, fields...)
	}
	RespondError(c, msg, http.StatusInternalServerError)
}
