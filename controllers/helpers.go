package controllers

import (
	"net/http"
	"strconv"
	"strings"

	dbpkg "amomaster/db"
	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// ParamRecordID reads a non-empty string id from the path.
func ParamRecordID(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		RespondError(c, name+" is required", http.StatusBadRequest)
		return "", false
	}
	return v, true
}

// QueryInt reads a positive integer query parameter, clamped to ceiling.
func QueryInt(c *gin.Context, key string, def, ceiling int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// requireDB fetches the connection or answers 500.
func requireDB(c *gin.Context) (*gorm.DB, bool) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "database not configured", http.StatusInternalServerError)
		return nil, false
	}
	return db, true
}

// requireUser fetches the authenticated user or answers 401.
func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return models.User{}, false
	}
	return user, true
}

// requireServices fetches the service bundle or answers 500.
func requireServices(c *gin.Context) (*Services, bool) {
	s := ServicesInstance(c)
	if s == nil {
		RespondError(c, "services not configured", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

// ownedBy scopes a query to the records of userID.
func ownedBy(db *gorm.DB, userID int64) *gorm.DB {
	return db.Where("user_id = ?", userID)
}
