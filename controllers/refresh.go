package controllers

import (
	"fmt"
	"net/http"
	"time"

	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const refreshTokenBytes = 32

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a new token pair.
// Only the token hash is stored. Using a token revokes every active refresh
// token of the user, so a single session stays alive.
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		RespondError(c, "refresh_token is required", http.StatusBadRequest)
		return
	}

	db, ok := requireDB(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	now := time.Now()
	hash := tools.EncryptTextSHA512(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		RespondError(c, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	if !stored.Usable(now) {
		RespondError(c, "refresh token expired", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := db.First(&user, stored.UserID).Error; err != nil {
		RespondError(c, "user not found", http.StatusUnauthorized)
		return
	}
	if user.Status == models.USER_STATUS_BLOCKED {
		RespondError(c, "user blocked", http.StatusForbidden)
		return
	}

	if err := revokeAllUserRefreshTokens(db, stored.UserID, now); err != nil {
		RespondInternal(c, "revoke previous sessions failed", err)
		return
	}

	pair, err := issueTokenPair(db, s, user, now)
	if err != nil {
		RespondInternal(c, "issue tokens failed", err)
		return
	}
	RespondSuccess(c, pair)
}

// issueRefreshToken stores the hash of a new random token and returns the
// token itself.
func issueRefreshToken(db *gorm.DB, userID int64, now time.Time, ttlDays int) (string, error) {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	token, err := tools.RandomToken(refreshTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	exp := now.AddDate(0, 0, ttlDays)
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: tools.EncryptTextSHA512(token),
		ExpiresAt: &exp,
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

func revokeAllUserRefreshTokens(db *gorm.DB, userID int64, now time.Time) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}
