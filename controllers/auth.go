package controllers

import (
	"net/http"
	"time"

	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken        string `json:"access_token"`
	AccessExpiresAt    int64  `json:"access_expires_at"`     // unix seconds
	AccessExpiresAtISO string `json:"access_expires_at_iso"` // RFC3339
	RefreshToken       string `json:"refresh_token"`
}

type LoginResponse struct {
	TokenPair
	User models.User `json:"user"`
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = tools.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email and password are required", http.StatusBadRequest)
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

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if !tools.CheckPasswordHash(user.Password, req.Password) {
		RespondError(c, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if user.Status == models.USER_STATUS_BLOCKED {
		RespondError(c, "user blocked", http.StatusForbidden)
		return
	}

	pair, err := issueTokenPair(db, s, user, time.Now())
	if err != nil {
		RespondInternal(c, "issue tokens failed", err)
		return
	}

	user.Password = ""
	RespondSuccess(c, LoginResponse{TokenPair: pair, User: user})
}

// issueTokenPair signs an access token and stores a fresh refresh token.
func issueTokenPair(db *gorm.DB, s *Services, user models.User, now time.Time) (TokenPair, error) {
	ttl := time.Duration(s.Config.Security.AccessTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	access, exp, err := signAccessToken(s.Config.Security.JwtSecret, user, now, ttl)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := issueRefreshToken(db, user.ID, now, s.Config.Security.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:        access,
		AccessExpiresAt:    exp.Unix(),
		AccessExpiresAtISO: exp.UTC().Format(time.RFC3339),
		RefreshToken:       refresh,
	}, nil
}
