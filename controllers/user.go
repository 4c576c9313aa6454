package controllers

import (
	"net/http"

	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func CheckUserExists(db *gorm.DB, email string) (bool, error) {
	var count int
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser registers an account and its default settings row.
func CreateUser(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	user := models.User{}
	if err := c.ShouldBind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	user.Email = tools.NormalizeEmail(user.Email)

	if missing := user.MissingFields(); missing != "" {
		RespondError(c, "missing or invalid field "+missing, http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "invalid email", http.StatusBadRequest)
		return
	}
	if user.Gender == "" {
		user.Gender = models.USER_GENDER_UNSPECIFIED
	}
	if !models.IsValidGender(user.Gender) {
		RespondError(c, "invalid gender", http.StatusBadRequest)
		return
	}
	if user.PartnerPronoun == "" {
		user.PartnerPronoun = models.PARTNER_PRONOUN_PARTNER
	}
	if !models.IsValidPartnerPronoun(user.PartnerPronoun) {
		RespondError(c, "invalid partner_pronoun", http.StatusBadRequest)
		return
	}

	exists, err := CheckUserExists(db, user.Email)
	if err != nil {
		RespondInternal(c, "check user failed", err)
		return
	} else if exists {
		RespondError(c, "user already exists", http.StatusConflict)
		return
	}

	hash, err := tools.HashPassword(user.Password)
	if err != nil {
		RespondInternal(c, "hash password failed", err)
		return
	}
	user.ID = 0
	user.Password = hash
	user.Admin = false
	user.IsPremium = false
	user.Status = models.USER_STATUS_AVAILABLE
	user.AIUsageCount = 0
	user.AIUsageDate = ""
	user.TrialStartDate = ""

	tx := db.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		RespondInternal(c, "create user failed", err)
		return
	}
	settings := models.Settings{UserID: user.ID, PartnerName: models.DefaultPartnerName}
	if err := tx.Create(&settings).Error; err != nil {
		tx.Rollback()
		RespondInternal(c, "create settings failed", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondInternal(c, "create user failed", err)
		return
	}

	user.Password = ""
	RespondCreated(c, user)
}
