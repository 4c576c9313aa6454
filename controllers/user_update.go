package controllers

import (
	"net/http"
	"strings"

	"amomaster/models"

	"github.com/gin-gonic/gin"
)

// Profile is the self-description used to tailor advice.
type Profile struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	GenderCustom   string `json:"gender_custom"`
	PartnerPronoun string `json:"partner_pronoun"`
}

func profileOf(u models.User) Profile {
	return Profile{
		Name:           u.Name,
		Gender:         u.Gender,
		GenderCustom:   u.GenderCustom,
		PartnerPronoun: u.PartnerPronoun,
	}
}

// GET /api/me/profile
func GetProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	RespondSuccess(c, gin.H{"profile": profileOf(user)})
}

// UpdateProfile updates the logged user ("me").
// Route: PUT /api/me/profile
//
// Only profile fields are accepted; every other key is ignored.
func UpdateProfile(c *gin.Context) {
	logged, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	allowed := map[string]struct{}{
		"name":            {},
		"gender":          {},
		"gender_custom":   {},
		"partner_pronoun": {},
	}
	updates := map[string]any{}
	for k, v := range payload {
		key := strings.ToLower(k)
		if _, isAllowed := allowed[key]; !isAllowed {
			continue
		}
		str, isString := v.(string)
		if !isString {
			RespondError(c, key+" must be a string", http.StatusBadRequest)
			return
		}
		updates[key] = strings.TrimSpace(str)
	}

	if g, set := updates["gender"]; set && !models.IsValidGender(g.(string)) {
		RespondError(c, "invalid gender", http.StatusBadRequest)
		return
	}
	if p, set := updates["partner_pronoun"]; set && !models.IsValidPartnerPronoun(p.(string)) {
		RespondError(c, "invalid partner_pronoun", http.StatusBadRequest)
		return
	}

	if len(updates) == 0 {
		RespondSuccess(c, gin.H{"profile": profileOf(logged)})
		return
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", logged.ID).
		Updates(updates).Error; err != nil {
		RespondInternal(c, "update profile failed", err)
		return
	}

	var updated models.User
	if err := db.Where("id = ?", logged.ID).First(&updated).Error; err != nil {
		RespondInternal(c, "load user failed", err)
		return
	}
	RespondSuccess(c, gin.H{"profile": profileOf(updated)})
}
