package controllers

import (
	"net/http"
	"strings"
	"time"

	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type PreferenceInput struct {
	Category *string   `json:"category"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Notes    *string   `json:"notes"`
}

// apply copies the set fields onto p.
func (in PreferenceInput) apply(p *models.Preference) {
	if in.Category != nil {
		p.Category = models.PreferenceCategory(strings.TrimSpace(*in.Category))
	}
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.Tags != nil {
		p.Tags = models.Tags(*in.Tags).Clean()
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
}

func validatePreference(c *gin.Context, p models.Preference) bool {
	if missing := p.MissingFields(); missing != "" {
		RespondError(c, missing+" is required", http.StatusBadRequest)
		return false
	}
	if !p.Category.Valid() {
		RespondError(c, "invalid category", http.StatusBadRequest)
		return false
	}
	return true
}

// GET /api/preferences?category=ng
func GetPreferences(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	q := ownedBy(db, user.ID)
	if category := c.Query("category"); category != "" {
		if !models.PreferenceCategory(category).Valid() {
			RespondError(c, "invalid category", http.StatusBadRequest)
			return
		}
		q = q.Where("category = ?", category)
	}

	prefs := []models.Preference{}
	if err := q.Order("created_at desc").Find(&prefs).Error; err != nil {
		RespondInternal(c, "load preferences failed", err)
		return
	}
	RespondSuccess(c, gin.H{"preferences": prefs})
}

// POST /api/preferences
func CreatePreference(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var in PreferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	pref := models.Preference{Tags: models.Tags{}}
	in.apply(&pref)
	if !validatePreference(c, pref) {
		return
	}
	pref.ID = tools.NewID("pref")
	pref.UserID = user.ID
	pref.CreatedAt = time.Now()

	if err := db.Create(&pref).Error; err != nil {
		RespondInternal(c, "create preference failed", err)
		return
	}
	RespondCreated(c, gin.H{"preference": pref})
}

// PUT /api/preferences/:id
func UpdatePreference(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := ParamRecordID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var in PreferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var pref models.Preference
	err := ownedBy(db, user.ID).Where("id = ?", id).First(&pref).Error
	if gorm.IsRecordNotFoundError(err) {
		RespondError(c, "preference not found", http.StatusNotFound)
		return
	} else if err != nil {
		RespondInternal(c, "load preference failed", err)
		return
	}

	in.apply(&pref)
	if !validatePreference(c, pref) {
		return
	}
	if err := db.Save(&pref).Error; err != nil {
		RespondInternal(c, "update preference failed", err)
		return
	}
	RespondSuccess(c, gin.H{"preference": pref})
}

// DELETE /api/preferences/:id
func DeletePreference(c *gin.Context) {
	deleteOwned(c, &models.Preference{}, "preference")
}

// deleteOwned removes the record :id of the logged user.
func deleteOwned(c *gin.Context, model any, name string) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := ParamRecordID(c, "id")
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	res := ownedBy(db, user.ID).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		RespondInternal(c, "delete "+name+" failed", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		RespondError(c, name+" not found", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"success": true})
}
