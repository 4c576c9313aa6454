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

const (
	defaultDiaryLimit = 50
	maxDiaryLimit     = 500
)

type DiaryInput struct {
	Content         *string `json:"content"`
	Mood            *string `json:"mood"`
	GenerateInsight bool    `json:"generate_insight"`
}

// GET /api/diary?limit=50
func GetDiaryEntries(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	limit := QueryInt(c, "limit", defaultDiaryLimit, maxDiaryLimit)
	entries := []models.DiaryEntry{}
	if err := ownedBy(db, user.ID).Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		RespondInternal(c, "load diary failed", err)
		return
	}
	RespondSuccess(c, gin.H{"entries": entries})
}

// POST /api/diary. With generate_insight the entry is queued for the
// diary worker, provided the model is configured.
func CreateDiaryEntry(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
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

	var in DiaryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	entry := models.DiaryEntry{}
	if in.Content != nil {
		entry.Content = strings.TrimSpace(*in.Content)
	}
	if in.Mood != nil {
		entry.Mood = strings.TrimSpace(*in.Mood)
	}
	if entry.Content == "" {
		RespondError(c, "content is required", http.StatusBadRequest)
		return
	}

	entry.ID = tools.NewID("diary")
	entry.UserID = user.ID
	entry.CreatedAt = time.Now()
	entry.InsightStatus = models.INSIGHT_STATUS_NONE
	if in.GenerateInsight && s.Advisor != nil && s.Advisor.Enabled() {
		entry.InsightStatus = models.INSIGHT_STATUS_PENDING
	}

	if err := db.Create(&entry).Error; err != nil {
		RespondInternal(c, "create diary entry failed", err)
		return
	}
	RespondCreated(c, gin.H{"entry": entry})
}

// PUT /api/diary/:id
func UpdateDiaryEntry(c *gin.Context) {
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

	var in DiaryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var entry models.DiaryEntry
	err := ownedBy(db, user.ID).Where("id = ?", id).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		RespondError(c, "diary entry not found", http.StatusNotFound)
		return
	} else if err != nil {
		RespondInternal(c, "load diary entry failed", err)
		return
	}

	if in.Content != nil {
		entry.Content = strings.TrimSpace(*in.Content)
	}
	if in.Mood != nil {
		entry.Mood = strings.TrimSpace(*in.Mood)
	}
	if entry.Content == "" {
		RespondError(c, "content is required", http.StatusBadRequest)
		return
	}
	if in.GenerateInsight {
		if s := ServicesInstance(c); s != nil && s.Advisor != nil && s.Advisor.Enabled() {
			entry.InsightStatus = models.INSIGHT_STATUS_PENDING
			entry.AIInsight = ""
		}
	}
	if err := db.Save(&entry).Error; err != nil {
		RespondInternal(c, "update diary entry failed", err)
		return
	}
	RespondSuccess(c, gin.H{"entry": entry})
}

// DELETE /api/diary/:id
func DeleteDiaryEntry(c *gin.Context) {
	deleteOwned(c, &models.DiaryEntry{}, "diary entry")
}
