package controllers

import (
	"net/http"
	"strings"
	"time"

	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
)

var feedbackTypes = map[string]struct{}{
	"bug":     {},
	"feature": {},
	"other":   {},
}

type FeedbackInput struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// POST /api/feedback
func CreateFeedback(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var in FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	fb := models.Feedback{
		Type:    strings.TrimSpace(in.Type),
		Content: strings.TrimSpace(in.Content),
	}
	if fb.Type == "" {
		fb.Type = "other"
	}
	if _, ok := feedbackTypes[fb.Type]; !ok {
		RespondError(c, "invalid type", http.StatusBadRequest)
		return
	}
	if fb.Content == "" {
		RespondError(c, "content is required", http.StatusBadRequest)
		return
	}

	fb.ID = tools.NewID("feedback")
	fb.UserID = user.ID
	fb.CreatedAt = time.Now()
	if err := db.Create(&fb).Error; err != nil {
		RespondInternal(c, "create feedback failed", err)
		return
	}
	RespondCreated(c, gin.H{"success": true})
}

// GET /api/admin/feedback?limit=100
func GetFeedback(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	items := []models.Feedback{}
	limit := QueryInt(c, "limit", 100, 1000)
	if err := db.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		RespondInternal(c, "load feedback failed", err)
		return
	}
	RespondSuccess(c, gin.H{"feedback": items})
}
