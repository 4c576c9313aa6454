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

type QuoteInput struct {
	Content *string   `json:"content"`
	Context *string   `json:"context"`
	Tags    *[]string `json:"tags"`
}

func (in QuoteInput) apply(q *models.Quote) {
	if in.Content != nil {
		q.Content = strings.TrimSpace(*in.Content)
	}
	if in.Context != nil {
		q.Context = strings.TrimSpace(*in.Context)
	}
	if in.Tags != nil {
		q.Tags = models.Tags(*in.Tags).Clean()
	}
}

// GET /api/quotes
func GetQuotes(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	quotes := []models.Quote{}
	if err := ownedBy(db, user.ID).Order("created_at desc").Find(&quotes).Error; err != nil {
		RespondInternal(c, "load quotes failed", err)
		return
	}
	RespondSuccess(c, gin.H{"quotes": quotes})
}

// POST /api/quotes
func CreateQuote(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var in QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	quote := models.Quote{Tags: models.Tags{}}
	in.apply(&quote)
	if quote.Content == "" {
		RespondError(c, "content is required", http.StatusBadRequest)
		return
	}
	quote.ID = tools.NewID("quote")
	quote.UserID = user.ID
	quote.CreatedAt = time.Now()

	if err := db.Create(&quote).Error; err != nil {
		RespondInternal(c, "create quote failed", err)
		return
	}
	RespondCreated(c, gin.H{"quote": quote})
}

// PUT /api/quotes/:id
func UpdateQuote(c *gin.Context) {
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

	var in QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var quote models.Quote
	err := ownedBy(db, user.ID).Where("id = ?", id).First(&quote).Error
	if gorm.IsRecordNotFoundError(err) {
		RespondError(c, "quote not found", http.StatusNotFound)
		return
	} else if err != nil {
		RespondInternal(c, "load quote failed", err)
		return
	}

	in.apply(&quote)
	if quote.Content == "" {
		RespondError(c, "content is required", http.StatusBadRequest)
		return
	}
	if err := db.Save(&quote).Error; err != nil {
		RespondInternal(c, "update quote failed", err)
		return
	}
	RespondSuccess(c, gin.H{"quote": quote})
}

// DELETE /api/quotes/:id
func DeleteQuote(c *gin.Context) {
	deleteOwned(c, &models.Quote{}, "quote")
}
