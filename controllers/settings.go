package controllers

import (
	"net/http"
	"strings"

	"amomaster/db"
	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
)

type SettingsInput struct {
	PartnerName     *string `json:"partner_name"`
	PartnerNickname *string `json:"partner_nickname"`
	StartDate       *string `json:"start_date"`
}

// GET /api/settings
func GetSettings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conn, ok := requireDB(c)
	if !ok {
		return
	}

	settings, err := db.NewRecordStore(conn).Settings(c.Request.Context(), user.ID)
	if err != nil {
		RespondInternal(c, "load settings failed", err)
		return
	}
	RespondSuccess(c, gin.H{"settings": settings})
}

// PUT /api/settings creates the row on first write.
func UpdateSettings(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conn, ok := requireDB(c)
	if !ok {
		return
	}

	var in SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := db.NewRecordStore(conn).Settings(c.Request.Context(), user.ID)
	if err != nil {
		RespondInternal(c, "load settings failed", err)
		return
	}

	if in.PartnerName != nil {
		settings.PartnerName = strings.TrimSpace(*in.PartnerName)
		if settings.PartnerName == "" {
			settings.PartnerName = models.DefaultPartnerName
		}
	}
	if in.PartnerNickname != nil {
		settings.PartnerNickname = strings.TrimSpace(*in.PartnerNickname)
	}
	if in.StartDate != nil {
		date := strings.TrimSpace(*in.StartDate)
		if date != "" && !tools.ValidateDate(date) {
			RespondError(c, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		settings.StartDate = date
	}

	if err := conn.Save(&settings).Error; err != nil {
		RespondInternal(c, "save settings failed", err)
		return
	}
	RespondSuccess(c, gin.H{"settings": settings})
}
