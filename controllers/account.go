package controllers

import (
	"fmt"

	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// POST /api/account/delete removes the user and everything they own.
func DeleteAccount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	tx := db.Begin()
	if err := deleteUserData(tx, user.ID); err != nil {
		tx.Rollback()
		RespondInternal(c, "delete account failed", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondInternal(c, "delete account failed", err)
		return
	}

	if s := ServicesInstance(c); s != nil {
		s.Logger.Info("account deleted", zap.Int64("user_id", user.ID))
	}
	RespondSuccess(c, gin.H{"success": true})
}

func deleteUserData(tx *gorm.DB, userID int64) error {
	for _, m := range models.All() {
		column := "user_id"
		if _, isUser := m.(*models.User); isUser {
			column = "id"
		}
		if err := tx.Where(column+" = ?", userID).Delete(m).Error; err != nil {
			return fmt.Errorf("delete %T: %w", m, err)
		}
	}
	return nil
}
