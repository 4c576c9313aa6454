package controllers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"amomaster/advisor"
	"amomaster/db"
	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

const maxMessageRunes = 2000

type MineCheckRequest struct {
	Input string `json:"input"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	advisor.Reply
	ProviderLabel string              `json:"provider_label"`
	Usage         advisor.UsageStatus `json:"usage"`
}

// POST /api/mine-check
func MineCheck(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	var req MineCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		RespondError(c, "input is required", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(input) > maxMessageRunes {
		RespondError(c, "input too long", http.StatusBadRequest)
		return
	}

	RespondSuccess(c, s.MineChecker.Check(c.Request.Context(), user.ID, input))
}

// POST /api/ai/chat answers with the advisor and counts against the daily quota.
func Chat(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conn, ok := requireDB(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		RespondError(c, "message is required", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		RespondError(c, "message too long", http.StatusBadRequest)
		return
	}

	usage, ok := consumeUsage(c, conn, s, user.ID)
	if !ok {
		return
	}

	settings, err := db.NewRecordStore(conn).Settings(c.Request.Context(), user.ID)
	if err != nil {
		s.Logger.Warn("load settings failed, chatting without nickname",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}

	reply := s.Advisor.SendMessage(c.Request.Context(), user.ID, message, settings.PartnerNickname)
	RespondSuccess(c, ChatResponse{
		Reply:         reply,
		ProviderLabel: reply.Provider.Label(),
		Usage:         usage,
	})
}

// GET /api/ai/usage
func GetAIUsage(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}
	RespondSuccess(c, s.Usage.Status(user))
}

// POST /api/ai/usage records one AI call.
func IncrementAIUsage(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conn, ok := requireDB(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	usage, ok := consumeUsage(c, conn, s, user.ID)
	if !ok {
		return
	}
	RespondSuccess(c, gin.H{"success": true, "usage": usage})
}

// consumeUsage applies the quota to the freshest user row inside a
// transaction and answers 429 when the limit is reached.
func consumeUsage(c *gin.Context, conn *gorm.DB, s *Services, userID int64) (advisor.UsageStatus, bool) {
	var (
		usage   advisor.UsageStatus
		limited bool
	)

	tx := conn.Begin()
	err := func() error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		var consumeErr error
		usage, consumeErr = s.Usage.Consume(&user)
		if errors.Is(consumeErr, advisor.ErrDailyLimitReached) {
			limited = true
			return consumeErr
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"ai_usage_count":   user.AIUsageCount,
			"ai_usage_date":    user.AIUsageDate,
			"trial_start_date": user.TrialStartDate,
		}).Error
	}()
	if err != nil {
		tx.Rollback()
		if limited {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":         "daily limit reached",
				"limit_reached": true,
				"usage":         usage,
			})
			return usage, false
		}
		RespondInternal(c, "update ai usage failed", err)
		return usage, false
	}
	if err := tx.Commit().Error; err != nil {
		RespondInternal(c, "update ai usage failed", err)
		return usage, false
	}
	return usage, true
}

// GET /api/ai/context?q= previews the context the advisor would receive.
func GetAIContext(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	ctx := c.Request.Context()
	records := s.Contexts.Search(ctx, user.ID, query)
	RespondSuccess(c, gin.H{
		"context": s.Contexts.Build(ctx, user.ID, query),
		"count":   len(records),
	})
}
