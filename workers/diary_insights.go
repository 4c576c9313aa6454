package workers

import (
	"context"
	"time"

	"amomaster/models"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDiaryInterval = 2 * time.Second
	defaultDiaryBatch    = 20
	insightTimeout       = 60 * time.Second
	insightConcurrency   = 4
)

// InsightGenerator writes the AI comment of a diary entry.
type InsightGenerator interface {
	DiaryInsight(ctx context.Context, content, mood string) (string, error)
}

// DiaryProcessor fills AI insights of diary entries queued as pending.
type DiaryProcessor struct {
	db       *gorm.DB
	gen      InsightGenerator
	logger   *zap.Logger
	interval time.Duration
	batch    int
}

func NewDiaryProcessor(db *gorm.DB, gen InsightGenerator, logger *zap.Logger, interval time.Duration, batch int) *DiaryProcessor {
	if interval <= 0 {
		interval = defaultDiaryInterval
	}
	if batch <= 0 {
		batch = defaultDiaryBatch
	}
	return &DiaryProcessor{
		db:       db,
		gen:      gen,
		logger:   logger.Named("diary-worker"),
		interval: interval,
		batch:    batch,
	}
}

// Start runs the processing loop until ctx is done.
func (p *DiaryProcessor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("stopped")
				return
			case <-ticker.C:
				p.ProcessPending(ctx)
			}
		}
	}()
}

// ProcessPending claims up to one batch of pending entries, generates their
// insights and returns how many it claimed.
func (p *DiaryProcessor) ProcessPending(ctx context.Context) int {
	var entries []models.DiaryEntry
	if err := p.db.
		Where("insight_status = ?", models.INSIGHT_STATUS_PENDING).
		Order("created_at asc").
		Limit(p.batch).
		Find(&entries).Error; err != nil {
		p.logger.Error("query pending entries failed", zap.Error(err))
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(insightConcurrency)

	claimed := 0
	for _, entry := range entries {
		// optimistic lock: only the worker that flips the status handles the entry
		res := p.db.Model(&models.DiaryEntry{}).
			Where("id = ? AND insight_status = ?", entry.ID, models.INSIGHT_STATUS_PENDING).
			Update("insight_status", models.INSIGHT_STATUS_PROCESSING)
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}
		claimed++

		entry := entry
		g.Go(func() error {
			p.handle(gctx, entry)
			return nil
		})
	}
	_ = g.Wait()
	return claimed
}

func (p *DiaryProcessor) handle(ctx context.Context, entry models.DiaryEntry) {
	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()

	now := time.Now()
	insight, err := p.gen.DiaryInsight(ctx, entry.Content, entry.Mood)
	if err != nil {
		p.logger.Warn("diary insight failed",
			zap.String("entry_id", entry.ID),
			zap.Int64("user_id", entry.UserID),
			zap.Error(err))
		p.finish(entry.ID, map[string]any{
			"insight_status": models.INSIGHT_STATUS_FAILED,
			"processed_at":   &now,
		})
		return
	}

	p.finish(entry.ID, map[string]any{
		"insight_status": models.INSIGHT_STATUS_DONE,
		"ai_insight":     insight,
		"processed_at":   &now,
	})
}

func (p *DiaryProcessor) finish(id string, updates map[string]any) {
	err := p.db.Model(&models.DiaryEntry{}).
		Where("id = ? AND insight_status = ?", id, models.INSIGHT_STATUS_PROCESSING).
		Updates(updates).Error
	if err != nil {
		p.logger.Error("store diary insight failed", zap.String("entry_id", id), zap.Error(err))
	}
}
