package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"amomaster/db"
	"amomaster/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeGenerator) DiaryInsight(_ context.Context, content, mood string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, content)
	if f.fail[content] {
		return "", errors.New("model unavailable")
	}
	return "insight: " + content + "/" + mood, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func seedEntry(t *testing.T, conn *gorm.DB, id, content, status string) {
	t.Helper()
	require.NoError(t, conn.Create(&models.DiaryEntry{
		ID:            id,
		UserID:        1,
		Content:       content,
		Mood:          "happy",
		InsightStatus: status,
		CreatedAt:     time.Now(),
	}).Error)
}

func load(t *testing.T, conn *gorm.DB, id string) models.DiaryEntry {
	t.Helper()
	var e models.DiaryEntry
	require.NoError(t, conn.Where("id = ?", id).First(&e).Error)
	return e
}

func TestProcessPendingFillsInsights(t *testing.T) {
	conn := newTestDB(t)
	seedEntry(t, conn, "diary_1", "映画を観た", models.INSIGHT_STATUS_PENDING)
	seedEntry(t, conn, "diary_2", "散歩した", models.INSIGHT_STATUS_NONE)
	seedEntry(t, conn, "diary_3", "喧嘩した", models.INSIGHT_STATUS_PENDING)

	gen := &fakeGenerator{fail: map[string]bool{"喧嘩した": true}}
	p := NewDiaryProcessor(conn, gen, zap.NewNop(), time.Second, 10)

	assert.Equal(t, 2, p.ProcessPending(context.Background()))

	done := load(t, conn, "diary_1")
	assert.Equal(t, models.INSIGHT_STATUS_DONE, done.InsightStatus)
	assert.Equal(t, "insight: 映画を観た/happy", done.AIInsight)
	assert.NotNil(t, done.ProcessedAt)

	failed := load(t, conn, "diary_3")
	assert.Equal(t, models.INSIGHT_STATUS_FAILED, failed.InsightStatus)
	assert.Empty(t, failed.AIInsight)

	untouched := load(t, conn, "diary_2")
	assert.Equal(t, models.INSIGHT_STATUS_NONE, untouched.InsightStatus)
	assert.ElementsMatch(t, []string{"映画を観た", "喧嘩した"}, gen.calls)

	assert.Equal(t, 0, p.ProcessPending(context.Background()))
}

func TestProcessPendingSkipsClaimedEntries(t *testing.T) {
	conn := newTestDB(t)
	seedEntry(t, conn, "diary_1", "映画を観た", models.INSIGHT_STATUS_PROCESSING)

	gen := &fakeGenerator{}
	p := NewDiaryProcessor(conn, gen, zap.NewNop(), time.Second, 10)

	assert.Equal(t, 0, p.ProcessPending(context.Background()))
	assert.Empty(t, gen.calls)
}

func TestProcessPendingHonorsBatchSize(t *testing.T) {
	conn := newTestDB(t)
	for _, id := range []string{"diary_1", "diary_2", "diary_3"} {
		seedEntry(t, conn, id, id, models.INSIGHT_STATUS_PENDING)
	}

	p := NewDiaryProcessor(conn, &fakeGenerator{}, zap.NewNop(), time.Second, 2)

	assert.Equal(t, 2, p.ProcessPending(context.Background()))
	assert.Equal(t, 1, p.ProcessPending(context.Background()))
}
