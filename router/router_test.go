package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"amomaster/advisor"
	"amomaster/config"
	"amomaster/controllers"
	"amomaster/db"
	"amomaster/matching"
	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { conn.Close() })

	var cfg config.Configuration
	cfg.AllowedOrigins = "*"
	cfg.Security.JwtSecret = "test-secret"
	cfg.Security.AccessTTLMinutes = 60
	cfg.Security.RefreshTTLDays = 30
	cfg.AI.RatePerSecond = 1000
	cfg.AI.RateBurst = 1000

	logger := zap.NewNop()
	store := db.NewRecordStore(conn)
	contexts := matching.NewContextBuilder(store, logger, matching.WithLocation(time.UTC))
	services := &controllers.Services{
		Config:      cfg,
		Logger:      logger,
		MineChecker: matching.NewMineChecker(store, logger),
		Contexts:    contexts,
		Advisor:     advisor.NewService(contexts, nil, logger, advisor.Options{}),
		Usage:       advisor.NewUsagePolicy(3, 30, time.UTC),
		Location:    time.UTC,
	}

	r := gin.New()
	Initialize(r, conn, services)
	return &testServer{t: t, engine: r, db: conn}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// signup registers and logs in, returning the access and refresh tokens.
func (s *testServer) signup(email string) (string, string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/users", "", map[string]any{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w, body := s.do(http.MethodPost, "/api/login", "", map[string]any{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return body["access_token"].(string), body["refresh_token"].(string)
}

func (s *testServer) userID(email string) int64 {
	var u models.User
	require.NoError(s.t, s.db.Where("email = ?", email).First(&u).Error)
	return u.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	access, refresh := s.signup("taro@example.jp")

	w, body := s.do(http.MethodGet, "/api/me", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "taro@example.jp", user["email"])
	assert.NotContains(t, user, "password")

	w, _ = s.do(http.MethodPost, "/api/users", "", map[string]any{"email": "taro@example.jp", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/login", "", map[string]any{"email": "taro@example.jp", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = s.do(http.MethodPost, "/api/refresh", "", map[string]any{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["access_token"])

	// rotated: the old refresh token is revoked
	w, _ = s.do(http.MethodPost, "/api/refresh", "", map[string]any{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodPost, "/api/users", "", map[string]any{"email": "a@example.jp", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/users", "", map[string]any{"email": "not-an-email", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlockedUserIsRejected(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("blocked@example.jp")
	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "blocked@example.jp").
		Update("status", models.USER_STATUS_BLOCKED).Error)

	w, _ := s.do(http.MethodGet, "/api/preferences", access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPreferencesAreIsolatedPerUser(t *testing.T) {
	s := newTestServer(t)
	alice, _ := s.signup("alice@example.jp")
	bob, _ := s.signup("bob@example.jp")

	w, body := s.do(http.MethodPost, "/api/preferences", alice, map[string]any{
		"category": "ng",
		"content":  "香水",
		"tags":     []string{"#匂い", " "},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pref := body["preference"].(map[string]any)
	id := pref["id"].(string)
	assert.Equal(t, []any{"匂い"}, pref["tags"])

	w, body = s.do(http.MethodGet, "/api/preferences", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["preferences"])

	w, _ = s.do(http.MethodDelete, "/api/preferences/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPut, "/api/preferences/"+id, bob, map[string]any{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(http.MethodPut, "/api/preferences/"+id, alice, map[string]any{"content": "強い香水"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "強い香水", body["preference"].(map[string]any)["content"])

	w, body = s.do(http.MethodGet, "/api/preferences?category=ng", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["preferences"], 1)

	w, _ = s.do(http.MethodDelete, "/api/preferences/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPreferenceValidation(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, _ := s.do(http.MethodPost, "/api/preferences", access, map[string]any{"category": "quote", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/preferences", access, map[string]any{"category": "like"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMineCheckEndpoint(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, body := s.do(http.MethodPost, "/api/mine-check", access, map[string]any{"input": "香水"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "safe", body["risk_level"])
	assert.Equal(t, []any{}, body["matched_ngs"])

	w, _ = s.do(http.MethodPost, "/api/preferences", access, map[string]any{"category": "ng", "content": "香水をもらうのは苦手"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = s.do(http.MethodPost, "/api/mine-check", access, map[string]any{"input": "香水をプレゼントしようと思ってる"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warning", body["risk_level"])
	assert.Equal(t, float64(40), body["risk_score"])
	assert.Equal(t, matching.AdviceWarning, body["advice"])

	w, _ = s.do(http.MethodPost, "/api/mine-check", access, map[string]any{"input": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatFallsBackToMockAndCountsUsage(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, body := s.do(http.MethodPost, "/api/ai/chat", access, map[string]any{"message": "記念日どうしよう"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "mock", body["provider"])
	assert.NotEmpty(t, body["response"])
	usage := body["usage"].(map[string]any)
	assert.Equal(t, float64(-1), usage["remaining_count"])
	assert.Equal(t, true, usage["in_trial"])

	w, _ = s.do(http.MethodPost, "/api/ai/chat", access, map[string]any{"message": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatDailyLimit(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", s.userID("taro@example.jp")).
		Update("trial_start_date", "2020-01-01").Error)

	for i := 0; i < 3; i++ {
		w, _ := s.do(http.MethodPost, "/api/ai/chat", access, map[string]any{"message": "デートの相談"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := s.do(http.MethodPost, "/api/ai/chat", access, map[string]any{"message": "デートの相談"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, true, body["limit_reached"])

	w, body = s.do(http.MethodGet, "/api/ai/usage", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["remaining_count"])
	assert.Equal(t, false, body["can_use"])
}

func TestAIContextPreview(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, _ := s.do(http.MethodPut, "/api/settings", access, map[string]any{"partner_name": "みさき"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/quotes", access, map[string]any{"content": "また水族館に行きたい", "context": "帰り道"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(http.MethodGet, "/api/ai/context?q="+url.QueryEscape("水族館"), access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ctx := body["context"].(string)
	assert.Contains(t, ctx, "パートナー名: みさき\n")
	assert.Contains(t, ctx, `[言葉] "また水族館に行きたい" (帰り道)`)
	assert.Equal(t, float64(1), body["count"])
}

func TestUpcomingEvents(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	today := time.Now().UTC()
	w, _ := s.do(http.MethodPost, "/api/events", access, map[string]any{
		"type":  "anniversary",
		"title": "記念日",
		"date":  today.AddDate(0, 0, 1).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.do(http.MethodPost, "/api/events", access, map[string]any{
		"type":  "date",
		"title": "旅行",
		"date":  today.AddDate(0, 2, 0).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, "/api/events", access, map[string]any{"type": "party", "title": "x", "date": "2026-01-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := s.do(http.MethodGet, "/api/events/upcoming", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := body["events"].([]any)
	require.Len(t, events, 1)
	first := events[0].(map[string]any)
	assert.Equal(t, float64(1), first["days_until"])
	assert.Equal(t, advisor.EventWarning("記念日", 1), first["warning"])
}

func TestDataExportAndAccountDeletion(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")
	id := s.userID("taro@example.jp")

	s.do(http.MethodPost, "/api/preferences", access, map[string]any{"category": "food", "content": "寿司"})
	s.do(http.MethodPost, "/api/diary", access, map[string]any{"content": "楽しかった", "generate_insight": true})
	s.do(http.MethodPost, "/api/feedback", access, map[string]any{"type": "bug", "content": "表示が崩れる"})

	w, body := s.do(http.MethodGet, "/api/data", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["preferences"], 1)
	diary := body["diary"].([]any)
	require.Len(t, diary, 1)
	// no model configured: nothing is queued
	assert.NotContains(t, diary[0].(map[string]any), "insight_status")
	assert.Equal(t, models.DefaultPartnerName, body["settings"].(map[string]any)["partner_name"])

	w, _ = s.do(http.MethodPost, "/api/account/delete", access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, m := range []any{&models.Preference{}, &models.DiaryEntry{}, &models.Feedback{}, &models.Settings{}, &models.RefreshToken{}} {
		var count int
		require.NoError(t, s.db.Model(m).Where("user_id = ?", id).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}

	w, _ = s.do(http.MethodGet, "/api/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, _ := s.do(http.MethodGet, "/api/admin/feedback", access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", s.userID("taro@example.jp")).
		Update("admin", true).Error)
	s.do(http.MethodPost, "/api/feedback", access, map[string]any{"content": "ありがとう"})

	w, body := s.do(http.MethodGet, "/api/admin/feedback", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["feedback"], 1)
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.signup("taro@example.jp")

	w, body := s.do(http.MethodPut, "/api/me/profile", access, map[string]any{
		"name":            "太郎",
		"partner_pronoun": "she",
		"admin":           true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "太郎", profile["name"])
	assert.Equal(t, "she", profile["partner_pronoun"])

	var u models.User
	require.NoError(t, s.db.First(&u, s.userID("taro@example.jp")).Error)
	assert.False(t, u.Admin)

	w, _ = s.do(http.MethodPut, "/api/me/profile", access, map[string]any{"gender": "robot"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
