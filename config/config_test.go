package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultsWithoutFile(t *testing.T) {
	c, err := Get(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.ApiPort)
	assert.Equal(t, "sqlite3", c.Database)
	assert.Equal(t, 10, c.Rag.Limit)
	assert.Equal(t, 3, c.AI.DailyLimit)
	assert.Equal(t, 30, c.AI.TrialDays)
	assert.Equal(t, "gpt-4o-mini", c.AI.Model)
	assert.True(t, c.IsLocal())
}

func TestGetReadsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"api_port": "9090",
		"database": "memory",
		"env": "production",
		"ai": {"model": "gpt-4.1-mini", "daily_limit": 5},
		"rag": {"limit": 4}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Get(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.ApiPort)
	assert.Equal(t, "memory", c.Database)
	assert.Equal(t, "gpt-4.1-mini", c.AI.Model)
	assert.Equal(t, 5, c.AI.DailyLimit)
	assert.Equal(t, 4, c.Rag.Limit)
	assert.False(t, c.IsLocal())
}

func TestGetEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_port": "9090"}`), 0o600))
	t.Setenv("PORT", "7070")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := Get(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", c.ApiPort)
	assert.True(t, c.AI.Enabled())
}

func TestGetRejectsUnknownDatabase(t *testing.T) {
	t.Setenv("DATABASE", "oracle")
	_, err := Get("")
	assert.Error(t, err)
}
